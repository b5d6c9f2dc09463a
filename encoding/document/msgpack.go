package document

import (
	"github.com/viant/morph/trail"
	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack converts between msgpack payloads and external trees; map keys
// have to be strings.
type Msgpack struct{}

// Name returns the codec format name
func (m Msgpack) Name() string {
	return "msgpack"
}

// Unmarshal decodes msgpack into an external tree
func (m Msgpack) Unmarshal(data []byte) (interface{}, error) {
	var node interface{}
	if err := msgpack.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return normalizeTree(node)
}

// Marshal encodes an external tree as msgpack
func (m Msgpack) Marshal(tree interface{}) ([]byte, error) {
	return msgpack.Marshal(tree)
}

func normalizeTree(node interface{}) (interface{}, error) {
	switch actual := node.(type) {
	case map[string]interface{}:
		for key, value := range actual {
			normalized, err := normalizeTree(value)
			if err != nil {
				return nil, trail.Annotate(err, trail.Key(key))
			}
			actual[key] = normalized
		}
		return actual, nil
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(actual))
		for key, value := range actual {
			text, ok := key.(string)
			if !ok {
				return nil, trail.NewErrorf("expected string map key, had %T", key)
			}
			child, err := normalizeTree(value)
			if err != nil {
				return nil, trail.Annotate(err, trail.Key(text))
			}
			normalized[text] = child
		}
		return normalized, nil
	case []interface{}:
		for i, value := range actual {
			normalized, err := normalizeTree(value)
			if err != nil {
				return nil, trail.Annotate(err, trail.Index(i))
			}
			actual[i] = normalized
		}
		return actual, nil
	}
	return node, nil
}
