// Package document adapts wire payloads to the external tree contract:
// map[string]interface{} for objects, []interface{} for sequences, scalars
// for leaves. Codecs are boundary conveniences; the resolution core never
// depends on them.
package document

// Codec converts between encoded payloads and external trees.
type Codec interface {
	//Name returns the codec format name
	Name() string
	//Unmarshal decodes payload into an external tree
	Unmarshal(data []byte) (interface{}, error)
	//Marshal encodes an external tree into a payload
	Marshal(tree interface{}) ([]byte, error)
}
