package document

import (
	"bytes"

	"github.com/francoispqt/gojay"
)

var nullJSON = gojay.EmbeddedJSON("null")

// JSON converts between JSON payloads and external trees; numbers decode
// as float64.
type JSON struct{}

// Name returns the codec format name
func (j JSON) Name() string {
	return "json"
}

// Unmarshal decodes JSON into an external tree
func (j JSON) Unmarshal(data []byte) (interface{}, error) {
	dec := gojay.BorrowDecoder(bytes.NewReader(data))
	defer dec.Release()
	var node interface{}
	if err := dec.DecodeInterface(&node); err != nil {
		return nil, err
	}
	return node, nil
}

// Marshal encodes an external tree as JSON
func (j JSON) Marshal(tree interface{}) ([]byte, error) {
	switch actual := tree.(type) {
	case nil:
		return []byte("null"), nil
	case map[string]interface{}:
		return gojay.MarshalJSONObject(jsonObject(actual))
	case []interface{}:
		return gojay.MarshalJSONArray(jsonArray(actual))
	}
	return gojay.Marshal(tree)
}

type jsonObject map[string]interface{}

// MarshalJSONObject implements gojay.MarshalerJSONObject
func (o jsonObject) MarshalJSONObject(enc *gojay.Encoder) {
	for key, value := range o {
		switch actual := value.(type) {
		case nil:
			enc.AddEmbeddedJSONKey(key, &nullJSON)
		case map[string]interface{}:
			enc.AddObjectKey(key, jsonObject(actual))
		case []interface{}:
			enc.AddArrayKey(key, jsonArray(actual))
		case string:
			enc.AddStringKey(key, actual)
		case bool:
			enc.AddBoolKey(key, actual)
		case int:
			enc.AddIntKey(key, actual)
		case int64:
			enc.AddInt64Key(key, actual)
		case uint:
			enc.AddUint64Key(key, uint64(actual))
		case uint64:
			enc.AddUint64Key(key, actual)
		case float64:
			enc.AddFloatKey(key, actual)
		default:
			enc.AddInterfaceKey(key, value)
		}
	}
}

// IsNil implements gojay.MarshalerJSONObject
func (o jsonObject) IsNil() bool {
	return o == nil
}

type jsonArray []interface{}

// MarshalJSONArray implements gojay.MarshalerJSONArray
func (a jsonArray) MarshalJSONArray(enc *gojay.Encoder) {
	for _, value := range a {
		switch actual := value.(type) {
		case nil:
			enc.AddEmbeddedJSON(&nullJSON)
		case map[string]interface{}:
			enc.AddObject(jsonObject(actual))
		case []interface{}:
			enc.AddArray(jsonArray(actual))
		case string:
			enc.AddString(actual)
		case bool:
			enc.AddBool(actual)
		case int:
			enc.AddInt(actual)
		case int64:
			enc.AddInt64(actual)
		case uint:
			enc.AddUint64(uint64(actual))
		case uint64:
			enc.AddUint64(actual)
		case float64:
			enc.AddFloat(actual)
		default:
			enc.AddInterface(value)
		}
	}
}

// IsNil implements gojay.MarshalerJSONArray
func (a jsonArray) IsNil() bool {
	return a == nil
}
