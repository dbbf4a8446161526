package docstore

import "encoding/json"

// Serializer converts a document to and from the bytes stored in the data
// column. The repository treats the payload as opaque; any pair that
// round-trips may be injected.
type Serializer interface {
	Serialize(v any) ([]byte, error)
	Deserialize(data []byte, v any) error
}

// JSONSerializer is the default serializer. Fields absent from a stored
// payload fall back to their zero value on deserialization, which is how
// document shape changes are absorbed without migrations.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONSerializer) Deserialize(data []byte, v any) error { return json.Unmarshal(data, v) }
