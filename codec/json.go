package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec. It is the portable choice for
// snapshots consumed outside Go.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns "json".
func (JSON) Name() string { return "json" }

// Default is the codec used for newly written snapshots.
var Default Codec = GoJSON{}
