// Package api defines the request and response messages of the settlewise
// Connect services. Messages are plain structs encoded as JSON; amounts are
// decimal strings such as "12.50".
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONCodec is the Connect codec used by every settlewise service. It is
// registered under the name "json", so requests use Content-Type
// application/json.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. Unknown fields are rejected so that
// misspelled keys surface as invalid arguments instead of being ignored.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("failed to decode %T: %w", msg, err)
	}
	return nil
}
