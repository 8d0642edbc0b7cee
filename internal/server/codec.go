package server

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec lets Connect carry the plain Go message structs of this package.
// It replaces the built-in "json" codec, which only accepts protobuf messages.
type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	return json.Unmarshal(data, message)
}

// WithJSONCodec is the option clients and handlers of TitleService need.
func WithJSONCodec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
