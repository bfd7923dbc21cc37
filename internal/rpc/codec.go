// Package rpc defines the nutriledger.v1.LedgerService wire contract: the
// request and response messages, a JSON codec for them, the service
// descriptor used by the server and a typed client stub.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName is the gRPC content-subtype the service speaks
// ("application/grpc+json").
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals protobuf well-known types with protojson and every other
// message with encoding/json.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}
