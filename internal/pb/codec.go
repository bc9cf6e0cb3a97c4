package pb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec carries the hand-maintained message types in this package
// over gRPC using JSON instead of the protobuf wire format, since no
// protoc/buf toolchain is available here to compile destination.proto
// into real generated bindings. The server is started with
// grpc.ForceServerCodec(Codec) (see cmd/destination) so every RPC
// on this service uses it regardless of what content-subtype a caller
// negotiates.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return CodecName }

// CodecName is the name under which Codec is registered with
// google.golang.org/grpc/encoding.
const CodecName = "destination-json"

// Codec is the shared grpc/encoding.Codec instance for this service.
var Codec encoding.Codec = jsonCodec{}

func init() {
	encoding.RegisterCodec(Codec)
}
