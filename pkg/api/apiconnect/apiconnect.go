// Package apiconnect wires the settlewise services to Connect handlers and
// clients. Every handler and client speaks JSON through api.JSONCodec.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/settlewise/pkg/api"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}
