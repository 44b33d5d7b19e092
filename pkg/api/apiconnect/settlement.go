package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settlewise/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService.
const SettlementServiceName = "settlewise.v1.SettlementService"

// Procedure paths, one per RPC.
const (
	SettlementServicePlanProcedure = "/" + SettlementServiceName + "/Plan"
)

// SettlementServiceHandler is implemented by the server side of the SettlementService.
type SettlementServiceHandler interface {
	Plan(context.Context, *connect.Request[api.PlanRequest]) (*connect.Response[api.PlanResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(SettlementServicePlanProcedure, connect.NewUnaryHandler(SettlementServicePlanProcedure, svc.Plan, opts...))
	return "/" + SettlementServiceName + "/", mux
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) Plan(context.Context, *connect.Request[api.PlanRequest]) (*connect.Response[api.PlanResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settlewise.v1.SettlementService.Plan is not implemented"))
}

// SettlementServiceClient is a client for the SettlementService.
type SettlementServiceClient interface {
	Plan(context.Context, *connect.Request[api.PlanRequest]) (*connect.Response[api.PlanResponse], error)
}

// NewSettlementServiceClient constructs a client for the SettlementService. baseURL is the
// server's scheme and host, e.g. http://localhost:8080.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settlementClient{
		plan: connect.NewClient[api.PlanRequest, api.PlanResponse](httpClient, baseURL+SettlementServicePlanProcedure, opts...),
	}
}

type settlementClient struct {
	plan *connect.Client[api.PlanRequest, api.PlanResponse]
}

func (c *settlementClient) Plan(ctx context.Context, req *connect.Request[api.PlanRequest]) (*connect.Response[api.PlanResponse], error) {
	return c.plan.CallUnary(ctx, req)
}
