package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// SettlementServiceName is the fully-qualified name of the service.
	SettlementServiceName = "settle.v1.SettlementService"

	// SettlementServiceComputeSettlementsProcedure is the route of the ComputeSettlements RPC.
	SettlementServiceComputeSettlementsProcedure = "/settle.v1.SettlementService/ComputeSettlements"
)

// Codec is a connect codec that encodes messages with encoding/json.
// It registers under the "json" name, so clients use Content-Type application/json.
type Codec struct{}

var _ connect.Codec = Codec{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

// Unmarshal implements connect.Codec.
func (Codec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }

// SettlementServiceHandler is implemented by the server.
type SettlementServiceHandler interface {
	ComputeSettlements(context.Context, *connect.Request[ComputeSettlementsRequest]) (*connect.Response[ComputeSettlementsResponse], error)
}

// SettlementServiceClient is the client side of the service.
type SettlementServiceClient interface {
	ComputeSettlements(context.Context, *connect.Request[ComputeSettlementsRequest]) (*connect.Response[ComputeSettlementsResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler for the service and returns the
// path prefix to mount it on.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	computeSettlements := connect.NewUnaryHandler(
		SettlementServiceComputeSettlementsProcedure,
		svc.ComputeSettlements,
		opts...,
	)

	prefix := "/" + SettlementServiceName + "/"
	return prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceComputeSettlementsProcedure:
			computeSettlements.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type settlementServiceClient struct {
	computeSettlements *connect.Client[ComputeSettlementsRequest, ComputeSettlementsResponse]
}

// NewSettlementServiceClient creates a client for the service at baseURL
// (for example http://localhost:8080).
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &settlementServiceClient{
		computeSettlements: connect.NewClient[ComputeSettlementsRequest, ComputeSettlementsResponse](
			httpClient,
			baseURL+SettlementServiceComputeSettlementsProcedure,
			opts...,
		),
	}
}

// ComputeSettlements calls settle.v1.SettlementService.ComputeSettlements.
func (c *settlementServiceClient) ComputeSettlements(ctx context.Context, req *connect.Request[ComputeSettlementsRequest]) (*connect.Response[ComputeSettlementsResponse], error) {
	return c.computeSettlements.CallUnary(ctx, req)
}
