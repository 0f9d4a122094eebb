// Package remote is the client side of the remote service.
//
// # Overview
//
// The package provides:
//  1. One interface per entity type (ClientsAPI, CentersAPI, OfficesAPI,
//     SurveysAPI) plus Pinger, all implemented by Gateway.
//  2. A Transport abstraction with two implementations: RESTTransport
//     (JSON over HTTP against a Fineract-style API) and GRPCTransport (the
//     same requests tunnelled through one unary gRPC method as structpb
//     envelopes).
//  3. The server half of the gRPC tunnel (GatewayServiceDesc,
//     RegisterGatewayServer) and Proxy, a GatewayServer forwarding every
//     envelope to another Transport.
//
// # Error Handling
//
// Every failure is a *TransportError. Callers match the broad classes with
// errors.Is: ErrTransport (any remote failure), ErrUnavailable (network,
// 502/503/504, gRPC Unavailable) and ErrUnauthorized (401/403,
// gRPC Unauthenticated). A cancelled context is returned as ctx.Err().
//
// Concurrency & Contexts
//
// Gateway and both transports are safe for concurrent use. All operations
// accept context.Context and honor cancellation.
package remote
