// Package routing is the connectivity-aware engine behind every entity
// service. For each call it reads the current connectivity mode once and
// sends the call to the remote gateway (online), the local cache or pending
// queue (offline), or answers with an empty result (unknown).
//
// Entity behaviour is configuration: a service describes an operation with
// ReadOp or CreateOp and hands it to Read, ReadPage or Create. Calls that
// exist only on the remote side go through Remote.
//
// Every call blocks until it has a result. If ctx is done by then, ctx.Err()
// is returned instead of the result.
package routing
