// Package services binds the routing engine to each entity type. Every
// service pairs a remote API with the typed local stores of its entity and
// describes each operation as a routed read, a routed creation, a local-only
// call, or a remote-only call.
package services
