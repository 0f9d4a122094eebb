// Package syncer drains the pending write queues against the remote service.
//
// A Coordinator knows one replay binding per entity type. Sync replays the
// queue of one type oldest first: each record is created remotely with its
// idempotency key, then deleted locally, then reconciled into the cache. The
// first failure stops the batch and leaves the failed and later records
// queued. Replays of the same type never overlap; different types replay
// independently.
package syncer
