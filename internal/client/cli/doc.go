// Package cli provides the interactive fieldsync command-line client.
//
// It wires configuration, the local cache, the remote gateway, the entity
// services and the sync coordinator behind an interactive REPL that keeps
// working while the remote service is unreachable. Typical flow: open the
// store, restore a pinned connectivity mode if one was saved, start a
// background connectivity watcher, and execute user commands.
//
// Key features:
//   - Browse clients, centers, offices and surveys (served from the cache
//     while offline)
//   - Create clients and centers; offline creations are queued
//   - Inspect, edit and drop queued creations
//   - Pin the connectivity mode or leave it to the watcher
//   - Replay queued creations with "sync"
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
