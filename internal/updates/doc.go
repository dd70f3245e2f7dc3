// Package updates implements the in-memory rendezvous between request
// handlers that mutate chat state and long-poll readers waiting for the next
// update addressed to them. It is structured into small files by concern:
//
//   - broker.go: core Broker type, Commit/Next/PopCached operations.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - signal.go: created-entity broadcast and predicate-gated WaitUntil.
//   - metrics.go: prometheus instrumentation.
//
// One Broker is constructed per process and injected by reference into the
// store and the HTTP layer. All state is process-local; a multi-process
// deployment needs one broker per process.
package updates
