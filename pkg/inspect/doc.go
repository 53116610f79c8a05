// Package inspect serves a live view of a tree over HTTP.
//
// A Hub collects event records and the latest HTML snapshot from the tree's
// goroutine. A Server exposes them:
//
//	GET /          HTML page with the current snapshot
//	GET /snapshot  the snapshot fragment
//	GET /history   recent records as JSON
//	GET /events    WebSocket stream of records (history first)
//	GET /healthz   liveness
//	GET /metrics   Prometheus metrics, when a gatherer is configured
//
// The server never touches the tree; everything it serves was published
// into the Hub.
package inspect
