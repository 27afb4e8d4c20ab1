// Package healthbridge receives Apple Health metrics pushed by a companion
// app, keeps them as named entity states, and renders a dashboard that groups
// each user's sensors together.
//
// The moving parts live under components/ (ingest pipeline, dashboard card,
// HTTP surface) and pkg/ (metric catalog, state table, persistence, config).
// cmd/healthbridged runs the service; cmd/healthctl plays the companion app
// for local testing.
package healthbridge
