// Package api exposes the auction market over HTTP.
//
// The JSON endpoints mirror the actions of the marketplace client: listing
// with search and tab filters, creating and closing auctions, and revealing a
// placeholder-encrypted bid after a wallet signature. Transaction status
// changes are pushed to browsers over a WebSocket at /api/status/stream.
//
// Every server also answers /livez, /readyz and /metrics.
package api
