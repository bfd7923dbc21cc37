// Package client contains the CLI's connection to the ledger server and the
// bootstrap of its local session store.
//
// GRPCClient wraps the typed rpc stub. It attaches the access token as
// outgoing metadata, refreshes it transparently when the server answers
// Unauthenticated "token expired", reports new token pairs to a
// TokenListener, and maps gRPC status codes to sentinel errors
// (ErrUnavailable, ErrUnauthorized and the shared common errors).
//
// InitDatabase and RunMigrations open the SQLite session database and apply
// the embedded goose migrations.
package client
