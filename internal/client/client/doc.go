// Package client contains the client-side transport and local cache
// bootstrap for clipshare.
//
// # Overview
//
//  1. Client, the relay API as used by the CLI: Ping, JoinSession, item and
//     device calls. Every payload is already encrypted by the caller.
//  2. GRPCClient, the gRPC implementation. It keeps the session token from
//     the last JoinSession, injects it via an interceptor and rejoins the
//     session once when the relay reports the token expired.
//  3. InitDatabase and RunMigrations, which open the SQLite cache and apply
//     the embedded goose migrations.
//
// # Error Handling
//
// Status codes are mapped back to sentinels: ErrUnavailable, ErrUnauthorized,
// ErrNoSession, common.ErrorNotFound, common.ErrorForbidden and
// common.ErrorAlreadyExists.
package client
