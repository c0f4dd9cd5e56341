// Package client contains the transport and local-persistence building blocks
// of the Spillway client.
//
// # Overview
//
// The package provides:
//  1. Client, the typed contract of the Spillway REST API (auth, videos,
//     search, playlists, sharing).
//  2. HTTPClient, its net/http implementation. It owns a default header set
//     and an ordered chain of request interceptors, tags each request with an
//     X-Request-ID, optionally throttles with a token bucket, and maps every
//     failure onto *APIError.
//  3. InitDatabase and RunMigrations, which open the local SQLite file and
//     apply the embedded goose migrations.
//
// # Error Handling
//
// Failed calls return *APIError whose Kind is one of KindUnauthorized
// (401/403), KindServer (5xx), KindNetwork (no response) or KindValidation
// (any other 4xx, with the server's message). Match with errors.Is against
// ErrUnauthorized, ErrServer, ErrNetwork and ErrValidation. Nothing is retried.
//
// # Concurrency
//
// HTTPClient is safe for concurrent use. Header and interceptor changes
// apply to requests started after the change.
package client
