// Package client contains client-side building blocks for the notes backend.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the Client interface): Register/Login/Me,
//     Bootstrap, Categories, note CRUD and the per-category Summary.
//  2. A concrete HTTP implementation (see HTTPClient) on top of the
//     authenticated request pipeline in package api, which attaches the
//     access token and transparently refreshes it once on a 401.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Errors from package api surface unchanged (ErrSessionExpired,
// *RequestError, *TransportError). A 404 is additionally wrapped so that
// errors.Is(err, ErrNotFound) holds. ErrEmptyResponse reports an endpoint
// that returned no body where one is required.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
//
// See Also
//
//   - Interface:  Client
//   - HTTP impl:  HTTPClient
//   - DB helpers: InitDatabase, RunMigrations
//   - Errors:     ErrNotFound, ErrEmptyResponse
package client
