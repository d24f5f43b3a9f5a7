// Package xero executes authenticated requests against the Xero accounting
// API and defines the error taxonomy every command-level failure maps to.
//
// Client.Do is the single request path: it validates the cached access
// token, refreshes it at most once per call, requires a configured tenant,
// attaches the bearer and Xero-tenant-id headers, and classifies non-2xx
// responses through ClassifyResponse. Resource operations (invoices,
// contacts, accounts, payments, bank transactions) are thin wrappers that
// unwrap their envelope key from the raw response.
//
// Nothing in this package retries. Every error is terminal for the current
// command and carries enough context for the boundary to choose an exit
// code and a user-facing message.
package xero
