// Package services holds the client-side session store: the single owner of
// authentication state for the CLI. Every state change goes through one
// reducer, and every backend call goes through client.Client.
package services
