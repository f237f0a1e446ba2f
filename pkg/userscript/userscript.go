// Package userscript provides the read-only catalog of userscripts served by
// the gateway. Providers are swappable so the handler contract does not depend
// on where the scripts come from.
package userscript

import "context"

// Script is a single userscript record.
type Script struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	Code        string `json:"code"`
}

// Provider lists the scripts in a catalog.
// Implementations must not let callers mutate their internal state.
type Provider interface {
	List(ctx context.Context) ([]Script, error)
}
