// Package components holds the built-in analysis components dispatched by
// the router. Each component is a pure function over a query and its
// search results that emits a single finding. Components never mutate
// shared state; the only side channel permitted is read-only access to
// the indexed roots.
package components
