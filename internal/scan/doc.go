// Package scan turns a queued measurement request into motion commands and
// spectrum readings. Params describes one sweep, Grid expands it into the
// coordinates to visit, and Runner executes it against a driver pair while
// persisting points through the store.
package scan
