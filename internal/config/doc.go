// Package config loads, validates, and normalizes nfscan configuration.
//
// Configuration is TOML with repository defaults applied first, so a missing
// or partial file still yields a runnable setup. Path fields are expanded
// (~ and relative segments) during normalization; Validate rejects values
// the daemon cannot operate with. The embedded sample config documents every
// key and is written out by `nfscan config init`.
package config
