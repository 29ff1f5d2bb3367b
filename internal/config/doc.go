// Package config loads, merges and validates configuration for the device
// sync agent and the reference sync server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. Config file, JSON or TOML by extension
//
// Any variable may also be given with a RESTO_ prefix, which wins over the
// plain name.
//
// [GetClientConfig] returns the device agent view with engine defaults
// (batch size 50, three retries, 1s base delay) filled in.
// [GetServerConfig] returns the sync server view.
package config
