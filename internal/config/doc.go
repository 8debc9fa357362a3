// Package config loads and merges constlist configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CONSTLIST_FORMAT, CONSTLIST_DEBUG,
//     CONSTLIST_CACHE_BACKEND, CONSTLIST_CACHE_DIR, CONSTLIST_CACHE_TTL)
//  3. Config file ($XDG_CONFIG_HOME/constlist/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write one, and [SetField]
// to update a single key.
package config
