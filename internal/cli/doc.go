// Package cli wires together the Cobra command tree for the constlist binary.
//
// It defines the root command and all subcommands (get, list, label, exists,
// config, cache, version), binds flags, reads configuration, builds a
// constant list registry over the configured cache backend, and returns
// deterministic exit codes for scripting.
package cli
