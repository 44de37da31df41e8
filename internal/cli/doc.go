// Package cli defines the Cobra command tree for the skel CLI. Each file
// in this package registers one top-level command (build, list, manifest, etc.)
// with the root command. Command implementations delegate to internal packages
// for the scaffolding itself and only handle flag parsing and output formatting.
package cli
