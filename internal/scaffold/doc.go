// Package scaffold materializes a manifest layout on disk. It powers the
// "skel build" command: every directory is created with its missing ancestors,
// every file is written with its seeded content, group by group in build order.
package scaffold
