// Package files locates input spreadsheets on disk: directory scans for
// Excel and CSV files, glob-pattern matching, and helpers for picking
// the newest files. Excel lock files ("~$...") are always skipped.
package files
