// Package config centralizes application configuration: environment
// variables (prefix SHEET) merged over an optional config.yaml, struct
// validation, and a Paths type that resolves every data directory the
// toolkit reads or writes.
package config
