// Package toml loads stock-and-flow models from TOML files. It mirrors the
// HCL format: an array of [[model]] tables, each with [[model.stock]] and
// [[model.flow]] entries. Keys the loader does not know are rejected.
package toml
