// Package postgres implements the storage interfaces defined in
// internal/store on top of PostgreSQL. It owns query construction, row
// scanning, and the translation of driver errors into store sentinels.
package postgres
