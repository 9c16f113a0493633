// Package types defines the Ledger and Store interfaces, entity types,
// and standard error types for the deeds ownership ledger.
package types
