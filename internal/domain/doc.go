// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/todo). This root package
// holds the sentinel errors and the typed errors that wrap them, so every
// layer can classify a failure with errors.Is without importing an adapter.
package domain
