package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment  = "prod"
	DevEnvironment   = "dev"
	LocalEnvironment = "local"

	// Ledger backends
	MemoryBackend   = "memory"
	PostgresBackend = "postgres"

	// Service name reported in structured logs
	ServiceName = "custody-vault"
)
