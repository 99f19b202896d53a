package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cyphera/custody-vault/internal/constants"
	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/types/business"
)

// SecretResolver looks up a secret by ARN env var with a plain env fallback.
type SecretResolver interface {
	GetSecretString(ctx context.Context, secretArnEnvVar string, fallbackEnvVar string) (string, error)
}

// Config is the process configuration read once at startup.
type Config struct {
	Stage          string
	Port           string
	LedgerBackend  string
	DatabaseURL    string
	EventsQueueURL string
	EventLogSize   int
	RateLimitRPS   int
	RateLimitBurst int
	MaxBodyBytes   int64
	CORS           CORSConfig
	Vault          business.VaultConfig
}

// CORSConfig mirrors the CORS_* environment variables.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
}

// IsDevelopment reports whether non-production conveniences are enabled.
func (c Config) IsDevelopment() bool {
	return c.Stage != constants.ProdEnvironment
}

// LoadConfig reads the environment through getenv. secrets is consulted only
// for the Postgres backend and may be nil otherwise.
func LoadConfig(ctx context.Context, getenv func(string) string, secrets SecretResolver) (Config, error) {
	cfg := Config{
		Stage:          getenv("STAGE"),
		Port:           envOr(getenv, "PORT", "8000"),
		LedgerBackend:  envOr(getenv, "LEDGER_BACKEND", constants.MemoryBackend),
		EventsQueueURL: getenv("VAULT_EVENTS_QUEUE_URL"),
	}

	if !helpers.IsValidStage(cfg.Stage) {
		return cfg, fmt.Errorf("STAGE must be one of %s, %s, %s; got %q",
			helpers.StageLocal, helpers.StageDev, helpers.StageProd, cfg.Stage)
	}

	var err error
	if cfg.EventLogSize, err = intEnv(getenv, "VAULT_EVENT_LOG_SIZE", 1024); err != nil {
		return cfg, err
	}
	if cfg.RateLimitRPS, err = intEnv(getenv, "RATE_LIMIT_RPS", 100); err != nil {
		return cfg, err
	}
	if cfg.RateLimitBurst, err = intEnv(getenv, "RATE_LIMIT_BURST", 200); err != nil {
		return cfg, err
	}
	maxBody, err := intEnv(getenv, "MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return cfg, err
	}
	cfg.MaxBodyBytes = int64(maxBody)

	switch cfg.LedgerBackend {
	case constants.MemoryBackend:
		if cfg.Stage == constants.ProdEnvironment {
			return cfg, fmt.Errorf("the %s ledger backend is not allowed in %s", constants.MemoryBackend, constants.ProdEnvironment)
		}
	case constants.PostgresBackend:
		if secrets == nil {
			return cfg, fmt.Errorf("a secret resolver is required for the %s backend", constants.PostgresBackend)
		}
		if cfg.DatabaseURL, err = secrets.GetSecretString(ctx, "DATABASE_URL_ARN", "DATABASE_URL"); err != nil {
			return cfg, fmt.Errorf("failed to resolve database url: %w", err)
		}
	default:
		return cfg, fmt.Errorf("LEDGER_BACKEND must be %s or %s; got %q", constants.MemoryBackend, constants.PostgresBackend, cfg.LedgerBackend)
	}

	if cfg.Vault, err = loadVaultConfig(getenv); err != nil {
		return cfg, err
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins:   listEnv(getenv, "CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods:   listEnv(getenv, "CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders:   listEnv(getenv, "CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-Vault-Signer", "X-Vault-Signature", "X-Correlation-ID"}),
		ExposedHeaders:   listEnv(getenv, "CORS_EXPOSED_HEADERS", []string{"X-Correlation-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}),
		AllowCredentials: getenv("CORS_ALLOW_CREDENTIALS") == "true",
	}
	return cfg, nil
}

func loadVaultConfig(getenv func(string) string) (business.VaultConfig, error) {
	vault := business.VaultConfig{
		SeedPrefix:    envOr(getenv, "VAULT_SEED_PREFIX", constants.DefaultSeedPrefix),
		AuthoritySeed: envOr(getenv, "VAULT_AUTHORITY_SEED", constants.DefaultAuthoritySeed),
		MaxTransfer:   constants.DefaultMaxTransfer,
	}

	var err error
	if vault.ProgramID, err = helpers.ParsePublicKey("VAULT_PROGRAM_ID", envOr(getenv, "VAULT_PROGRAM_ID", constants.DefaultProgramID)); err != nil {
		return vault, err
	}
	if raw := getenv("VAULT_MAX_TRANSFER"); raw != "" {
		if vault.MaxTransfer, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return vault, fmt.Errorf("invalid VAULT_MAX_TRANSFER: %w", err)
		}
	}
	if raw := getenv("VAULT_ADMIN_PUBKEY"); raw != "" {
		if vault.Admin, err = helpers.ParsePublicKey("VAULT_ADMIN_PUBKEY", raw); err != nil {
			return vault, err
		}
	}

	if err := vault.Validate(); err != nil {
		return vault, fmt.Errorf("invalid vault configuration: %w", err)
	}
	return vault, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(getenv func(string) string, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer; got %q", key, raw)
	}
	return n, nil
}

func listEnv(getenv func(string) string, key string, fallback []string) []string {
	raw := getenv(key)
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
