package cmd

import (
	"fmt"
	"net/http"
	"time"

	"authgate/internal/authflow"
	"authgate/internal/claims"
	"authgate/internal/config"
	"authgate/internal/entitlements"
	"authgate/internal/provider"
	"authgate/internal/session"
	"authgate/internal/store"
	"authgate/internal/token"
)

// app bundles the wired component graph every command operates on. The
// repository instance is the process-wide credential slot; everything else
// reads through it.
type app struct {
	cfg          config.Config
	repo         *session.Repository
	controller   *authflow.Controller
	tokens       *token.Manager
	resolver     *claims.Resolver
	entitlements *entitlements.Client
}

// buildApp loads and validates configuration, then assembles the component
// graph around the single credential repository.
func buildApp() (*app, error) {
	configPath := rootConfigPath
	if configPath == "" {
		var err error
		configPath, err = config.GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	secrets, err := buildSecretStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	repo := session.NewRepository(secrets)
	discoverer := provider.NewOIDCDiscoverer(nil)
	httpClient := &http.Client{Timeout: 30 * time.Second}

	tokens := token.NewManager(cfg, repo, discoverer, httpClient, GetVersion())

	return &app{
		cfg:          cfg,
		repo:         repo,
		controller:   authflow.NewController(cfg, repo, discoverer, nil, httpClient),
		tokens:       tokens,
		resolver:     claims.NewResolver(repo),
		entitlements: entitlements.NewClient(cfg.IssuerURL, tokens, httpClient),
	}, nil
}

func buildSecretStore(cfg config.StorageConfig) (store.SecretStore, error) {
	switch cfg.Backend {
	case config.StorageFile:
		return store.NewFileStore(cfg.FileDir)
	case config.StorageMemory:
		return store.NewMemoryStore(), nil
	default:
		return store.NewKeyringStore(""), nil
	}
}
