package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/shop-assist/appconfig"
	"github.com/SaiNageswarS/shop-assist/assistant"
	"github.com/SaiNageswarS/shop-assist/llm"
	"github.com/SaiNageswarS/shop-assist/session"
	"github.com/SaiNageswarS/shop-assist/vectorindex"
	"go.uber.org/zap"
)

func loadConfig() (*appconfig.AppConfig, error) {
	cfg, err := appconfig.Load(configPath)
	if err != nil {
		return nil, err
	}
	if domainOverride != "" {
		cfg.SetDomain(domainOverride)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func openIndex(ctx context.Context, cfg *appconfig.AppConfig) (vectorindex.Index, error) {
	switch cfg.VectorBackend {
	case appconfig.BackendMongo:
		mongo := odm.ProvideMongoClient()
		if err := vectorindex.EnsureMongoIndexes(ctx, mongo, cfg.MongoTenant); err != nil {
			return nil, fmt.Errorf("ensuring indexes: %w", err)
		}
		return vectorindex.NewMongoIndex(mongo, cfg.MongoTenant), nil
	default:
		idx, err := vectorindex.LoadMemoryIndex(cfg.IndexPath)
		if err != nil {
			return nil, fmt.Errorf("%w (run `shop-assist index` first)", err)
		}
		logger.Info("Loaded vector index", zap.String("path", cfg.IndexPath), zap.Int("items", idx.Len()))
		return idx, nil
	}
}

func newSessionStore(cfg *appconfig.AppConfig) *session.MemoryStore {
	return session.NewMemoryStore(
		session.WithMaxTurns(cfg.MaxTurns),
		session.WithMaxSessions(cfg.MaxSessions),
	)
}

func newJanitor(cfg *appconfig.AppConfig, store session.Store) *session.Janitor {
	return session.NewJanitor(store,
		time.Duration(cfg.SessionIdleMinutes)*time.Minute,
		time.Duration(cfg.SweepIntervalSeconds)*time.Second)
}

func newAssistant(ctx context.Context, cfg *appconfig.AppConfig, store session.Store) (*assistant.Assistant, error) {
	embedder, err := llm.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	generator, err := llm.NewClient(cfg.LLMProvider, cfg.LLMModel, cfg.GeneratorURL())
	if err != nil {
		return nil, err
	}

	index, err := openIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return assistant.New(assistant.Config{
		Domain:            cfg.CatalogDomain(),
		TopK:              cfg.TopK,
		MaxProducts:       cfg.MaxProducts,
		MinRelevance:      cfg.MinRelevance,
		Temperature:       cfg.LLMTemperature,
		MaxTokens:         cfg.LLMMaxTokens,
		RefineFollowUps:   !cfg.DisableFollowUpRefinement,
		GratitudeShortcut: !cfg.DisableGratitudeShortcut,
	}, embedder, index, generator, store), nil
}
