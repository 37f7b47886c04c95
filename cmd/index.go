package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/shop-assist/appconfig"
	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/SaiNageswarS/shop-assist/llm"
	"github.com/SaiNageswarS/shop-assist/vectorindex"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the catalog and write the vector index",
	Long: `Loads the catalog for the configured domain (CSV for fashion, JSON for gaming), embeds
every entry and writes the configured backend: a JSON index file for the memory backend or
the products collections for the mongo backend.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

var indexCatalogPath string

func init() {
	indexCmd.Flags().StringVar(&indexCatalogPath, "catalog", "", "catalog file (overrides config)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if indexCatalogPath != "" {
		cfg.CatalogPath = indexCatalogPath
	}

	items, err := catalog.Load(cfg.CatalogDomain(), cfg.CatalogPath)
	if err != nil {
		return err
	}
	logger.Info("Loaded catalog", zap.String("path", cfg.CatalogPath), zap.Int("items", len(items)))

	embedder, err := llm.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbeddingModel)
	if err != nil {
		return err
	}

	start := time.Now()
	switch cfg.VectorBackend {
	case appconfig.BackendMongo:
		err = indexMongo(ctx, cfg, embedder, items)
	default:
		err = indexMemory(ctx, cfg, embedder, items)
	}
	if err != nil {
		return err
	}

	cmd.Printf("Indexed %d %ss in %s\n", len(items), cfg.CatalogDomain().Noun(), time.Since(start).Round(time.Millisecond))
	return nil
}

func indexMemory(ctx context.Context, cfg *appconfig.AppConfig, embedder llm.Embedder, items []catalog.Item) error {
	idx := vectorindex.NewMemoryIndex()
	if _, err := vectorindex.NewBuilder(embedder, idx).Build(ctx, items); err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.IndexPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating index directory: %w", err)
		}
	}
	return idx.Save(cfg.IndexPath)
}

func indexMongo(ctx context.Context, cfg *appconfig.AppConfig, embedder llm.Embedder, items []catalog.Item) error {
	mongo := odm.ProvideMongoClient()
	if err := vectorindex.EnsureMongoIndexes(ctx, mongo, cfg.MongoTenant); err != nil {
		return fmt.Errorf("ensuring indexes: %w", err)
	}

	_, err := vectorindex.NewBuilder(embedder, vectorindex.NewMongoIndex(mongo, cfg.MongoTenant)).Build(ctx, items)
	return err
}
