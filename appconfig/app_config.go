package appconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/SaiNageswarS/shop-assist/llm"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	Domain        string `env:"SHOP-DOMAIN" ini:"domain"`
	CatalogPath   string `env:"CATALOG-PATH" ini:"catalog_path"`
	IndexPath     string `env:"INDEX-PATH" ini:"index_path"`
	VectorBackend string `env:"VECTOR-BACKEND" ini:"vector_backend"`
	MongoTenant   string `env:"MONGO-TENANT" ini:"mongo_tenant"`

	TopK         int     `ini:"top_k"`
	MaxTurns     int     `ini:"max_turns"`
	MaxProducts  int     `ini:"max_products"`
	MinRelevance float64 `ini:"min_relevance"`

	SessionIdleMinutes   int `ini:"session_idle_minutes"`
	SweepIntervalSeconds int `ini:"sweep_interval_seconds"`
	MaxSessions          int `ini:"max_sessions"`

	LLMProvider    string  `env:"LLM-PROVIDER" ini:"llm_provider"`
	LLMModel       string  `env:"LLM-MODEL" ini:"llm_model"`
	LLMURL         string  `env:"LLM-URL" ini:"llm_url"`
	LLMTemperature float64 `ini:"llm_temperature"`
	LLMMaxTokens   int     `ini:"llm_max_tokens"`

	OllamaURL      string `env:"OLLAMA-URL" ini:"ollama_url"`
	EmbeddingModel string `ini:"embedding_model"`

	HTTPPort string `env:"HTTP-PORT" ini:"http_port"`

	DisableFollowUpRefinement bool `ini:"disable_follow_up_refinement"`
	DisableGratitudeShortcut  bool `ini:"disable_gratitude_shortcut"`
}

// Default is the configuration used for every key the ini file leaves out.
func Default() *AppConfig {
	return &AppConfig{
		Domain:               string(catalog.Fashion),
		VectorBackend:        BackendMemory,
		TopK:                 5,
		MaxTurns:             5,
		MaxProducts:          5,
		SessionIdleMinutes:   30,
		SweepIntervalSeconds: 60,
		MaxSessions:          1000,
		LLMProvider:          llm.ProviderGroq,
		LLMTemperature:       0.7,
		LLMMaxTokens:         1024,
		EmbeddingModel:       llm.DefaultEmbeddingModel,
		HTTPPort:             ":8000",
	}
}

// Load reads path over Default, derives the domain and provider dependent
// values that were left unset and validates the result. Keys present in the
// file win, including explicit zeros such as llm_temperature = 0.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	if err := config.LoadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills blank string settings. Paths, tenant and model are
// derived from the domain and provider.
func (c *AppConfig) ApplyDefaults() {
	def := Default()
	setString(&c.Domain, def.Domain)
	setString(&c.VectorBackend, def.VectorBackend)
	setString(&c.LLMProvider, def.LLMProvider)
	setString(&c.EmbeddingModel, def.EmbeddingModel)
	setString(&c.HTTPPort, def.HTTPPort)
	setString(&c.LLMModel, defaultModel(c.LLMProvider))

	paths := derivedPaths(c.Domain)
	setString(&c.CatalogPath, paths.catalog)
	setString(&c.IndexPath, paths.index)
	setString(&c.MongoTenant, paths.tenant)
}

// SetDomain switches the catalog domain. Paths and tenant that still hold the
// values derived from the previous domain follow the new one; explicitly
// configured ones are kept.
func (c *AppConfig) SetDomain(domain string) {
	old := derivedPaths(c.Domain)
	c.Domain = domain
	if c.CatalogPath == old.catalog {
		c.CatalogPath = ""
	}
	if c.IndexPath == old.index {
		c.IndexPath = ""
	}
	if c.MongoTenant == old.tenant {
		c.MongoTenant = ""
	}
	c.ApplyDefaults()
}

// GeneratorURL is the endpoint handed to the generator client. A local
// ollama generator shares ollama_url with the embedder unless llm_url is set.
func (c *AppConfig) GeneratorURL() string {
	if c.LLMURL == "" && strings.EqualFold(c.LLMProvider, llm.ProviderOllama) {
		return c.OllamaURL
	}
	return c.LLMURL
}

func (c *AppConfig) Validate() error {
	var errs []error

	if _, err := catalog.ParseDomain(c.Domain); err != nil {
		errs = append(errs, err)
	}

	switch c.VectorBackend {
	case BackendMemory, BackendMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown vector_backend %q", c.VectorBackend))
	}

	switch strings.ToLower(c.LLMProvider) {
	case llm.ProviderGroq, llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("unknown llm_provider %q", c.LLMProvider))
	}

	limits := []struct {
		key   string
		value int
	}{
		{"top_k", c.TopK},
		{"max_turns", c.MaxTurns},
		{"max_products", c.MaxProducts},
		{"session_idle_minutes", c.SessionIdleMinutes},
		{"sweep_interval_seconds", c.SweepIntervalSeconds},
		{"max_sessions", c.MaxSessions},
		{"llm_max_tokens", c.LLMMaxTokens},
	}
	for _, l := range limits {
		if l.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", l.key, l.value))
		}
	}

	if c.MinRelevance < 0 || c.MinRelevance > 1 {
		errs = append(errs, fmt.Errorf("min_relevance must be within [0, 1], got %v", c.MinRelevance))
	}

	return errors.Join(errs...)
}

// CatalogDomain is the parsed domain. Only valid after Validate.
func (c *AppConfig) CatalogDomain() catalog.Domain {
	d, _ := catalog.ParseDomain(c.Domain)
	return d
}

func defaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case llm.ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case llm.ProviderOllama:
		return "llama3.2:3b"
	case llm.ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return "llama-3.3-70b-versatile"
	}
}

type domainPaths struct {
	catalog, index, tenant string
}

func derivedPaths(domain string) domainPaths {
	d := strings.ToLower(domain)
	p := domainPaths{
		catalog: "data/hm_products.csv",
		index:   "data/" + d + "_index.json",
		tenant:  "shop_" + d,
	}
	if d == string(catalog.Gaming) {
		p.catalog = "data/games.json"
	}
	return p
}

func setString(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}
