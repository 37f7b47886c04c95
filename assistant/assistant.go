package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/SaiNageswarS/shop-assist/llm"
	"github.com/SaiNageswarS/shop-assist/prompts"
	"github.com/SaiNageswarS/shop-assist/session"
	"github.com/SaiNageswarS/shop-assist/vectorindex"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Config struct {
	Domain      catalog.Domain
	TopK        int
	MaxProducts int
	// MinRelevance drops hits scoring below it. Zero keeps every hit.
	MinRelevance float64
	Temperature  float64
	MaxTokens    int

	// RefineFollowUps searches follow-ups together with the request they refine.
	RefineFollowUps bool
	// GratitudeShortcut answers thanks without retrieval.
	GratitudeShortcut bool
}

func DefaultConfig(domain catalog.Domain) Config {
	return Config{
		Domain:            domain,
		TopK:              5,
		MaxProducts:       5,
		Temperature:       0.7,
		MaxTokens:         1024,
		RefineFollowUps:   true,
		GratitudeShortcut: true,
	}
}

type ChatResult struct {
	Response  string            `json:"response"`
	Products  []catalog.Product `json:"products"`
	SessionID string            `json:"session_id"`
}

type Stats struct {
	ActiveSessions int            `json:"active_sessions"`
	Domain         catalog.Domain `json:"domain"`
}

// Assistant runs the embed, retrieve, generate pipeline for one query at a
// time. It holds no per-request state and is safe for concurrent use.
type Assistant struct {
	cfg       Config
	embedder  llm.Embedder
	index     vectorindex.Index
	generator llm.LLMClient
	sessions  session.Store
}

func New(cfg Config, embedder llm.Embedder, index vectorindex.Index, generator llm.LLMClient, sessions session.Store) *Assistant {
	return &Assistant{
		cfg:       cfg,
		embedder:  embedder,
		index:     index,
		generator: generator,
		sessions:  sessions,
	}
}

// HandleQuery answers query within the session named by sessionID, creating a
// session when the id is empty or unknown. Errors carry a gRPC status:
// InvalidArgument for bad input, Unavailable for failed upstream calls.
func (a *Assistant) HandleQuery(ctx context.Context, query, sessionID string) (*ChatResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, status.Error(codes.InvalidArgument, "query is required")
	}

	sess, created := a.sessions.Resolve(sessionID)
	if created && sessionID != "" {
		logger.Info("Unknown session, starting a new one",
			zap.String("requested", sessionID),
			zap.String("sessionId", sess.ID))
	}

	start := time.Now()
	gratitude := a.cfg.GratitudeShortcut && isGratitude(query)

	var (
		prompt prompts.Prompt
		hits   []vectorindex.Hit
		err    error
	)
	if gratitude {
		prompt, err = prompts.BuildGratitudePrompt(a.cfg.Domain, sess.Turns, query)
	} else {
		searchText, original := a.searchText(sess, query)
		hits, err = a.retrieve(ctx, searchText)
		if err != nil {
			return nil, err
		}
		prompt, err = prompts.BuildChatPrompt(prompts.ChatInput{
			Domain:        a.cfg.Domain,
			History:       sess.Turns,
			Hits:          hits,
			OriginalQuery: original,
			Query:         query,
		})
	}
	if err != nil {
		logger.Error("Failed to build prompt", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to build prompt")
	}

	text, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	reply, names, ok := prompts.ParseAnswer(text)
	if !ok && !gratitude {
		logger.Info("Generator output has no product section, returning raw text",
			zap.String("sessionId", sess.ID))
	}
	products := dedupeProducts(prompts.MatchProducts(names, hits), a.cfg.MaxProducts)

	if !a.sessions.Append(sess.ID, query, reply) {
		logger.Info("Session expired before the turn was recorded", zap.String("sessionId", sess.ID))
	}

	logger.Info("Handled query",
		zap.String("sessionId", sess.ID),
		zap.Int("turns", len(sess.Turns)),
		zap.Int("hits", len(hits)),
		zap.Int("products", len(products)),
		zap.Bool("gratitude", gratitude),
		zap.Duration("took", time.Since(start)))

	return &ChatResult{Response: reply, Products: products, SessionID: sess.ID}, nil
}

func (a *Assistant) ResetSession(sessionID string) bool {
	if strings.TrimSpace(sessionID) == "" {
		return false
	}
	return a.sessions.Reset(sessionID)
}

func (a *Assistant) Stats() Stats {
	return Stats{ActiveSessions: a.sessions.Len(), Domain: a.cfg.Domain}
}

func (a *Assistant) retrieve(ctx context.Context, text string) ([]vectorindex.Hit, error) {
	vec, err := a.embedder.Embed(ctx, text)
	if err != nil {
		logger.Error("Embedding failed", zap.Error(err))
		return nil, status.Error(codes.Unavailable, "embedding service unavailable")
	}

	hits, err := a.index.Search(ctx, vec, a.cfg.TopK)
	if err != nil {
		logger.Error("Vector search failed", zap.Error(err))
		return nil, status.Error(codes.Unavailable, "product search unavailable")
	}

	if a.cfg.MinRelevance <= 0 {
		return hits, nil
	}
	kept := make([]vectorindex.Hit, 0, len(hits))
	for _, h := range hits {
		if h.Score >= a.cfg.MinRelevance {
			kept = append(kept, h)
		}
	}
	return kept, nil
}

func (a *Assistant) generate(ctx context.Context, prompt prompts.Prompt) (string, error) {
	var sb strings.Builder
	err := a.generator.GenerateInference(ctx, prompt.Messages, func(chunk string) error {
		sb.WriteString(chunk)
		return nil
	},
		llm.WithSystemPrompt(prompt.System),
		llm.WithTemperature(a.cfg.Temperature),
		llm.WithMaxTokens(a.cfg.MaxTokens),
	)
	if err != nil {
		logger.Error("Generation failed", zap.String("model", a.generator.GetModel()), zap.Error(err))
		return "", status.Error(codes.Unavailable, "language model unavailable")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		logger.Error("Generator returned an empty answer", zap.String("model", a.generator.GetModel()))
		return "", status.Error(codes.Unavailable, "language model returned no answer")
	}
	return text, nil
}
