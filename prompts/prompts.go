package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/SaiNageswarS/shop-assist/llm"
	"github.com/SaiNageswarS/shop-assist/session"
	"github.com/SaiNageswarS/shop-assist/vectorindex"
)

//go:embed templates/*
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.md"))

// Marker opens the product list at the end of a generated answer.
const Marker = "PRODUCTS:"

// Prompt is a system instruction plus the conversation sent to the generator.
type Prompt struct {
	System   string
	Messages []llm.Message
}

type ChatInput struct {
	Domain  catalog.Domain
	History []session.Turn
	Hits    []vectorindex.Hit
	// OriginalQuery is the request a follow-up refines. Empty for a first turn.
	OriginalQuery string
	Query         string
}

type templateData struct {
	Domain        catalog.Domain
	Noun          string
	Marker        string
	OriginalQuery string
	Query         string
	Items         string
}

// BuildChatPrompt renders the grounded recommendation prompt. The output
// depends only on its input.
func BuildChatPrompt(in ChatInput) (Prompt, error) {
	data := templateData{
		Domain:        in.Domain,
		Noun:          in.Domain.Noun(),
		Marker:        Marker,
		OriginalQuery: in.OriginalQuery,
		Query:         in.Query,
	}

	system, err := render(string(in.Domain)+"_system.md", data)
	if err != nil {
		return Prompt{}, err
	}

	if len(in.Hits) > 0 {
		items, err := serializeHits(in.Hits)
		if err != nil {
			return Prompt{}, err
		}
		data.Items = items
	}

	user, err := render("context.md", data)
	if err != nil {
		return Prompt{}, err
	}

	return Prompt{
		System:   system,
		Messages: append(historyMessages(in.History), llm.Message{Role: "user", Content: user}),
	}, nil
}

// BuildGratitudePrompt answers thanks without any catalog context.
func BuildGratitudePrompt(domain catalog.Domain, history []session.Turn, query string) (Prompt, error) {
	system, err := render("gratitude_system.md", templateData{Domain: domain, Noun: domain.Noun()})
	if err != nil {
		return Prompt{}, err
	}

	return Prompt{
		System:   system,
		Messages: append(historyMessages(history), llm.Message{Role: "user", Content: query}),
	}, nil
}

func render(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// historyMessages replays turns oldest first.
func historyMessages(turns []session.Turn) []llm.Message {
	msgs := make([]llm.Message, 0, 2*len(turns)+1)
	for _, t := range turns {
		msgs = append(msgs,
			llm.Message{Role: "user", Content: t.Query},
			llm.Message{Role: "assistant", Content: t.Response},
		)
	}
	return msgs
}

// serializeHits renders retrieved items as a JSON list in rank order. Map
// keys are sorted by encoding/json so the text is stable.
func serializeHits(hits []vectorindex.Hit) (string, error) {
	rows := make([]map[string]string, 0, len(hits))
	for _, h := range hits {
		p := h.Item.Product
		row := p.Attributes()
		row["name"] = p.Name
		row["price"] = p.Price
		row["product_link"] = p.ProductLink
		row["details"] = h.Item.Document
		rows = append(rows, row)
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing context: %w", err)
	}
	return string(out), nil
}
