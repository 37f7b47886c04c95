package prompts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/SaiNageswarS/shop-assist/session"
	"github.com/SaiNageswarS/shop-assist/vectorindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fashionHit(name, link string) vectorindex.Hit {
	p := catalog.NewFashionProduct(name, "$24.99", "img", link, catalog.FashionAttrs{Category: "Shirts", Colors: "Blue, White"})
	return vectorindex.Hit{
		Item:  catalog.Item{ID: link, Domain: catalog.Fashion, Document: "Product: " + name, Product: p},
		Score: 0.8,
	}
}

func TestBuildChatPrompt(t *testing.T) {
	in := ChatInput{
		Domain: catalog.Fashion,
		History: []session.Turn{
			{Query: "I need a casual outfit for summer", Response: "Try the Linen Shirt."},
			{Query: "Do you have any in blue?", Response: "The Linen Shirt comes in blue."},
		},
		Hits:          []vectorindex.Hit{fashionHit("Linen Shirt", "https://shop/linen"), fashionHit("Denim Shorts", "https://shop/denim")},
		OriginalQuery: "I need a casual outfit for summer",
		Query:         "Something for the beach?",
	}

	prompt, err := BuildChatPrompt(in)
	require.NoError(t, err)

	assert.Contains(t, prompt.System, "fashion assistant")
	assert.Contains(t, prompt.System, Marker)

	require.Len(t, prompt.Messages, 5)
	assert.Equal(t, "user", prompt.Messages[0].Role)
	assert.Equal(t, "I need a casual outfit for summer", prompt.Messages[0].Content)
	assert.Equal(t, "assistant", prompt.Messages[1].Role)
	assert.Equal(t, "Do you have any in blue?", prompt.Messages[2].Content)
	assert.Equal(t, "The Linen Shirt comes in blue.", prompt.Messages[3].Content)

	last := prompt.Messages[4]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, "original request was about: 'I need a casual outfit for summer'")
	assert.Contains(t, last.Content, "User request: Something for the beach?")
	assert.Less(t, strings.Index(last.Content, "Linen Shirt"), strings.Index(last.Content, "Denim Shorts"))

	// the context block is valid JSON carrying the catalog attributes
	start, end := strings.Index(last.Content, "["), strings.LastIndex(last.Content, "]")
	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(last.Content[start:end+1]), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Shirts", rows[0]["category"])
	assert.Equal(t, "https://shop/linen", rows[0]["product_link"])
	assert.Equal(t, "Product: Linen Shirt", rows[0]["details"])
}

func TestBuildChatPromptIsDeterministic(t *testing.T) {
	in := ChatInput{
		Domain: catalog.Gaming,
		Hits: []vectorindex.Hit{{Item: catalog.Item{
			ID: "620", Domain: catalog.Gaming, Document: "Title: Portal 2",
			Product: catalog.NewGamingProduct("Portal 2", "$9.99", "", "https://store.steampowered.com/app/620",
				catalog.GamingAttrs{Genres: "Puzzle", Developers: "Valve"}),
		}}},
		Query: "co-op puzzle games",
	}

	first, err := BuildChatPrompt(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BuildChatPrompt(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Contains(t, first.System, "gaming assistant")
}

func TestBuildChatPromptWithoutHits(t *testing.T) {
	prompt, err := BuildChatPrompt(ChatInput{Domain: catalog.Fashion, Query: "a spacesuit"})
	require.NoError(t, err)

	require.Len(t, prompt.Messages, 1)
	assert.Contains(t, prompt.Messages[0].Content, "No product in the catalog matched")
	assert.Contains(t, prompt.Messages[0].Content, "User request: a spacesuit")
	assert.NotContains(t, prompt.Messages[0].Content, "original request")
}

func TestBuildGratitudePrompt(t *testing.T) {
	history := []session.Turn{{Query: "rpg games?", Response: "Try Baldur's Gate 3."}}

	prompt, err := BuildGratitudePrompt(catalog.Gaming, history, "thanks, that was helpful")
	require.NoError(t, err)

	assert.Contains(t, prompt.System, "gratitude")
	assert.Contains(t, prompt.System, "game")
	require.Len(t, prompt.Messages, 3)
	assert.Equal(t, "thanks, that was helpful", prompt.Messages[2].Content)
}
