package assistant

import (
	"strings"

	"github.com/SaiNageswarS/go-collection-boot/ds"
	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/SaiNageswarS/shop-assist/prompts"
	"github.com/SaiNageswarS/shop-assist/session"
)

var gratitudeWords = map[string]bool{
	"thank":       true,
	"thanks":      true,
	"thankyou":    true,
	"thx":         true,
	"appreciate":  true,
	"appreciated": true,
	"helpful":     true,
}

// Queries opening with these phrases start a new request rather than refine
// the previous one.
var newRequestPrefixes = []string{"i need", "suggest", "recommend", "show me", "find me"}

func isGratitude(query string) bool {
	for _, word := range strings.Fields(prompts.Normalize(query)) {
		if gratitudeWords[word] {
			return true
		}
	}
	return false
}

func isNewRequest(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, p := range newRequestPrefixes {
		if strings.HasPrefix(q, p) {
			return true
		}
	}
	return false
}

// searchText returns the text to embed and, for a follow-up, the request it
// refines.
func (a *Assistant) searchText(sess session.Session, query string) (text, original string) {
	if !a.cfg.RefineFollowUps || len(sess.Turns) == 0 || sess.OriginalQuery == "" || isNewRequest(query) {
		return query, ""
	}
	return sess.OriginalQuery + " " + query, sess.OriginalQuery
}

// dedupeProducts drops repeated products, keyed by link or by name when the
// link is empty, and keeps at most max.
func dedupeProducts(products []catalog.Product, max int) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	seen := ds.NewSet[string]()
	for _, p := range products {
		if len(out) >= max {
			break
		}
		key := p.ProductLink
		if key == "" {
			key = "name:" + prompts.Normalize(p.Name)
		}
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		out = append(out, p)
	}
	return out
}
