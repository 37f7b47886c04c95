package prompts

import (
	"strings"
	"unicode"

	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/SaiNageswarS/shop-assist/vectorindex"
)

// ParseAnswer splits generator output into the reply shown to the user and
// the product names listed after Marker. ok is false when the output has no
// usable product section; reply is then the whole trimmed text.
func ParseAnswer(text string) (reply string, names []string, ok bool) {
	raw := strings.TrimSpace(text)
	lines := strings.Split(raw, "\n")

	at, rest := -1, ""
	for i := len(lines) - 1; i >= 0; i-- {
		if r, found := cutMarker(lines[i]); found {
			at, rest = i, r
			break
		}
	}
	if at < 0 {
		return raw, nil, false
	}

	reply = strings.TrimSpace(strings.Join(lines[:at], "\n"))
	if reply == "" {
		return raw, nil, false
	}

	candidates := append([]string{rest}, lines[at+1:]...)
	names = []string{}
	for _, c := range candidates {
		name := cleanListItem(c)
		if name == "" || strings.EqualFold(name, "none") {
			continue
		}
		names = append(names, name)
	}
	return reply, names, true
}

// cutMarker matches a line holding the marker, tolerating markdown emphasis
// and case.
func cutMarker(line string) (string, bool) {
	l := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*_#`"))
	if len(l) < len(Marker) || !strings.EqualFold(l[:len(Marker)], Marker) {
		return "", false
	}
	return strings.Trim(l[len(Marker):], "*_` "), true
}

func cleanListItem(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*•")
	s = strings.TrimSpace(s)

	// "1." or "1)"
	if i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }); i > 0 && (s[i] == '.' || s[i] == ')') {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_`\""))
}

// MatchProducts resolves mentioned names to retrieved products in mention
// order. A mention matches the item whose normalized name equals it; failing
// that, the single item whose normalized name contains it, or is contained in
// it, as whole words. Ambiguous and unresolved mentions are dropped.
func MatchProducts(names []string, hits []vectorindex.Hit) []catalog.Product {
	normalized := make([]string, len(hits))
	for i, h := range hits {
		normalized[i] = Normalize(h.Item.Product.Name)
	}

	var out []catalog.Product
	for _, name := range names {
		mention := Normalize(name)
		if mention == "" {
			continue
		}
		if i := resolve(mention, normalized); i >= 0 {
			out = append(out, hits[i].Item.Product)
		}
	}
	return out
}

func resolve(mention string, names []string) int {
	for i, n := range names {
		if n == mention {
			return i
		}
	}

	match := -1
	for i, n := range names {
		if n == "" || !(containsWords(n, mention) || containsWords(mention, n)) {
			continue
		}
		if match >= 0 && names[match] != n {
			return -1
		}
		if match < 0 {
			match = i
		}
	}
	return match
}

// containsWords reports whether the normalized phrase sub appears in s as a
// run of whole words.
func containsWords(s, sub string) bool {
	return strings.Contains(" "+s+" ", " "+sub+" ")
}

// Normalize lowercases s, turns punctuation into spaces and collapses runs of
// whitespace.
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}
