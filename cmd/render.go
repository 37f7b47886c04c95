package cmd

import (
	"fmt"
	"strings"

	"github.com/SaiNageswarS/shop-assist/assistant"
	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/charmbracelet/lipgloss"
	"google.golang.org/grpc/status"
)

type styles struct {
	Banner  lipgloss.Style
	Prompt  lipgloss.Style
	Reply   lipgloss.Style
	Title   lipgloss.Style
	Product lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
}

func newStyles() *styles {
	return &styles{
		Banner: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
		Prompt:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		Reply:   lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4")),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Product: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
	}
}

func (s *styles) renderResult(domain catalog.Domain, res *assistant.ChatResult) string {
	var b strings.Builder
	b.WriteString("\n" + s.Title.Render("Assistant:") + "\n")
	b.WriteString(s.Reply.Render(res.Response) + "\n")

	if len(res.Products) > 0 {
		b.WriteString("\n" + s.Title.Render("Recommended "+domain.Noun()+"s:") + "\n")
		for i, p := range res.Products {
			b.WriteString(fmt.Sprintf("%d. %s  %s\n", i+1, s.Product.Render(p.Name), p.Price))
			for _, line := range productDetails(p) {
				b.WriteString("   " + s.Muted.Render(line) + "\n")
			}
		}
	}
	b.WriteString("\n")
	return b.String()
}

func productDetails(p catalog.Product) []string {
	var lines []string
	switch {
	case p.Fashion != nil:
		lines = appendDetail(lines, "Category", p.Fashion.Category)
		lines = appendDetail(lines, "Colors", p.Fashion.Colors)
	case p.Gaming != nil:
		lines = appendDetail(lines, "Genres", p.Gaming.Genres)
		lines = appendDetail(lines, "Developers", p.Gaming.Developers)
		lines = appendDetail(lines, "Released", p.Gaming.ReleaseDate)
		if p.Gaming.MetacriticScore != "" && p.Gaming.MetacriticScore != "0" {
			lines = appendDetail(lines, "Metacritic", p.Gaming.MetacriticScore)
		}
	}
	return appendDetail(lines, "Link", p.ProductLink)
}

func appendDetail(lines []string, label, value string) []string {
	if strings.TrimSpace(value) == "" {
		return lines
	}
	return append(lines, label+": "+value)
}

// errorMessage strips the status prefix so the user sees only the message.
func errorMessage(err error) string {
	if st, ok := status.FromError(err); ok {
		return st.Message()
	}
	return err.Error()
}

func welcomeMessage(domain catalog.Domain) string {
	if domain == catalog.Gaming {
		return `Welcome to the Game Recommendation Assistant!

I can help you find your next favourite game.
Tell me what you like to play and I'll recommend games from the catalog.

Examples of questions you can ask:
- "Recommend a co-op puzzle game"
- "I need a relaxing farming sim"
- "Show me open world RPGs with great stories"

You can also follow up to refine your search, for example:
- "Anything cheaper?"
- "What about multiplayer?"

Type your question below or type 'exit' to quit.`
	}
	return `Welcome to the Fashion Assistant!

I can help you find the perfect outfit or item based on your preferences.
Just tell me what you're looking for, and I'll recommend products that match your needs.

Examples of questions you can ask:
- "I need a casual outfit for summer"
- "What are some formal business attire options?"
- "Show me some comfortable loungewear"
- "I'm looking for accessories to match a black dress"

You can also follow up on previous questions to refine your search.
For example, after asking about summer outfits, you could say:
- "Do you have any in blue?"
- "What about something more formal?"
- "Can you suggest shoes to go with that?"

Type your fashion query below or type 'exit' to quit.`
}
