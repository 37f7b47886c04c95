package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/SaiNageswarS/shop-assist/assistant"
	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [query]",
	Short: "Ask the assistant from the terminal",
	Long: `With a query argument, answers it once without keeping a session.
Without arguments, starts an interactive conversation that keeps one session until you type
exit, quit or q.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

type chatter interface {
	HandleQuery(ctx context.Context, query, sessionID string) (*assistant.ChatResult, error)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	asst, err := newAssistant(ctx, cfg, newSessionStore(cfg))
	if err != nil {
		return err
	}

	styles := newStyles()
	if len(args) == 1 {
		res, err := asst.HandleQuery(ctx, args[0], "")
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), styles.renderResult(cfg.CatalogDomain(), res))
		return nil
	}

	return interactive(ctx, asst, cfg.CatalogDomain(), styles, cmd.InOrStdin(), cmd.OutOrStdout())
}

var exitWords = map[string]bool{"exit": true, "quit": true, "q": true}

// interactive runs one conversation until an exit word or end of input.
func interactive(ctx context.Context, asst chatter, domain catalog.Domain, styles *styles, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, styles.Banner.Render(welcomeMessage(domain)))

	sessionID := ""
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, styles.Prompt.Render("You: "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if exitWords[strings.ToLower(query)] {
			fmt.Fprintln(out, styles.Muted.Render("Thanks for chatting. Goodbye!"))
			return nil
		}

		res, err := asst.HandleQuery(ctx, query, sessionID)
		if err != nil {
			fmt.Fprintln(out, styles.Error.Render("Error: "+errorMessage(err)))
			continue
		}
		sessionID = res.SessionID
		fmt.Fprint(out, styles.renderResult(domain, res))
	}
}
