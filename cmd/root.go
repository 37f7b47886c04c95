package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath     string
	domainOverride string
)

var rootCmd = &cobra.Command{
	Use:   "shop-assist",
	Short: "Conversational shopping assistant for a fashion or gaming catalog",
	Long: `shop-assist answers shopping questions by retrieving catalog entries similar to the
query and letting a language model recommend from them. Conversations are kept per session
so follow-up questions refine earlier requests.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.ini", "path to the ini configuration file")
	rootCmd.PersistentFlags().StringVar(&domainOverride, "domain", "", "catalog domain: fashion or gaming (overrides config)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
