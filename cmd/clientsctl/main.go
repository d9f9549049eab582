// clientsctl: offline checks and direct exports for the BNG client registry
//
// Usage:
//
//	clientsctl validate <file>                    Validate an upload without storing it
//	clientsctl export --client edge --index all   Export live clients from Redis
//	clientsctl sweep                              Prune expired index entries once
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/mohit83k/bngclients/internal/config"
	"github.com/mohit83k/bngclients/internal/redisclient"
)

var jsonOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "clientsctl",
	Short:             "Validate uploads and export clients from the BNG client registry",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `clientsctl works on the same tab-delimited format and Redis store as the
bngclients service. Redis settings come from REDIS_ADDR, REDIS_PASSWORD and
REDIS_DB (or a .env file).`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON output")

	rootCmd.AddCommand(
		newValidateCmd(),
		newExportCmd(),
		newSweepCmd(),
	)
}

func openStore() *redisclient.RedisStore {
	cfg := config.Load()
	return redisclient.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
}
