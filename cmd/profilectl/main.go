// profilectl es la herramienta de operador sobre los mismos servicios que la API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profile-hub/internal/app"
	"profile-hub/internal/config"
	"profile-hub/internal/domain"
)

var (
	userID  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "profilectl",
	Short:         "Operator tool for profile-hub",
	Long:          "profilectl inspects and updates member profiles through the same services the HTTP API uses. Profile commands act as the principal given by --user.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "Principal id to act as")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withApp arma los servicios, ejecuta fn como el principal de --user y libera todo al terminar.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, principal domain.Principal) error) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("--user is required")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Build(ctx, cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a, domain.Principal{ID: strings.TrimSpace(userID)})
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
