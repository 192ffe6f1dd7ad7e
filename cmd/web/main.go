package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/tamnguyenvan/timegroup/pkg/server"
	"github.com/tamnguyenvan/timegroup/pkg/services/config"
	"github.com/tamnguyenvan/timegroup/pkg/services/export"
	"github.com/tamnguyenvan/timegroup/pkg/services/timeframe"
	sheetsink "github.com/tamnguyenvan/timegroup/pkg/sink/sheets"
	"github.com/tamnguyenvan/timegroup/pkg/store/pancake"
)

var (
	cfgPath   string
	tokenPath string
	addr      string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the Timegroup report exporter",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "config.yaml",
		"Path to the exporter config file")
	rootCmd.Flags().StringVarP(&tokenPath, "token", "t", "token.json",
		"Path to the saved Google OAuth token")
	rootCmd.Flags().StringVarP(&addr, "addr", "a", ":8080",
		"Address to listen on")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if endpoint := os.Getenv("PANCAKE_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = endpoint
	}

	client := pancake.NewClient(pancake.Config{
		Endpoint: cfg.Endpoint,
		Timeout:  30 * time.Second,
		RetryMax: 3,
	})

	publisher, err := newSheetsPublisher(ctx, tokenPath)
	if err != nil {
		return fmt.Errorf("failed to create sheets publisher: %w", err)
	}

	ctrl := export.NewController(
		timeframe.NewResolver(),
		export.NewAggregator(client, cfg.Reports),
		publisher,
		cfg.DomainShops(),
	)

	// The progress stream has no consumer in server mode; the status
	// endpoint serves snapshots instead. Drain it so emits never drop.
	go func() {
		for range ctrl.Events() {
		}
	}()

	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: 10 * time.Second,
		Controller:      ctrl,
	})
	return api.Start()
}

// newSheetsPublisher builds the Sheets sink from a previously saved
// OAuth token. Acquiring the token (the consent flow) happens outside
// this binary.
func newSheetsPublisher(ctx context.Context, path string) (*sheetsink.Publisher, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&token))
	return sheetsink.NewPublisher(ctx, option.WithHTTPClient(httpClient))
}
