package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
	"github.com/tamnguyenvan/timegroup/pkg/services/config"
	"github.com/tamnguyenvan/timegroup/pkg/services/export"
	"github.com/tamnguyenvan/timegroup/pkg/services/timeframe"
	"github.com/tamnguyenvan/timegroup/pkg/sink"
	"github.com/tamnguyenvan/timegroup/pkg/sink/csvfile"
	sheetsink "github.com/tamnguyenvan/timegroup/pkg/sink/sheets"
	"github.com/tamnguyenvan/timegroup/pkg/sink/workbook"
	"github.com/tamnguyenvan/timegroup/pkg/store/pancake"
)

var (
	cfgPath    string
	tokenPath  string
	reportType string
	timeFrame  string
	reports    []string
	outPath    string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "cli",
		Short: "Timegroup report exporter",
	}

	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Fetch Pancake data and publish the selected reports",
		RunE:  runExport,
	}

	exportCmd.Flags().StringVarP(&cfgPath, "config", "c", "config.yaml",
		"Path to the exporter config file")
	exportCmd.Flags().StringVarP(&tokenPath, "token", "t", "token.json",
		"Path to the saved Google OAuth token")
	exportCmd.Flags().StringVarP(&reportType, "report-type", "r", string(domain.ReportTypeOrder),
		"Report type to build (revenue or order)")
	exportCmd.Flags().StringVarP(&timeFrame, "time-frame", "f", "yesterday",
		"Time frame token (today, yesterday, last_month, ... or a day offset)")
	exportCmd.Flags().StringSliceVar(&reports, "reports", nil,
		"Report selections to build (defaults to all for the type)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "",
		"Write locally instead of Google Sheets: a .xlsx file or a directory of CSVs")

	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runExport(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	rt := domain.ReportType(reportType)
	if rt != domain.ReportTypeRevenue && rt != domain.ReportTypeOrder {
		return fmt.Errorf("unknown report type %q", reportType)
	}

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

	publisher, err := newPublisher(cmd, outPath, tokenPath)
	if err != nil {
		return err
	}

	ctrl := export.NewController(
		timeframe.NewResolver(),
		export.NewAggregator(client, cfg.Reports),
		publisher,
		cfg.DomainShops(),
	)

	runID, err := ctrl.ExportReport(ctx, export.Request{
		ReportType: rt,
		TimeFrame:  timeFrame,
		Selected:   reports,
	})
	if err != nil {
		return err
	}

	for ev := range ctrl.Events() {
		if ev.RunID != runID {
			continue
		}
		fmt.Println(ev.Message)
		if ev.State == export.StateDone {
			return nil
		}
		if ev.State == export.StateFailed {
			return fmt.Errorf("export failed: %s", ev.Message)
		}
	}
	return nil
}

// newPublisher picks the sink: Google Sheets by default, or a local
// workbook or CSV directory when --out is set.
func newPublisher(cmd *cobra.Command, out, tokenPath string) (sink.Publisher, error) {
	if out == "" {
		raw, err := os.ReadFile(tokenPath)
		if err != nil {
			return nil, fmt.Errorf("reading token file: %w", err)
		}
		var token oauth2.Token
		if err := json.Unmarshal(raw, &token); err != nil {
			return nil, fmt.Errorf("parsing token file: %w", err)
		}
		httpClient := oauth2.NewClient(cmd.Context(), oauth2.StaticTokenSource(&token))
		return sheetsink.NewPublisher(cmd.Context(), option.WithHTTPClient(httpClient))
	}
	if strings.EqualFold(filepath.Ext(out), ".xlsx") {
		return workbook.NewPublisher(out), nil
	}
	return csvfile.NewPublisher(out), nil
}
