package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anityu45/footprintscan/internal/aggregate"
	"github.com/anityu45/footprintscan/internal/config"
	"github.com/anityu45/footprintscan/internal/log"
	"github.com/anityu45/footprintscan/internal/model"
	"github.com/anityu45/footprintscan/internal/probe"
	"github.com/anityu45/footprintscan/internal/report"
	"github.com/anityu45/footprintscan/internal/scan"
	"github.com/anityu45/footprintscan/internal/store"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a one-shot exposure scan",
		Long: `Scan probes public services for traces of an identity and prints
the aggregated findings with a risk score.

At least one of --email, --username or --domain is required. When only
an email is given, the username is derived from its local part and the
username probes run against it too.

Examples:
  # Scan an email address
  footprintscan scan --email alice@example.com

  # Scan a username and a domain together
  footprintscan scan --username alice --domain example.com

  # Output JSON
  footprintscan scan --email alice@example.com --json

  # Write a Markdown report to a file
  footprintscan scan --email alice@example.com --markdown -o report.md

  # Inspect a local image for identifying metadata
  footprintscan scan --image photo.jpg`,
		RunE: runScanCmd,
	}

	// Scan target flags
	cmd.Flags().StringP("email", "e", "", "Email address to scan")
	cmd.Flags().StringP("username", "u", "", "Username to scan")
	cmd.Flags().StringP("domain", "d", "", "Domain to scan")
	cmd.Flags().StringP("image", "i", "", "Local image file to inspect for metadata")

	// Scan behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultProbeTimeout,
		"Timeout for each probe")
	cmd.Flags().String("sherlock", config.DefaultSherlockBinary,
		"External enumeration binary (empty disables the deep username probe)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .footprintscan in current dir or XDG config dir)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildScanConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	imagePath, _ := cmd.Flags().GetString("image")
	email, _ := cmd.Flags().GetString("email")
	username, _ := cmd.Flags().GetString("username")
	domain, _ := cmd.Flags().GetString("domain")

	req := model.ScanRequest{Email: email, Username: username, Domain: domain}
	if req.IsEmpty() && imagePath == "" {
		return fmt.Errorf("at least one of --email, --username, --domain or --image is required")
	}

	rec, err := runOneShot(ctx, cfg, logger, req, imagePath)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), cfg, rec)
}

// runOneShot executes the scan inline, without the queue, and returns
// the terminal record. Image-only invocations skip the store entirely.
func runOneShot(ctx context.Context, cfg *config.Config, logger *slog.Logger, req model.ScanRequest, imagePath string) (*model.ScanRecord, error) {
	aggregator := aggregate.New(cfg.Policy)

	var imageSignals []model.Signal
	if imagePath != "" {
		signals, err := probe.InspectImageFile(imagePath, cfg.MaxAvatarSize)
		if err != nil {
			return nil, err
		}
		imageSignals = signals
	}

	if req.IsEmpty() {
		rec := model.NewScanRecord(req)
		rec.Findings, rec.RiskScore = aggregator.Aggregate(imageSignals)
		rec.Status = model.StatusCompleted
		return rec, nil
	}

	req.Normalize()

	st, err := store.Open(cfg.DBDir, store.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("open scan store: %w", err)
	}
	defer st.Close()

	rec := model.NewScanRecord(req)
	if err := st.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create scan record: %w", err)
	}

	registry := probe.NewRegistry(cfg, &http.Client{Timeout: cfg.ProbeTimeout})
	coordinator := scan.NewCoordinator(st, registry, aggregator, scan.WithLogger(logger))
	if err := coordinator.Execute(ctx, rec.ID); err != nil {
		return nil, err
	}

	final, err := st.Get(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("load scan result: %w", err)
	}

	// Local image findings ride along with the network scan. The graph
	// payload stays last and unique, so the extra findings slot in
	// before it and their own payload is dropped.
	if len(imageSignals) > 0 {
		extraFindings, extraScore := aggregator.Aggregate(imageSignals)
		final.Findings = mergeFindings(final.Findings, extraFindings)
		final.RiskScore = min(final.RiskScore+extraScore, aggregate.MaxScore)
	}
	return final, nil
}

// mergeFindings inserts the display findings of extra before the graph
// payload of base, discarding extra's own payload.
func mergeFindings(base, extra []model.Finding) []model.Finding {
	merged := make([]model.Finding, 0, len(base)+len(extra))
	var graph *model.Finding
	for _, f := range base {
		if f.IsGraphPayload() {
			graph = &f
			continue
		}
		merged = append(merged, f)
	}
	for _, f := range extra {
		if f.IsGraphPayload() {
			continue
		}
		merged = append(merged, f)
	}
	if graph != nil {
		merged = append(merged, *graph)
	}
	return merged
}

// buildScanConfig creates a Config from the scan command flags and the
// optional configuration file.
func buildScanConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path := config.FindConfigFile(configPath); path != "" {
		if err := config.LoadConfigFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if cmd.Flags().Changed("timeout") {
		cfg.ProbeTimeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("sherlock") {
		cfg.SherlockBinary, _ = cmd.Flags().GetString("sherlock")
	}
	cfg.JSONReport, _ = cmd.Flags().GetBool("json")
	cfg.MarkdownReport, _ = cmd.Flags().GetBool("markdown")
	cfg.ReportFile, _ = cmd.Flags().GetString("output")
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// writeReport renders rec in the configured format, to stdout and
// optionally to a file.
func writeReport(stdout io.Writer, cfg *config.Config, rec *model.ScanRecord) error {
	writers := []report.Writer{newFormatWriter(stdout, cfg)}

	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		writers = append(writers, newFormatWriter(f, cfg))
	}

	if _, err := report.NewMultiWriter(writers...).Write(rec); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func newFormatWriter(w io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	}
}
