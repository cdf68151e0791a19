// Command pitchboard serves and exports the pitch-submission dashboards.
//
//	pitchboard serve  --config dashboard.yaml
//	pitchboard report --config dashboard.yaml
//	pitchboard export --config dashboard.yaml --out filtered.csv --country France
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pitchboard/internal/config"
	"pitchboard/internal/loader"
	pcsv "pitchboard/internal/parser/csv"
	"pitchboard/internal/report"
	"pitchboard/internal/table"
	"pitchboard/internal/transform"
	"pitchboard/internal/webui"
)

var (
	cfgPath  string
	verbose  bool
	validate bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pitchboard",
	Short: "Reporting backend for the COCREATE pitch dashboards",
	Long: `pitchboard loads a pitch-submission survey export, normalizes it, and
derives the aggregates the dashboards render: completion metrics, channel and
country distributions, the key-country summary, and word frequencies for the
free-text answers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "dashboard config YAML path (built-in defaults when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logs")
	rootCmd.PersistentFlags().BoolVar(&validate, "validate", false, "validate the configuration and exit")
	rootCmd.AddCommand(serveCmd, reportCmd, exportCmd)
}

// loadConfig reads the config (or defaults), lints it, and handles the
// --validate mode. An error-severity issue blocks execution.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
	}
	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		return nil, fmt.Errorf("configuration is invalid")
	}
	if validate {
		fmt.Println("configuration is valid")
		os.Exit(0)
	}
	return cfg, nil
}

// buildPipeline assembles the loader and normalization chain from config.
func buildPipeline(cfg *config.Config) (*loader.Loader, transform.Chain, error) {
	var cache *loader.Cache
	if cfg.Cache {
		cache = loader.NewCache()
	}
	l := loader.New(pcsv.Options{
		HasHeader: cfg.Dataset.HasHeader,
		Comma:     cfg.Dataset.DelimiterRune(),
		TrimSpace: cfg.Dataset.TrimSpace,
	}, cache)
	chain, err := transform.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return l, chain, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, chain, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		return webui.NewServer(cfg, l, chain, logger).ListenAndServe()
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run one render pass and print the report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		t, msg, err := renderOnce(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		rep := report.Build(t, cfg)
		rep.Message = msg
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	},
}

var (
	exportOut     string
	exportCountry []string
	exportChannel []string
	exportStatus  []string
	exportFunding []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered row subset as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		t, msg, err := renderOnce(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if msg != "" {
			logger.Warn("load", zap.String("message", msg))
		}
		sub := report.Filters{
			Countries:      exportCountry,
			Channels:       exportChannel,
			ResponseStatus: exportStatus,
			Funding:        exportFunding,
		}.Apply(t, cfg.Columns)

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOut, err)
			}
			defer f.Close()
			out = f
		}
		if err := pcsv.Write(out, sub); err != nil {
			return err
		}
		logger.Info("exported", zap.Int("rows", sub.Len()), zap.String("out", exportOut))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (stdout when empty)")
	exportCmd.Flags().StringArrayVar(&exportCountry, "country", nil, "restrict to these countries (repeatable)")
	exportCmd.Flags().StringArrayVar(&exportChannel, "channel", nil, "restrict to these channels (repeatable)")
	exportCmd.Flags().StringArrayVar(&exportStatus, "status", nil, "restrict to these response statuses (repeatable)")
	exportCmd.Flags().StringArrayVar(&exportFunding, "funding", nil, "restrict to these funding statuses (repeatable)")
}

// renderOnce runs a single load+normalize pass outside the HTTP server.
func renderOnce(ctx context.Context, cfg *config.Config) (*table.Table, string, error) {
	l, chain, err := buildPipeline(cfg)
	if err != nil {
		return nil, "", err
	}
	res, err := l.Load(ctx, cfg.Dataset.Ref())
	if err != nil {
		return nil, "", err
	}
	return chain.Apply(res.Table), res.Message, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
