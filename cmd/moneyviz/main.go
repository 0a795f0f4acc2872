// Package main provides the moneyviz command line: the dashboard server and
// one-shot chart exports.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"moneyviz/internal/charts"
	"moneyviz/internal/config"
	"moneyviz/internal/export"
	"moneyviz/internal/logger"
	"moneyviz/internal/server"
	"moneyviz/internal/view"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "moneyviz",
		Short:         "Personal finance dashboard",
		Version:       config.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.AddCommand(newServeCmd(), newExportCmd())
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			srv, err := server.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer srv.Close()
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default: $PORT)")
	return cmd
}

type exportOptions struct {
	chart  string
	format string
	view   string
	output string
	save   bool
}

func newExportCmd() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Load a view and export one of its charts",
		Long: `export loads a view from the configured data source and writes the data
of one chart as csv, json, xlsx or png. --chart takes a chart id or a chart
kind; a kind selects the first chart of that kind in the view.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runExport(cmd, cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.chart, "chart", "", "Chart id or kind (bar, line, pie, radar, gauge, heatmap, sankey)")
	cmd.Flags().StringVar(&opts.format, "format", "csv", "Export format: csv, json, xlsx, png")
	cmd.Flags().StringVar(&opts.view, "view", view.ViewDashboard, "View to load: dashboard, accounts, transactions, analytics")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Store the export in the configured storage")
	cmd.MarkFlagRequired("chart")
	return cmd
}

func runExport(cmd *cobra.Command, cfg *config.Config, opts exportOptions) error {
	f, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	srv, err := server.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	if err := srv.App.Show(cmd.Context(), opts.view); err != nil {
		if errors.Is(err, view.ErrUnknownView) {
			return err
		}
		logger.Warn("view loaded with errors", logger.Fields{"view": opts.view, "error": err.Error()})
	}

	c, err := findChart(srv.App.Context.Factory.Charts(), opts.chart)
	if err != nil {
		return fmt.Errorf("%w in view %s", err, opts.view)
	}
	data, err := export.Export(c, f)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if opts.save {
		p, err := srv.Files.StoreExport(cmd.Context(), c.ID(), f.Ext(), data)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
		return nil
	}
	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Output written to: %s\n", opts.output)
	return nil
}

// findChart matches name against chart ids first, then kinds.
func findChart(list []*charts.Chart, name string) (*charts.Chart, error) {
	for _, c := range list {
		if c.ID() == name {
			return c, nil
		}
	}
	if kind, ok := charts.ParseKind(name); ok {
		for _, c := range list {
			if c.Kind() == kind {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("chart %q not found", name)
}
