package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/cli"
	"github.com/studiowebux/proyectos/internal/config"
	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/keybinds"
	"github.com/studiowebux/proyectos/internal/logging"
	"github.com/studiowebux/proyectos/internal/mock"
	"github.com/studiowebux/proyectos/internal/tracing"
	"github.com/studiowebux/proyectos/internal/tui"
	"github.com/studiowebux/proyectos/internal/types"
)

var (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "proyectos",
	Short: "Terminal client for the academic projects service",
	Long: `proyectos browses, searches and edits the degree projects register kept by
the projects service, and shows its statistics.

Run without arguments to start the interactive TUI, or use a subcommand for
scripted access.

Examples:
  proyectos                            # Start interactive TUI
  proyectos check                      # Check the service connection
  proyectos search riego -o json       # Search and print JSON
  proyectos list --filter "[?Programa=='Agronomía']"
  proyectos stats -o yaml              # Detailed statistics
  proyectos export pdf --term riego    # Download a PDF report`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		kb, err := loadKeybinds(a.cfg.KeybindsFile, a.logger)
		if err != nil {
			return err
		}

		return tui.Run(cmd.Context(), tui.Options{
			Client:         a.client,
			Keybinds:       kb,
			Logger:         a.logger,
			SearchDebounce: a.cfg.Search.Debounce,
			MinChars:       a.cfg.Search.MinChars,
			MessageTimeout: a.cfg.Messages.Timeout,
			StatsTTL:       a.cfg.Stats.TTL,
			DownloadDir:    a.cfg.DownloadDir,
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the connection to the service",
	Args:  cobra.NoArgs,
	RunE: withRunner(func(ctx context.Context, r *cli.Runner, args []string) error {
		return r.Check(ctx)
	}),
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Query the service health endpoint",
	Args:  cobra.NoArgs,
	RunE: withRunner(func(ctx context.Context, r *cli.Runner, args []string) error {
		return r.Health(ctx)
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every project",
	Args:  cobra.NoArgs,
	RunE: withRunner(func(ctx context.Context, r *cli.Runner, args []string) error {
		return r.List(ctx)
	}),
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search projects by term",
	Long: `Search projects by term. The term is matched by the service against every
field of the register.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withRunner(func(ctx context.Context, r *cli.Runner, args []string) error {
		return r.Search(ctx, strings.Join(args, " "))
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the detailed statistics",
	Args:  cobra.NoArgs,
	RunE: withRunner(func(ctx context.Context, r *cli.Runner, args []string) error {
		return r.Stats(ctx)
	}),
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show connection, summary and charts in one view",
	Args:  cobra.NoArgs,
	RunE: withRunner(func(ctx context.Context, r *cli.Runner, args []string) error {
		return r.Dashboard(ctx)
	}),
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download a report of the projects",
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Download a PDF report of the listed or searched projects",
	Args:  cobra.NoArgs,
	RunE: withRunner(func(ctx context.Context, r *cli.Runner, args []string) error {
		return r.ExportPDF(ctx, flagTerm)
	}),
}

var exportExcelCmd = &cobra.Command{
	Use:   "excel",
	Short: "Download the register as an Excel workbook",
	Args:  cobra.NoArgs,
	RunE: withRunner(func(ctx context.Context, r *cli.Runner, args []string) error {
		return r.ExportExcel(ctx)
	}),
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a local copy of the projects service for trying the client",
	Long: `Serve an in-memory projects register on the service endpoints.

The register starts from --records (a JSON list of rows) or from sample rows,
and keeps created and updated projects until the server stops. A config file
can add a response delay and force failures per route.

Examples:
  proyectos mock                                  # Sample rows on 127.0.0.1:5000
  proyectos mock --port 5050 --records rows.json
  proyectos mock --mock-config mock.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMock(cmd)
	},
}

// Global flags
var (
	flagConfig  string
	flagBaseURL string
	flagDebug   bool
	flagTrace   bool
)

// Output flags for the headless commands
var (
	flagOutput  string
	flagQuery   string
	flagFilter  string
	flagFull    bool
	flagPick    bool
	flagNoColor bool
	flagTerm    string
)

// Flags for mock
var (
	mockConfigFile string
	mockRecords    string
	mockHost       string
	mockPort       int
	mockDelay      int
)

// v holds the configuration; flags bound to it override the config file
var v = viper.New()

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default ~/.config/proyectos/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Service base URL")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log debug messages")
	rootCmd.PersistentFlags().BoolVar(&flagTrace, "trace", false, "Write request traces to the trace file")

	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "Output format (text/json/yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query or $(shell command) applied to JSON output")
	rootCmd.PersistentFlags().StringVarP(&flagFilter, "filter", "f", "", "JMESPath filter applied before --query")
	rootCmd.PersistentFlags().BoolVar(&flagFull, "full", false, "Show every record field and the call duration")
	rootCmd.PersistentFlags().BoolVar(&flagPick, "pick", false, "Choose one result interactively")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	exportPDFCmd.Flags().StringVarP(&flagTerm, "term", "t", "", "Report only the projects matching term")

	mockCmd.Flags().StringVar(&mockConfigFile, "mock-config", "", "Mock config file (yaml/json)")
	mockCmd.Flags().StringVar(&mockRecords, "records", "", "JSON file with the rows to serve")
	mockCmd.Flags().StringVar(&mockHost, "host", "", "Listen host (default 127.0.0.1)")
	mockCmd.Flags().IntVar(&mockPort, "port", 0, "Listen port (default 5000)")
	mockCmd.Flags().IntVar(&mockDelay, "delay", 0, "Response delay in milliseconds")

	_ = v.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = v.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("tracing.enabled", rootCmd.PersistentFlags().Lookup("trace"))
	v.SetEnvPrefix("PROYECTOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	exportCmd.AddCommand(exportPDFCmd)
	exportCmd.AddCommand(exportExcelCmd)

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mockCmd)
}

// app holds what every command needs once the configuration is loaded
type app struct {
	cfg    config.Config
	logger *zap.Logger
	traces *tracing.Provider
	client *executor.Client
}

// setup loads the configuration and builds the logger, tracer and client
func setup() (*app, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	cfg, used, err := config.Load(v, flagConfig)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.File, cfg.Log.Debug)
	if err != nil {
		return nil, err
	}

	traces, err := tracing.NewProvider(tracing.Config{
		Enabled:  cfg.Tracing.Enabled,
		FilePath: cfg.Tracing.FilePath,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	client, err := executor.New(cancel.NewRegistry(), executor.Options{
		BaseURL:         cfg.BaseURL,
		DataTimeout:     cfg.Timeouts.Data,
		DownloadTimeout: cfg.Timeouts.Download,
		TLS:             &cfg.TLS,
		Logger:          logger,
		Tracer:          traces.Tracer(),
	})
	if err != nil {
		_ = traces.Shutdown(context.Background())
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug("configuration loaded", zap.String("file", used), zap.String("base_url", client.BaseURL()))

	return &app{cfg: cfg, logger: logger, traces: traces, client: client}, nil
}

// close flushes the traces and the log
func (a *app) close() {
	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := a.traces.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to flush traces", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// loadKeybinds applies the user's keybinds file. Bindings made unreachable
// fail the load; new warnings are logged.
func loadKeybinds(path string, logger *zap.Logger) (*keybinds.Registry, error) {
	kb, err := keybinds.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds: %w", err)
	}

	validator := keybinds.NewValidator()
	result := validator.ValidateRegistry(kb)
	if result.HasErrors() {
		return nil, fmt.Errorf("invalid keybinds in %s:\n%s", path, result.String())
	}

	// defaults shadow some global keys on purpose
	known := make(map[string]bool)
	for _, w := range validator.ValidateRegistry(keybinds.NewDefaultRegistry()).Warnings {
		known[w.Error()] = true
	}
	for _, w := range result.Warnings {
		if known[w.Error()] {
			continue
		}
		logger.Warn("keybind override",
			zap.String("context", string(w.Context)),
			zap.String("key", w.Key),
			zap.String("problem", w.Message))
	}
	return kb, nil
}

// withRunner adapts a headless command to cobra
func withRunner(run func(ctx context.Context, r *cli.Runner, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		r := cli.NewRunner(a.client, cli.Options{
			OutputFormat: flagOutput,
			Filter:       flagFilter,
			Query:        flagQuery,
			ShowFull:     flagFull,
			Color:        !flagNoColor && isatty.IsTerminal(os.Stdout.Fd()),
			Pick:         flagPick,
			DownloadDir:  a.cfg.DownloadDir,
			StatsTTL:     a.cfg.Stats.TTL,
			Out:          cmd.OutOrStdout(),
			Logger:       a.logger,
		})
		return run(cmd.Context(), r, args)
	}
}

// runMock serves the mock service until interrupted
func runMock(cmd *cobra.Command) error {
	mcfg := &mock.Config{Logging: true}
	if mockConfigFile != "" {
		loaded, err := mock.LoadConfig(mockConfigFile)
		if err != nil {
			return err
		}
		mcfg = loaded
	}
	if cmd.Flags().Changed("host") {
		mcfg.Host = mockHost
	}
	if cmd.Flags().Changed("port") {
		mcfg.Port = mockPort
	}
	if cmd.Flags().Changed("delay") {
		mcfg.Delay = mockDelay
	}
	if mockRecords != "" {
		mcfg.RecordsFile = mockRecords
	}

	var records []types.Record
	if mcfg.RecordsFile != "" {
		loaded, err := mock.LoadRecords(mcfg.RecordsFile)
		if err != nil {
			return err
		}
		records = loaded
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	server := mock.NewServer(mcfg, records, logger)
	if err := server.Start(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Mock service listening on %s (%d records)\n", server.GetAddress(), len(server.Records()))

	<-cmd.Context().Done()

	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	return server.Stop(ctx)
}
