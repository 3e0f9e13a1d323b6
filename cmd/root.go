package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/sc2ranks/config"
	"github.com/s0up4200/sc2ranks/lookup"
	"github.com/s0up4200/sc2ranks/sc2ranks"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	client     sc2ranks.API
	operations *lookup.Operations
	formatter  = lookup.NewConsoleFormatter()

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sc2ranks",
	Short: "Query StarCraft II player rankings from sc2ranks.com",
	Long: `sc2ranks is a CLI for the sc2ranks.com API. It can search for players by
name, fetch a character's profile and teams, and report the global bonus pool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records build metadata for the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text or json)")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("invalid output format: %s (must be 'text' or 'json')", outputFormat)
	}

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging, cmd.ErrOrStderr())

	c, err := sc2ranks.NewClient(cfg.API.Key, logger,
		sc2ranks.WithEndpoint(cfg.API.Endpoint),
		sc2ranks.WithTimeout(cfg.API.Timeout),
		sc2ranks.WithUserAgent(cfg.API.UserAgent+"/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create sc2ranks client: %w", err)
	}
	client = c

	operations = lookup.NewOperations(client, logger)
	operations.SetConcurrency(cfg.Lookup.Concurrency)

	logger.Debug().Str("endpoint", c.Endpoint()).Msg("sc2ranks client ready")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// regionFlag returns the --region flag, falling back to lookup.region
func regionFlag(cmd *cobra.Command, flag string) (sc2ranks.Region, error) {
	if !cmd.Flags().Changed("region") {
		flag = cfg.Lookup.Region
	}
	return sc2ranks.ParseRegion(flag)
}

// offsetFlag returns nil unless --offset was given
func offsetFlag(cmd *cobra.Command, offset int) *int {
	if !cmd.Flags().Changed("offset") {
		return nil
	}
	return &offset
}

// printResult writes JSON or the text rendering depending on --output
func printResult(cmd *cobra.Command, value any, text func() string) error {
	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
	_, err := fmt.Fprint(out, text())
	return err
}
