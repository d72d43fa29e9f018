package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cowt/har-viewer/pkg/config"
	"github.com/cowt/har-viewer/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	jsonOutput bool
	configFile string
	logLevel   string
	logFormat  string
	logFile    string

	// cfg and logger are set before any subcommand runs.
	cfg       *config.Config
	logger    = logging.Nop()
	logCloser io.Closer

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "harview",
	Short: "harview filters, slims and inspects HAR captures",
	Long: `harview loads a browser HAR capture, filters it by domain, status, method,
keyword or resource type, strips it down to the headers that matter, and
reports timings, statistics, curl commands and request flowcharts.

Configuration can be provided via flags, environment variables (HARVIEW_*),
a .env file, .harviewrc.yaml in the working directory, or
~/.config/harview/config.yaml.`,
	SilenceUsage:      true,
	SilenceErrors:     true, // We handle errors in Run()
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this rotating file")
}

// setup loads configuration, applies flags over it and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadAll(config.LoadOptions{ConfigFile: configFile})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevel
		loaded.Sources["logLevel"] = config.SourceFlag
	}
	if flags.Changed("log-format") {
		loaded.LogFormat = logFormat
		loaded.Sources["logFormat"] = config.SourceFlag
	}
	if flags.Changed("log-file") {
		loaded.LogFile = logFile
		loaded.Sources["logFile"] = config.SourceFlag
	}
	if flags.Changed("json") {
		loaded.JSON = jsonOutput
		loaded.Sources["json"] = config.SourceFlag
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	jsonOutput = loaded.JSON

	lc := loaded.Logging()
	lc.Output = cmd.ErrOrStderr()
	cfg = loaded
	logger, logCloser = logging.Open(lc)
	slog.SetDefault(logger)

	logger.Debug("configuration loaded", "sources", loaded.Sources)
	return nil
}

// exitError carries a specific exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// Run executes the CLI with os.Args and returns the process exit code.
func Run() int {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	closeLog(stderr)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return 1
	}
	return 0
}

// closeLog flushes and closes the log file opened by setup.
func closeLog(stderr io.Writer) {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintln(stderr, "Warning: failed to close log file:", err)
	}
	logCloser = nil
	logger = logging.Nop()
}

// Execute runs the CLI and exits the process.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(Run())
}
