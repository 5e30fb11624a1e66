package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/0x15BA88FF/brain-surgeon/config"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "bslsp",
	Short: "Language server for brain-surgeon",
	Long: `bslsp runs brain-surgeon on every save of a Brainfuck document and
reports its findings to the editor as diagnostics.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	defer panicHandler()

	rootCmd.Version = version
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/bslsp/config.toml)")
	rootCmd.PersistentFlags().String("executable", "", "brain-surgeon executable")
	rootCmd.PersistentFlags().String("log-file", "", "server log file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("telemetry", "", "where invocation spans and metrics go (log|none)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	optional := path == ""
	if optional {
		if path, err = config.DefaultPath(); err != nil {
			return config.Default(), nil
		}
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return config.Config{}, err
	}

	for name, field := range map[string]*string{
		"executable": &cfg.Executable,
		"log-file":   &cfg.LogFile,
		"log-level":  &cfg.LogLevel,
		"telemetry":  &cfg.Telemetry,
	} {
		if !flags.Changed(name) {
			continue
		}
		if *field, err = flags.GetString(name); err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// logPath returns the configured log file or the default in the user cache
// directory.
func logPath(cfg config.Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bslsp", "bslsp.log"), nil
}

func panicHandler() {
	if panicPayload := recover(); panicPayload != nil {
		stack := string(debug.Stack())
		fmt.Fprintln(os.Stderr, "================================================================================")
		fmt.Fprintln(os.Stderr, "bslsp encountered a fatal error. This is a bug!")
		fmt.Fprintln(os.Stderr, "We would appreciate a report: https://github.com/0x15BA88FF/brain-surgeon/issues/")
		fmt.Fprintln(os.Stderr, "Please provide all of the below text in your report.")
		fmt.Fprintln(os.Stderr, "================================================================================")
		fmt.Fprintf(os.Stderr, "bslsp Version:        %s\n", version)
		fmt.Fprintf(os.Stderr, "Go Version:           %s\n", runtime.Version())
		fmt.Fprintf(os.Stderr, "Go Compiler:          %s\n", runtime.Compiler)
		fmt.Fprintf(os.Stderr, "Architecture:         %s\n", runtime.GOARCH)
		fmt.Fprintf(os.Stderr, "Operating System:     %s\n", runtime.GOOS)
		fmt.Fprintf(os.Stderr, "Panic:                %s\n\n", panicPayload)
		fmt.Fprintln(os.Stderr, stack)
		os.Exit(1)
	}
}

func getLogger(filename string) (*log.Logger, *os.File) {
	err := os.MkdirAll(filepath.Dir(filename), 0o755)
	contract.AssertNoErrorf(err, "failed to create log directory for %s", filename)
	logfile, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o666)
	contract.AssertNoErrorf(err, "failed to open log file: %s", filename)
	return log.New(logfile, "[bslsp] ", log.Ldate|log.Ltime|log.Lshortfile), logfile
}
