package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/syssam/lowcode/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Flags override the configuration file. Positional arguments replace the
// models of the file.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("lowcode", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
lowcode - Builds Go packages from low-code object models.

Usage:
  lowcode [options] [MODEL_PATH...]

Arguments:
  MODEL_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the YAML configuration file. Defaults to "+app.DefaultConfigFile+" if present.")
	targetFlag := flagSet.String("target", "", "Directory the generated packages are written to.")
	packageFlag := flagSet.String("package", "", "Import path of the target directory.")
	headerFlag := flagSet.String("header", "", "Header comment of generated files.")
	workersFlag := flagSet.Int("workers", 0, "Number of files generated in parallel. 0 uses one per CPU.")
	featuresFlag := flagSet.String("features", "", "Comma separated list of features, e.g. 'sql/schema,schema/snapshot'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	watchFlag := flagSet.Bool("watch", false, "Rebuild whenever a model file changes.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg, err := configFile(*configFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target":
			cfg.Target = *targetFlag
		case "package":
			cfg.Package = *packageFlag
		case "header":
			cfg.Header = *headerFlag
		case "workers":
			cfg.Workers = *workersFlag
		case "features":
			cfg.Features = splitList(*featuresFlag)
		case "log-format":
			cfg.LogFormat = *logFormatFlag
		case "log-level":
			cfg.LogLevel = *logLevelFlag
		case "watch":
			cfg.Watch = *watchFlag
		}
	})
	if flagSet.NArg() > 0 {
		cfg.Models = flagSet.Args()
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = *logFormatFlag
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = *logLevelFlag
	}

	if len(cfg.Models) == 0 {
		slog.Debug("No model path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(*cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// configFile reads the given configuration file, or the default one if it
// exists.
func configFile(path string) (*app.Config, error) {
	if path == "" {
		if _, err := os.Stat(app.DefaultConfigFile); err != nil {
			return &app.Config{}, nil
		}
		path = app.DefaultConfigFile
	}
	return app.LoadConfigFile(path)
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
