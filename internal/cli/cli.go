package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/specialistvlad/botgrid/internal/app"
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

// Options carries CLI choices that are not part of the app configuration.
type Options struct {
	// Format selects the flow loader: "auto", "hcl" or "document".
	Format string
	// ExportHCL, when set, writes the loaded flow as HCL to this path
	// instead of running it.
	ExportHCL string
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, *Options, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("botgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
botgrid - Runs robot behavior flows drawn on a canvas.

Usage:
  botgrid [options] [FLOW_PATH]

Arguments:
  FLOW_PATH
    Path to an .hcl file, a canvas document (.json, .yaml) or a directory.

Options:
`)
		flagSet.PrintDefaults()
	}

	flowFlag := flagSet.String("flow", "", "Path to the flow file or directory.")
	fFlag := flagSet.String("f", "", "Path to the flow file or directory (shorthand).")
	startFlag := flagSet.String("start", "", "Node to trigger. Defaults to the flow's start node.")
	formatFlag := flagSet.String("format", "auto", "Flow format. Options: 'auto', 'hcl' or 'document'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	dispatchFlag := flagSet.String("dispatch", app.DispatchPrint, "Where node actions go. Options: 'print', 'backend' or 'direct'.")
	storeFlag := flagSet.String("status-store", app.StoreMemory, "Where node status is kept. Options: 'memory' or 'redis'.")
	audioDirFlag := flagSet.String("audio-dir", "", "Directory to write synthesized speech to. Empty discards it.")
	exportFlag := flagSet.String("export-hcl", "", "Write the flow as HCL to this file and exit without running it.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, true, nil
		}
		return nil, nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *flowFlag != "" {
		path = *flowFlag
	} else if *fFlag != "" {
		path = *fFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Flow path determined.", "path", path)

	if path == "" {
		slog.Debug("No flow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, nil, true, nil
	}

	logFormat, err := oneOf("log-format", *logFormatFlag, "text", "json")
	if err != nil {
		return nil, nil, false, err
	}
	logLevel, err := oneOf("log-level", *logLevelFlag, "debug", "info", "warn", "error")
	if err != nil {
		return nil, nil, false, err
	}
	format, err := oneOf("format", *formatFlag, "auto", "hcl", "document")
	if err != nil {
		return nil, nil, false, err
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		FlowPath:        path,
		StartNode:       *startFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		Dispatch:        strings.ToLower(*dispatchFlag),
		StatusStore:     strings.ToLower(*storeFlag),
		AudioDir:        *audioDirFlag,
	})
	if err != nil {
		return nil, nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, &Options{Format: format, ExportHCL: *exportFlag}, false, nil
}

// oneOf lowercases value and checks it against the allowed choices.
func oneOf(name, value string, choices ...string) (string, error) {
	v := strings.ToLower(value)
	if slices.Contains(choices, v) {
		return v, nil
	}
	return "", &ExitError{Code: 2, Message: fmt.Sprintf("invalid %s %q: must be one of %s", name, value, strings.Join(choices, ", "))}
}
