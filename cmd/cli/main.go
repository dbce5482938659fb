package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/botgrid/internal/app"
	"github.com/specialistvlad/botgrid/internal/cli"
	"github.com/specialistvlad/botgrid/internal/config"
	"github.com/specialistvlad/botgrid/internal/document"
	"github.com/specialistvlad/botgrid/internal/hcl_adapter"
)

// main is the entrypoint for the botgrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) (err error) {
	appConfig, opts, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Registry wiring panics on programmer errors; report them as a clean
	// startup failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	loader := loaderFor(opts.Format, appConfig.FlowPath)
	if opts.ExportHCL != "" {
		return exportHCL(ctx, loader, appConfig.FlowPath, opts.ExportHCL)
	}

	botgrid, err := app.NewApp(outW, appConfig, loader)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := botgrid.Close(); closeErr != nil {
			slog.Warn("Failed to close app", "error", closeErr)
		}
	}()

	report, err := botgrid.Run(ctx)
	if err != nil {
		return err
	}
	if failed := report.Failed(); len(failed) > 0 {
		return &cli.ExitError{Code: 3, Message: fmt.Sprintf("%d node(s) failed: %s", len(failed), strings.Join(failed, ", "))}
	}
	return nil
}

// loaderFor picks the flow loader. "auto" reads canvas documents by file
// extension and HCL otherwise.
func loaderFor(format, path string) config.Loader {
	switch format {
	case "document":
		return document.NewLoader()
	case "hcl":
		return hcl_adapter.NewLoader()
	}
	if slices.Contains(document.Extensions, strings.ToLower(filepath.Ext(path))) {
		return document.NewLoader()
	}
	return hcl_adapter.NewLoader()
}

// exportHCL converts a flow, typically a canvas document, into an HCL file.
func exportHCL(ctx context.Context, loader config.Loader, from, to string) error {
	flow, err := loader.Load(ctx, from)
	if err != nil {
		return fmt.Errorf("failed to load flow: %w", err)
	}
	if err := flow.Validate(); err != nil {
		return fmt.Errorf("invalid flow: %w", err)
	}
	src, err := hcl_adapter.Encode(flow)
	if err != nil {
		return err
	}
	if err := os.WriteFile(to, src, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", to, err)
	}
	slog.Info("Flow exported.", "path", to, "nodes", len(flow.Nodes), "connectors", len(flow.Connectors))
	return nil
}
