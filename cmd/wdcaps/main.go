// wdcaps - WebDriver capability negotiation tool.
// Reads a New Session request body (JSON) from a file argument or stdin
// and prints the negotiated capability set on stdout. On negotiation
// failure the protocol error object is printed instead and the exit
// code is 1.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"wd-capabilities/internal/capabilities"
	"wd-capabilities/internal/config"
	"wd-capabilities/internal/model"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config (log level, browser features)")
	pretty := flag.Bool("pretty", false, "indent JSON output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := initLogger(cfg.LogLevel)

	body, err := readRequest(flag.Arg(0))
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}

	var parameters any
	if err := json.Unmarshal(body, &parameters); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}

	var match capabilities.Matcher
	if cfg.Features != nil {
		logger.Info("matching against runtime features",
			slog.String("browser_name", cfg.Features.BrowserName),
			slog.String("browser_version", cfg.Features.BrowserVersion),
			slog.String("platform_name", cfg.Features.PlatformName))
		match = cfg.Features.Matcher()
	}

	negotiator := capabilities.NewNegotiator(nil, match, logger)

	result, err := negotiator.Negotiate(parameters)
	if err != nil {
		var protoErr *model.Error
		if errors.As(err, &protoErr) {
			logger.Error("negotiation failed",
				slog.String("code", string(protoErr.Code)),
				slog.String("message", protoErr.Message))
			if encodeErr := writeJSON(os.Stdout, protoErr, *pretty); encodeErr != nil {
				return encodeErr
			}
		}
		return err
	}

	return writeJSON(os.Stdout, result, *pretty)
}

// readRequest reads the request body from the given file, or stdin when
// the path is empty or "-".
func readRequest(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// initLogger creates the structured logger. Logs go to stderr: stdout
// carries the negotiation result.
func initLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
