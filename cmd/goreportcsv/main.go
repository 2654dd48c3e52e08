package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreportcsv/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Populate the environment from an optional .env before flags read it.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	var (
		addr            string
		maxUploadBytes  int64
		previewRows     int
		shutdownTimeout time.Duration
		verbose         bool
		configPath      string
		showVersion     bool
	)

	flag.StringVar(&addr, "addr", app.DefaultAddr, "HTTP listen address")
	flag.Int64Var(&maxUploadBytes, "upload.maxBytes", app.DefaultMaxUploadBytes, "Maximum accepted upload size in bytes")
	flag.IntVar(&previewRows, "preview.rows", app.DefaultPreviewRows, "Rows shown in grid previews (0 = unlimited)")
	flag.DurationVar(&shutdownTimeout, "shutdown.timeout", app.DefaultShutdownTimeout, "Graceful shutdown timeout")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "Path to YAML or JSON config file")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("goreportcsv %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	cfg := app.Config{
		Addr:            addr,
		MaxUploadBytes:  maxUploadBytes,
		PreviewRows:     previewRows,
		ShutdownTimeout: shutdownTimeout,
		Verbose:         verbose,
	}

	// Precedence: explicit flags beat env, env beats the config file, the
	// file beats built-in defaults.
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("loading config file failed")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = addr
		case "upload.maxBytes":
			cfg.MaxUploadBytes = maxUploadBytes
		case "preview.rows":
			cfg.PreviewRows = previewRows
		case "shutdown.timeout":
			cfg.ShutdownTimeout = shutdownTimeout
		case "v":
			cfg.Verbose = verbose
		}
	})

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().
		Str("version", app.BuildVersion).
		Str("addr", cfg.Addr).
		Int64("max_upload_bytes", cfg.MaxUploadBytes).
		Msg("starting goreportcsv")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}
