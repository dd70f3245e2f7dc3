package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TheNightmareX/ChaaAt-backend/internal/config"
	"github.com/TheNightmareX/ChaaAt-backend/internal/httpapi"
	"github.com/TheNightmareX/ChaaAt-backend/internal/seed"
	"github.com/TheNightmareX/ChaaAt-backend/internal/store"
	"github.com/TheNightmareX/ChaaAt-backend/internal/updates"
)

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type serveOptions struct {
	addr        string
	configPath  string
	seedFile    string
	pollTimeout int
	cacheLimit  int
	logLevel    string
	corsEnabled bool
	corsOrigins []string
	corsMethods []string
	corsHeaders []string
}

func buildRootCmd() *cobra.Command {
	opts := &serveOptions{}

	root := &cobra.Command{
		Use:           "chaatd",
		Short:         "ChaaAt chat backend with long-poll update notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd.Flags().Changed)
		},
	}

	root.Flags().StringVar(&opts.addr, "addr", envDefault("CHAAT_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	root.Flags().StringVar(&opts.configPath, "config", envDefault("CHAAT_CONFIG", ""), "Optional config file (.yaml/.json/.toml); flags override it")
	root.Flags().StringVar(&opts.seedFile, "seed", envDefault("CHAAT_SEED", ""), "Optional seed document with bootstrap users/chatrooms")
	root.Flags().IntVar(&opts.pollTimeout, "poll-timeout", 30, "Long-poll timeout in seconds")
	root.Flags().IntVar(&opts.cacheLimit, "cache-limit", 0, "Per-user cap on undelivered updates (0=default, negative=unbounded)")
	root.Flags().StringVar(&opts.logLevel, "log-level", envDefault("CHAAT_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	root.Flags().BoolVar(&opts.corsEnabled, "cors-enabled", false, "Enable CORS middleware")
	root.Flags().StringSliceVar(&opts.corsOrigins, "cors-origins", nil, "Allowed CORS origins")

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	root.AddCommand(completionCmd)

	return root
}

func runServe(opts *serveOptions, flagChanged func(string) bool) error {
	// Config file fills in anything the flags left at defaults.
	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		applyConfig(opts, cfg, flagChanged)
		if cfg.MaxBodyBytes > 0 {
			httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
		}
		if cfg.SessionTTLMinutes > 0 {
			httpapi.SetSessionTTL(time.Duration(cfg.SessionTTLMinutes) * time.Minute)
		}
	}
	logger := newLogger(opts.logLevel)

	broker := updates.NewWithConfig(updates.Config{
		PollTimeout: time.Duration(opts.pollTimeout) * time.Second,
		CacheLimit:  opts.cacheLimit,
	})
	st := store.New(broker)

	if opts.seedFile != "" {
		doc, err := seed.Load(opts.seedFile)
		if err != nil {
			return err
		}
		if err := seed.Apply(doc, st); err != nil {
			return err
		}
		logger.Info().Int("users", len(doc.Users)).Int("chatrooms", len(doc.Chatrooms)).Msg("seed applied")
	}

	if len(opts.corsMethods) == 0 {
		opts.corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	}
	if len(opts.corsHeaders) == 0 {
		opts.corsHeaders = []string{"Authorization", "Content-Type"}
	}
	httpapi.SetLogger(logger)
	httpapi.SetCORSOptions(opts.corsEnabled, opts.corsOrigins, opts.corsMethods, opts.corsHeaders)

	// Base context canceled on SIGINT/SIGTERM; held long polls select on it
	// so shutdown does not wait out their timeouts.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	httpapi.SetBaseContext(ctx)

	mux := httpapi.NewMux(st)
	srv := &http.Server{Addr: opts.addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", opts.addr).Msg("chaatd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server error")
		return err
	}
	logger.Info().Msg("shutdown complete")
	return nil
}

// applyConfig overlays file values onto flag defaults. A flag the user set
// explicitly wins over the file; flagChanged reports that per flag name.
func applyConfig(opts *serveOptions, cfg config.Config, flagChanged func(string) bool) {
	if cfg.Addr != "" && !flagChanged("addr") {
		opts.addr = cfg.Addr
	}
	if cfg.PollTimeoutSeconds > 0 && !flagChanged("poll-timeout") {
		opts.pollTimeout = cfg.PollTimeoutSeconds
	}
	if cfg.CacheLimit != 0 && !flagChanged("cache-limit") {
		opts.cacheLimit = cfg.CacheLimit
	}
	if cfg.LogLevel != "" && !flagChanged("log-level") {
		opts.logLevel = cfg.LogLevel
	}
	if cfg.SeedFile != "" && !flagChanged("seed") && opts.seedFile == "" {
		opts.seedFile = cfg.SeedFile
	}
	if cfg.CORSEnabled && !flagChanged("cors-enabled") {
		opts.corsEnabled = true
		opts.corsOrigins = cfg.CORSOrigins
		opts.corsMethods = cfg.CORSMethods
		opts.corsHeaders = cfg.CORSHeaders
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
}

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
