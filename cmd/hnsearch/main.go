// hnsearch searches Hacker News stories from the terminal.
//
// Usage:
//
//	hnsearch [--config path] [--query text] [--once]
//
// Without --once an interactive prompt is started; type 'help' there for
// the available commands. The last submitted query is remembered between
// runs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"hn-search/config"
	"hn-search/hn"
	"hn-search/prefs"
	"hn-search/ranker"
	"hn-search/scraper"
	"hn-search/search"
	"hn-search/stories"
	"hn-search/storage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("hnsearch", flag.ContinueOnError)
	cfgPath := flags.StringP("config", "c", "", "path to YAML config file")
	query := flags.StringP("query", "q", "", "submit this query instead of the remembered one")
	once := flags.Bool("once", false, "print the results and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// Structured JSON logging to stderr; stdout belongs to the results.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	slog.Debug("config loaded", "endpoint", cfg.Endpoint, "prefs_backend", cfg.PrefsBackend)

	backend, prefsDesc, closeBackend := openPrefsBackend(cfg)
	defer closeBackend()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{Timeout: cfg.FetchTimeout()}
	session := search.NewSession(search.Options{
		Fetcher:      search.NewHNFetcher(hn.NewClientWithEndpoint(httpClient, cfg.Endpoint)),
		Preferences:  prefs.New(backend, logger),
		DefaultQuery: cfg.DefaultQuery,
		Initial:      stories.Initial(),
		Observer:     search.LogObserver(logger),
		Logger:       logger,
	})

	if *query != "" {
		session.OnTypedQueryChange(*query)
		session.OnSubmit(ctx)
	} else {
		session.Start(ctx)
	}

	if *once {
		session.Wait()
		render(os.Stdout, session.View(), "", ranker.None)
		if session.View().Results.IsError {
			return 1
		}
		return 0
	}

	repl := &REPL{
		session:     session,
		reader:      scraper.NewReader(cfg.FetchTimeout(), cfg.PreviewChars),
		out:         os.Stdout,
		historyPath: cfg.HistoryPath,
		prefsDesc:   prefsDesc,
	}
	if lister, ok := backend.(settingsLister); ok {
		repl.settings = lister
	}
	if err := repl.Run(ctx); err != nil {
		slog.Error("prompt stopped with error", "error", err)
		return 1
	}
	session.Wait()
	return 0
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// openPrefsBackend opens the configured preference backend and describes it
// for the status command. When the SQLite database cannot be opened the
// session falls back to memory, so the last search is not remembered but
// searching still works.
func openPrefsBackend(cfg config.Config) (prefs.Backend, string, func()) {
	switch cfg.PrefsBackend {
	case config.PrefsFile:
		f := prefs.NewFile(cfg.PrefsPath)
		slog.Debug("using file preferences", "path", f.Path())
		return f, "file " + f.Path(), func() {}
	default:
		store, err := storage.New(cfg.DBPath)
		if err != nil {
			slog.Warn("preferences unavailable, using memory", "db_path", cfg.DBPath, "error", err)
			return prefs.NewMemory(), "memory (sqlite unavailable)", func() {}
		}
		slog.Debug("storage initialized", "db_path", cfg.DBPath)
		return &settingsAdapter{store: store}, "sqlite " + cfg.DBPath, func() {
			if err := store.Close(); err != nil {
				slog.Warn("closing storage", "error", err)
			}
		}
	}
}

// --- Adapters to bridge package types ---

// settingsAdapter bridges storage.Store to prefs.Backend
type settingsAdapter struct {
	store *storage.Store
}

func (a *settingsAdapter) Get(key string) (string, bool, error) {
	return a.store.GetSetting(key)
}

func (a *settingsAdapter) Set(key, value string) error {
	if err := a.store.SetSetting(key, value); err != nil {
		return fmt.Errorf("saving preference: %w", err)
	}
	return nil
}

func (a *settingsAdapter) ListSettings() ([]storage.Setting, error) {
	return a.store.ListSettings()
}
