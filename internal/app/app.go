package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
	"github.com/hemant-crossml/LMS-assignment/internal/config"
	"github.com/hemant-crossml/LMS-assignment/internal/creds"
	"github.com/hemant-crossml/LMS-assignment/internal/session"
	"github.com/hemant-crossml/LMS-assignment/internal/ui"
)

// Options configure the application.
type Options struct {
	ConfigPath string
	Debug      bool // write a debug log next to the working directory
}

// Run boots the TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	closeLog, err := setupLogging(opts.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, client, sess, err := wire(opts.ConfigPath)
	if err != nil {
		return err
	}

	log.Printf("starting ui against %s", cfg.ServerURL)
	return ui.Run(ui.Options{
		Context: ctx,
		Client:  client,
		Session: sess,
		Config:  cfg,
	})
}

// wire builds the shared object graph: config, credential store, API client,
// and session store.
func wire(configPath string) (config.Config, *api.Client, *session.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("load config: %w", err)
	}

	tokens, err := creds.Open(cfg.CredentialsPath)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("open credential store: %w", err)
	}

	client, err := api.NewClient(cfg.ServerURL, tokens, cfg.RequestTimeout)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("init api client: %w", err)
	}

	return cfg, client, session.New(client, tokens), nil
}

// setupLogging routes the standard logger. The TUI owns the terminal, so
// log output goes to a file in debug mode and nowhere otherwise.
func setupLogging(debug bool) (func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile("lms-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return func() { _ = f.Close() }, nil
}
