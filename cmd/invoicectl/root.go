package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/aiclient"
	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/config"
	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/ingest"
	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/session"
	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/store"
)

var (
	flagEmail    string
	flagPassword string
)

var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "Upload, extract, browse and manage invoices from the command line",
	Long: `invoicectl is the command-line client of the AI invoice extractor.

It uploads invoice documents (PDF, images, spreadsheets, Word), has the
extraction service pull structured line-item data out of them, and manages
the resulting records in the hosted store: list, mark paid, delete, export
to XLSX, and ask free-text questions about the collection.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEmail, "email", "", "account email (or INVOICE_EMAIL)")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "account password (or INVOICE_PASSWORD)")
}

// app bundles everything a command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	store    *store.Client
	session  *session.Session
	pipeline *ingest.Pipeline
	ai       *aiclient.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default()
	st := store.New(cfg.StoreURL, cfg.StoreAnonKey, cfg.StoreTimeout, logger)
	ai := aiclient.New(cfg.ExtractFnURL, cfg.ExtractTimeout, logger)
	return &app{
		cfg:      cfg,
		store:    st,
		session:  session.New(st, logger),
		pipeline: ingest.NewPipeline(ai, logger),
		ai:       ai,
	}, nil
}

func credentials() (string, string, error) {
	email := flagEmail
	if email == "" {
		email = os.Getenv("INVOICE_EMAIL")
	}
	password := flagPassword
	if password == "" {
		password = os.Getenv("INVOICE_PASSWORD")
	}
	if email == "" || password == "" {
		return "", "", fmt.Errorf("credentials required: pass --email/--password or set INVOICE_EMAIL/INVOICE_PASSWORD")
	}
	return email, password, nil
}

// loggedIn builds the app and opens a session for the configured account.
func loggedIn(ctx context.Context) (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	email, password, err := credentials()
	if err != nil {
		return nil, err
	}
	if err := a.session.Login(ctx, email, password); err != nil {
		return nil, err
	}
	return a, nil
}
