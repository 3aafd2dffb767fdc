package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/fn"
)

var (
	handler *fn.Handler
	once    sync.Once
	initErr error
)

func init() {
	functions.HTTP("ExtractInvoice", handleExtractInvoice)
}

func handleExtractInvoice(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		handler, initErr = newHandler(context.Background())
	})
	if initErr != nil {
		log.Printf("CRITICAL: extraction function initialization failed: %v", initErr)
		http.Error(w, `{"error":"extraction service is not configured","details":"missing upstream credentials"}`, http.StatusInternalServerError)
		return
	}
	handler.ServeHTTP(w, r)
}

func newHandler(ctx context.Context) (*fn.Handler, error) {
	projectID := os.Getenv("PROJECT_ID")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	region := os.Getenv("VERTEX_AI_REGION")
	if region == "" {
		region = "us-central1"
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	gen, err := fn.NewVertexGenerator(ctx, projectID, region, model)
	if err != nil {
		return nil, fmt.Errorf("create vertex generator: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return fn.NewHandler(gen, logger), nil
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v", err)
	}
}
