// Command pdf-proxy serves the PDF proxy as a standalone Cloud Function.
package main

import (
	"log"
	"net/http"
	"os"
	"sync"

	"book-sanctuary/internal/config"
	"book-sanctuary/internal/handler"
	"book-sanctuary/pkg/logger"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/joho/godotenv"
)

var (
	proxy *handler.ProxyHandler
	once  sync.Once
)

func init() {
	// "PDFProxy" is the entry point name configured in GCP.
	functions.HTTP("PDFProxy", handlePDFProxy)
}

func handlePDFProxy(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.NewConfig()
		appLogger := logger.NewLogger(cfg.GetLogLevel(), cfg.Environment)
		client := &http.Client{Timeout: cfg.GetFetchTimeout()}
		proxy = handler.NewProxyHandler(client, cfg.ProxyAllowedHost, appLogger)
	})
	proxy.ServeHTTP(w, r)
}

// main runs the function locally. Deployed functions are started by the
// framework and never reach it.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v", err)
	}
}
