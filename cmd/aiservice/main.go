package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"askhub/internal/aiservice"
)

func main() {
	addr := envOr("AI_SERVICE_ADDR", "0.0.0.0:8000")
	router := aiservice.NewRouter(envOr("GIN_MODE", "debug"))

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("ai service starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("ai service failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
