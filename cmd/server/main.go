// Package main - Entry point for the ratecard pricing server
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"ratecard/api"
	"ratecard/internal/config"
	"ratecard/internal/logging"
)

const version = "1.0.0"

func main() {
	cfg := config.Get()

	addr := flag.String("addr", cfg.Server.Addr, "Server address")
	flag.Parse()

	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatal(err)
	}

	// Create API server
	apiServer := api.NewServer(version)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiServer))

	fmt.Printf("ratecard pricing server v%s\n", version)
	fmt.Printf("   API: http://localhost%s/api\n", *addr)

	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal(err)
	}
}
