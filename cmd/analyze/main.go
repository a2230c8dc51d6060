package main

// Run the analysis pipeline against a local file without the HTTP server:
//   go run ./cmd/analyze -app demo-1 -file ./cv.pdf [-force]

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"recruit-backend/internal/bootstrap"
	"recruit-backend/internal/shared/config"
)

func main() {
	appID := flag.String("app", "", "application id")
	file := flag.String("file", "", "path to the CV file")
	force := flag.Bool("force", false, "bypass the cache and recompute")
	flag.Parse()

	if *appID == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read file: %v", err)
	}

	ctx := context.Background()
	app, err := bootstrap.Build(ctx, config.Load())
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	rec, err := app.AnalysisService.Analyze(ctx, *appID, data, filepath.Base(*file), *force)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		log.Fatalf("marshal record: %v", err)
	}
	fmt.Println(string(out))
}
