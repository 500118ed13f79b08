package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ayusman/signmatch/internal/app"
	"github.com/ayusman/signmatch/internal/config"
	"github.com/ayusman/signmatch/internal/ingest"
	"github.com/ayusman/signmatch/internal/server"
	"github.com/ayusman/signmatch/internal/store"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the YAML config file")
	queryPath := flag.String("query", "", "rank the recording in this JSON file and exit")
	topK := flag.Int("top", 0, "number of matches to print with -query (default from config)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the store
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	application, err := app.New(app.FromConfig(cfg, st, logger))
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	if err := application.LoadLibrary(); err != nil {
		log.Fatalf("Failed to load sign library: %v", err)
	}

	converter := ingest.NewConverter(nil)

	if *queryPath != "" {
		k := cfg.Matching.TopK
		if *topK > 0 {
			k = *topK
		}
		if err := runQuery(application, converter, *queryPath, k); err != nil {
			log.Fatalf("Query failed: %v", err)
		}
		return
	}

	fmt.Println("signmatch - sign gesture matching")

	// Find web directory
	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Registry:  application,
		Converter: converter,
		TopK:      cfg.Matching.TopK,
		Logger:    logger,
	})

	fmt.Printf("Starting server on %s with %d signs\n", cfg.Server.Addr, application.Size())
	if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// runQuery ranks one recording file against the library and prints the
// result, best match first.
func runQuery(a *app.App, converter *ingest.Converter, path string, topK int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	req, err := ingest.Decode(f)
	if err != nil {
		return err
	}
	rec, err := converter.Recording("", req)
	if err != nil {
		return err
	}

	matches, err := a.Match(context.Background(), rec, topK)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no comparable signs in the library")
		return nil
	}
	for i, m := range matches {
		fmt.Printf("%2d. %-24s %6.1f%%  distance %.4f\n", i+1, m.Name, m.Similarity, m.Distance)
	}
	return nil
}

// defaultConfigPath returns ~/.signmatch/config.yaml, or an empty path if
// the home directory is unknown.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".signmatch", "config.yaml")
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.signmatch/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".signmatch", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
