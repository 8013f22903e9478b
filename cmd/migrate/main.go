package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tutoreval/adapters/postgres"
	"tutoreval/domain/annotation"
	"tutoreval/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	reset := flag.Bool("reset", false, "Drop all tables before applying the schema")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: migrate [-reset] <database_url> [conversations.json | dir ...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	databaseURL := os.Getenv("DATABASE_URL")
	if len(args) > 0 {
		databaseURL, args = args[0], args[1:]
	}
	if databaseURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if *reset {
		if err := runner.Reset(ctx, db); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
	}
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if len(args) == 0 {
		return
	}

	files, err := findConversationFiles(args)
	if err != nil {
		log.Fatalf("Failed to find conversation files: %v", err)
	}
	log.Printf("Found %d conversation files to import", len(files))

	repo := postgres.NewConversationRepository(db)
	imported, skipped := 0, 0
	for _, file := range files {
		convs, err := loadConversations(file)
		if err != nil {
			log.Printf("Failed to load conversations from %s: %v", file, err)
			skipped++
			continue
		}
		if err := repo.Upsert(ctx, filepath.Base(file), convs); err != nil {
			log.Printf("Failed to import %s: %v", file, err)
			skipped++
			continue
		}
		log.Printf("Imported %d conversations from %s", len(convs), file)
		imported += len(convs)
	}

	log.Printf("Import complete: %d conversations imported, %d files skipped", imported, skipped)
}

// findConversationFiles expands directories to the .json files they hold
func findConversationFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".json") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func loadConversations(path string) ([]annotation.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var convs []annotation.Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}
