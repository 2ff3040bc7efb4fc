package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"gosheet/adapters/codec"
	"gosheet/adapters/postgres"
	"gosheet/internal/document"
	"gosheet/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [import_dir]")
	}

	databaseURL := os.Args[1]
	ctx := context.Background()

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema at version %s", runner.Version())

	if len(os.Args) < 3 {
		return
	}

	importDir := os.Args[2]
	files, err := findTableFiles(importDir)
	if err != nil {
		log.Fatalf("Failed to find table files: %v", err)
	}
	log.Printf("Found %d table files to import from %s", len(files), importDir)

	docs := document.NewService(postgres.NewDocumentRepository(db), nil)

	imported := 0
	skipped := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("Failed to read %s: %v", file, err)
			skipped++
			continue
		}
		doc, err := docs.Import(ctx, filepath.Base(file), data)
		if err != nil {
			log.Printf("Failed to import %s: %v", file, err)
			skipped++
			continue
		}
		imported++
		log.Printf("Imported %s as document %s", filepath.Base(file), doc.ID)
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

// findTableFiles walks dir for files with a supported table extension
func findTableFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, err := codec.FormatFromFilename(path); err == nil {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}
