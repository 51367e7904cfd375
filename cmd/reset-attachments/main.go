package main

import (
	"context"
	"flag"
	"log"

	"carmodel-inventory/internal/blobstore"
	"carmodel-inventory/internal/config"
	"carmodel-inventory/internal/repository"
	"carmodel-inventory/pkg/database"

	"github.com/joho/godotenv"
)

// reset-attachments deletes blobs that no attachment row references.
func main() {
	dryRun := flag.Bool("dry-run", false, "list orphaned blobs without deleting them")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg, err := config.LoadStore()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database + Blob Store
	db, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	blobs, err := blobstore.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open blob store: %v", err)
	}

	// 3. Find orphans
	ctx := context.Background()
	keys, err := repository.NewCarModelRepo(db).AttachmentKeys()
	if err != nil {
		log.Fatalf("Failed to list attachment keys: %v", err)
	}
	orphans, err := blobstore.Orphans(ctx, blobs, keys)
	if err != nil {
		log.Fatalf("Failed to list blobs: %v", err)
	}

	// 4. Delete
	for _, key := range orphans {
		if *dryRun {
			log.Printf("orphan: %s", key)
			continue
		}
		if err := blobs.Delete(ctx, key); err != nil {
			log.Printf("Failed to delete %s: %v", key, err)
			continue
		}
		log.Printf("deleted: %s", key)
	}
	log.Printf("Done: %d orphaned blob(s)", len(orphans))
}
