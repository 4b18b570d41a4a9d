package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/oklog/ulid/v2"

	"github.com/bookbright/electryohype/internal/auth"
	"github.com/bookbright/electryohype/storage"
	"github.com/bookbright/electryohype/storage/db"
)

// Creates an admin API key for automation. The plaintext key is printed
// once and never stored.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: create-api-key <name>")
		os.Exit(2)
	}
	name := os.Args[1]

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./db/electryohype.db"
	}

	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	plaintext, hash, prefix, err := auth.GenerateAPIKey(name)
	if err != nil {
		log.Fatalf("Failed to generate key: %v", err)
	}

	_, err = store.Queries.CreateAPIKey(context.Background(), db.CreateAPIKeyParams{
		ID:          ulid.Make().String(),
		Name:        name,
		KeyHash:     hash,
		KeyPrefix:   prefix,
		Permissions: sql.NullString{String: auth.PermissionAdmin, Valid: true},
	})
	if err != nil {
		log.Fatalf("Failed to store key: %v", err)
	}

	fmt.Printf("Created API key %q (%s)\n", name, prefix)
	fmt.Println(plaintext)
}
