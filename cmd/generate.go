package main

//go:generate bash -c "export PATH=$$PATH:~/go/bin && sqlc generate -f ../storage/sqlc.yaml"

// Regenerates storage/db from storage/queries. Run `go generate ./...`
// from the project root.
