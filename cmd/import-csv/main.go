package main

import (
	"flag"
	"log"
	"os"

	"bookhub/internal/catalog"
	"bookhub/internal/interchange"
	"bookhub/pkg/database"
	"bookhub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		in       = flag.String("in", "data/books.csv", "input CSV path with a header row")
		dataFile = flag.String("data", cfg.Library.DataFile, "backing text file")
		backend  = flag.String("backend", catalog.BackendFile, "catalog backend: file or sqlite")
		dbPath   = flag.String("db", database.DefaultConfig().Path, "sqlite database path (backend=sqlite)")
	)
	flag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer f.Close()

	books, err := interchange.ReadCSV(f)
	if err != nil {
		log.Fatalf("read %s: %v", *in, err)
	}

	store, closer, err := catalog.OpenStore(*backend, *dataFile, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closer.Close()

	existing, err := store.Load()
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	if err := store.Save(append(existing, books...)); err != nil {
		log.Fatalf("save catalog: %v", err)
	}

	log.Printf("✅ imported %d books from %s (%d total)", len(books), *in, len(existing)+len(books))
}
