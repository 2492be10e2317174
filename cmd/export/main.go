package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"bookhub/internal/catalog"
	"bookhub/internal/interchange"
	"bookhub/pkg/database"
	"bookhub/pkg/models"
	"bookhub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	sub := os.Args[1]

	fs := flag.NewFlagSet("export "+sub, flag.ExitOnError)
	dataFile := fs.String("data", cfg.Library.DataFile, "backing text file to export")
	out := fs.String("out", "", "output path")
	_ = fs.Parse(os.Args[2:])

	books, err := catalog.NewFileStore(*dataFile).Load()
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	switch sub {
	case "csv":
		path := orDefault(*out, "data/books.csv")
		if err := writeFile(path, books, interchange.WriteCSV); err != nil {
			log.Fatalf("export csv failed: %v", err)
		}
		log.Printf("✅ exported %d books to %s", len(books), path)
	case "json":
		path := orDefault(*out, "data/books.json")
		if err := writeFile(path, books, interchange.WriteJSON); err != nil {
			log.Fatalf("export json failed: %v", err)
		}
		log.Printf("✅ exported %d books to %s", len(books), path)
	case "db":
		path := orDefault(*out, database.DefaultConfig().Path)
		db := database.MustOpen(database.Config{Path: path})
		defer db.Close()
		if err := catalog.NewSQLStore(db).Save(books); err != nil {
			log.Fatalf("export db failed: %v", err)
		}
		log.Printf("✅ mirrored %d books into %s", len(books), path)
	default:
		printUsage()
		os.Exit(1)
	}
}

func writeFile(path string, books []models.Book, write func(io.Writer, []models.Book) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, books); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func printUsage() {
	fmt.Println("export <csv|json|db> [-data library_books.txt] [-out path]")
}
