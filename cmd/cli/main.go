package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"bookhub/internal/catalog"
	"bookhub/internal/menu"
	"bookhub/pkg/database"
	"bookhub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dataFile := flag.String("data", cfg.Library.DataFile, "backing text file")
	backend := flag.String("backend", catalog.BackendFile, "catalog backend: file or sqlite")
	dbPath := flag.String("db", database.DefaultConfig().Path, "sqlite database path (backend=sqlite)")
	loanDays := flag.Int("loan-days", cfg.Library.LoanDays, "loan period in days")
	flag.Parse()
	if *loanDays <= 0 {
		log.Fatalf("-loan-days must be > 0, got %d", *loanDays)
	}

	store, closer, err := catalog.OpenStore(*backend, *dataFile, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	c := catalog.New(store, catalog.WithLoanDays(*loanDays))
	err = menu.New(c, os.Stdin, os.Stdout).Run()
	_ = closer.Close()
	if err != nil {
		if errors.Is(err, menu.ErrInputClosed) {
			fmt.Println()
		}
		log.Fatalf("menu: %v", err)
	}
}
