package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bookhub/internal/browse"
	"bookhub/internal/catalog"
	synchub "bookhub/internal/sync"
	"bookhub/pkg/database"
	"bookhub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	backend := flag.String("backend", catalog.BackendFile, "catalog backend: file or sqlite")
	dbPath := flag.String("db", database.DefaultConfig().Path, "sqlite database path (backend=sqlite)")
	flag.Parse()

	store, closer, err := catalog.OpenStore(*backend, cfg.Library.DataFile, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closer.Close()

	source := cfg.Library.DataFile
	if *backend == catalog.BackendSQLite {
		source = *dbPath
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub))
	tcpSrv := synchub.NewServer(cfg.Server.SyncAddr, hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "data_file": cfg.Library.DataFile, "backend": *backend})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"source":      source,
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Books (read-only; the CLI owns writes)
	browse.NewHandler(store, log.Default()).RegisterRoutes(router.Group("/books"))

	httpSrv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	// WAL writes leave the main sqlite file untouched, so only the text file is watched.
	var watcher *synchub.Watcher
	if *backend != catalog.BackendSQLite {
		watcher = synchub.NewWatcher(cfg.Library.DataFile, store, hub, cfg.Server.WatchInterval)
	}

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", cfg.Server.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if watcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
