package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nwafor-princewill/fedex-task-system/migrate"
	"github.com/nwafor-princewill/fedex-task-system/server"
)

func main() {
	cfg := server.LoadConfig()

	if err := migrate.RunFromEnv(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	srv, err := server.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}
	defer srv.Close()

	engine := server.NewGinEngine(srv)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: engine,
	}

	go func() {
		fmt.Printf("%s listening on %s (env %s)\n", cfg.App.Name, cfg.HTTP.Addr, cfg.Env)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
