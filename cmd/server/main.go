package main

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"spades/internal/engine"
	"spades/internal/mods"
	"spades/internal/server"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	addr := ":8080"
	if v := os.Getenv("ADDR"); v != "" {
		addr = v
	}

	hub := server.NewHub(log)
	registry := mods.DefaultRegistry(time.Now().UnixNano())
	manager := server.NewManager(registry, hub, engine.DefaultConfig(), log)

	stop := make(chan struct{})
	defer close(stop)
	go manager.Sweep(time.Minute, 30*time.Minute, stop)

	mux := http.NewServeMux()
	mux.Handle("/ws", server.NewWSHandler(manager, hub, log))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Serve frontend build with SPA fallback
	webDist := filepath.Join("web", "dist")
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(webDist, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(webDist, "index.html"))
	}))

	log.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
