package server

import (
	"log/slog"
	"net/http"
	"os"

	"BazaarBrawl/internal/game"
)

func newMux(h *game.Hub, adminToken string, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(h, adminToken, logger, w, r)
	})
	return mux
}

func startServer(h *game.Hub, addr, adminToken string, logger *slog.Logger) {
	if err := http.ListenAndServe(addr, newMux(h, adminToken, logger)); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}
