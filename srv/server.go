package srv

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wordparty.exe.dev/config"
	"wordparty.exe.dev/db"
)

// Server holds shared state for the HTTP/WebSocket server.
type Server struct {
	DB        *sql.DB
	Directory *Directory
	allowCORS bool
	upgrader  websocket.Upgrader
}

// New creates a Server: it loads the prompt pool, opens the results
// database, and starts the room directory.
func New(cfg config.Config) (*Server, error) {
	words, err := LoadWords(cfg.WordsFile)
	if err != nil {
		return nil, err
	}

	wdb, err := db.Open(cfg.ResultsDB)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(wdb); err != nil {
		return nil, err
	}

	srv := &Server{
		DB:        wdb,
		allowCORS: cfg.AllowCORS,
	}
	srv.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if cfg.AllowCORS {
		srv.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	srv.Directory = NewDirectory(words, cfg.InactivityTimeout, srv.saveResult)
	return srv, nil
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("healthy"))
}

// HandleCreateGame creates a room and returns its id.
func (s *Server) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	id := s.Directory.CreateGame()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// Routes builds the HTTP handler with all endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /game", s.HandleCreateGame)
	mux.HandleFunc("GET /game/{game_id}/player/{nickname}/ws", s.HandleWS)
	mux.HandleFunc("GET /results/{id}", s.HandleViewResult)
	if s.allowCORS {
		return corsMiddleware(mux)
	}
	return mux
}

// Serve starts the HTTP server with the configured routes.
func (s *Server) Serve(addr string) error {
	slog.Info("starting server", "addr", addr)
	return http.ListenAndServe(addr, s.Routes())
}

// corsMiddleware adds permissive CORS headers and short-circuits preflight
// requests. Enabled by the allow-cors config flag.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
