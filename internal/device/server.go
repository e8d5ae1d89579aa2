package device

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/picotools/picoide/internal/config"
)

// Server represents the device HTTP server
type Server struct {
	config   *config.Config
	device   *Device
	logger   *slog.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
	http     *http.Server
}

// NewServer creates a new HTTP server for dev
func NewServer(cfg *config.Config, dev *Device, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config: cfg,
		device: dev,
		logger: logger,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.setupRoutes()
	s.http = &http.Server{
		Addr:              cfg.Device.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(s.requestID)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// File editor
	s.router.HandleFunc("/save_file", s.handleSaveFile).Methods("POST")
	s.router.HandleFunc("/load_file", s.handleLoadFile).Methods("POST")

	// Console monitor
	s.router.HandleFunc("/get_console", s.handleGetConsole).Methods("GET")
	s.router.HandleFunc("/send_command", s.handleSendCommand).Methods("POST")
	s.router.HandleFunc("/command_history", s.handleCommandHistory).Methods("GET")
	s.router.HandleFunc("/console_ws", s.handleConsoleStream).Methods("GET")

	// File browser
	s.router.HandleFunc("/list_files", s.handleListFiles).Methods("GET")
	s.router.HandleFunc("/create_file", s.handleCreateFile).Methods("POST")
	s.router.HandleFunc("/delete_file", s.handleDeleteFile).Methods("POST")

	// Web UI
	s.router.HandleFunc("/", s.handleUI).Methods("GET")
	s.router.HandleFunc("/index.html", s.handleUI).Methods("GET")
	s.router.HandleFunc("/styles.css", s.handleCSS).Methods("GET")
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address until Shutdown
func (s *Server) Start() error {
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// requestID tags every request with an X-Request-ID
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "request_id", id)
		next.ServeHTTP(w, r)
	})
}

// fileRequest is the body of the file endpoints
type fileRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// commandRequest is the body of /send_command
type commandRequest struct {
	Command string `json:"command"`
}

func writeText(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// statusFor maps device errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrFilenameRequired),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrCommandRequired):
		return http.StatusBadRequest
	case errors.Is(err, ErrProtected):
		return http.StatusForbidden
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	if code >= 500 {
		s.logger.Error("ERROR: "+op, "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err, "status", code)
	}

	msg := err.Error()
	switch {
	case errors.Is(err, ErrFilenameRequired):
		msg = "Filename required"
	case errors.Is(err, ErrCommandRequired):
		msg = "Command required"
	case errors.Is(err, ErrProtected):
		msg = "Cannot delete " + s.device.Files.BootFile() + " (currently running)"
	case errors.Is(err, os.ErrNotExist):
		msg = "File not found"
	}
	writeText(w, code, msg)
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":         "healthy",
		"boot_id":        s.device.BootID(),
		"uptime":         s.device.Console.Uptime().Seconds(),
		"reboot_pending": s.device.RebootPending(),
	})
}

func (s *Server) handleSaveFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if err := decode(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := s.device.SaveFile(req.Filename, req.Content)
	if err != nil {
		s.fail(w, "save_file", err)
		return
	}
	writeText(w, http.StatusOK, msg)
}

func (s *Server) handleLoadFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if err := decode(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content, err := s.device.Files.Load(req.Filename)
	if err != nil {
		s.fail(w, "load_file", err)
		return
	}
	s.logger.Info("SUCCESS: File loaded", "file", req.Filename)
	writeJSON(w, map[string]string{"content": content})
}

func (s *Server) handleGetConsole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.device.Console.Entries())
}

func (s *Server) handleSendCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decode(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Shell errors land in the console; only a blank command is refused.
	if _, err := s.device.RunCommand(req.Command); errors.Is(err, ErrCommandRequired) {
		s.fail(w, "send_command", err)
		return
	}
	writeText(w, http.StatusOK, "Command executed")
}

func (s *Server) handleCommandHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.device.History.Entries())
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.device.Files.List()
	if err != nil {
		s.fail(w, "list_files", err)
		return
	}
	writeJSON(w, files)
}

func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if err := decode(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.device.Files.Create(req.Filename); err != nil {
		s.fail(w, "create_file", err)
		return
	}
	s.logger.Info("File created", "file", req.Filename)
	writeText(w, http.StatusOK, "File created")
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if err := decode(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.device.Files.Delete(req.Filename); err != nil {
		s.fail(w, "delete_file", err)
		return
	}
	s.logger.Info("File deleted", "file", req.Filename)
	writeText(w, http.StatusOK, "File deleted")
}

// handleUI serves the web IDE page
func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(webUI))
}

func (s *Server) handleCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write([]byte(webCSS))
}
