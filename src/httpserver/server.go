// Package httpserver is the HTTP control plane: it exposes capture-trigger,
// text-query, text-submit and image-submit operations over the orchestrator
// and the capture store, plus a websocket push of stored-text updates.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scrollsnap/src/store"
)

// Server wires the control endpoints to the capture/type operations. The
// trigger callbacks submit to worker pools and return false when the
// single-slot queue is occupied.
type Server struct {
	Store          *store.Store
	OutputDir      string
	TriggerCapture func() bool
	DispatchType   func(text string) bool
	Copy           func(text string) error

	// ProcessImage runs extraction synchronously for a submitted image and
	// returns the stored text. The file at path is consumed (deleted) by the
	// call.
	ProcessImage func(ctx context.Context, path string) (string, error)

	hub *hub
}

// New builds a server and subscribes its websocket hub to store updates.
func New(s *Server) *Server {
	s.hub = newHub()
	if s.Store != nil {
		s.Store.Subscribe(s.hub.BroadcastText)
	}
	return s
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/capture", s.handleCapture)
	mux.HandleFunc("/trigger_capture", s.handleTriggerCapture)
	mux.HandleFunc("/send_text", s.handleSendText)
	mux.HandleFunc("/send_image", s.handleSendImage)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logAccessURLs(port)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	text := s.Store.Text()
	if text == "" {
		text = "No text captured yet. Trigger a capture or upload an image."
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexData{Text: text}); err != nil {
		log.Printf("Failed to render control page: %v", err)
	}
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"text": s.Store.Text()})
}

func (s *Server) handleTriggerCapture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.TriggerCapture == nil || !s.TriggerCapture() {
		http.Error(w, "busy", http.StatusServiceUnavailable)
		return
	}
	// Capture runs on its own worker; acknowledge immediately.
	fmt.Fprint(w, "ok")
}

type sendTextRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

func (s *Server) handleSendText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sendTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "empty text", http.StatusBadRequest)
		return
	}

	if err := s.Store.Set(req.Text); err != nil {
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}

	switch req.Mode {
	case "copy":
		if s.Copy != nil {
			_ = s.Copy(req.Text)
		}
	default: // "type"
		if s.DispatchType != nil {
			s.DispatchType(req.Text)
		}
	}

	fmt.Fprint(w, "ok")
}

func (s *Server) handleSendImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path, err := s.saveSubmittedImage(r)
	if err != nil {
		log.Printf("send_image: could not save submitted image: %v", err)
		http.Error(w, "failed", http.StatusInternalServerError)
		return
	}

	// Submission differs from trigger-style captures on purpose: the caller
	// wants the extraction outcome, so this runs synchronously.
	if _, err := s.ProcessImage(r.Context(), path); err != nil {
		log.Printf("send_image: extraction failed: %v", err)
		http.Error(w, "no_text", http.StatusInternalServerError)
		return
	}

	fmt.Fprint(w, "ok")
}

// saveSubmittedImage accepts either a multipart upload (the first file part,
// whatever its field name) or raw image bytes and writes them under OutputDir.
func (s *Server) saveSubmittedImage(r *http.Request) (string, error) {
	if err := os.MkdirAll(s.OutputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(s.OutputDir, fmt.Sprintf("capture_image_recv_%d.png", time.Now().UnixNano()))

	var src io.Reader
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return "", err
		}
		file, err := firstFilePart(r.MultipartForm)
		if err != nil {
			return "", err
		}
		defer file.Close()
		src = file
	} else {
		src = r.Body
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	n, err := io.Copy(f, src)
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	if n == 0 {
		_ = os.Remove(path)
		return "", fmt.Errorf("empty image body")
	}
	return path, nil
}

// firstFilePart opens the first uploaded file in the form regardless of its
// field name. Phone browsers and scripts disagree on what to call the part.
func firstFilePart(form *multipart.Form) (multipart.File, error) {
	if form != nil {
		for _, headers := range form.File {
			for _, fh := range headers {
				return fh.Open()
			}
		}
	}
	return nil, fmt.Errorf("no file part in multipart body")
}

func logAccessURLs(port int) {
	log.Printf("Control server listening on port %d", port)
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
			log.Printf("Phone access: http://%s:%d", ipNet.IP, port)
		}
	}
}
