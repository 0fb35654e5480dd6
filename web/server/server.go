package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/df07/go-weekend-raytracer/pkg/log"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// Request limits
const (
	MaxWidth   = 1920
	MaxHeight  = 1920
	MaxSamples = 1000
	MaxDepth   = 200
)

// Server handles web requests for the raytracer
type Server struct {
	port       int
	sceneDir   string
	numWorkers int
	logger     log.Logger
	renders    atomic.Int64
}

// NewServer creates a new web server. Scene files found in sceneDir are
// offered next to the built-in scenes.
func NewServer(port int, sceneDir string, numWorkers int) *Server {
	return &Server{
		port:       port,
		sceneDir:   sceneDir,
		numWorkers: numWorkers,
		logger:     log.New("web"),
	}
}

// Handler returns the HTTP handler serving the API and static files
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/", http.FileServer(http.Dir("static/")))

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes followed by scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes := scene.ListScenes()

	files, err := scene.ListSceneFiles(s.sceneDir)
	if err != nil {
		s.logger.Warningf("failed to list scene files in %s: %v", s.sceneDir, err)
	}
	scenes = append(scenes, files...)

	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": scenes})
}

// createScene resolves a scene name. Only built-in scenes and files inside
// the server's scene directory are allowed.
func (s *Server) createScene(name string) (*scene.Scene, error) {
	for _, info := range scene.ListScenes() {
		if info.ID == name {
			return scene.Create(name)
		}
	}

	files, err := scene.ListSceneFiles(s.sceneDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == name {
			return scene.Create(info.FilePath)
		}
	}

	return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, name)
}

// checkImageLimits rejects camera settings that are invalid or exceed the
// request limits. Scene files supply values that bypass query parsing, so
// it runs on the final configuration before any buffer is allocated.
func checkImageLimits(config renderer.CameraConfig) error {
	if err := renderer.ValidateConfig(config); err != nil {
		return err
	}
	if config.Width > MaxWidth {
		return fmt.Errorf("width must be at most %d, got: %d", MaxWidth, config.Width)
	}
	if height := config.ImageHeight(); height > MaxHeight {
		return fmt.Errorf("height must be at most %d, got: %d", MaxHeight, height)
	}
	if config.SamplesPerPixel > MaxSamples {
		return fmt.Errorf("spp must be at most %d, got: %d", MaxSamples, config.SamplesPerPixel)
	}
	if config.MaxDepth > MaxDepth {
		return fmt.Errorf("depth must be at most %d, got: %d", MaxDepth, config.MaxDepth)
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses a 64-bit integer parameter from URL query
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
