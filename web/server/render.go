package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/df07/go-weekend-raytracer/pkg/export"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string // Scene id or scene file id
	Width   int    // Image width; height follows the scene's aspect ratio
	Samples int    // Samples per pixel
	Depth   int    // Maximum bounce depth
	Seed    int64  // Base random seed
	Format  string // "png", "ppm" or "json"
}

// RenderResponse is returned for format=json
type RenderResponse struct {
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int64   `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	Tiles          int     `json:"tiles"`
	Workers        int     `json:"workers"`
	ElapsedMs      int64   `json:"elapsedMs"`
}

// consoleBufferSize bounds the console messages kept per render
const consoleBufferSize = 256

// handleRender renders a scene and returns the image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	config := sceneObj.CameraConfig
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Samples > 0 {
		config.SamplesPerPixel = req.Samples
	}
	if req.Depth >= 0 {
		config.MaxDepth = req.Depth
	}
	if err := checkImageLimits(config); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	width, height := config.Width, config.ImageHeight()

	renderID := fmt.Sprintf("render-%d", s.renders.Add(1))
	consoleChan := make(chan ConsoleMessage, consoleBufferSize)
	logger := NewWebLogger(renderID, consoleChan, s.logger)

	options := renderer.DefaultOptions()
	options.NumWorkers = s.numWorkers
	options.Seed = req.Seed

	pixels := make([]uint32, width*height)
	stats, err := renderer.NewRenderer(options, logger).Render(r.Context(), sceneObj.World, config, pixels, width, height)
	if err != nil {
		if errors.Is(err, renderer.ErrInterrupted) {
			s.logger.Infof("%s: client went away: %v", renderID, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch req.Format {
	case "ppm":
		w.Header().Set("Content-Type", "image/x-portable-pixmap")
		err = export.WritePPM(w, pixels, width, height)
	case "json":
		var imageData string
		imageData, err = pixelsToBase64PNG(pixels, width, height)
		if err == nil {
			writeJSON(w, http.StatusOK, RenderResponse{
				Width:     width,
				Height:    height,
				ImageData: imageData,
				Stats:     toStats(stats),
				Console:   drainConsole(consoleChan),
			})
		}
	default:
		w.Header().Set("Content-Type", "image/png")
		err = export.WritePNG(w, pixels, width, height)
	}

	if err != nil {
		s.logger.Warningf("%s: failed to write response: %v", renderID, err)
	}
}

// parseRenderRequest parses request parameters. Width, samples and depth
// of zero (or -1 for depth) mean "use the scene's value".
func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default", Format: "png"}

	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, MaxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "spp", 0, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", -1, 0, MaxDepth); err != nil {
		return nil, err
	}
	if req.Seed, err = parseInt64Param(query, "seed", renderer.DefaultOptions().Seed); err != nil {
		return nil, err
	}

	if format := query.Get("format"); format != "" {
		switch format {
		case "png", "ppm", "json":
			req.Format = format
		default:
			return nil, fmt.Errorf("format must be png, ppm or json, got: %s", format)
		}
	}

	return req, nil
}

func toStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:    stats.TotalPixels(),
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples(),
		Tiles:          stats.Tiles,
		Workers:        stats.Workers,
		ElapsedMs:      stats.Duration.Milliseconds(),
	}
}

// pixelsToBase64PNG converts a packed buffer to base64-encoded PNG
func pixelsToBase64PNG(pixels []uint32, width, height int) (string, error) {
	var buf bytes.Buffer
	if err := export.WritePNG(&buf, pixels, width, height); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
