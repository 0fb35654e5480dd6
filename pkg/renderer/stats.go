package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

// WorkerStat contains the work done by a single worker during one pass
type WorkerStat struct {
	ID       int
	Tiles    int
	Pixels   int
	Samples  int64
	BusyTime time.Duration
}

// RenderStats contains statistics about one render pass
type RenderStats struct {
	Width           int           // Image width
	Height          int           // Image height
	Tiles           int           // Number of tiles in the grid
	Workers         int           // Number of workers used
	SamplesPerPixel int           // Samples taken for every pixel
	TotalSamples    int64         // Total number of camera rays traced
	Duration        time.Duration // Wall clock time of the pass
	WorkerStats     []WorkerStat  // Per-worker breakdown, indexed by worker id
}

// TotalPixels returns the number of pixels in the image
func (s RenderStats) TotalPixels() int {
	return s.Width * s.Height
}

// AverageSamples returns the average number of samples per pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels() == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels())
}

// addTile folds a tile result into the stats
func (s *RenderStats) addTile(result TileResult) {
	if result.WorkerID >= 0 && result.WorkerID < len(s.WorkerStats) {
		ws := &s.WorkerStats[result.WorkerID]
		ws.Tiles++
		ws.Pixels += result.Stats.Pixels
		ws.Samples += result.Stats.Samples
		ws.BusyTime += result.Duration
	}
	s.TotalSamples += result.Stats.Samples
}

// WriteTable writes a per-worker statistics table to w
func (s RenderStats) WriteTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Tiles", "Pixels", "% of frame", "Samples", "Busy time"})

	totalPixels := s.TotalPixels()
	for _, stat := range s.WorkerStats {
		percent := 0.0
		if totalPixels > 0 {
			percent = 100 * float64(stat.Pixels) / float64(totalPixels)
		}
		table.Append([]string{
			fmt.Sprintf("%d", stat.ID),
			fmt.Sprintf("%d", stat.Tiles),
			fmt.Sprintf("%d", stat.Pixels),
			fmt.Sprintf("%02.1f %%", percent),
			fmt.Sprintf("%d", stat.Samples),
			stat.BusyTime.String(),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%dx%d", s.Width, s.Height),
		fmt.Sprintf("%d", s.Tiles),
		fmt.Sprintf("%d", totalPixels),
		fmt.Sprintf("%d spp", s.SamplesPerPixel),
		fmt.Sprintf("%d", s.TotalSamples),
		s.Duration.String(),
	})

	table.Render()
}
