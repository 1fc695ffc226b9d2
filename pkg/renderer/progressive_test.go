package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"
)

func TestProgressiveSampleCalculation(t *testing.T) {
	tests := []struct {
		name     string
		config   ProgressiveConfig
		expected []int
	}{
		{
			// (50-1)/6 = 8 samples per pass, final pass gets the remainder
			name:     "default seven passes",
			config:   ProgressiveConfig{InitialSamples: 1, MaxSamplesPerPixel: 50, MaxPasses: 7},
			expected: []int{1, 9, 17, 25, 33, 41, 50},
		},
		{
			name:     "single pass takes everything",
			config:   ProgressiveConfig{InitialSamples: 1, MaxSamplesPerPixel: 20, MaxPasses: 1},
			expected: []int{20},
		},
		{
			name:     "more passes than samples",
			config:   ProgressiveConfig{InitialSamples: 1, MaxSamplesPerPixel: 3, MaxPasses: 4},
			expected: []int{1, 1, 1, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := &ProgressiveRaytracer{config: tt.config}
			for pass := 1; pass <= len(tt.expected); pass++ {
				if got := pr.getSamplesForPass(pass); got != tt.expected[pass-1] {
					t.Errorf("Pass %d: expected %d total samples, got %d", pass, tt.expected[pass-1], got)
				}
			}
		})
	}
}

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()

	if config.TileSize != 64 {
		t.Errorf("Expected default tile size 64, got %d", config.TileSize)
	}
	if config.InitialSamples != 1 {
		t.Errorf("Expected default initial samples 1, got %d", config.InitialSamples)
	}
	if config.MaxSamplesPerPixel != 50 {
		t.Errorf("Expected default max samples 50, got %d", config.MaxSamplesPerPixel)
	}
	if config.MaxPasses != 7 {
		t.Errorf("Expected default max passes 7, got %d", config.MaxPasses)
	}
}

func TestNewProgressiveRaytracer_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ProgressiveConfig)
	}{
		{"zero tile size", func(c *ProgressiveConfig) { c.TileSize = 0 }},
		{"zero passes", func(c *ProgressiveConfig) { c.MaxPasses = 0 }},
		{"zero initial samples", func(c *ProgressiveConfig) { c.InitialSamples = 0 }},
		{"initial above max", func(c *ProgressiveConfig) { c.InitialSamples = 60 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultProgressiveConfig()
			tt.modify(&config)
			_, err := NewProgressiveRaytracer(newSmallDefaultScene(8, 8, 4), config, nil)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewProgressiveRaytracer_MaxSamplesFromScene(t *testing.T) {
	config := DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = 0

	pr, err := NewProgressiveRaytracer(newSmallDefaultScene(8, 8, 12), config, NewNopLogger())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer pr.Close()

	if pr.Config().MaxSamplesPerPixel != 12 {
		t.Errorf("Expected scene samples 12, got %d", pr.Config().MaxSamplesPerPixel)
	}
}

func TestNewTileGrid(t *testing.T) {
	// 400x225 image with 64x64 tiles
	width, height, tileSize := 400, 225, 64
	tiles := NewTileGrid(width, height, tileSize, 42)

	expectedTilesX := (width + tileSize - 1) / tileSize   // 7 tiles
	expectedTilesY := (height + tileSize - 1) / tileSize  // 4 tiles
	expectedTotalTiles := expectedTilesX * expectedTilesY // 28 tiles

	if len(tiles) != expectedTotalTiles {
		t.Errorf("Expected %d tiles, got %d", expectedTotalTiles, len(tiles))
	}

	covered := make([][]bool, height)
	for y := range covered {
		covered[y] = make([]bool, width)
	}

	for _, tile := range tiles {
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				if x >= width || y >= height {
					t.Errorf("Tile %d extends beyond image bounds at (%d,%d)", tile.ID, x, y)
					continue
				}
				if covered[y][x] {
					t.Errorf("Pixel (%d,%d) is covered by multiple tiles", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !covered[y][x] {
				t.Errorf("Pixel (%d,%d) is not covered by any tile", x, y)
			}
		}
	}
}

func TestTileDeterministicRandom(t *testing.T) {
	bounds := image.Rect(0, 0, 64, 64)

	tile1 := NewTile(3, bounds, 42)
	tile2 := NewTile(3, bounds, 42)
	if tile1.Sampler.Get1D() != tile2.Sampler.Get1D() {
		t.Error("Tiles with same ID and seed should produce the same random values")
	}

	// Seed + ID is the stream: (42, 3) and (44, 1) share it
	tile3 := NewTile(1, bounds, 44)
	tile4 := NewTile(3, bounds, 42)
	if tile3.Sampler.Get1D() != tile4.Sampler.Get1D() {
		t.Error("Tiles with equal seed+ID should share a random stream")
	}

	tile5 := NewTile(4, bounds, 42)
	tile6 := NewTile(3, bounds, 42)
	if tile5.Sampler.Get1D() == tile6.Sampler.Get1D() {
		t.Error("Tiles with different IDs should produce different random values")
	}
}

// renderFinalPass runs a full progressive render and returns the last pass
func renderFinalPass(t *testing.T, numWorkers int) PassResult {
	t.Helper()

	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 4, MaxPasses: 2, NumWorkers: numWorkers}
	pr, err := NewProgressiveRaytracer(newSmallDefaultScene(20, 12, 4), config, NewNopLogger())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	passChan, _, errChan := pr.RenderProgressive(context.Background(), RenderOptions{})

	var last PassResult
	passes := 0
	for pass := range passChan {
		last = pass
		passes++
	}
	if err := <-errChan; err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if passes != 2 || !last.IsLast {
		t.Fatalf("Expected 2 passes ending with IsLast, got %d (IsLast=%v)", passes, last.IsLast)
	}
	return last
}

func TestProgressive_DeterministicAcrossWorkerCounts(t *testing.T) {
	single := renderFinalPass(t, 1)
	parallel := renderFinalPass(t, 4)

	if !bytes.Equal(single.Image.Pix, parallel.Image.Pix) {
		t.Error("Images should be bit-identical regardless of worker count")
	}
	if single.Stats.TotalSamples != 20*12*4 {
		t.Errorf("Expected %d samples, got %d", 20*12*4, single.Stats.TotalSamples)
	}
}

func TestProgressive_TileCallbacks(t *testing.T) {
	config := ProgressiveConfig{TileSize: 4, InitialSamples: 1, MaxSamplesPerPixel: 2, MaxPasses: 2, NumWorkers: 2}
	pr, err := NewProgressiveRaytracer(newSmallDefaultScene(10, 6, 2), config, NewNopLogger())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer pr.Close()

	ctx := context.Background()
	for pass := 1; pass <= 2; pass++ {
		var tiles []TileCompletionResult
		img, stats, err := pr.RenderPass(ctx, pass, func(result TileCompletionResult) {
			tiles = append(tiles, result)
		})
		if err != nil {
			t.Fatalf("Pass %d failed: %v", pass, err)
		}

		// 10x6 with 4px tiles is a 3x2 grid
		if len(tiles) != 6 {
			t.Fatalf("Pass %d: expected 6 tile callbacks, got %d", pass, len(tiles))
		}
		last := tiles[len(tiles)-1]
		if last.TileNumber != 6 || last.TotalTiles != 6 || last.PassNumber != pass {
			t.Errorf("Pass %d: unexpected progress %+v", pass, last)
		}
		for _, tile := range tiles {
			if tile.TileX > 2 || tile.TileY > 1 {
				t.Errorf("Tile coordinates out of range: (%d,%d)", tile.TileX, tile.TileY)
			}
		}
		if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 6 {
			t.Errorf("Unexpected image size %v", img.Bounds())
		}
		if stats.AverageSamples != float64(pass) {
			t.Errorf("Pass %d: expected %d samples per pixel, got %f", pass, pass, stats.AverageSamples)
		}
	}
}

func TestProgressive_CancelledBeforeStart(t *testing.T) {
	pr, err := NewProgressiveRaytracer(newSmallDefaultScene(8, 8, 4), DefaultProgressiveConfig(), NewNopLogger())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passChan, tileChan, errChan := pr.RenderProgressive(ctx, RenderOptions{TileUpdates: true})
	for range passChan {
		t.Error("No pass should complete after cancellation")
	}
	for range tileChan {
	}
	if err := <-errChan; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
