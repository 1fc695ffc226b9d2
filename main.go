package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/imageio"
	"github.com/spoax/raytracer/pkg/renderer"
	"github.com/spoax/raytracer/pkg/scene"
)

// cliOptions holds the parsed command line
type cliOptions struct {
	sceneID   string
	scenesDir string
	width     int
	height    int
	samples   int
	depth     int
	seed      int64
	workers   int
	passes    int
	output    string
	format    string
	annotate  bool
	single    bool
	help      bool
}

func parseFlags(args []string, output io.Writer) (cliOptions, *flag.FlagSet, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.sceneID, "scene", "default", "Scene ID: "+strings.Join(scene.BuiltInSceneIDs(), ", ")+" or file:<name>")
	fs.StringVar(&opts.scenesDir, "scenes-dir", "scenes", "Directory containing JSON scene files")
	fs.IntVar(&opts.width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&opts.height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum bounces per ray, capped at 50 (0 = scene default)")
	fs.Int64Var(&opts.seed, "seed", 0, "Random seed (0 = scene default)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	fs.IntVar(&opts.passes, "passes", 1, "Number of progressive passes")
	fs.StringVar(&opts.output, "output", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	fs.StringVar(&opts.format, "format", "", "Output format: png, ppm, bmp or tiff (default from -output extension, else png)")
	fs.BoolVar(&opts.annotate, "annotate", false, "Draw render statistics onto the image")
	fs.BoolVar(&opts.single, "single", false, "Render on a single goroutine instead of the tiled worker pool")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	err := fs.Parse(args)
	return opts, fs, err
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Progressive Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, id := range scene.BuiltInSceneIDs() {
		fmt.Fprintf(w, "  %s\n", id)
	}
	fmt.Fprintln(w, "  file:<name> - scenes/<name>.json")
}

// createScene builds the requested scene and applies command line overrides
func createScene(opts cliOptions) (*scene.Scene, error) {
	sc, err := scene.NewSceneByID(opts.sceneID, scene.Options{ScenesDir: opts.scenesDir, Seed: opts.seed})
	if err != nil {
		return nil, err
	}

	sc.ApplySamplingConfig(scene.SamplingConfig{
		Width:           opts.width,
		Height:          opts.height,
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
		Seed:            opts.seed,
	})
	return sc, nil
}

// resolveOutput picks the output path and format. An explicit -format wins
// over the path's extension.
func resolveOutput(opts cliOptions, sceneName string, now time.Time) (string, imageio.Format, error) {
	var format imageio.Format
	var err error
	switch {
	case opts.format != "":
		format, err = imageio.ParseFormat(opts.format)
	case opts.output != "":
		format, err = imageio.FormatFromPath(opts.output)
	default:
		format = imageio.FormatPNG
	}
	if err != nil {
		return "", "", err
	}

	path := opts.output
	if path == "" {
		dirName := strings.NewReplacer(":", "_", "/", "_", `\`, "_").Replace(sceneName)
		path = filepath.Join("output", dirName, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), format))
	}
	return path, format, nil
}

func render(ctx context.Context, sc *scene.Scene, opts cliOptions, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	if opts.single {
		startTime := time.Now()
		img, stats := renderer.NewRaytracer(sc).RenderPass()
		stats.Duration = time.Since(startTime)
		return img, stats, nil
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = 0 // use the scene's samples per pixel
	config.MaxPasses = max(1, opts.passes)
	config.NumWorkers = opts.workers

	pr, err := renderer.NewProgressiveRaytracer(sc, config, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var last *renderer.PassResult
	var total time.Duration
	for pass := range passChan {
		pass := pass
		last = &pass
		total += pass.Stats.Duration
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, err
	}
	if last == nil {
		return nil, renderer.RenderStats{}, errors.New("render produced no passes")
	}

	last.Stats.Duration = total
	return last.Image, last.Stats, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, fs, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}
	if opts.help {
		printHelp(stdout, fs)
		return nil
	}

	sc, err := createScene(opts)
	if err != nil {
		return fmt.Errorf("creating scene: %w", err)
	}

	path, format, err := resolveOutput(opts, sc.Name, time.Now())
	if err != nil {
		return err
	}

	cfg := sc.SamplingConfig
	fmt.Fprintf(stdout, "Rendering %q: %dx%d, %d samples/pixel, %d spheres\n",
		sc.Name, cfg.Width, cfg.Height, cfg.SamplesPerPixel, sc.GetPrimitiveCount())

	img, stats, err := render(ctx, sc, opts, renderer.NewDefaultLogger())
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	fmt.Fprintf(stdout, "Render completed in %v\n", stats.Duration)
	fmt.Fprintf(stdout, "Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	var out image.Image = img
	if opts.annotate {
		out = imageio.Annotate(img, fmt.Sprintf("%s | %s", sc.Name, stats))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := imageio.Save(path, out, format); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Render saved as %s\n", path)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
