// Command flatshade renders a scene of boxes and voxel chunks with the
// solid-color shader and writes the result as a PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"

	"github.com/gogpu/flatshade"
	"github.com/gogpu/flatshade/render"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "flatshade.png", "output file")
		config  = flag.String("config", "", "YAML scene file (default: built-in scene)")
		useGPU  = flag.Bool("gpu", false, "render on the GPU (Vulkan)")
		scale   = flag.Int("scale", 1, "nearest-neighbor upscale factor for the output")
		workers = flag.Int("workers", 0, "software renderer workers (0 = GOMAXPROCS)")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	flatshade.SetLogger(logger)

	opts := options{
		width:   *width,
		height:  *height,
		output:  *output,
		config:  *config,
		gpu:     *useGPU,
		scale:   *scale,
		workers: *workers,
	}
	if err := run(logger, opts); err != nil {
		logger.Error("flatshade failed", "err", err)
		os.Exit(1)
	}
}

type options struct {
	width, height int
	output        string
	config        string
	gpu           bool
	scale         int
	workers       int
}

func run(logger *slog.Logger, opts options) error {
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", opts.width, opts.height)
	}
	if opts.scale < 1 {
		return fmt.Errorf("invalid scale %d", opts.scale)
	}

	scene := DefaultScene()
	if opts.config != "" {
		var err error
		if scene, err = LoadScene(opts.config); err != nil {
			return err
		}
	}

	renderer, closeRenderer, err := newRenderer(opts)
	if err != nil {
		return err
	}
	defer closeRenderer()

	target, err := renderScene(renderer, &scene, opts.width, opts.height)
	if err != nil {
		return err
	}
	out := upscale(target.Image(), opts.scale)

	if err := writePNG(opts.output, out); err != nil {
		return err
	}
	logger.Info("image saved",
		"path", opts.output,
		"width", out.Bounds().Dx(),
		"height", out.Bounds().Dy(),
		"boxes", len(scene.Boxes),
		"chunks", scene.Chunks*scene.Chunks,
		"shaded", target.Covered(flatshade.SolidColor.RGBA8()),
		"gpu", opts.gpu,
	)
	return nil
}

func newRenderer(opts options) (render.Renderer, func(), error) {
	if opts.gpu {
		r, err := openGPURenderer()
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	}
	r := render.NewSoftwareRenderer(render.WithWorkers(opts.workers))
	return r, r.Close, nil
}

// renderScene draws the whole scene in a single indexed draw call, so the
// depth test holds across boxes and chunks.
func renderScene(r render.Renderer, scene *Scene, width, height int) (*render.PixmapTarget, error) {
	cam := scene.BuildCamera(float32(width) / float32(height))
	u := cam.Uniforms()
	m := scene.Mesh()

	target := render.NewPixmapTarget(width, height)
	err := r.Render(target, &render.DrawCall{
		Uniforms:  &u,
		Positions: m.Positions,
		Indices:   m.Indices(),
		Clear:     scene.ClearColor(),
		Depth:     *scene.Depth,
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err := r.Flush(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return target, nil
}

// upscale enlarges img by an integer factor without smoothing, so the
// flat shading stays crisp.
func upscale(img *image.RGBA, factor int) *image.RGBA {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
