package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"anim-exporter/internal/config"
	"anim-exporter/internal/scene"
	"anim-exporter/internal/track"

	"github.com/HugoSmits86/nativewebp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Preview tool: runs the same pipeline as animexport and plots each
// object's rotation curves over time, one image per object. Useful for
// eyeballing whether the unwrap search removed representation jumps.
func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	sceneFile := flag.String("scene", "", "Scene file (.json or .yaml)")
	outDir := flag.String("out", "plots", "Output directory for plot images")
	format := flag.String("format", "png", "Image format: png or webp")
	start := flag.Int("start", 0, "Start frame")
	end := flag.Int("end", 0, "End frame")
	step := flag.Int("step", 0, "Frame step")

	flag.Parse()

	if *format != "png" && *format != "webp" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(1)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{Scene: *sceneFile, Start: *start, End: *end, Step: *step})

	if cfg.Scene == "" {
		fmt.Fprintln(os.Stderr, "Error: no scene file. Use -scene flag or config.json.")
		os.Exit(1)
	}

	opts, err := cfg.TrackOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !opts.Rotation {
		fmt.Fprintln(os.Stderr, "Error: rotation export is disabled, nothing to plot.")
		os.Exit(1)
	}

	scn, err := scene.Load(cfg.Scene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	objects := cfg.Objects
	if len(objects) == 0 {
		objects = scn.Names()
	}

	bones, err := track.Run(opts, scn, objects)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: export failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, name := range objects {
		ch := bones[name].Rotation
		path := filepath.Join(*outDir, fmt.Sprintf("%s_rotation.%s", name, *format))
		if err := plotChannel(path, *format, name, cfg.AngleUnit, ch); err != nil {
			fmt.Fprintf(os.Stderr, "Error plotting %s: %v\n", name, err)
			os.Exit(1)
		}
		fmt.Printf("  %s (%d keys)\n", path, ch.Len())
	}

	fmt.Printf("Plotted %d objects to %s\n", len(objects), *outDir)
}

var axisColors = []color.RGBA{
	{R: 220, G: 60, B: 60, A: 255}, // x
	{R: 60, G: 160, B: 60, A: 255}, // y
	{R: 60, G: 90, B: 220, A: 255}, // z
}

func plotChannel(path, format, name, unit string, ch *track.Channel) error {
	p := plot.New()
	p.Title.Text = name + " rotation"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = unit

	all := make([]float64, 0, ch.Len()*3)
	for axis := 0; axis < 3; axis++ {
		pts := make(plotter.XYs, ch.Len())
		for i, k := range ch.Keys {
			t, err := strconv.ParseFloat(k.Time, 64)
			if err != nil {
				return fmt.Errorf("bad time key %q: %w", k.Time, err)
			}
			pts[i].X = t
			pts[i].Y = k.Vector[axis]
			all = append(all, k.Vector[axis])
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = axisColors[axis]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(string("xyz"[axis]), line)
	}

	// Pad the value range so flat channels still get a visible band.
	if len(all) > 0 {
		lo, hi := floats.Min(all), floats.Max(all)
		pad := (hi - lo) * 0.05
		if pad == 0 {
			pad = 1
		}
		p.Y.Min, p.Y.Max = lo-pad, hi+pad
	}

	if format == "png" {
		return p.Save(14*vg.Inch, 6*vg.Inch, path)
	}

	c := vgimg.New(14*vg.Inch, 6*vg.Inch)
	p.Draw(draw.New(c))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return nativewebp.Encode(f, c.Image(), nil)
}
