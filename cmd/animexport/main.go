package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"anim-exporter/internal/config"
	"anim-exporter/internal/gecko"
	"anim-exporter/internal/scene"
	"anim-exporter/internal/track"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	sceneFile := flag.String("scene", "", "Scene file (.json or .yaml)")
	output := flag.String("output", "", "Output document path (default: animation.json)")
	start := flag.Int("start", 0, "Start frame (default: 1 or config)")
	end := flag.Int("end", 0, "End frame (default: 250 or config)")
	step := flag.Int("step", 0, "Frame step (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Scene:   *sceneFile,
		Output:  *output,
		Start:   *start,
		End:     *end,
		Step:    *step,
		Workers: *workers,
	})

	if cfg.Scene == "" {
		fmt.Fprintln(os.Stderr, "Error: no scene file. Use -scene flag or config.json.")
		os.Exit(1)
	}

	opts, err := cfg.TrackOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Load scene
	scn, err := scene.Load(cfg.Scene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	objects := cfg.Objects
	if len(objects) == 0 {
		objects = scn.Names()
	}

	frames := (cfg.EndFrame-cfg.StartFrame)/cfg.Step + 1
	fmt.Printf("Animation Exporter → GeckoLib JSON\n")
	fmt.Printf("Objects: %d, Frames: %d-%d (step %d, %d samples), Workers: %d\n",
		len(objects), cfg.StartFrame, cfg.EndFrame, cfg.Step, frames, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.Output)

	begin := time.Now()

	bones, err := track.Run(opts, scn, objects)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: export failed: %v\n", err)
		os.Exit(1)
	}

	doc := gecko.Build(cfg.StartFrame, cfg.EndFrame, bones)
	if err := gecko.Write(cfg.Output, doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done in %.1fs\n", time.Since(begin).Seconds())
	fmt.Printf("Exported %d objects to %s\n", len(bones), cfg.Output)
}
