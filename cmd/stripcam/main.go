// Command stripcam drives a simulated strip camera through a wall map and
// writes one composite PNG per pose: the map with the camera's field of
// view, and the rendered strip enlarged underneath.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/banshee-data/stripcam/internal/camera"
	"github.com/banshee-data/stripcam/internal/config"
	"github.com/banshee-data/stripcam/internal/fsutil"
	"github.com/banshee-data/stripcam/internal/trajectory"
	"github.com/banshee-data/stripcam/internal/version"
	"github.com/banshee-data/stripcam/internal/view"
	"github.com/banshee-data/stripcam/internal/world"
)

var (
	configPath  = flag.String("config", "config/scene.example.json", "Path to the scene config JSON")
	mapPath     = flag.String("map", "", "Map file (.json/.yaml); overrides map_path from the config")
	outDir      = flag.String("out", "frames", "Directory for composite PNG views")
	steps       = flag.Int("steps", 0, "Number of poses; overrides trajectory.steps when > 0")
	logLevel    = flag.String("log-level", "ops", "Log verbosity: ops, diag or trace")
	noViews     = flag.Bool("no-views", false, "Render frames without writing PNG views")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := configureLogging(*logLevel, os.Stderr); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, fsutil.OSFileSystem{}); err != nil {
		log.Fatalf("stripcam: %v", err)
	}
}

func run(ctx context.Context, fsys fsutil.FileSystem) error {
	cfg, err := config.LoadSceneConfig(fsys, *configPath)
	if err != nil {
		return err
	}

	path := cfg.GetMapPath()
	if *mapPath != "" {
		path = *mapPath
	}
	if path == "" {
		return fmt.Errorf("no map: set map_path in %s or pass -map", *configPath)
	}

	m, err := world.LoadMap(fsys, path, cfg.BuildOptions())
	if err != nil {
		return err
	}

	cam, err := camera.New(m, cfg.GetFocalLength(),
		image.Pt(cfg.GetImageWidth(), cfg.GetImageHeight()), cfg.GetPosition(), cfg.GetYaw())
	if err != nil {
		return err
	}
	cam.SetVisibility(cfg.GetVisibility())

	n := cfg.GetSteps()
	if *steps > 0 {
		n = *steps
	}
	poses := trajectory.Linear(trajectory.Pose{Position: cfg.GetPosition(), Yaw: cfg.GetYaw()},
		cfg.GetStep(), cfg.GetYawStep(), n)

	runner := &trajectory.Runner{Camera: cam}
	if !*noViews {
		runner.Sink = viewSink(fsys, view.NewComposer(m, cfg.GetViewScale()), cam, *outDir)
	}

	sum, err := runner.Run(ctx, poses)
	if err != nil {
		return err
	}
	log.Printf("run %s: %d frames (%s visibility), mean coverage %.2f, %.2fs",
		sum.RunID, sum.Frames, cam.Visibility(), sum.MeanCoverage, sum.Elapsed.Seconds())
	return nil
}

// viewSink writes a composite PNG per step under outDir/<run id>/.
func viewSink(fsys fsutil.FileSystem, c *view.Composer, cam *camera.Camera, outDir string) trajectory.Sink {
	return trajectory.SinkFunc(func(_ context.Context, s trajectory.Step) error {
		img, err := c.Compose(cam, s.Frame)
		if err != nil {
			return err
		}
		dir := filepath.Join(outDir, s.RunID)
		_, err = view.WritePNG(fsys, dir, fmt.Sprintf("frame_%04d.png", s.Index), img)
		return err
	})
}

// configureLogging routes each package's log streams to w up to level.
func configureLogging(level string, w io.Writer) error {
	var ops, diag, trace io.Writer
	switch level {
	case "trace":
		trace = w
		fallthrough
	case "diag":
		diag = w
		fallthrough
	case "ops":
		ops = w
	default:
		return fmt.Errorf("unknown log level %q (want ops, diag or trace)", level)
	}

	world.SetLogWriters(world.LogWriters{Ops: ops, Diag: diag, Trace: trace})
	camera.SetLogWriters(camera.LogWriters{Ops: ops, Diag: diag, Trace: trace})
	trajectory.SetLogWriters(trajectory.LogWriters{Ops: ops, Diag: diag, Trace: trace})
	return nil
}
