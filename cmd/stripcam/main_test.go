package main

import (
	"bytes"
	"context"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/stripcam/internal/camera"
	"github.com/banshee-data/stripcam/internal/fsutil"
	"github.com/banshee-data/stripcam/internal/trajectory"
	"github.com/banshee-data/stripcam/internal/world"
)

const testScene = `{
  "map_path": "maps/room.json",
  "closed_map": true,
  "focal_length": 10,
  "image_width": 11,
  "position": [50, 50],
  "trajectory": {"steps": 3, "yaw_step": 0.5},
  "view_scale": 2
}`

const testRoom = `{"map": {"vertices": [[0, 0], [100, 0], [100, 100], [0, 100]]}}`

// setFlags points the package flags at test values for the duration of t.
func setFlags(t *testing.T, cfg, out string, n int, views bool) {
	t.Helper()
	oldCfg, oldMap, oldOut, oldSteps, oldNoViews := *configPath, *mapPath, *outDir, *steps, *noViews
	t.Cleanup(func() {
		*configPath, *mapPath, *outDir, *steps, *noViews = oldCfg, oldMap, oldOut, oldSteps, oldNoViews
	})
	*configPath, *mapPath, *outDir, *steps, *noViews = cfg, "", out, n, !views
}

func newSceneFS() *fsutil.MemoryFileSystem {
	fsys := fsutil.NewMemoryFileSystem()
	fsys.WriteFile("scenes/scene.json", []byte(testScene))
	fsys.WriteFile("scenes/maps/room.json", []byte(testRoom))
	return fsys
}

func TestRun_WritesOneViewPerPose(t *testing.T) {
	fsys := newSceneFS()
	setFlags(t, "scenes/scene.json", "out", 0, true)

	require.NoError(t, run(context.Background(), fsys))

	names := fsys.Names()
	sort.Strings(names)
	var views []string
	for _, n := range names {
		if strings.HasPrefix(n, "out"+string(filepath.Separator)) {
			views = append(views, filepath.Base(n))
		}
	}
	assert.Equal(t, []string{"frame_0000.png", "frame_0001.png", "frame_0002.png"}, views)
}

func TestRun_StepsFlagOverridesConfig(t *testing.T) {
	fsys := newSceneFS()
	setFlags(t, "scenes/scene.json", "out", 5, true)

	require.NoError(t, run(context.Background(), fsys))

	count := 0
	for _, n := range fsys.Names() {
		if strings.HasSuffix(n, ".png") {
			count++
		}
	}
	assert.Equal(t, 5, count)
}

func TestRun_NoViews(t *testing.T) {
	fsys := newSceneFS()
	setFlags(t, "scenes/scene.json", "out", 0, false)

	require.NoError(t, run(context.Background(), fsys))
	assert.Len(t, fsys.Names(), 2, "only the inputs should exist")
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		setFlags(t, "nope.json", "out", 0, false)
		assert.Error(t, run(context.Background(), fsutil.NewMemoryFileSystem()))
	})

	t.Run("no map", func(t *testing.T) {
		fsys := fsutil.NewMemoryFileSystem()
		fsys.WriteFile("scene.json", []byte(`{"focal_length": 5}`))
		setFlags(t, "scene.json", "out", 0, false)

		err := run(context.Background(), fsys)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no map")
	})

	t.Run("map flag overrides config", func(t *testing.T) {
		fsys := newSceneFS()
		setFlags(t, "scenes/scene.json", "out", 0, false)
		*mapPath = "scenes/maps/missing.json"

		assert.Error(t, run(context.Background(), fsys))
	})

	t.Run("cancelled", func(t *testing.T) {
		fsys := newSceneFS()
		setFlags(t, "scenes/scene.json", "out", 0, false)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, run(ctx, fsys), context.Canceled)
	})
}

func TestConfigureLogging(t *testing.T) {
	t.Cleanup(func() {
		world.SetLogWriters(world.LogWriters{})
		camera.SetLogWriters(camera.LogWriters{})
		trajectory.SetLogWriters(trajectory.LogWriters{})
	})

	for _, level := range []string{"ops", "diag", "trace"} {
		var buf bytes.Buffer
		assert.NoError(t, configureLogging(level, &buf), level)
	}

	var buf bytes.Buffer
	require.NoError(t, configureLogging("diag", &buf))
	_, err := world.LoadMap(newSceneFS(), "scenes/maps/room.json", world.DefaultBuildOptions())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "loaded map scenes/maps/room.json")

	assert.Error(t, configureLogging("verbose", &buf))
}
