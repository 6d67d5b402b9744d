package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anim-exporter/internal/mathutil"
)

func writeScene(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := writeScene(t, "scene.json", `{
	  "objects": [
	    {"name": "root", "rotation": {"1": [0.7071068, 0.7071068, 0, 0]}},
	    {"name": "child", "parent": "root", "rotation": {"1": [1, 0, 0, 0]}}
	  ]
	}`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "child"}, s.Names())

	// File order is [w,x,y,z]: this is a 90° rotation about X.
	q, err := s.Orientation("root", 1, false)
	require.NoError(t, err)
	e := mathutil.QuatToEuler(q)
	assert.InDelta(t, math.Pi/2, e[0], 1e-6)
	assert.InDelta(t, 0, e[1], 1e-6)
	assert.InDelta(t, 0, e[2], 1e-6)
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := writeScene(t, "scene.yaml", `
objects:
  - name: box
    rotation:
      1: [1, 0, 0, 0]
      2: [0.9961947, 0.0871557, 0, 0]
    position:
      1: [0, 1, 2]
`)

	s, err := Load(path)
	require.NoError(t, err)

	q, err := s.Orientation("box", 2, false)
	require.NoError(t, err)
	e := mathutil.QuatToEuler(q)
	assert.InDelta(t, mathutil.Deg2Rad(10), e[0], 1e-6)

	p, err := s.Position("box", 1, false)
	require.NoError(t, err)
	assert.Equal(t, mathutil.Vec3{0, 1, 2}, p)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("bad json", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeScene(t, "bad.json", `{`))
		assert.Error(t, err)
	})

	t.Run("duplicate object name", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeScene(t, "dup.json",
			`{"objects":[{"name":"a"},{"name":"a"}]}`))
		assert.ErrorContains(t, err, "duplicate")
	})

	t.Run("unknown parent", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeScene(t, "orphan.json",
			`{"objects":[{"name":"a","parent":"ghost"}]}`))
		assert.ErrorContains(t, err, "unknown parent")
	})

	t.Run("unnamed object", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeScene(t, "unnamed.json",
			`{"objects":[{"rotation":{"1":[1,0,0,0]}}]}`))
		assert.ErrorContains(t, err, "no name")
	})
}

func TestSampleUnavailable(t *testing.T) {
	t.Parallel()

	s, err := Load(writeScene(t, "scene.json",
		`{"objects":[{"name":"a","rotation":{"1":[1,0,0,0]}}]}`))
	require.NoError(t, err)

	t.Run("unknown object", func(t *testing.T) {
		t.Parallel()
		_, err := s.Orientation("b", 1, false)
		assert.ErrorIs(t, err, ErrSampleUnavailable)
	})

	t.Run("missing frame", func(t *testing.T) {
		t.Parallel()
		_, err := s.Orientation("a", 2, false)
		assert.ErrorIs(t, err, ErrSampleUnavailable)
	})

	t.Run("missing channel", func(t *testing.T) {
		t.Parallel()
		_, err := s.Position("a", 1, false)
		assert.ErrorIs(t, err, ErrSampleUnavailable)
		_, err = s.Scale("a", 1, false)
		assert.ErrorIs(t, err, ErrSampleUnavailable)
	})
}

func TestWorldSpaceComposition(t *testing.T) {
	t.Parallel()

	// root: 90° about Z at (1,0,0), scale 2.
	// child: local 90° about Z, local offset (1,0,0), scale (1,0.5,1).
	s, err := Load(writeScene(t, "scene.json", `{
	  "objects": [
	    {"name": "root",
	     "rotation": {"1": [0.7071068, 0, 0, 0.7071068]},
	     "position": {"1": [1, 0, 0]},
	     "scale": {"1": [2, 2, 2]}},
	    {"name": "child", "parent": "root",
	     "rotation": {"1": [0.7071068, 0, 0, 0.7071068]},
	     "position": {"1": [1, 0, 0]},
	     "scale": {"1": [1, 0.5, 1]}}
	  ]
	}`))
	require.NoError(t, err)

	t.Run("local ignores the parent", func(t *testing.T) {
		t.Parallel()
		q, err := s.Orientation("child", 1, false)
		require.NoError(t, err)
		e := mathutil.QuatToEuler(q)
		assert.InDelta(t, math.Pi/2, e[2], 1e-6)
	})

	t.Run("world orientation composes the chain", func(t *testing.T) {
		t.Parallel()
		q, err := s.Orientation("child", 1, true)
		require.NoError(t, err)
		want := mathutil.EulerToQuat(0, 0, math.Pi)
		assert.InDelta(t, 1.0, math.Abs(q.Dot(want)), 1e-6)
	})

	t.Run("world position rotates local offsets", func(t *testing.T) {
		t.Parallel()
		p, err := s.Position("child", 1, true)
		require.NoError(t, err)
		assert.InDelta(t, 1, p[0], 1e-6)
		assert.InDelta(t, 1, p[1], 1e-6)
		assert.InDelta(t, 0, p[2], 1e-6)
	})

	t.Run("world scale multiplies elementwise", func(t *testing.T) {
		t.Parallel()
		v, err := s.Scale("child", 1, true)
		require.NoError(t, err)
		assert.InDelta(t, 2, v[0], 1e-12)
		assert.InDelta(t, 1, v[1], 1e-12)
		assert.InDelta(t, 2, v[2], 1e-12)
	})
}

func TestParentCycle(t *testing.T) {
	t.Parallel()

	s, err := Load(writeScene(t, "cycle.json", `{
	  "objects": [
	    {"name": "a", "parent": "b", "rotation": {"1": [1, 0, 0, 0]}},
	    {"name": "b", "parent": "a", "rotation": {"1": [1, 0, 0, 0]}}
	  ]
	}`))
	require.NoError(t, err)

	// Local lookups still work; world-space resolution reports the cycle.
	_, err = s.Orientation("a", 1, false)
	require.NoError(t, err)
	_, err = s.Orientation("a", 1, true)
	assert.ErrorContains(t, err, "cycle")
}
