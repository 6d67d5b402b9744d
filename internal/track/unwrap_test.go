package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"anim-exporter/internal/mathutil"
)

func TestClosestEquivalent(t *testing.T) {
	t.Parallel()

	t.Run("no history returns candidate unchanged", func(t *testing.T) {
		t.Parallel()
		cur := mathutil.Vec3{123, -45, 6}
		assert.Equal(t, cur, ClosestEquivalent(nil, cur, 360, 1))
	})

	t.Run("zero shift returns candidate unchanged", func(t *testing.T) {
		t.Parallel()
		prev := mathutil.Vec3{700, 700, 700}
		cur := mathutil.Vec3{10, 20, 30}
		assert.Equal(t, cur, ClosestEquivalent(&prev, cur, 360, 0))
	})

	t.Run("euler wrap at 180 degrees", func(t *testing.T) {
		t.Parallel()
		// The classic artifact: the rotation advanced 179° → 181° but the
		// raw decomposition reports -179°.
		prev := mathutil.Vec3{179, 0, 0}
		cur := mathutil.Vec3{-179, 0, 0}
		got := ClosestEquivalent(&prev, cur, 360, 1)
		assert.InDelta(t, 181, got[0], 1e-12)
		assert.Zero(t, got[1])
		assert.Zero(t, got[2])
	})

	t.Run("axes shift independently", func(t *testing.T) {
		t.Parallel()
		prev := mathutil.Vec3{350, -350, 5}
		cur := mathutil.Vec3{-5, 10, 8}
		got := ClosestEquivalent(&prev, cur, 360, 1)
		assert.Equal(t, mathutil.Vec3{355, -350, 8}, got)
	})

	t.Run("ties keep the first candidate in shift order", func(t *testing.T) {
		t.Parallel()
		// 0 and 360 are equidistant from 180; (0,0,0) enumerates first.
		prev := mathutil.Vec3{180, 0, 0}
		cur := mathutil.Vec3{0, 0, 0}
		assert.Equal(t, cur, ClosestEquivalent(&prev, cur, 360, 1))
	})

	t.Run("idempotent reselection", func(t *testing.T) {
		t.Parallel()
		prev := mathutil.Vec3{179, -170, 355}
		for _, cur := range []mathutil.Vec3{
			{-179, 175, -5},
			{0, 0, 0},
			{359, -359, 180},
		} {
			once := ClosestEquivalent(&prev, cur, 360, 1)
			twice := ClosestEquivalent(&prev, once, 360, 1)
			assert.Equal(t, once, twice, "cur=%v", cur)
		}
	})

	t.Run("radians use a 2 pi turn", func(t *testing.T) {
		t.Parallel()
		prev := mathutil.Vec3{3.1, 0, 0}
		cur := mathutil.Vec3{-3.1, 0, 0}
		got := ClosestEquivalent(&prev, cur, 2*math.Pi, 1)
		assert.InDelta(t, 2*math.Pi-3.1, got[0], 1e-12)
	})

	t.Run("larger shifts reach further turns", func(t *testing.T) {
		t.Parallel()
		prev := mathutil.Vec3{700, 0, 0}
		cur := mathutil.Vec3{10, 0, 0}
		assert.Equal(t, 370.0, ClosestEquivalent(&prev, cur, 360, 1)[0])
		assert.Equal(t, 730.0, ClosestEquivalent(&prev, cur, 360, 2)[0])
	})
}
