package track

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"anim-exporter/internal/mathutil"
)

// ErrNoObjects is returned when a run is started with an empty object set.
var ErrNoObjects = errors.New("track: no objects to export")

// Source supplies raw per-frame transform samples for named objects.
// Orientation must be a unit quaternion. world selects world-space samples
// (parent transforms applied) over local ones.
type Source interface {
	Orientation(object string, frame int, world bool) (mathutil.Quat, error)
	Position(object string, frame int, world bool) (mathutil.Vec3, error)
	Scale(object string, frame int, world bool) (mathutil.Vec3, error)
}

// Options is the immutable per-run configuration of the assembler.
type Options struct {
	Start int // inclusive
	End   int // inclusive
	Step  int // >= 1

	WorldSpace bool
	Workers    int

	// Rotation channel.
	Rotation    bool
	Degrees     bool
	Invert      [3]bool // sign flip per axis, applied before the unwrap search
	Permutation Permutation
	ZeroAtStart bool
	UseUnwrap   bool
	MaxShift    int // unwrap search bound, 0–3

	// Position channel.
	Position       bool
	PosMultiplier  float64
	InvertPos      [3]bool
	PosPermutation Permutation

	// Scale channel.
	Scale            bool
	NormalizeScale   bool
	ScalePermutation Permutation
}

// Bone holds the assembled channels for one object. Disabled channels
// are nil.
type Bone struct {
	Rotation *Channel
	Position *Channel
	Scale    *Channel
}

// Run assembles the enabled channels for every object. Objects have
// disjoint continuity state and are processed concurrently by a bounded
// worker pool; within one object frames are strictly sequential because
// each frame's continuity and unwrap state depends on the previous one.
//
// All-or-nothing: if any object fails at any frame the whole run fails
// and no partial result is returned. No retries.
func Run(opts Options, src Source, objects []string) (map[string]*Bone, error) {
	if len(objects) == 0 {
		return nil, ErrNoObjects
	}

	bones := make([]*Bone, len(objects))
	errs := make([]error, len(objects))

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(objects) {
		workers = len(objects)
	}

	idxChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				bones[idx], errs[idx] = assembleObject(opts, src, objects[idx])
			}
		}()
	}

	for i := range objects {
		idxChan <- i
	}
	close(idxChan)
	wg.Wait()

	// First failure in input order wins, so error reporting is
	// deterministic regardless of worker scheduling.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]*Bone, len(objects))
	for i, name := range objects {
		out[name] = bones[i]
	}
	return out, nil
}

// assembleObject walks one object's frame range through the full pipeline.
// Stage order is fixed: continuity → Euler conversion → inversion → unwrap
// search → baseline zeroing → axis permutation. Each stage assumes the
// previous one already ran; in particular the unwrap search measures
// distance in un-permuted, un-zeroed axis space across frames.
func assembleObject(opts Options, src Source, name string) (*Bone, error) {
	bone := &Bone{}
	if opts.Rotation {
		bone.Rotation = &Channel{}
	}
	if opts.Position {
		bone.Position = &Channel{}
	}
	if opts.Scale {
		bone.Scale = &Channel{}
	}

	full := 360.0
	if !opts.Degrees {
		full = 2 * math.Pi
	}

	state := &State{}
	var baseRot, basePos, baseScale *mathutil.Vec3

	for frame := opts.Start; frame <= opts.End; frame += opts.Step {
		if opts.Rotation {
			q, err := src.Orientation(name, frame, opts.WorldSpace)
			if err != nil {
				return nil, fmt.Errorf("track: object %q frame %d: %w", name, frame, err)
			}

			q = state.Filter(q)
			e := mathutil.QuatToEuler(q)
			if opts.Degrees {
				e = mathutil.Vec3{mathutil.Rad2Deg(e[0]), mathutil.Rad2Deg(e[1]), mathutil.Rad2Deg(e[2])}
			}
			for i, inv := range opts.Invert {
				if inv {
					e[i] = -e[i]
				}
			}

			// The zeroing baseline is the start frame's pre-unwrap
			// triple; on the first frame the search has no history,
			// so pre- and post-unwrap values coincide there.
			if baseRot == nil {
				b := e
				baseRot = &b
			}

			if opts.UseUnwrap {
				e = ClosestEquivalent(state.LastEuler(), e, full, opts.MaxShift)
			}
			state.SetLastEuler(e)

			if opts.ZeroAtStart {
				e = e.Sub(*baseRot)
			}

			bone.Rotation.Append(frame, opts.Permutation.Apply(e))
		}

		if opts.Position {
			p, err := src.Position(name, frame, opts.WorldSpace)
			if err != nil {
				return nil, fmt.Errorf("track: object %q frame %d: %w", name, frame, err)
			}

			if basePos == nil {
				b := p
				basePos = &b
			}

			p = p.Sub(*basePos).Scale(opts.PosMultiplier)
			for i, inv := range opts.InvertPos {
				if inv {
					p[i] = -p[i]
				}
			}

			// Position keys are relative to the start frame.
			bone.Position.Append(frame-opts.Start, opts.PosPermutation.Apply(p))
		}

		if opts.Scale {
			s, err := src.Scale(name, frame, opts.WorldSpace)
			if err != nil {
				return nil, fmt.Errorf("track: object %q frame %d: %w", name, frame, err)
			}

			if baseScale == nil {
				b := s
				baseScale = &b
			}

			if opts.NormalizeScale {
				s = mathutil.Vec3{
					s[0] / nonZero((*baseScale)[0]),
					s[1] / nonZero((*baseScale)[1]),
					s[2] / nonZero((*baseScale)[2]),
				}
			}

			bone.Scale.Append(frame, opts.ScalePermutation.Apply(s))
		}
	}

	return bone, nil
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
