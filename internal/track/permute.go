package track

import (
	"fmt"

	"anim-exporter/internal/mathutil"
)

// Permutation relabels the three output axes. Output slot i carries the
// value of the input axis named by the code's i-th letter: "YXZ" maps
// (x, y, z) to (y, x, z). Presentation-only; it never changes rotation
// semantics and must run after every numeric stage.
type Permutation string

// The six axis orderings.
const (
	PermXYZ Permutation = "XYZ"
	PermXZY Permutation = "XZY"
	PermYXZ Permutation = "YXZ"
	PermYZX Permutation = "YZX"
	PermZXY Permutation = "ZXY"
	PermZYX Permutation = "ZYX"
)

var axisIndex = map[byte]int{'X': 0, 'Y': 1, 'Z': 2}

// ParsePermutation validates a permutation code. An empty string means
// no swap (XYZ).
func ParsePermutation(code string) (Permutation, error) {
	if code == "" {
		return PermXYZ, nil
	}
	switch Permutation(code) {
	case PermXYZ, PermXZY, PermYXZ, PermYZX, PermZXY, PermZYX:
		return Permutation(code), nil
	}
	return "", fmt.Errorf("track: invalid axis permutation %q", code)
}

// Apply reorders v according to the permutation code. The zero value
// means no swap.
func (p Permutation) Apply(v mathutil.Vec3) mathutil.Vec3 {
	if p == "" {
		return v
	}
	return mathutil.Vec3{
		v[axisIndex[p[0]]],
		v[axisIndex[p[1]]],
		v[axisIndex[p[2]]],
	}
}

// Inverse returns the permutation that undoes p.
func (p Permutation) Inverse() Permutation {
	if p == "" {
		return PermXYZ
	}
	inv := []byte{0, 0, 0}
	for i := 0; i < 3; i++ {
		inv[axisIndex[p[i]]] = "XYZ"[i]
	}
	return Permutation(inv)
}
