package track

import "anim-exporter/internal/mathutil"

// ClosestEquivalent finds the Euler-equivalent of cur that is numerically
// closest to prev by shifting each axis by whole turns. full is the full-turn
// constant (360 for degrees, 2π for radians) and maxShift bounds the search
// to shifts in [-maxShift, maxShift] per axis, so (2·maxShift+1)³ candidates
// are scored by squared Euclidean distance to prev.
//
// Candidates are enumerated in ascending lexicographic order on
// (kx, ky, kz) and ties keep the first candidate seen, so the selection is
// deterministic. A nil prev (no history yet) returns cur unchanged.
//
// This defeats wrap artifacts such as 179° → -179°, where the underlying
// rotation moved 2° but the naive angle representation jumps 358°.
func ClosestEquivalent(prev *mathutil.Vec3, cur mathutil.Vec3, full float64, maxShift int) mathutil.Vec3 {
	if prev == nil || maxShift <= 0 {
		return cur
	}

	var best mathutil.Vec3
	var bestDist float64
	first := true

	for kx := -maxShift; kx <= maxShift; kx++ {
		for ky := -maxShift; ky <= maxShift; ky++ {
			for kz := -maxShift; kz <= maxShift; kz++ {
				cand := mathutil.Vec3{
					cur[0] + float64(kx)*full,
					cur[1] + float64(ky)*full,
					cur[2] + float64(kz)*full,
				}
				d := cand.Sub(*prev)
				dist := d.Dot(d)
				if first || dist < bestDist {
					best = cand
					bestDist = dist
					first = false
				}
			}
		}
	}

	return best
}
