package track

import "anim-exporter/internal/mathutil"

// State holds one object's per-run history: the last continuity-filtered
// quaternion and the last exported Euler triple. Created lazily on the
// object's first frame and discarded when the run ends; never shared
// between objects.
type State struct {
	hasQuat  bool
	lastQuat mathutil.Quat

	hasEuler  bool
	lastEuler mathutil.Vec3
}

// Filter removes the quaternion sign ambiguity against the previous frame:
// when dot(prev, q) < 0 the antipode is substituted, since q and -q encode
// the identical rotation. The returned quaternion becomes the new history.
func (s *State) Filter(q mathutil.Quat) mathutil.Quat {
	if s.hasQuat && s.lastQuat.Dot(q) < 0 {
		q = q.Neg()
	}
	s.lastQuat = q
	s.hasQuat = true
	return q
}

// LastEuler returns the previously exported triple, or nil before the
// first frame.
func (s *State) LastEuler() *mathutil.Vec3 {
	if !s.hasEuler {
		return nil
	}
	e := s.lastEuler
	return &e
}

// SetLastEuler records the triple exported for the current frame.
func (s *State) SetLastEuler(e mathutil.Vec3) {
	s.lastEuler = e
	s.hasEuler = true
}
