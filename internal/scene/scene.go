// Package scene provides a file-backed sample source: named objects with
// per-frame orientation, position and scale samples, loaded from JSON or
// YAML. It stands in for a live host runtime as the input side of the
// export pipeline.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"anim-exporter/internal/mathutil"

	"gopkg.in/yaml.v3"
)

// ErrSampleUnavailable is wrapped by every lookup failure: unknown object,
// missing channel or missing frame. Sampling failures are fatal for a run;
// there is no interpolation between frames and no retry.
var ErrSampleUnavailable = errors.New("sample unavailable")

// Object is one tracked node. Sample maps are keyed by frame index;
// quaternions are stored [w, x, y, z] in scene files.
type Object struct {
	Name     string                `json:"name" yaml:"name"`
	Parent   string                `json:"parent,omitempty" yaml:"parent,omitempty"`
	Rotation map[int][4]float64    `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Position map[int]mathutil.Vec3 `json:"position,omitempty" yaml:"position,omitempty"`
	Scale    map[int]mathutil.Vec3 `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// Scene is a set of objects indexed by name. It implements track.Source.
type Scene struct {
	Objects []Object `json:"objects" yaml:"objects"`

	byName map[string]*Object
}

// Load reads a scene file. The format is chosen by extension: .yaml/.yml
// parse as YAML, everything else as JSON.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var s Scene
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	if err := s.index(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) index() error {
	s.byName = make(map[string]*Object, len(s.Objects))
	for i := range s.Objects {
		obj := &s.Objects[i]
		if obj.Name == "" {
			return fmt.Errorf("scene: object %d has no name", i)
		}
		if _, dup := s.byName[obj.Name]; dup {
			return fmt.Errorf("scene: duplicate object %q", obj.Name)
		}
		s.byName[obj.Name] = obj
	}
	for _, obj := range s.byName {
		if obj.Parent == "" {
			continue
		}
		if _, ok := s.byName[obj.Parent]; !ok {
			return fmt.Errorf("scene: object %q has unknown parent %q", obj.Name, obj.Parent)
		}
	}
	return nil
}

// Names lists all object names in scene-file order.
func (s *Scene) Names() []string {
	names := make([]string, len(s.Objects))
	for i, obj := range s.Objects {
		names[i] = obj.Name
	}
	return names
}

func (s *Scene) object(name string) (*Object, error) {
	obj, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("scene: unknown object %q: %w", name, ErrSampleUnavailable)
	}
	return obj, nil
}

// chain returns the object's ancestry, root first, so world transforms
// compose in one forward pass the way bone hierarchies chain parent
// matrices before children.
func (s *Scene) chain(obj *Object) ([]*Object, error) {
	var rev []*Object
	for cur := obj; cur != nil; {
		for _, seen := range rev {
			if seen == cur {
				return nil, fmt.Errorf("scene: parent cycle through %q", cur.Name)
			}
		}
		rev = append(rev, cur)
		if cur.Parent == "" {
			break
		}
		cur = s.byName[cur.Parent]
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev, nil
}

func (o *Object) localOrientation(frame int) (mathutil.Quat, error) {
	raw, ok := o.Rotation[frame]
	if !ok {
		return mathutil.Quat{}, fmt.Errorf("scene: object %q has no rotation sample at frame %d: %w",
			o.Name, frame, ErrSampleUnavailable)
	}
	// Files store [w,x,y,z]; mathutil.Quat is (x,y,z,w).
	q := mathutil.Quat{raw[1], raw[2], raw[3], raw[0]}
	return q.Normalize(), nil
}

// Orientation returns the object's rotation at a frame. In world space the
// parent chain composes root-down: world = parent_world ⊗ local.
func (s *Scene) Orientation(name string, frame int, world bool) (mathutil.Quat, error) {
	obj, err := s.object(name)
	if err != nil {
		return mathutil.Quat{}, err
	}

	if !world {
		return obj.localOrientation(frame)
	}

	chain, err := s.chain(obj)
	if err != nil {
		return mathutil.Quat{}, err
	}
	q := mathutil.QuatIdentity()
	for _, link := range chain {
		local, err := link.localOrientation(frame)
		if err != nil {
			return mathutil.Quat{}, err
		}
		q = mathutil.QuatMul(q, local)
	}
	return q.Normalize(), nil
}

// Position returns the object's translation at a frame. World space rotates
// each local offset by the accumulated parent orientation before adding it.
func (s *Scene) Position(name string, frame int, world bool) (mathutil.Vec3, error) {
	obj, err := s.object(name)
	if err != nil {
		return mathutil.Vec3{}, err
	}

	if !world {
		return obj.localPosition(frame)
	}

	chain, err := s.chain(obj)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	pos := mathutil.Vec3{}
	rot := mathutil.QuatIdentity()
	for _, link := range chain {
		local, err := link.localPosition(frame)
		if err != nil {
			return mathutil.Vec3{}, err
		}
		pos = pos.Add(rot.Rotate(local))
		q, err := link.localOrientation(frame)
		if err != nil {
			return mathutil.Vec3{}, err
		}
		rot = mathutil.QuatMul(rot, q)
	}
	return pos, nil
}

// Scale returns the object's scale at a frame. World space multiplies
// scales elementwise along the parent chain; shear from rotated
// non-uniform parent scales is not modeled.
func (s *Scene) Scale(name string, frame int, world bool) (mathutil.Vec3, error) {
	obj, err := s.object(name)
	if err != nil {
		return mathutil.Vec3{}, err
	}

	if !world {
		return obj.localScale(frame)
	}

	chain, err := s.chain(obj)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	scale := mathutil.Vec3{1, 1, 1}
	for _, link := range chain {
		local, err := link.localScale(frame)
		if err != nil {
			return mathutil.Vec3{}, err
		}
		scale = scale.Mul(local)
	}
	return scale, nil
}

func (o *Object) localPosition(frame int) (mathutil.Vec3, error) {
	v, ok := o.Position[frame]
	if !ok {
		return mathutil.Vec3{}, fmt.Errorf("scene: object %q has no position sample at frame %d: %w",
			o.Name, frame, ErrSampleUnavailable)
	}
	return v, nil
}

func (o *Object) localScale(frame int) (mathutil.Vec3, error) {
	v, ok := o.Scale[frame]
	if !ok {
		return mathutil.Vec3{}, fmt.Errorf("scene: object %q has no scale sample at frame %d: %w",
			o.Name, frame, ErrSampleUnavailable)
	}
	return v, nil
}
