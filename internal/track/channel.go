package track

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"anim-exporter/internal/mathutil"
)

// ExportFPS converts frame indices to time keys in seconds.
const ExportFPS = 24.0

// Keyframe is one time-keyed sample in a channel.
type Keyframe struct {
	Time   string
	Vector mathutil.Vec3
}

// Channel is an ordered sequence of keyframes. Keys are appended in frame
// order, so time is strictly increasing by construction.
type Channel struct {
	Keys []Keyframe
}

// Append rounds each component to 5 decimals, keys the sample by
// frame/ExportFPS seconds and adds it to the end of the channel.
func (c *Channel) Append(frame int, v mathutil.Vec3) {
	c.Keys = append(c.Keys, Keyframe{
		Time:   TimeKey(frame),
		Vector: mathutil.Vec3{Round5(v[0]), Round5(v[1]), Round5(v[2])},
	})
}

// Len returns the number of keyframes.
func (c *Channel) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Keys)
}

// MarshalJSON emits the channel as a JSON object keyed by time, preserving
// insertion order. A plain map would marshal with lexicographically sorted
// keys, which breaks the strictly-increasing time order ("10.0000" sorts
// before "2.0000").
func (c *Channel) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k.Time)
		if err != nil {
			return nil, err
		}
		vec, err := json.Marshal(k.Vector)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(`:{"vector":`)
		buf.Write(vec)
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TimeKey formats a frame index as elapsed seconds with exactly 4 fractional
// digits, the key format the animation sink expects.
func TimeKey(frame int) string {
	return fmt.Sprintf("%.4f", float64(frame)/ExportFPS)
}

// Round5 rounds to 5 fractional digits.
func Round5(x float64) float64 {
	return math.Round(x*1e5) / 1e5
}

// AnimationLength returns the clip duration in seconds for an inclusive
// frame range.
func AnimationLength(start, end int) float64 {
	return float64(end-start+1) / ExportFPS
}
