package track

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anim-exporter/internal/mathutil"
)

func TestRound5(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.23457, Round5(1.234567))
	assert.Equal(t, -1.23457, Round5(-1.234567))
	assert.Equal(t, 0.0, Round5(0.0000004))
	assert.Equal(t, 180.0, Round5(180.0))
}

func TestTimeKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.0000", TimeKey(0))
	assert.Equal(t, "0.0417", TimeKey(1))
	assert.Equal(t, "1.0000", TimeKey(24))
	assert.Equal(t, "10.0000", TimeKey(240))
}

func TestAnimationLength(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, AnimationLength(1, 24), 1e-12)
	assert.InDelta(t, 1.0/24, AnimationLength(5, 5), 1e-12)
}

func TestChannelAppend(t *testing.T) {
	t.Parallel()

	var c Channel
	c.Append(1, mathutil.Vec3{1.234567, 0.0000049, 90})

	require.Equal(t, 1, c.Len())
	assert.Equal(t, "0.0417", c.Keys[0].Time)
	assert.Equal(t, mathutil.Vec3{1.23457, 0, 90}, c.Keys[0].Vector)
}

func TestChannelMarshalPreservesTimeOrder(t *testing.T) {
	t.Parallel()

	var c Channel
	// Frames 24, 48, 240: "10.0000" sorts before "2.0000" as a string,
	// so a sorted-key marshal would reorder these.
	for _, frame := range []int{24, 48, 240} {
		c.Append(frame, mathutil.Vec3{float64(frame), 0, 0})
	}

	data, err := json.Marshal(&c)
	require.NoError(t, err)

	s := string(data)
	i1 := strings.Index(s, `"1.0000"`)
	i2 := strings.Index(s, `"2.0000"`)
	i3 := strings.Index(s, `"10.0000"`)
	require.True(t, i1 >= 0 && i2 >= 0 && i3 >= 0, "all keys present: %s", s)
	assert.Less(t, i1, i2)
	assert.Less(t, i2, i3)

	// The payload shape is {"<time>":{"vector":[x,y,z]}}.
	var decoded map[string]struct {
		Vector [3]float64 `json:"vector"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, [3]float64{24, 0, 0}, decoded["1.0000"].Vector)

	// Time keys strictly increase in emitted order.
	last := -1.0
	for _, k := range c.Keys {
		v, err := strconv.ParseFloat(k.Time, 64)
		require.NoError(t, err)
		assert.Greater(t, v, last)
		last = v
	}
}

func TestEmptyChannelMarshal(t *testing.T) {
	t.Parallel()

	var c Channel
	data, err := json.Marshal(&c)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
	assert.Equal(t, 0, c.Len())

	var nilChannel *Channel
	assert.Equal(t, 0, nilChannel.Len())
}
