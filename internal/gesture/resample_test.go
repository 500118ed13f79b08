package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResample_Length(t *testing.T) {
	inputs := map[string]Trajectory{
		"short":   line(2, 0, 0),
		"long":    line(137, 0, 0),
		"gappy":   {{}, P(0, 0), {}, {}, P(4, 4), {}},
		"single":  {{}, P(1, 1), {}},
		"invalid": {{}, {}, {}},
	}
	for name, in := range inputs {
		for _, n := range []int{1, 2, 20, 57} {
			got, err := Resample(in, n)
			require.NoError(t, err)
			assert.Len(t, got, n, "%s resampled to %d", name, n)
		}
	}
}

func TestResample_Empty(t *testing.T) {
	got, err := Resample(nil, DefaultFrames)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResample_BadSize(t *testing.T) {
	_, err := Resample(line(3, 0, 0), 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestResample_AllInvalid(t *testing.T) {
	got, err := Resample(Trajectory{{}, {}, {}, {}}, DefaultFrames)
	require.NoError(t, err)
	require.Len(t, got, DefaultFrames)
	for i, p := range got {
		assert.False(t, p.Valid, "sample %d", i)
	}
}

// TestResample_SingleValid: the lone valid sample is repeated exactly.
func TestResample_SingleValid(t *testing.T) {
	v := P(0.1234567891, -9.87654321)
	got, err := Resample(Trajectory{{}, {}, v, {}}, DefaultFrames)
	require.NoError(t, err)
	require.Len(t, got, DefaultFrames)
	for i, p := range got {
		assert.Equal(t, v, p, "sample %d", i)
	}
}

func TestResample_InterpolatesGaps(t *testing.T) {
	in := Trajectory{P(0, 0), {}, P(2, 4), P(3, 6)}

	got, err := Resample(in, 4)
	require.NoError(t, err)

	want := []Point{P(0, 0), P(1, 2), P(2, 4), P(3, 6)}
	for i := range want {
		assert.True(t, got[i].Valid)
		assert.InDelta(t, want[i].X, got[i].X, 1e-12, "x[%d]", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-12, "y[%d]", i)
	}
}

// TestResample_SpansValidRange: leading and trailing gaps are trimmed, the
// samples span the first to last valid frame.
func TestResample_SpansValidRange(t *testing.T) {
	in := Trajectory{{}, P(1, 1), P(3, 3), {}}

	got, err := Resample(in, 3)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, got[0].X, 1e-12)
	assert.InDelta(t, 2.0, got[1].X, 1e-12)
	assert.InDelta(t, 3.0, got[2].X, 1e-12)
	assert.Equal(t, 3, got.ValidCount())
}

func TestResample_SizeOne(t *testing.T) {
	got, err := Resample(Trajectory{{}, P(5, 6), P(7, 8)}, 1)
	require.NoError(t, err)
	assert.Equal(t, Trajectory{P(5, 6)}, got)
}
