package gesture

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line returns n valid points moving along +x from (x0, y0).
func line(n int, x0, y0 float64) Trajectory {
	t := make(Trajectory, n)
	for i := range t {
		t[i] = P(x0+float64(i), y0)
	}
	return t
}

func patch(v float64) Patch {
	p := make(Patch, PatchLen)
	for i := range p {
		p[i] = v
	}
	return p
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
		wantErr error
	}{
		{
			name:    "nil profile",
			profile: nil,
			wantErr: ErrInvalidProfile,
		},
		{
			name:    "missing dominant",
			profile: &Profile{ID: "a", OneHanded: true},
			wantErr: ErrMissingDominant,
		},
		{
			name:    "one-handed ok",
			profile: &Profile{ID: "a", OneHanded: true, Dominant: line(4, 0, 0), OrientDominant: line(4, 0, 0), DominantStart: patch(1)},
		},
		{
			name:    "two-handed ok",
			profile: &Profile{ID: "a", Dominant: line(4, 0, 0), NonDominant: line(4, 1, 1), Delta: line(4, 2, 2)},
		},
		{
			name:    "length mismatch",
			profile: &Profile{ID: "a", Dominant: line(4, 0, 0), NonDominant: line(3, 1, 1)},
			wantErr: ErrInvalidProfile,
		},
		{
			name:    "one-handed with non-dominant channel",
			profile: &Profile{ID: "a", OneHanded: true, Dominant: line(4, 0, 0), Delta: line(4, 0, 0)},
			wantErr: ErrInvalidProfile,
		},
		{
			name:    "one-handed with non-dominant patch",
			profile: &Profile{ID: "a", OneHanded: true, Dominant: line(4, 0, 0), NonDominantEnd: patch(0)},
			wantErr: ErrInvalidProfile,
		},
		{
			name:    "short patch",
			profile: &Profile{ID: "a", Dominant: line(4, 0, 0), DominantEnd: Patch{1, 2, 3}},
			wantErr: ErrInvalidProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestErrMissingDominant_IsInvalidProfile(t *testing.T) {
	assert.ErrorIs(t, ErrMissingDominant, ErrInvalidProfile)
}

func TestProfile_ChannelAccessors(t *testing.T) {
	var p Profile
	for i, c := range Channels {
		p.SetChannel(c, line(i+1, 0, 0))
	}
	for i, c := range Channels {
		assert.Len(t, p.Channel(c), i+1, "channel %s", c)
	}
	assert.Nil(t, p.Channel("bogus"))
	p.SetChannel("bogus", line(3, 0, 0))

	for i, s := range Slots {
		p.SetPatch(s, patch(float64(i)))
	}
	assert.Equal(t, 3.0, p.NonDominantEnd[0])
	assert.Equal(t, 0.0, p.Patch(SlotDominantStart)[0])
	assert.Nil(t, p.Patch("bogus"))
}

func TestTrajectory_Coords(t *testing.T) {
	tr := Trajectory{P(1, 2), {}, P(3, 4)}

	assert.Equal(t, 2, tr.ValidCount())
	assert.False(t, tr.Degenerate())
	assert.Equal(t, [][]float64{{1, 2}, {0, 0}, {3, 4}}, tr.Coords())

	assert.True(t, Trajectory{{}, {}}.Degenerate())
	assert.True(t, Trajectory(nil).Degenerate())
}

func TestPoint_JSON(t *testing.T) {
	data, err := json.Marshal(Trajectory{P(1.5, -2), {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[[1.5,-2],null]`, string(data))

	var got Trajectory
	require.NoError(t, json.Unmarshal([]byte(`[[1,2], null, [3,4]]`), &got))
	assert.Equal(t, Trajectory{P(1, 2), {}, P(3, 4)}, got)

	assert.Error(t, json.Unmarshal([]byte(`["x"]`), &got))
}
