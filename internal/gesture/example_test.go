package gesture_test

import (
	"context"
	"fmt"

	"github.com/ayusman/signmatch/internal/dtw"
	"github.com/ayusman/signmatch/internal/gesture"
)

func ExampleMatcher_Rank() {
	build := gesture.NewBuilder(gesture.DefaultFrames)
	ramp := func(n int, slope float64) gesture.Trajectory {
		t := make(gesture.Trajectory, n)
		for i := range t {
			t[i] = gesture.P(float64(i), slope*float64(i))
		}
		return t
	}

	var library []*gesture.Profile
	for _, rec := range []gesture.Recording{
		{ID: "flat", OneHanded: true, Dominant: ramp(30, 0)},
		{ID: "rise", OneHanded: true, Dominant: ramp(24, 1)},
	} {
		p, err := build.Build(rec)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		library = append(library, p)
	}

	query, _ := build.Build(gesture.Recording{ID: "q", OneHanded: true, Dominant: ramp(24, 1)})

	comparator := gesture.NewComparator(dtw.NewAligner(1), gesture.DefaultWeights(), nil)
	matches, err := gesture.NewMatcher(comparator, 0, nil).Rank(context.Background(), query, library, 5)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, m := range matches {
		fmt.Printf("%s %.0f%%\n", m.ID, m.Similarity)
	}
	// Output:
	// rise 100%
	// flat 0%
}
