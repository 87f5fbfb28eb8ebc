package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOrdering(t *testing.T) {
	cases := []struct {
		raw  string
		want Ordering
	}{
		{"", Ordering{Key: OrderByDate, Desc: true}},
		{"date", Ordering{Key: OrderByDate, Desc: false}},
		{"-date", Ordering{Key: OrderByDate, Desc: true}},
		{"duration", Ordering{Key: OrderByDuration, Desc: false}},
		{"-calories_burned", Ordering{Key: OrderByCalories, Desc: true}},
		{"distance", Ordering{Key: OrderByDistance, Desc: false}},
		{"nonsense", Ordering{Key: OrderByDate, Desc: true}},
		{"-nonsense", Ordering{Key: OrderByDate, Desc: true}},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, ParseOrdering(tc.raw), "raw=%q", tc.raw)
	}
}
