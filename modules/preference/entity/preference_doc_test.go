package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	availability "meetquorum/modules/availability/entity"
)

func TestParseDoc(t *testing.T) {
	t.Parallel()

	doc := `{
		"version": 1,
		"prefer": [
			{"label": "mornings", "days_of_week": ["mon", "tue"], "start": "09:00", "end": "12:00", "weight": 2}
		],
		"avoid": [
			{"label": "lunch", "start": "12:00", "end": "13:00", "weight": 1.5}
		]
	}`

	rules, err := ParseDoc([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, []availability.PreferenceRule{
		{
			Label:       "mornings",
			DaysOfWeek:  []time.Weekday{time.Monday, time.Tuesday},
			StartMinute: 9 * 60,
			EndMinute:   12 * 60,
			Weight:      2,
		},
		{
			Label:       "lunch",
			StartMinute: 12 * 60,
			EndMinute:   13 * 60,
			Weight:      -1.5,
		},
	}, rules)
}

func TestParseDocNormalizesAvoidWeightsToNegative(t *testing.T) {
	t.Parallel()

	// An author who already wrote a negative weight in the avoid list keeps it.
	rules, err := ParseDoc([]byte(`{"avoid":[{"label":"late","start":"18:00","end":"20:00","weight":-3}]}`))
	require.NoError(t, err)
	require.Equal(t, -3.0, rules[0].Weight)
}

func TestParseDocEmptyIsNeutral(t *testing.T) {
	t.Parallel()

	rules, err := ParseDoc([]byte(`{"version":1}`))
	require.NoError(t, err)
	require.Empty(t, rules)
}

func TestParseDocFailsClosed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":        `{`,
		"future version":  `{"version":2,"prefer":[{"label":"a","start":"09:00","end":"10:00","weight":1}]}`,
		"bad clock":       `{"prefer":[{"label":"a","start":"9am","end":"10:00","weight":1}]}`,
		"inverted window": `{"prefer":[{"label":"a","start":"10:00","end":"09:00","weight":1}]}`,
		"zero weight":     `{"prefer":[{"label":"a","start":"09:00","end":"10:00","weight":0}]}`,
		"unknown day":     `{"prefer":[{"label":"a","days_of_week":["funday"],"start":"09:00","end":"10:00","weight":1}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rules, err := ParseDoc([]byte(doc))
			require.Error(t, err)
			require.Nil(t, rules, "a bad document must not yield partial rules")
		})
	}
}
