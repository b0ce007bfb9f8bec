package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"meetquorum/modules/decision/entity"
)

func slotAt(id string, hour int) entity.SlotRef {
	return entity.SlotRef{
		ID:    id,
		Start: time.Date(2026, 9, 7, hour, 0, 0, 0, time.UTC),
	}
}

func selected(key, slotID string) entity.Selection {
	return entity.Selection{
		ParticipantKey: key,
		SlotID:         &slotID,
		Status:         entity.SelectionSelected,
	}
}

func withStatus(key string, status entity.SelectionStatus) entity.Selection {
	return entity.Selection{ParticipantKey: key, Status: status}
}

func TestEvaluateAny(t *testing.T) {
	t.Parallel()

	slots := []entity.SlotRef{slotAt("late", 15), slotAt("early", 9)}

	t.Run("no selections", func(t *testing.T) {
		t.Parallel()
		res := RuleEngine{}.Evaluate(entity.AnyRule{}, nil, slots)
		require.False(t, res.Finalized)
		require.NotEmpty(t, res.Reason)
	})

	t.Run("earliest slot wins over array order", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{selected("alice", "late"), selected("bob", "early")}
		res := RuleEngine{}.Evaluate(entity.AnyRule{}, sels, slots)
		require.True(t, res.Finalized)
		require.Equal(t, "early", res.SlotID)
		require.Equal(t, []string{"bob"}, res.Participants)
	})
}

func TestEvaluateAll(t *testing.T) {
	t.Parallel()

	rule := entity.AllRule{Participants: []string{"alice", "bob"}}
	slots := []entity.SlotRef{slotAt("x", 9), slotAt("y", 11)}

	t.Run("exact set finalizes", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{selected("alice", "x"), selected("bob", "x")}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.True(t, res.Finalized)
		require.Equal(t, "x", res.SlotID)
		require.Equal(t, []string{"alice", "bob"}, res.Participants)
	})

	t.Run("missing participant blocks and reason names them", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{selected("alice", "x")}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.False(t, res.Finalized)
		require.Contains(t, res.Reason, "bob")
	})

	t.Run("extra participant blocks", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{
			selected("alice", "x"), selected("bob", "x"), selected("carol", "x"),
		}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.False(t, res.Finalized)
	})

	t.Run("split across slots does not finalize", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{selected("alice", "x"), selected("bob", "y")}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.False(t, res.Finalized)
	})

	t.Run("empty required set never finalizes", func(t *testing.T) {
		t.Parallel()
		empty := entity.AllRule{Participants: nil}
		res := RuleEngine{}.Evaluate(empty, nil, slots)
		require.False(t, res.Finalized)
		require.Empty(t, res.SlotID)
		require.Equal(t, "no required participants", res.Reason)

		res = RuleEngine{}.Evaluate(empty, []entity.Selection{selected("zed", "x")}, slots)
		require.False(t, res.Finalized)
	})
}

func TestEvaluateKOfN(t *testing.T) {
	t.Parallel()

	rule := entity.KOfNRule{Participants: []string{"a", "b", "c"}, K: 2}
	slots := []entity.SlotRef{slotAt("slotX", 9), slotAt("slotY", 14)}

	t.Run("two of three on a common slot finalizes it", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{
			selected("a", "slotX"), selected("b", "slotX"), selected("c", "slotY"),
		}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.True(t, res.Finalized)
		require.Equal(t, "slotX", res.SlotID)
		require.Equal(t, []string{"a", "b"}, res.Participants)
	})

	t.Run("selections outside the pool never count", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{selected("a", "slotX"), selected("stranger", "slotX")}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.False(t, res.Finalized)
		require.Contains(t, res.Reason, "2 of 3")
	})

	t.Run("earliest qualifying slot wins", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{
			selected("a", "slotY"), selected("b", "slotY"),
			selected("b", "slotX"), selected("c", "slotX"),
		}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.True(t, res.Finalized)
		require.Equal(t, "slotX", res.SlotID)
	})
}

func TestEvaluateRequiredPlusK(t *testing.T) {
	t.Parallel()

	rule := entity.RequiredPlusKRule{
		Required: []string{"lead"},
		Optional: []string{"o1", "o2", "o3"},
		Quorum:   2,
	}
	slots := []entity.SlotRef{slotAt("s1", 10)}

	t.Run("required plus quorum finalizes", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{
			selected("lead", "s1"), selected("o1", "s1"), selected("o3", "s1"),
		}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.True(t, res.Finalized)
		require.Equal(t, []string{"lead", "o1", "o3"}, res.Participants)
	})

	t.Run("quorum without required does not finalize", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{
			selected("o1", "s1"), selected("o2", "s1"), selected("o3", "s1"),
		}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.False(t, res.Finalized)
		require.Contains(t, res.Reason, "lead")
	})

	t.Run("required without quorum does not finalize", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{selected("lead", "s1"), selected("o1", "s1")}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.False(t, res.Finalized)
		require.Contains(t, res.Reason, "1 of 2")
	})
}

func TestEvaluateGroupAny(t *testing.T) {
	t.Parallel()

	rule := entity.GroupAnyRule{Groups: []entity.RuleGroup{
		{ID: "oncall", Members: []string{"a", "b"}},
		{ID: "backup", Members: []string{"c"}},
	}}
	slots := []entity.SlotRef{slotAt("s1", 10), slotAt("s2", 12)}

	t.Run("any group member finalizes the earliest selected slot", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{selected("c", "s2"), selected("b", "s1")}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.True(t, res.Finalized)
		require.Equal(t, "s1", res.SlotID)
		require.Equal(t, []string{"b"}, res.Participants)
	})

	t.Run("non-member selections do not finalize", func(t *testing.T) {
		t.Parallel()
		sels := []entity.Selection{selected("stranger", "s1")}
		res := RuleEngine{}.Evaluate(rule, sels, slots)
		require.False(t, res.Finalized)
		require.NotEmpty(t, res.Reason)
	})
}

func TestEvaluateIgnoresNonSelectedStatuses(t *testing.T) {
	t.Parallel()

	slots := []entity.SlotRef{slotAt("s1", 10)}
	sels := []entity.Selection{
		withStatus("a", entity.SelectionPending),
		withStatus("b", entity.SelectionDeclined),
		withStatus("c", entity.SelectionExpired),
	}
	res := RuleEngine{}.Evaluate(entity.AnyRule{}, sels, slots)
	require.False(t, res.Finalized)
}

func TestEvaluateUnknownSlotTreatedAsUnsatisfied(t *testing.T) {
	t.Parallel()

	slots := []entity.SlotRef{slotAt("s1", 10)}
	sels := []entity.Selection{selected("a", "vanished")}
	res := RuleEngine{}.Evaluate(entity.AnyRule{}, sels, slots)
	require.False(t, res.Finalized)
	require.NotEmpty(t, res.Reason)
}

func TestEvaluateDeterministic(t *testing.T) {
	t.Parallel()

	rule := entity.KOfNRule{Participants: []string{"a", "b", "c", "d"}, K: 2}
	slots := []entity.SlotRef{slotAt("s2", 14), slotAt("s1", 9), slotAt("s3", 16)}
	sels := []entity.Selection{
		selected("d", "s2"), selected("a", "s1"),
		selected("c", "s1"), selected("b", "s2"),
	}

	first := RuleEngine{}.Evaluate(rule, sels, slots)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, RuleEngine{}.Evaluate(rule, sels, slots))
	}
	require.True(t, first.Finalized)
	require.Equal(t, "s1", first.SlotID)
	require.Equal(t, []string{"a", "c"}, first.Participants)
}

func TestRuleCodecRoundTrip(t *testing.T) {
	t.Parallel()

	rules := []entity.AttendanceRule{
		entity.AnyRule{},
		entity.AllRule{Participants: []string{"a", "b"}},
		entity.KOfNRule{Participants: []string{"a", "b", "c"}, K: 2},
		entity.RequiredPlusKRule{Required: []string{"lead"}, Optional: []string{"o1", "o2"}, Quorum: 1},
		entity.GroupAnyRule{Groups: []entity.RuleGroup{{ID: "g1", Members: []string{"a"}}}},
	}
	for _, rule := range rules {
		data, err := entity.MarshalRule(rule)
		require.NoError(t, err)

		decoded, err := entity.UnmarshalRule(data)
		require.NoError(t, err)
		require.Equal(t, rule, decoded)
	}
}

func TestRuleCodecRejectsBadDocuments(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown type":       `{"version":1,"type":"MAJORITY"}`,
		"future version":     `{"version":2,"type":"ANY"}`,
		"k out of range":     `{"version":1,"type":"K_OF_N","participants":["a"],"k":5}`,
		"all without people": `{"version":1,"type":"ALL"}`,
		"quorum too large":   `{"version":1,"type":"REQUIRED_PLUS_K","required":["r"],"optional":["o"],"quorum":3}`,
		"not json":           `{`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := entity.UnmarshalRule([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestRuleCodecAcceptsLegacyUnversionedDocument(t *testing.T) {
	t.Parallel()

	decoded, err := entity.UnmarshalRule([]byte(`{"type":"K_OF_N","participants":["a","b"],"k":1}`))
	require.NoError(t, err)
	require.Equal(t, entity.KOfNRule{Participants: []string{"a", "b"}, K: 1}, decoded)
}
