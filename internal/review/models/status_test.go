package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
)

func TestParseStatus(t *testing.T) {
	t.Run("accepts all lifecycle states", func(t *testing.T) {
		for _, raw := range []string{"draft", "under_review", "active", "inactive", "rejected"} {
			s, err := ParseStatus(raw)
			require.NoError(t, err, raw)
			assert.True(t, s.IsValid())
		}
	})

	t.Run("canonicalizes case and whitespace", func(t *testing.T) {
		s, err := ParseStatus("  Under_Review ")
		require.NoError(t, err)
		assert.Equal(t, StatusUnderReview, s)
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := ParseStatus("bogus")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseStatus("")
		require.Error(t, err)
	})
}

func TestDefaultTransitions(t *testing.T) {
	table := DefaultTransitions()

	legal := [][2]Status{
		{StatusDraft, StatusUnderReview},
		{StatusUnderReview, StatusActive},
		{StatusUnderReview, StatusRejected},
		{StatusActive, StatusInactive},
		{StatusInactive, StatusActive},
		{StatusRejected, StatusUnderReview},
	}
	for _, pair := range legal {
		assert.True(t, table.CanTransition(pair[0], pair[1]), "%s -> %s should be legal", pair[0], pair[1])
	}

	illegal := [][2]Status{
		{StatusDraft, StatusActive},
		{StatusDraft, StatusRejected},
		{StatusActive, StatusDraft},
		{StatusActive, StatusRejected},
		{StatusRejected, StatusActive},
		{StatusInactive, StatusRejected},
		// no self-loops
		{StatusUnderReview, StatusUnderReview},
		{StatusActive, StatusActive},
	}
	for _, pair := range illegal {
		assert.False(t, table.CanTransition(pair[0], pair[1]), "%s -> %s should be illegal", pair[0], pair[1])
	}
}
