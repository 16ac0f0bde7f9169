package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailbook/backend/internal/domain"
)

func TestAnsweredMoments_DropsBlankResponses(t *testing.T) {
	in := []domain.Moment{
		{Prompt: domain.DefaultPrompts[0], Response: "Ramen by the harbour"},
		{Prompt: domain.DefaultPrompts[1], Response: "   \n\t"},
		{Prompt: domain.DefaultPrompts[2], Response: ""},
		{Prompt: domain.DefaultPrompts[3], Response: "A ferry captain"},
	}

	got := domain.AnsweredMoments(in)

	require.Len(t, got, 2)
	assert.Equal(t, "Ramen by the harbour", got[0].Response)
	assert.Equal(t, "A ferry captain", got[1].Response)
}

func TestAnsweredMoments_AssignsMissingIDs(t *testing.T) {
	existing := uuid.New()
	in := []domain.Moment{
		{ID: existing, Prompt: "p1", Response: "r1"},
		{Prompt: "p2", Response: "r2"},
	}

	got := domain.AnsweredMoments(in)

	require.Len(t, got, 2)
	assert.Equal(t, existing, got[0].ID)
	assert.NotEqual(t, uuid.Nil, got[1].ID)
}

func TestAnsweredMoments_EmptyInputReturnsEmptySlice(t *testing.T) {
	got := domain.AnsweredMoments(nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
