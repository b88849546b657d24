package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/journal"
	"bizdesk/internal/infrastructure/storage/memory"
)

func TestService_Entries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC)
	svc := journal.NewService(memory.NewStore().Journal(), journal.WithClock(func() time.Time { return now }))
	owner := id.New()

	first, err := svc.Create(ctx, owner, journal.Input{
		Date: now.AddDate(0, 0, -1), Title: " Slow Monday ", Content: "Rain all day.", Mood: journal.MoodDifficult,
	})
	require.NoError(t, err)
	assert.Equal(t, "Slow Monday", first.Title)
	assert.Equal(t, journal.CategoryBusiness, first.Category)

	second, err := svc.Create(ctx, owner, journal.Input{Title: "Goals", Content: "Open a second stall.", Category: journal.CategoryGoals})
	require.NoError(t, err)
	assert.Equal(t, now, second.Date)
	assert.Equal(t, journal.MoodNeutral, second.Mood)

	_, err = svc.Create(ctx, owner, journal.Input{Title: "x", Content: " "})
	assert.True(t, apperror.IsValidation(err))
	_, err = svc.Create(ctx, owner, journal.Input{Title: "x", Content: "y", Mood: "ecstatic"})
	assert.True(t, apperror.IsValidation(err))

	list, err := svc.List(ctx, owner, journal.Filter{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.ID, list.Items[0].ID, "newest first")

	list, err = svc.List(ctx, owner, journal.Filter{Search: "RAIN"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, first.ID, list.Items[0].ID)

	goals := journal.CategoryGoals
	list, err = svc.List(ctx, owner, journal.Filter{Category: &goals})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)

	updated, err := svc.Update(ctx, owner, first.ID, journal.Input{Title: "Slow Monday", Content: "Rain, then sun.", Mood: journal.MoodGood})
	require.NoError(t, err)
	assert.Equal(t, journal.MoodGood, updated.Mood)
	assert.Equal(t, first.Date, updated.Date, "a zero date keeps the entry's date")

	_, err = svc.Get(ctx, id.New(), first.ID)
	assert.True(t, apperror.IsNotFound(err))
	require.NoError(t, svc.Delete(ctx, owner, first.ID))
	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, owner, first.ID)))
}
