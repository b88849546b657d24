// Package journal keeps the owner's business journal: dated free-text
// entries tagged with a mood and a category.
package journal

import (
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
)

// Mood is how the day went.
type Mood string

const (
	MoodExcellent   Mood = "excellent"
	MoodGood        Mood = "good"
	MoodNeutral     Mood = "neutral"
	MoodDifficult   Mood = "difficult"
	MoodChallenging Mood = "challenging"
)

// IsValid reports whether m is a known mood.
func (m Mood) IsValid() bool {
	switch m {
	case MoodExcellent, MoodGood, MoodNeutral, MoodDifficult, MoodChallenging:
		return true
	}
	return false
}

// Category groups entries.
type Category string

const (
	CategoryBusiness   Category = "business"
	CategoryPersonal   Category = "personal"
	CategoryGoals      Category = "goals"
	CategoryReflection Category = "reflection"
	CategoryIdeas      Category = "ideas"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBusiness, CategoryPersonal, CategoryGoals, CategoryReflection, CategoryIdeas:
		return true
	}
	return false
}

// Entry is one journal page.
type Entry struct {
	ID        id.ID     `db:"id" json:"id"`
	OwnerID   id.ID     `db:"owner_id" json:"ownerId"`
	Date      time.Time `db:"date" json:"date"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Mood      Mood      `db:"mood" json:"mood"`
	Category  Category  `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks entry fields.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return apperror.NewValidation("title is required").WithDetail("field", "title")
	}
	if strings.TrimSpace(e.Content) == "" {
		return apperror.NewValidation("content is required").WithDetail("field", "content")
	}
	if !e.Mood.IsValid() {
		return apperror.NewValidation("invalid mood").WithDetail("field", "mood")
	}
	if !e.Category.IsValid() {
		return apperror.NewValidation("invalid category").WithDetail("field", "category")
	}
	return nil
}
