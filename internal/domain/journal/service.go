package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/pkg/logger"
)

// Service manages journal entries.
type Service struct {
	repo Repository
	now  func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new journal service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input holds editable entry fields. A zero Date keeps the entry's date, or
// today on create. Empty mood and category default to neutral and business.
type Input struct {
	Date     time.Time
	Title    string
	Content  string
	Mood     Mood
	Category Category
}

func (in Input) apply(e *Entry, now time.Time) {
	if !in.Date.IsZero() {
		e.Date = in.Date
	}
	e.Title = strings.TrimSpace(in.Title)
	e.Content = in.Content
	e.Mood = in.Mood
	if e.Mood == "" {
		e.Mood = MoodNeutral
	}
	e.Category = in.Category
	if e.Category == "" {
		e.Category = CategoryBusiness
	}
	e.UpdatedAt = now
}

// Create adds an entry.
func (s *Service) Create(ctx context.Context, ownerID id.ID, in Input) (*Entry, error) {
	now := s.now()
	e := &Entry{ID: id.New(), OwnerID: ownerID, Date: now, CreatedAt: now}
	in.apply(e, now)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}
	logger.Debug(ctx, "journal entry created", "entry_id", e.ID, "category", e.Category)
	return e, nil
}

// Update rewrites an entry.
func (s *Service) Update(ctx context.Context, ownerID, entryID id.ID, in Input) (*Entry, error) {
	e, err := s.repo.Get(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}
	in.apply(e, s.now())
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update journal entry: %w", err)
	}
	return e, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, ownerID, entryID id.ID) error {
	return s.repo.Delete(ctx, ownerID, entryID)
}

// Get returns one entry.
func (s *Service) Get(ctx context.Context, ownerID, entryID id.ID) (*Entry, error) {
	return s.repo.Get(ctx, ownerID, entryID)
}

// List returns a filtered page of entries, newest first.
func (s *Service) List(ctx context.Context, ownerID id.ID, filter Filter) (domain.ListResult[Entry], error) {
	filter.Page = filter.Page.Normalize(50, 500)
	return s.repo.List(ctx, ownerID, filter)
}
