package attendance

import (
	"context"
	"net/http"
	"time"

	"portal/internal/apperr"
)

var (
	ErrAlreadyCheckedIn  = apperr.New("AlreadyCheckedIn", http.StatusBadRequest, "Already checked in")
	ErrNotCheckedIn      = apperr.New("NotCheckedIn", http.StatusBadRequest, "Not checked in")
	ErrAlreadyCheckedOut = apperr.New("AlreadyCheckedOut", http.StatusBadRequest, "Already checked out")
)

// Service enforces the per-day Absent -> CheckedIn -> CheckedOut transitions.
// Days are calendar days in UTC.
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService creates a service backed by a repository. now defaults to time.Now.
func NewService(repo *Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

func (s *Service) clock() (day, at time.Time) {
	at = s.now().UTC().Truncate(time.Microsecond)
	y, m, d := at.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), at
}

// today is the current attendance day.
func (s *Service) today() time.Time {
	day, _ := s.clock()
	return day
}

// CheckIn records the user's arrival for today.
func (s *Service) CheckIn(ctx context.Context, userID string) error {
	day, at := s.clock()
	ok, err := s.repo.CheckIn(ctx, userID, day, at)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyCheckedIn
	}
	return nil
}

// CheckOut records the user's departure for today.
func (s *Service) CheckOut(ctx context.Context, userID string) error {
	day, at := s.clock()
	ok, err := s.repo.CheckOut(ctx, userID, day, at)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	rec, err := s.repo.Get(ctx, userID, day)
	if err != nil {
		return err
	}
	if rec == nil || rec.CheckIn == nil {
		return ErrNotCheckedIn
	}
	return ErrAlreadyCheckedOut
}

// List returns the user's records ordered by day ascending.
func (s *Service) List(ctx context.Context, userID string) ([]Record, error) {
	return s.repo.ListByUser(ctx, userID)
}
