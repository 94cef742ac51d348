package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Valentin39220/bini-crm/internal/logging"
	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
)

// Repository is the persistence hook the service flushes through after
// every mutation.
type Repository interface {
	Hydrate(ctx context.Context) ([]domain.Prospect, error)
	Save(ctx context.Context, prospects []domain.Prospect) error
}

// ProspectService owns the prospect collection and the current selection.
// Mutations run one at a time and return only after the collection has
// been persisted.
type ProspectService struct {
	mu        sync.Mutex
	repo      Repository
	prospects []domain.Prospect
	selected  string
	issued    map[string]struct{} // every id seen this session, deleted ones included

	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

type Option func(*ProspectService)

// WithClock replaces time.Now, e.g. to pin "today" in tests.
func WithClock(now func() time.Time) Option {
	return func(s *ProspectService) { s.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *ProspectService) { s.newID = newID }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *ProspectService) { s.log = log }
}

// Open hydrates a new service from repo.
func Open(ctx context.Context, repo Repository, opts ...Option) (*ProspectService, error) {
	s := &ProspectService{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	prospects, err := repo.Hydrate(ctx)
	if err != nil {
		return nil, err
	}
	s.prospects = make([]domain.Prospect, len(prospects))
	s.issued = make(map[string]struct{}, len(prospects))
	for i, p := range prospects {
		s.prospects[i] = p.Clone()
		s.issued[p.ID] = struct{}{}
	}
	return s, nil
}

// Today is the service clock's calendar day.
func (s *ProspectService) Today() domain.Date {
	return domain.Today(s.now())
}

// List returns a copy of the collection in insertion order.
func (s *ProspectService) List() []domain.Prospect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get returns a copy of the prospect with id, or nil.
func (s *ProspectService) Get(id string) *domain.Prospect {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	p := s.prospects[i].Clone()
	return &p
}

// Create adds a prospect built from draft. Company and contact are expected
// to be checked by the caller; the service stores what it is given.
func (s *ProspectService) Create(ctx context.Context, draft domain.Draft) (*domain.Prospect, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.Prospect{
		ID:             s.freshID(),
		Company:        draft.Company,
		Contact:        draft.Contact,
		Phone:          draft.Phone,
		Email:          draft.Email,
		Status:         draft.Status,
		Temperature:    draft.Temperature,
		Source:         draft.Source,
		CreatedAt:      domain.Today(s.now()),
		NextFollowUp:   draft.NextFollowUp,
		Notes:          []domain.Note{},
		EstimatedValue: draft.EstimatedValue,
	}
	if p.Status == "" {
		p.Status = domain.StatusNew
	}
	if p.Temperature == "" {
		p.Temperature = domain.TemperatureWarm
	}

	next := append(s.snapshot(), p)
	if err := s.commit(ctx, "create", next); err != nil {
		return nil, err
	}
	s.issued[p.ID] = struct{}{}
	return s.result(p), nil
}

// Update replaces every editable field of the prospect with id, so status
// and temperature must be set. ID and CreatedAt never change and Notes are
// kept unless draft.Notes is non-nil. An unknown id is a no-op that returns
// nil.
func (s *ProspectService) Update(ctx context.Context, id string, draft domain.Draft) (*domain.Prospect, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if draft.Status == "" {
		return nil, fmt.Errorf("%w: status is required on update", domain.ErrUnknownStatus)
	}
	if draft.Temperature == "" {
		return nil, fmt.Errorf("%w: temperature is required on update", domain.ErrUnknownTemperature)
	}

	return s.mutate(ctx, "update", id, func(p *domain.Prospect) bool {
		p.Company = draft.Company
		p.Contact = draft.Contact
		p.Phone = draft.Phone
		p.Email = draft.Email
		p.Status = draft.Status
		p.Temperature = draft.Temperature
		p.Source = draft.Source
		p.NextFollowUp = draft.NextFollowUp
		p.EstimatedValue = draft.EstimatedValue
		if draft.Notes != nil {
			p.Notes = make([]domain.Note, len(draft.Notes))
			copy(p.Notes, draft.Notes)
		}
		return true
	})
}

// SetStatus moves the prospect to status. Any status can follow any other.
func (s *ProspectService) SetStatus(ctx context.Context, id string, status domain.StatusID) (*domain.Prospect, error) {
	if !domain.IsKnownStatus(status) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStatus, status)
	}

	return s.mutate(ctx, "set_status", id, func(p *domain.Prospect) bool {
		p.Status = status
		return true
	})
}

// AddNote appends a note dated today. Blank text is ignored and the current
// record is returned unchanged.
func (s *ProspectService) AddNote(ctx context.Context, id, text string) (*domain.Prospect, error) {
	blank := strings.TrimSpace(text) == ""

	return s.mutate(ctx, "add_note", id, func(p *domain.Prospect) bool {
		if blank {
			return false
		}
		p.Notes = append(p.Notes, domain.Note{Date: domain.Today(s.now()), Text: text})
		return true
	})
}

// Delete removes the prospect with id and clears the selection if it
// pointed at it. It reports whether a record was removed.
func (s *ProspectService) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := make([]domain.Prospect, 0, len(s.prospects)-1)
	next = append(next, s.prospects[:i]...)
	next = append(next, s.prospects[i+1:]...)
	if err := s.commit(ctx, "delete", next); err != nil {
		return false, err
	}

	if s.selected == id {
		s.selected = ""
	}
	return true, nil
}

// Select marks the prospect with id as the current selection and returns it,
// or returns nil and leaves the selection untouched when id is unknown.
func (s *ProspectService) Select(id string) *domain.Prospect {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.selected = id
	p := s.prospects[i].Clone()
	return &p
}

// Selected returns a fresh copy of the selected prospect, or nil.
func (s *ProspectService) Selected() *domain.Prospect {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == "" {
		return nil
	}
	i := s.indexOf(s.selected)
	if i < 0 {
		s.selected = ""
		return nil
	}
	p := s.prospects[i].Clone()
	return &p
}

func (s *ProspectService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// mutate applies fn to a copy of the prospect with id and commits the new
// collection when fn reports a change.
func (s *ProspectService) mutate(ctx context.Context, op, id string, fn func(*domain.Prospect) bool) (*domain.Prospect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		logging.FromContext(ctx, s.log).Debug("prospect not found", zap.String("operation", op), zap.String("id", id))
		return nil, nil
	}

	next := s.snapshot()
	if !fn(&next[i]) {
		return s.result(next[i]), nil
	}
	if err := s.commit(ctx, op, next); err != nil {
		return nil, err
	}
	return s.result(next[i]), nil
}

// commit persists next and only then makes it the current collection, so a
// failed flush leaves memory and storage in agreement.
func (s *ProspectService) commit(ctx context.Context, op string, next []domain.Prospect) error {
	log := logging.FromContext(ctx, s.log)

	if err := s.repo.Save(ctx, next); err != nil {
		log.Error("failed to persist prospects", zap.String("operation", op), zap.Error(err))
		return err
	}
	s.prospects = next
	log.Debug("prospects persisted", zap.String("operation", op), zap.Int("count", len(next)))
	return nil
}

func (s *ProspectService) result(p domain.Prospect) *domain.Prospect {
	out := p.Clone()
	return &out
}

func (s *ProspectService) snapshot() []domain.Prospect {
	out := make([]domain.Prospect, len(s.prospects))
	for i, p := range s.prospects {
		out[i] = p.Clone()
	}
	return out
}

func (s *ProspectService) indexOf(id string) int {
	for i := range s.prospects {
		if s.prospects[i].ID == id {
			return i
		}
	}
	return -1
}

// freshID draws ids until one has never been issued in this session.
func (s *ProspectService) freshID() string {
	for {
		id := s.newID()
		if _, taken := s.issued[id]; id != "" && !taken {
			return id
		}
	}
}
