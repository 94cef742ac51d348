package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Valentin39220/bini-crm/internal/logging"
	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
)

// DefaultSlotKey is the slot name used by the browser version of the app.
const DefaultSlotKey = "binicrm_prospects"

const corruptSuffix = ".corrupt"

// ProspectRepository persists the whole prospect collection in one slot.
type ProspectRepository struct {
	slot          Slot
	key           string
	skipEmptySave bool
	strictLoad    bool
	seed          func() ([]domain.Prospect, error)
	log           *zap.Logger
}

type Option func(*ProspectRepository)

// WithSkipEmptySave makes Save a no-op for an empty collection, as the first
// version of the app did.
func WithSkipEmptySave() Option {
	return func(r *ProspectRepository) { r.skipEmptySave = true }
}

// WithStrictLoad makes Hydrate return the CorruptStateError instead of
// falling back to the seed dataset.
func WithStrictLoad() Option {
	return func(r *ProspectRepository) { r.strictLoad = true }
}

func WithSeed(seed func() ([]domain.Prospect, error)) Option {
	return func(r *ProspectRepository) { r.seed = seed }
}

func WithLogger(log *zap.Logger) Option {
	return func(r *ProspectRepository) { r.log = log }
}

// NewProspectRepository creates a repository over slot. An empty key selects
// DefaultSlotKey.
func NewProspectRepository(slot Slot, key string, opts ...Option) *ProspectRepository {
	if key == "" {
		key = DefaultSlotKey
	}
	r := &ProspectRepository{
		slot: slot,
		key:  key,
		seed: SeedProspects,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ProspectRepository) Key() string {
	return r.key
}

func (r *ProspectRepository) Ping(ctx context.Context) error {
	return r.slot.Ping(ctx)
}

// Load reads the persisted collection. found is false when the slot has never
// been written (or holds an empty payload). A payload that cannot be decoded
// yields a *domain.CorruptStateError.
func (r *ProspectRepository) Load(ctx context.Context) (prospects []domain.Prospect, found bool, err error) {
	data, err := r.slot.Get(ctx, r.key)
	if errors.Is(err, ErrSlotEmpty) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}

	prospects, err = decodeProspects(data)
	if err != nil {
		return nil, false, &domain.CorruptStateError{Key: r.key, Err: err}
	}
	return prospects, true, nil
}

// Save overwrites the slot with the full collection.
func (r *ProspectRepository) Save(ctx context.Context, prospects []domain.Prospect) error {
	if len(prospects) == 0 && r.skipEmptySave {
		return nil
	}

	data, err := encodeProspects(prospects)
	if err != nil {
		return err
	}
	if err := r.slot.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to save prospects: %w", err)
	}
	return nil
}

// Hydrate returns the collection to start from. An absent slot is seeded and
// the seed persisted. A corrupt slot is copied to "<key>.corrupt" and seeded
// too, unless the repository was built WithStrictLoad.
func (r *ProspectRepository) Hydrate(ctx context.Context) ([]domain.Prospect, error) {
	log := logging.FromContext(ctx, r.log)

	prospects, found, err := r.Load(ctx)
	var corrupt *domain.CorruptStateError
	switch {
	case err == nil && found:
		log.Info("prospects loaded", zap.String("slot", r.key), zap.Int("count", len(prospects)))
		return prospects, nil
	case err == nil:
		log.Info("slot empty, seeding example prospects", zap.String("slot", r.key))
	case errors.As(err, &corrupt) && !r.strictLoad:
		log.Warn("corrupt prospect slot, falling back to seed", zap.String("slot", r.key), zap.Error(err))
		if err := r.backupCorrupt(ctx); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	seed, err := r.seed()
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, seed); err != nil {
		return nil, err
	}
	return seed, nil
}

func (r *ProspectRepository) backupCorrupt(ctx context.Context) error {
	data, err := r.slot.Get(ctx, r.key)
	if err != nil {
		return fmt.Errorf("failed to read corrupt slot: %w", err)
	}
	if err := r.slot.Set(ctx, r.key+corruptSuffix, data); err != nil {
		return fmt.Errorf("failed to back up corrupt slot: %w", err)
	}
	return nil
}
