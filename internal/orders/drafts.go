package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/msotelo-dev/atelier-backend/internal/draft"
)

// DraftTTL is how long an untouched draft survives before it expires. Every
// mutation rewrites the record, so active drafts keep sliding forward.
const DraftTTL = 24 * time.Hour

// ErrDraftNotFound reports a missing or expired draft record.
var ErrDraftNotFound = errors.New("draft not found")

// DraftRecord is the persisted state of one in-progress composition, scoped
// to the user working on it.
type DraftRecord struct {
	ID         uuid.UUID   `json:"id"`
	OrderID    *uuid.UUID  `json:"order_id,omitempty"`
	CustomerID uuid.UUID   `json:"customer_id"`
	DueDate    *time.Time  `json:"due_date,omitempty"`
	Notes      *string     `json:"notes,omitempty"`
	Draft      draft.Draft `json:"draft"`
	// DroppedLines names order items that could not be seeded into the
	// draft because their product no longer exists.
	DroppedLines []string  `json:"dropped_lines,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type draftKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	DraftKey(userID, draftID string) string
}

// DraftStore keeps draft records in Redis, keyed per user so one user's
// drafts never collide with another's.
type DraftStore struct {
	kv  draftKV
	ttl time.Duration
}

// NewDraftStore builds a redis-backed draft store.
func NewDraftStore(kv draftKV) (*DraftStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &DraftStore{kv: kv, ttl: DraftTTL}, nil
}

// Save writes the record under the owning user's key.
func (s *DraftStore) Save(ctx context.Context, userID uuid.UUID, record *DraftRecord) error {
	record.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return s.kv.Set(ctx, s.kv.DraftKey(userID.String(), record.ID.String()), payload, s.ttl)
}

// Load reads one draft record owned by the user.
func (s *DraftStore) Load(ctx context.Context, userID, draftID uuid.UUID) (*DraftRecord, error) {
	raw, err := s.kv.Get(ctx, s.kv.DraftKey(userID.String(), draftID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	var record DraftRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &record, nil
}

// Delete removes the draft record.
func (s *DraftStore) Delete(ctx context.Context, userID, draftID uuid.UUID) error {
	return s.kv.Del(ctx, s.kv.DraftKey(userID.String(), draftID.String()))
}
