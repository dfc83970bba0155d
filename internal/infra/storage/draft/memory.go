package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryRepository хранилище расчетов в памяти процесса
// Используется CLI и в тестах; расчет хранится в том же JSON, что и в БД.
type MemoryRepository struct {
	mu           sync.RWMutex
	items        map[string]memoryEntry
	ttl          time.Duration
	timeProvider TimeProvider
}

// NewMemoryRepository создает хранилище в памяти
func NewMemoryRepository(ttl time.Duration, timeProvider TimeProvider) *MemoryRepository {
	return &MemoryRepository{
		items:        make(map[string]memoryEntry),
		ttl:          ttl,
		timeProvider: timeProvider,
	}
}

func (r *MemoryRepository) Save(_ context.Context, sessionID string, draft *domain.StoredDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("%w: Save: %v", ErrEncodeDraft, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[sessionID] = memoryEntry{payload: payload, expiresAt: draft.StoredAt.Add(r.ttl)}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, sessionID string) (*domain.StoredDraft, error) {
	r.mu.RLock()
	entry, ok := r.items[sessionID]
	r.mu.RUnlock()

	if !ok || !entry.expiresAt.After(r.timeProvider.Now()) {
		return nil, ErrDraftNotFound
	}
	return decodeDraft(entry.payload)
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, sessionID)
	return nil
}

func (r *MemoryRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, entry := range r.items {
		if !entry.expiresAt.After(now) {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}
