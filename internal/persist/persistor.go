package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/five82/storeadmin/internal/state"
)

// Persistor moves the store snapshot in and out of a Storage.
type Persistor struct {
	store   *state.Store
	storage Storage
	logger  *log.Logger

	mu      sync.Mutex
	flushed uint64
	primed  bool
}

// NewPersistor pairs store with storage. A nil logger discards.
func NewPersistor(store *state.Store, storage Storage, logger *log.Logger) *Persistor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Persistor{store: store, storage: storage, logger: logger}
}

// Rehydrate restores the saved snapshot. A missing or unreadable snapshot
// leaves the store as it is; only a storage failure is returned.
func (p *Persistor) Rehydrate(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	payload, ok, err := p.storage.Load(ctx, RootKey)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	p.flushed = p.store.Version()
	p.primed = true
	if !ok {
		return false, nil
	}

	var snap state.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		p.logger.Printf("persist: ignoring corrupt snapshot: %v", err)
		return false, nil
	}
	p.store.Restore(snap)
	return true, nil
}

// Flush saves the snapshot when the store changed since the last flush or
// rehydrate. It reports whether anything was written.
func (p *Persistor) Flush(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := p.store.Snapshot()
	if p.primed && snap.Version == p.flushed {
		return false, nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return false, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := p.storage.Save(ctx, RootKey, payload); err != nil {
		return false, fmt.Errorf("save snapshot: %w", err)
	}
	p.flushed = snap.Version
	p.primed = true
	return true, nil
}
