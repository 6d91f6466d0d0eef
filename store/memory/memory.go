// Package memory provides an in-memory DocumentStore for tests and dev.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/juku/tuition-engine/scenario"
)

// =============================================================================
// MEMORY STORE - In-memory slot store (for testing/dev)
// =============================================================================

type Store struct {
	mu    sync.RWMutex
	slots map[string]entry
}

type entry struct {
	doc     scenario.Document
	savedAt time.Time
}

func New() *Store {
	return &Store{slots: make(map[string]entry)}
}

func (s *Store) Save(_ context.Context, slot string, doc scenario.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	doc.SavedAt = now
	s.slots[slot] = entry{doc: doc, savedAt: now}
	return nil
}

func (s *Store) Load(_ context.Context, slot string) (scenario.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.slots[slot]
	if !ok {
		return scenario.Document{}, scenario.ErrSlotNotFound
	}
	return e.doc, nil
}

func (s *Store) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, slot)
	return nil
}

func (s *Store) List(_ context.Context) ([]scenario.SlotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]scenario.SlotInfo, 0, len(s.slots))
	for slot, e := range s.slots {
		infos = append(infos, scenario.SlotInfo{Slot: slot, SavedAt: e.savedAt})
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].SavedAt.Equal(infos[j].SavedAt) {
			return infos[i].SavedAt.After(infos[j].SavedAt)
		}
		return infos[i].Slot < infos[j].Slot
	})
	return infos, nil
}
