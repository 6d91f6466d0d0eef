/*
store.go - Persistence slot interface

PURPOSE:
  Defines the interface between the session and wherever documents are
  mirrored. The core never touches storage formats; it hands a plain
  Document to the store and gets one back.

SEMANTICS:
  - Save overwrites the slot (last write wins, no versioning)
  - Load of a missing slot returns ErrSlotNotFound
  - Delete of a missing slot is a no-op

IMPLEMENTATIONS:
  - store/sqlite: Local SQLite file (production)
  - store/memory: In-memory map (tests/dev)
*/
package scenario

import (
	"context"
	"errors"
	"time"
)

// DefaultSlot is the slot name used when the caller doesn't pick one.
const DefaultSlot = "default"

// ErrSlotNotFound is returned by Load for a slot that was never saved.
var ErrSlotNotFound = errors.New("scenario slot not found")

// SlotInfo describes one saved slot.
type SlotInfo struct {
	Slot    string    `json:"slot"`
	SavedAt time.Time `json:"saved_at"`
}

// DocumentStore mirrors scenario documents to a local key-value slot.
type DocumentStore interface {
	// Save overwrites the document stored under slot.
	Save(ctx context.Context, slot string, doc Document) error

	// Load returns the document stored under slot, or ErrSlotNotFound.
	Load(ctx context.Context, slot string) (Document, error)

	// Delete removes the slot. Missing slots are a no-op.
	Delete(ctx context.Context, slot string) error

	// List returns all saved slots, most recent first.
	List(ctx context.Context) ([]SlotInfo, error)
}
