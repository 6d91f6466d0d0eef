/*
session.go - The simulation session

PURPOSE:
  A Session is the exclusive owner of one ledger and one rate
  configuration. It routes every mutation through the engine, runs the
  recalculation pass after each configuration write, and mirrors state
  to its persistence slot when auto-save is on.

CONFIGURATION WRITES:
  Edits arrive as partial views (WageSettings, MasterData) or as a full
  RateConfig. The flow is always:
    1. Merge the candidate onto the current configuration
    2. Validate - on failure the previous configuration stays in effect
    3. Swap, then Recalculate the whole ledger synchronously
  Observers never see the ledger with stale prices after a write
  returns.

AUTO-SAVE:
  When enabled and a store is attached, every successful mutation ends
  with a Save to the current slot. A persistence failure surfaces as the
  operation's error, but the in-memory mutation has already happened -
  the document mirror is best-effort, the session is the truth.
*/
package scenario

import (
	"context"
	"time"

	"github.com/juku/tuition-engine/engine"
)

// Session owns one scenario. Not safe for concurrent use.
type Session struct {
	ledger *engine.Ledger
	config engine.RateConfig

	targetYear  int
	targetMonth int
	autoSave    bool

	store DocumentStore // may be nil (ephemeral session)
	slot  string
}

// New creates a session with default configuration, an empty ledger,
// and the current month as target. store may be nil.
func New(store DocumentStore) *Session {
	now := time.Now()
	return &Session{
		ledger:      engine.NewLedger(),
		config:      engine.DefaultRateConfig(),
		targetYear:  now.Year(),
		targetMonth: int(now.Month()),
		autoSave:    true,
		store:       store,
		slot:        DefaultSlot,
	}
}

// =============================================================================
// READ SIDE
// =============================================================================

// Config returns the current rate configuration.
func (s *Session) Config() engine.RateConfig { return s.config }

// Ledger returns a deep copy of the current ledger.
func (s *Session) Ledger() *engine.Ledger { return s.ledger.Clone() }

// Target returns the snapshot year/month label.
func (s *Session) Target() (year, month int) { return s.targetYear, s.targetMonth }

// AutoSave reports whether mutations mirror to the store.
func (s *Session) AutoSave() bool { return s.autoSave }

// Summary folds the current ledger into the reportable totals.
func (s *Session) Summary() engine.Summary {
	return engine.Summarize(s.ledger, s.config)
}

// DisplayItems returns the merged, report-ordered line list.
func (s *Session) DisplayItems() []engine.DisplayItem {
	return engine.DisplayItems(s.ledger, s.config)
}

// Document snapshots the whole session as plain data.
func (s *Session) Document() Document {
	l := s.ledger.Clone()
	return Document{
		Revenues:    l.Revenues,
		Expenses:    l.Expenses,
		NextID:      l.NextID,
		Config:      s.config,
		TargetYear:  s.targetYear,
		TargetMonth: s.targetMonth,
		AutoSave:    s.autoSave,
	}
}

// =============================================================================
// LEDGER MUTATIONS
// =============================================================================

// AddEnrollment prices and records one enrollment.
func (s *Session) AddEnrollment(ctx context.Context, intent engine.EnrollmentIntent) (engine.RevenueLine, error) {
	line := s.ledger.AddEnrollment(intent, s.config)
	return line, s.mirror(ctx)
}

// AddBulkEnrollments records intents in input order.
func (s *Session) AddBulkEnrollments(ctx context.Context, intents []engine.EnrollmentIntent) ([]engine.RevenueLine, error) {
	lines := s.ledger.AddBulkEnrollments(intents, s.config)
	return lines, s.mirror(ctx)
}

// AddFixedExpense adds amount onto the fixed line with this label,
// creating it when absent.
func (s *Session) AddFixedExpense(ctx context.Context, label string, amount int64) (engine.ExpenseLine, error) {
	line := s.ledger.AddFixedExpense(label, amount)
	return line, s.mirror(ctx)
}

// SetFixedExpense replaces the amount of an existing fixed line.
// Returns ErrFixedExpenseNotFound (wrapped) when the label is unknown.
func (s *Session) SetFixedExpense(ctx context.Context, label string, amount int64) error {
	if err := s.ledger.SetFixedExpense(label, amount); err != nil {
		return err
	}
	return s.mirror(ctx)
}

// SetTransportExpense replaces the transport line for the given teacher
// headcount, at the configured per-teacher cost.
func (s *Session) SetTransportExpense(ctx context.Context, teacherCount int) (engine.ExpenseLine, error) {
	line := s.ledger.SetTransportExpense(teacherCount, s.config.TransportCostPerTeacher)
	return line, s.mirror(ctx)
}

// UpsertGroupPayroll recomputes the flat group labor cost for the given
// weekly open days and upserts the group-payroll line. Zero days (or a
// zero wage) removes the line.
func (s *Session) UpsertGroupPayroll(ctx context.Context, weeklyOpenDays int) (*engine.ExpenseLine, error) {
	amount := engine.ComputeGroupPayroll(weeklyOpenDays, s.config)
	line := s.ledger.UpsertGroupPayrollExpense(engine.GroupPayrollDescription(weeklyOpenDays), amount)
	return line, s.mirror(ctx)
}

// Remove deletes a line by id, cascading revenue -> linked payroll.
// Missing ids are a no-op.
func (s *Session) Remove(ctx context.Context, id engine.LineID) (bool, error) {
	removed := s.ledger.Remove(id)
	if !removed {
		return false, nil
	}
	return true, s.mirror(ctx)
}

// =============================================================================
// CONFIGURATION WRITES
// =============================================================================

// UpdateWageSettings merges a wage edit, validates, swaps, recalculates.
func (s *Session) UpdateWageSettings(ctx context.Context, w WageSettings) error {
	return s.swapConfig(ctx, w.applyTo(s.config))
}

// UpdateMasterData merges a price-table edit, validates, swaps,
// recalculates.
func (s *Session) UpdateMasterData(ctx context.Context, m MasterData) error {
	return s.swapConfig(ctx, m.applyTo(s.config))
}

// SetConfig replaces the whole configuration.
func (s *Session) SetConfig(ctx context.Context, cfg engine.RateConfig) error {
	return s.swapConfig(ctx, cfg)
}

func (s *Session) swapConfig(ctx context.Context, candidate engine.RateConfig) error {
	if err := candidate.Validate(); err != nil {
		return err
	}
	s.config = candidate
	engine.Recalculate(s.ledger, s.config)
	return s.mirror(ctx)
}

// SetTarget updates the snapshot year/month label.
func (s *Session) SetTarget(ctx context.Context, year, month int) error {
	s.targetYear, s.targetMonth = year, month
	return s.mirror(ctx)
}

// SetAutoSave toggles mirroring. Turning it on does not save
// retroactively; the next mutation or an explicit Save does.
func (s *Session) SetAutoSave(on bool) { s.autoSave = on }

// =============================================================================
// PERSISTENCE
// =============================================================================

// Save mirrors the session to its current slot regardless of the
// auto-save setting.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(ctx, s.slot, s.Document())
}

// Load replaces the whole session state from a slot and makes that slot
// current. The stored configuration is trusted as-is; prices are the
// cached ones from save time.
func (s *Session) Load(ctx context.Context, slot string) error {
	if s.store == nil {
		return ErrSlotNotFound
	}
	doc, err := s.store.Load(ctx, slot)
	if err != nil {
		return err
	}
	s.Restore(doc)
	s.slot = slot
	return nil
}

// Restore replaces the session state from a document without touching
// the store.
func (s *Session) Restore(doc Document) {
	s.ledger = doc.ledger()
	s.config = doc.Config
	s.targetYear = doc.TargetYear
	s.targetMonth = doc.TargetMonth
	s.autoSave = doc.AutoSave
}

// Reset clears the session back to defaults and deletes the current
// slot from the store.
func (s *Session) Reset(ctx context.Context) error {
	now := time.Now()
	s.ledger = engine.NewLedger()
	s.config = engine.DefaultRateConfig()
	s.targetYear = now.Year()
	s.targetMonth = int(now.Month())
	if s.store == nil {
		return nil
	}
	return s.store.Delete(ctx, s.slot)
}

// mirror persists when auto-save is on.
func (s *Session) mirror(ctx context.Context) error {
	if !s.autoSave || s.store == nil {
		return nil
	}
	return s.store.Save(ctx, s.slot, s.Document())
}
