/*
ledger.go - Revenue and expense line collections with mutation operations

PURPOSE:
  The Ledger holds the ordered revenue and expense lines of one scenario
  plus the shared id counter. All mutations are synchronous and total:
  no operation may leave the ledger violating its invariants.

INVARIANTS:
  1. LINKAGE: Every non-group revenue line has exactly one payroll
     expense line whose LinkedRevenueID equals its id, from creation
     until either side is removed. Group revenue lines never have one.
  2. CASCADE: Removing a revenue line removes its linked payroll line.
     Removing the payroll line directly leaves the revenue line alone.
  3. SINGLETON BUCKETS: At most one transport line and at most one
     group-payroll line exist at a time; re-adding replaces.
  4. IDS: One monotonically increasing counter spans both sequences.
     A non-group enrollment consumes a contiguous block of two ids
     (revenue, then its payroll line); everything else consumes one.

ID ALLOCATION:
  allocateIDs(n) hands out a contiguous block explicitly. The two-id
  block per non-group enrollment keeps id parity with persisted
  documents produced by earlier versions of the simulator.

SEE ALSO:
  - pricing.go / payroll.go: Rules invoked on enrollment add
  - recalc.go: Full re-derivation after configuration changes
*/
package engine

// Ledger is the in-memory scenario ledger. It is exclusively owned by
// one session; no concurrent writers are modeled.
type Ledger struct {
	Revenues []RevenueLine `json:"revenues"`
	Expenses []ExpenseLine `json:"expenses"`
	NextID   LineID        `json:"next_id"`
}

// NewLedger returns an empty ledger with the id counter at 1.
func NewLedger() *Ledger {
	return &Ledger{NextID: 1}
}

// allocateIDs reserves a contiguous block of n ids and returns the first.
func (l *Ledger) allocateIDs(n int) LineID {
	if l.NextID == 0 {
		l.NextID = 1
	}
	first := l.NextID
	l.NextID += LineID(n)
	return first
}

// =============================================================================
// ENROLLMENT OPERATIONS
// =============================================================================

// AddEnrollment prices an intent, appends the revenue line, and - unless
// the enrollment is a group lesson - appends its linked payroll expense
// line. Returns the created revenue line.
func (l *Ledger) AddEnrollment(intent EnrollmentIntent, cfg RateConfig) RevenueLine {
	if intent.StudentCount <= 0 {
		intent.StudentCount = 1
	}

	quote := PriceEnrollment(intent, cfg)

	ids := 1
	if !intent.IsGroup {
		ids = 2
	}
	revenueID := l.allocateIDs(ids)

	line := RevenueLine{
		ID:            revenueID,
		StudentName:   intent.StudentName,
		Grade:         intent.Grade,
		WeeklyLessons: intent.WeeklyLessons,
		StudentCount:  intent.StudentCount,
		IsPremium:     intent.IsPremium,
		IsGroup:       intent.IsGroup,
		UnitPrice:     quote.UnitPrice,
		Amount:        quote.Amount,
		Description:   revenueDescription(intent),
	}
	l.Revenues = append(l.Revenues, line)

	if !intent.IsGroup {
		l.Expenses = append(l.Expenses, ExpenseLine{
			ID:              revenueID + 1,
			Category:        CategoryPayroll,
			Description:     payrollDescription(intent),
			Amount:          ComputePayroll(intent.WeeklyLessons, intent.StudentCount, intent.IsPremium, cfg),
			LinkedRevenueID: revenueID,
		})
	}
	return line
}

// AddBulkEnrollments adds intents in input order. Ids are allocated in a
// single pass, exactly as repeated AddEnrollment calls would.
func (l *Ledger) AddBulkEnrollments(intents []EnrollmentIntent, cfg RateConfig) []RevenueLine {
	added := make([]RevenueLine, 0, len(intents))
	for _, intent := range intents {
		added = append(added, l.AddEnrollment(intent, cfg))
	}
	return added
}

// =============================================================================
// EXPENSE OPERATIONS
// =============================================================================

// AddFixedExpense adds amount to the fixed line with this exact label,
// creating the line when absent. Payroll, transport, and group lines are
// never matched regardless of label.
func (l *Ledger) AddFixedExpense(label string, amount int64) ExpenseLine {
	for i := range l.Expenses {
		e := &l.Expenses[i]
		if e.Category == CategoryFixed && e.Description == label {
			e.Amount += amount
			return *e
		}
	}
	line := ExpenseLine{
		ID:          l.allocateIDs(1),
		Category:    CategoryFixed,
		Description: label,
		Amount:      amount,
	}
	l.Expenses = append(l.Expenses, line)
	return line
}

// SetFixedExpense replaces the amount of the fixed line with this exact
// label. When no such line exists the ledger is unchanged and a
// *FixedExpenseNotFoundError is returned.
func (l *Ledger) SetFixedExpense(label string, amount int64) error {
	for i := range l.Expenses {
		e := &l.Expenses[i]
		if e.Category == CategoryFixed && e.Description == label {
			e.Amount = amount
			return nil
		}
	}
	return &FixedExpenseNotFoundError{Label: label}
}

// SetTransportExpense replaces any existing transport line with a new one
// for the given teacher headcount.
func (l *Ledger) SetTransportExpense(teacherCount int, perTeacherCost int64) ExpenseLine {
	l.removeByCategory(CategoryTransport)
	line := ExpenseLine{
		ID:          l.allocateIDs(1),
		Category:    CategoryTransport,
		Description: TransportDescription(teacherCount),
		Amount:      int64(teacherCount) * perTeacherCost,
	}
	l.Expenses = append(l.Expenses, line)
	return line
}

// UpsertGroupPayrollExpense removes any existing group-payroll line and
// inserts a new one only when amount is positive. Returns the inserted
// line, or nil when the upsert amounted to a removal.
func (l *Ledger) UpsertGroupPayrollExpense(label string, amount int64) *ExpenseLine {
	l.removeByCategory(CategoryGroupPayroll)
	if amount <= 0 {
		return nil
	}
	line := ExpenseLine{
		ID:          l.allocateIDs(1),
		Category:    CategoryGroupPayroll,
		Description: label,
		Amount:      amount,
	}
	l.Expenses = append(l.Expenses, line)
	return &line
}

// =============================================================================
// REMOVAL
// =============================================================================

// Remove deletes the line with the given id. A revenue id cascades to
// its linked payroll line; an expense id deletes that line only. A
// missing id is a no-op, not an error. Reports whether anything changed.
func (l *Ledger) Remove(id LineID) bool {
	for i := range l.Revenues {
		if l.Revenues[i].ID == id {
			l.Revenues = append(l.Revenues[:i], l.Revenues[i+1:]...)
			l.removeLinkedTo(id)
			return true
		}
	}
	for i := range l.Expenses {
		if l.Expenses[i].ID == id {
			l.Expenses = append(l.Expenses[:i], l.Expenses[i+1:]...)
			return true
		}
	}
	return false
}

func (l *Ledger) removeLinkedTo(revenueID LineID) {
	kept := l.Expenses[:0]
	for _, e := range l.Expenses {
		if e.Category == CategoryPayroll && e.LinkedRevenueID == revenueID {
			continue
		}
		kept = append(kept, e)
	}
	l.Expenses = kept
}

func (l *Ledger) removeByCategory(cat ExpenseCategory) {
	kept := l.Expenses[:0]
	for _, e := range l.Expenses {
		if e.Category == cat {
			continue
		}
		kept = append(kept, e)
	}
	l.Expenses = kept
}

// =============================================================================
// LOOKUPS
// =============================================================================

// FindRevenue returns the revenue line with the given id, nil when absent.
func (l *Ledger) FindRevenue(id LineID) *RevenueLine {
	for i := range l.Revenues {
		if l.Revenues[i].ID == id {
			return &l.Revenues[i]
		}
	}
	return nil
}

// Clone returns a deep copy. Used by sessions to hand out documents
// without exposing internal slices.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{NextID: l.NextID}
	c.Revenues = append([]RevenueLine(nil), l.Revenues...)
	c.Expenses = append([]ExpenseLine(nil), l.Expenses...)
	return c
}
