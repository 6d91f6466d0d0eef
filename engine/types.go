/*
Package engine provides the tuition and payroll calculation core.

PURPOSE:
  This package contains the pure derivation rules for a single-tenant
  tutoring-business income simulator: pricing enrollments, computing
  instructor payroll, maintaining the revenue/expense ledger, and folding
  everything into a reportable summary.

KEY CONCEPTS IN THIS FILE (types.go):
  - EnrollmentIntent: One student's plan before pricing
  - RevenueLine: A priced ledger entry for monthly tuition income
  - ExpenseLine: A cost entry (payroll, transport, group labor, fixed)
  - ExpenseCategory: Explicit bucket tag replacing label matching
  - LineID: Identity shared across both ledger sequences

DESIGN PRINCIPLES:
  1. Determinism: Every derivation is a pure function of its inputs
  2. Precision: decimal.Decimal for fractional intermediates, integer
     yen in every stored field
  3. Graceful degradation: Unknown grades never crash a recalculation
  4. Explicit linkage: Payroll lines point back to their revenue line
     via LinkedRevenueID, a non-owning 1:1 relation

SEE ALSO:
  - config.go:  Rate configuration (tables, wages, percentages)
  - pricing.go: Enrollment intent -> priced revenue line
  - payroll.go: Lesson load -> instructor pay
  - ledger.go:  Mutation operations and invariants
  - summary.go: Aggregation and display ordering
*/
package engine

import "fmt"

// =============================================================================
// IDENTIFIERS
// =============================================================================

// LineID identifies a ledger line. Revenue and expense lines share one
// monotonically increasing id space; see Ledger.allocateIDs.
type LineID int64

// Grade is a domain grade label (e.g. "中1", "高3"). Not an enum: the
// tuition table decides which grades exist at any time.
type Grade string

// =============================================================================
// ENROLLMENT INTENT - Input tuple before pricing
// =============================================================================

// EnrollmentIntent describes one student's plan as collected from a form
// or a bulk-import row, before any pricing has happened.
type EnrollmentIntent struct {
	StudentName   string
	Grade         Grade
	WeeklyLessons int
	StudentCount  int // defaults to 1 when zero
	IsPremium     bool
	IsGroup       bool
}

// =============================================================================
// REVENUE LINE - Priced enrollment record
// =============================================================================

// RevenueLine is one enrollment record. Identity is immutable; UnitPrice
// and Amount are caches refreshed by Recalculate whenever the rate
// configuration changes.
type RevenueLine struct {
	ID            LineID `json:"id"`
	StudentName   string `json:"student_name,omitempty"`
	Grade         Grade  `json:"grade"`
	WeeklyLessons int    `json:"weekly_lessons"`
	StudentCount  int    `json:"student_count"`
	IsPremium     bool   `json:"is_premium"`
	IsGroup       bool   `json:"is_group"`
	UnitPrice     int64  `json:"unit_price"`
	Amount        int64  `json:"amount"`
	Description   string `json:"description"`
}

// =============================================================================
// EXPENSE LINE - Heterogeneous cost record
// =============================================================================

// ExpenseCategory tags an expense line with its logical bucket. The
// label is display text only; the category drives all bucket logic.
type ExpenseCategory string

const (
	CategoryPayroll      ExpenseCategory = "payroll"       // per-student instructor pay, linked to a revenue line
	CategoryTransport    ExpenseCategory = "transport"     // instructor transport allowance (at most one line)
	CategoryGroupPayroll ExpenseCategory = "group_payroll" // flat group-lesson labor (at most one line)
	CategoryFixed        ExpenseCategory = "fixed"         // rent, utilities, anything user-entered
	CategoryRoyalty      ExpenseCategory = "royalty"       // synthetic display line only, never persisted
	CategoryTax          ExpenseCategory = "tax"           // synthetic display line only, never persisted
)

// ExpenseLine is one cost entry. LinkedRevenueID is non-zero only for
// CategoryPayroll lines and names the revenue line that generated it.
// The relation is non-owning: deleting the expense alone leaves the
// revenue line in place.
type ExpenseLine struct {
	ID              LineID          `json:"id"`
	Category        ExpenseCategory `json:"category"`
	Description     string          `json:"description"`
	Amount          int64           `json:"amount"`
	LinkedRevenueID LineID          `json:"linked_revenue_id,omitempty"`
}

// Linked reports whether this is a per-student payroll line tied to a
// revenue line.
func (e ExpenseLine) Linked() bool {
	return e.Category == CategoryPayroll && e.LinkedRevenueID != 0
}

// =============================================================================
// DESCRIPTION BUILDERS
// =============================================================================
// Display labels follow the printed report wording. They are display
// text only; all matching happens on ExpenseCategory.

func revenueDescription(intent EnrollmentIntent) string {
	prefix := ""
	if intent.StudentName != "" {
		prefix = intent.StudentName + " : "
	}
	desc := fmt.Sprintf("%s%s / 週%dコマ + 諸費", prefix, intent.Grade, intent.WeeklyLessons)
	if intent.IsPremium {
		desc += " (プレミア)"
	}
	if intent.IsGroup {
		desc += " (グループ)"
	}
	return desc
}

func payrollDescription(intent EnrollmentIntent) string {
	who := string(intent.Grade)
	if intent.StudentName != "" {
		who = intent.StudentName
	}
	return fmt.Sprintf("講師給与+事務給: %s (%d人分)", who, intent.StudentCount)
}

// TransportDescription encodes the teacher headcount into the transport
// line label.
func TransportDescription(teacherCount int) string {
	return fmt.Sprintf("講師交通費 (%d人分)", teacherCount)
}

// GroupPayrollDescription encodes the weekly open days into the group
// labor line label.
func GroupPayrollDescription(weeklyOpenDays int) string {
	return fmt.Sprintf("グループレッスン人件費 (%d日/週)", weeklyOpenDays)
}
