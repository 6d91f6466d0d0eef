package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juku/tuition-engine/engine"
)

// =============================================================================
// LINKAGE INVARIANT TESTS
// =============================================================================

func TestLedger_AddEnrollment_CreatesLinkedPayroll(t *testing.T) {
	// GIVEN: An empty ledger
	// WHEN: Adding a non-group enrollment
	// THEN: A payroll expense line exists whose LinkedRevenueID is the
	//       revenue line's id, and the pair occupies a contiguous id block

	l := engine.NewLedger()
	cfg := engine.DefaultRateConfig()

	rev := l.AddEnrollment(intent("中1", 2, 1), cfg)

	require.Len(t, l.Revenues, 1)
	require.Len(t, l.Expenses, 1)

	pay := l.Expenses[0]
	assert.Equal(t, engine.CategoryPayroll, pay.Category)
	assert.Equal(t, rev.ID, pay.LinkedRevenueID)
	assert.Equal(t, rev.ID+1, pay.ID)
	assert.True(t, pay.Linked())
	assert.Equal(t, engine.ComputePayroll(2, 1, false, cfg), pay.Amount)
}

func TestLedger_AddEnrollment_Group_HasNoPayroll(t *testing.T) {
	// GIVEN: An empty ledger
	// WHEN: Adding a group enrollment
	// THEN: No payroll line is created and only one id is consumed

	l := engine.NewLedger()
	cfg := engine.DefaultRateConfig()

	i := intent("中1", 2, 1)
	i.IsGroup = true
	rev := l.AddEnrollment(i, cfg)

	assert.Len(t, l.Revenues, 1)
	assert.Empty(t, l.Expenses)
	assert.Equal(t, rev.ID+1, l.NextID)
}

func TestLedger_IDAllocation_ContiguousBlocks(t *testing.T) {
	// Non-group enrollments consume two ids, group enrollments one.
	l := engine.NewLedger()
	cfg := engine.DefaultRateConfig()

	first := l.AddEnrollment(intent("中1", 2, 1), cfg) // ids 1, 2
	group := intent("中2", 2, 1)
	group.IsGroup = true
	second := l.AddEnrollment(group, cfg)             // id 3
	third := l.AddEnrollment(intent("中3", 2, 1), cfg) // ids 4, 5

	assert.Equal(t, engine.LineID(1), first.ID)
	assert.Equal(t, engine.LineID(3), second.ID)
	assert.Equal(t, engine.LineID(4), third.ID)
	assert.Equal(t, engine.LineID(6), l.NextID)
}

// =============================================================================
// CASCADE TESTS
// =============================================================================

func TestLedger_RemoveRevenue_CascadesToPayroll(t *testing.T) {
	// GIVEN: An enrollment with its linked payroll line
	// WHEN: Removing the revenue line
	// THEN: The payroll line goes with it

	l := engine.NewLedger()
	cfg := engine.DefaultRateConfig()
	rev := l.AddEnrollment(intent("中1", 2, 1), cfg)

	assert.True(t, l.Remove(rev.ID))

	assert.Empty(t, l.Revenues)
	assert.Empty(t, l.Expenses)
}

func TestLedger_RemovePayroll_LeavesRevenue(t *testing.T) {
	// The relation is non-owning in this direction.
	l := engine.NewLedger()
	cfg := engine.DefaultRateConfig()
	rev := l.AddEnrollment(intent("中1", 2, 1), cfg)

	assert.True(t, l.Remove(rev.ID+1))

	assert.Len(t, l.Revenues, 1)
	assert.Empty(t, l.Expenses)
}

func TestLedger_Remove_MissingID_NoOp(t *testing.T) {
	l := engine.NewLedger()
	cfg := engine.DefaultRateConfig()
	l.AddEnrollment(intent("中1", 2, 1), cfg)

	assert.False(t, l.Remove(999))
	assert.Len(t, l.Revenues, 1)
	assert.Len(t, l.Expenses, 1)
}

// =============================================================================
// FIXED EXPENSE TESTS
// =============================================================================

func TestLedger_AddFixedExpense_AccumulatesByLabel(t *testing.T) {
	// GIVEN: A fixed expense "家賃" of 50000
	// WHEN: Adding 家賃 again with 10000
	// THEN: The existing line grows to 60000; no second line appears

	l := engine.NewLedger()

	first := l.AddFixedExpense("家賃", 50000)
	second := l.AddFixedExpense("家賃", 10000)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(60000), second.Amount)
	assert.Len(t, l.Expenses, 1)
}

func TestLedger_AddFixedExpense_DifferentLabels_SeparateLines(t *testing.T) {
	l := engine.NewLedger()

	l.AddFixedExpense("家賃", 50000)
	l.AddFixedExpense("光熱費", 8000)

	assert.Len(t, l.Expenses, 2)
}

func TestLedger_AddFixedExpense_NeverMatchesOtherCategories(t *testing.T) {
	// A fixed label equal to a transport label must not merge into the
	// transport line - matching is category-scoped.
	l := engine.NewLedger()
	transport := l.SetTransportExpense(2, 2000)

	fixed := l.AddFixedExpense(transport.Description, 1234)

	assert.NotEqual(t, transport.ID, fixed.ID)
	assert.Len(t, l.Expenses, 2)
}

func TestLedger_SetFixedExpense_ReplacesAmount(t *testing.T) {
	l := engine.NewLedger()
	l.AddFixedExpense("家賃", 50000)

	require.NoError(t, l.SetFixedExpense("家賃", 55000))

	assert.Equal(t, int64(55000), l.Expenses[0].Amount)
}

func TestLedger_SetFixedExpense_UnknownLabel_Error(t *testing.T) {
	// GIVEN: No fixed line labeled 広告費
	// WHEN: Setting it
	// THEN: ErrFixedExpenseNotFound with the label, ledger unchanged

	l := engine.NewLedger()
	l.AddFixedExpense("家賃", 50000)

	err := l.SetFixedExpense("広告費", 30000)

	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrFixedExpenseNotFound)
	var nf *engine.FixedExpenseNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "広告費", nf.Label)
	assert.Equal(t, int64(50000), l.Expenses[0].Amount)
}

// =============================================================================
// SINGLETON BUCKET TESTS
// =============================================================================

func TestLedger_SetTransportExpense_Replaces(t *testing.T) {
	// GIVEN: A transport line for 2 teachers
	// WHEN: Setting transport for 3 teachers
	// THEN: Exactly one transport line remains, repriced and relabeled

	l := engine.NewLedger()
	l.SetTransportExpense(2, 2000)
	line := l.SetTransportExpense(3, 2000)

	assert.Len(t, l.Expenses, 1)
	assert.Equal(t, int64(6000), line.Amount)
	assert.Equal(t, engine.TransportDescription(3), line.Description)
}

func TestLedger_UpsertGroupPayroll_ReplacesAndRemoves(t *testing.T) {
	l := engine.NewLedger()

	first := l.UpsertGroupPayrollExpense(engine.GroupPayrollDescription(3), 90000)
	require.NotNil(t, first)
	assert.Equal(t, int64(90000), first.Amount)

	second := l.UpsertGroupPayrollExpense(engine.GroupPayrollDescription(5), 150000)
	require.NotNil(t, second)
	assert.Len(t, l.Expenses, 1)
	assert.Equal(t, int64(150000), l.Expenses[0].Amount)

	// Amount <= 0 removes the line entirely.
	removed := l.UpsertGroupPayrollExpense(engine.GroupPayrollDescription(0), 0)
	assert.Nil(t, removed)
	assert.Empty(t, l.Expenses)
}

// =============================================================================
// BULK AND CLONE TESTS
// =============================================================================

func TestLedger_AddBulkEnrollments_PreservesOrder(t *testing.T) {
	l := engine.NewLedger()
	cfg := engine.DefaultRateConfig()

	lines := l.AddBulkEnrollments([]engine.EnrollmentIntent{
		intent("中3", 2, 1),
		intent("小学生", 1, 1),
		intent("高2", 3, 1),
	}, cfg)

	require.Len(t, lines, 3)
	assert.Equal(t, engine.Grade("中3"), l.Revenues[0].Grade)
	assert.Equal(t, engine.Grade("小学生"), l.Revenues[1].Grade)
	assert.Equal(t, engine.Grade("高2"), l.Revenues[2].Grade)
	assert.True(t, lines[0].ID < lines[1].ID && lines[1].ID < lines[2].ID)
}

func TestLedger_Clone_IsIndependent(t *testing.T) {
	l := engine.NewLedger()
	cfg := engine.DefaultRateConfig()
	l.AddEnrollment(intent("中1", 2, 1), cfg)

	c := l.Clone()
	c.AddFixedExpense("家賃", 50000)
	c.Revenues[0].Amount = 0

	assert.Len(t, l.Expenses, 1)
	assert.NotZero(t, l.Revenues[0].Amount)
	assert.Equal(t, l.NextID+1, c.NextID)
}
