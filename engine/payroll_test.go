package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/juku/tuition-engine/engine"
)

// =============================================================================
// PER-STUDENT PAYROLL TESTS
// =============================================================================

func TestComputePayroll_Normal(t *testing.T) {
	// GIVEN: One student, 2 lessons per week, normal plan, default wages
	// WHEN: Computing monthly payroll
	// THEN: 8 student lessons -> 4 teacher lessons -> 5.33h teaching
	//       teaching round(5.333... * 1300) = 6933
	//       admin    round(4 * 10/60 * 1200) = 800
	//       total 7733

	cfg := engine.DefaultRateConfig()
	pay := engine.ComputePayroll(2, 1, false, cfg)

	assert.Equal(t, int64(7733), pay)
}

func TestComputePayroll_Premium_SplitsWage(t *testing.T) {
	// GIVEN: The same load on the premium plan with a 50% wage ratio
	// WHEN: Computing monthly payroll
	// THEN: half the hours are paid at 1800, half at 1300
	//       teaching round(2.666..*1800 + 2.666..*1300) = 8267
	//       total 8267 + 800 = 9067

	cfg := engine.DefaultRateConfig()
	pay := engine.ComputePayroll(2, 1, true, cfg)

	assert.Equal(t, int64(9067), pay)
}

func TestComputePayroll_RoundsComponentsIndependently(t *testing.T) {
	// The teaching and admin components are rounded before summing, so
	// the total can differ from rounding the exact sum. 1 lesson/week:
	// teaching = round(2.666.. * 1300) = round(3466.67) = 3467
	// admin    = round(2 * 10/60 * 1200) = 400
	cfg := engine.DefaultRateConfig()
	pay := engine.ComputePayroll(1, 1, false, cfg)

	assert.Equal(t, int64(3467+400), pay)
}

func TestComputePayroll_ScalesWithStudentCount(t *testing.T) {
	// GIVEN: 3 students at 1 lesson each
	// WHEN: Computing payroll
	// THEN: 12 student lessons -> 6 teacher lessons -> 8h * 1300 = 10400
	//       admin 6 * 10/60 * 1200 = 1200

	cfg := engine.DefaultRateConfig()
	pay := engine.ComputePayroll(1, 3, false, cfg)

	assert.Equal(t, int64(11600), pay)
}

func TestComputePayroll_FractionalDivisor(t *testing.T) {
	// A 2.5 students-per-teacher divisor exercises the decimal path:
	// 8 student lessons / 2.5 = 3.2 teacher lessons -> 4.266..h
	// teaching round(4.2666.. * 1300) = round(5546.67) = 5547
	// admin    round(3.2 * 10/60 * 1200) = 640
	cfg := engine.DefaultRateConfig()
	cfg.StudentsPerTeacher = decimal.RequireFromString("2.5")

	pay := engine.ComputePayroll(2, 1, false, cfg)

	assert.Equal(t, int64(5547+640), pay)
}

func TestComputePayroll_ZeroLessons(t *testing.T) {
	cfg := engine.DefaultRateConfig()
	assert.Zero(t, engine.ComputePayroll(0, 1, false, cfg))
	assert.Zero(t, engine.ComputePayroll(0, 1, true, cfg))
}

func TestComputePayroll_ZeroCountDefaultsToOne(t *testing.T) {
	cfg := engine.DefaultRateConfig()
	assert.Equal(t,
		engine.ComputePayroll(2, 1, false, cfg),
		engine.ComputePayroll(2, 0, false, cfg))
}

// =============================================================================
// GROUP PAYROLL TESTS
// =============================================================================

func TestComputeGroupPayroll(t *testing.T) {
	// GIVEN: Group lessons running 3 days per week, default group rates
	// WHEN: Computing the flat monthly labor cost
	// THEN: 2500 yen * 3h * 3 days * 4 weeks = 90000

	cfg := engine.DefaultRateConfig()
	assert.Equal(t, int64(90000), engine.ComputeGroupPayroll(3, cfg))
}

func TestComputeGroupPayroll_ZeroDays(t *testing.T) {
	cfg := engine.DefaultRateConfig()
	assert.Zero(t, engine.ComputeGroupPayroll(0, cfg))
}

func TestComputeGroupPayroll_IndependentOfStudents(t *testing.T) {
	// Group labor is a function of open days only; enrollment state
	// never enters the formula.
	cfg := engine.DefaultRateConfig()
	cfg.GroupHourlyWage = 3000
	cfg.GroupDailyHours = 2

	assert.Equal(t, int64(3000*2*5*4), engine.ComputeGroupPayroll(5, cfg))
}
