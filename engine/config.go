/*
config.go - Rate configuration and boundary validation

PURPOSE:
  RateConfig holds every table and scalar rate the derivation rules read:
  the tuition price table, flat monthly fee, premium surcharge table, the
  student-per-teacher divisor, hourly wages, group-lesson parameters, and
  the royalty/sales-tax percentages.

INVARIANTS:
  - StudentsPerTeacher is strictly positive. A zero or negative divisor
    would push Inf/NaN into payroll, so it is rejected at write time,
    never at computation time.
  - Percentage fields (PremiumWageRatio, RoyaltyRatePercent,
    SalesTaxRatePercent) are within [0, 100].

  Callers validate a candidate config BEFORE swapping it in; on rejection
  the previous valid configuration stays in effect.

GRADE TABLE SEMANTICS:
  Grades are open-ended map keys, not an enum. A grade label appearing on
  a revenue line but missing from the tuition table does not invalidate
  the configuration: pricing degrades per pricing.go / recalc.go.

SEE ALSO:
  - constants.go: Default tables
  - errors.go:    ConfigurationError
*/
package engine

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE CONFIGURATION
// =============================================================================

// RateConfig is the single mutable record of rates and tables driving all
// derivations. One instance per scenario session.
type RateConfig struct {
	// Master data
	TuitionTable            map[Grade]map[int]int64 `json:"tuition_table"`
	MonthlyFee              int64                   `json:"monthly_fee"`
	PremiumFeeTable         map[Grade]int64         `json:"premium_fee_table"`
	StudentsPerTeacher      decimal.Decimal         `json:"students_per_teacher"`
	GradeOrder              []Grade                 `json:"grade_order"`
	TransportCostPerTeacher int64                   `json:"transport_cost_per_teacher"`

	// Wage settings
	NormalHourlyWage  int64 `json:"normal_hourly_wage"`
	PremiumHourlyWage int64 `json:"premium_hourly_wage"`
	PremiumWageRatio  int   `json:"premium_wage_ratio"` // percent of teaching time paid at premium rate
	AdminHourlyWage   int64 `json:"admin_hourly_wage"`
	GroupHourlyWage   int64 `json:"group_hourly_wage"`
	GroupDailyHours   int64 `json:"group_daily_hours"`

	// Applied to total revenue, not per line
	RoyaltyRatePercent  int `json:"royalty_rate_percent"`
	SalesTaxRatePercent int `json:"sales_tax_rate_percent"`
}

// DefaultRateConfig returns the out-of-the-box configuration.
func DefaultRateConfig() RateConfig {
	return RateConfig{
		TuitionTable:            DefaultTuitionTable(),
		MonthlyFee:              DefaultMonthlyFee,
		PremiumFeeTable:         DefaultPremiumFeeTable(),
		StudentsPerTeacher:      decimal.NewFromInt(2),
		GradeOrder:              append([]Grade(nil), DefaultGradeOrder...),
		TransportCostPerTeacher: DefaultTransportCostPerTeacher,

		NormalHourlyWage:  1300,
		PremiumHourlyWage: 1800,
		PremiumWageRatio:  50,
		AdminHourlyWage:   1200,
		GroupHourlyWage:   2500,
		GroupDailyHours:   3,

		RoyaltyRatePercent:  0,
		SalesTaxRatePercent: 0,
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the boundary invariants. It returns a
// *ConfigurationError naming the offending field, or nil.
func (c RateConfig) Validate() error {
	if !c.StudentsPerTeacher.IsPositive() {
		return &ConfigurationError{
			Field:  "students_per_teacher",
			Value:  c.StudentsPerTeacher.String(),
			Reason: "must be strictly positive",
		}
	}
	for _, p := range []struct {
		field string
		value int
	}{
		{"premium_wage_ratio", c.PremiumWageRatio},
		{"royalty_rate_percent", c.RoyaltyRatePercent},
		{"sales_tax_rate_percent", c.SalesTaxRatePercent},
	} {
		if p.value < 0 || p.value > 100 {
			return &ConfigurationError{
				Field:  p.field,
				Value:  strconv.Itoa(p.value),
				Reason: "must be within [0, 100]",
			}
		}
	}
	return nil
}

// premiumFee returns the premium surcharge for a grade, 0 when the grade
// has no entry.
func (c RateConfig) premiumFee(grade Grade) int64 {
	return c.PremiumFeeTable[grade]
}

// unitPrice resolves the tuition unit price for a grade/lesson-count
// combination. ok is false when either key is missing.
func (c RateConfig) unitPrice(grade Grade, weeklyLessons int) (price int64, ok bool) {
	lessons, found := c.TuitionTable[grade]
	if !found {
		return 0, false
	}
	price, found = lessons[weeklyLessons]
	return price, found
}

// GradePriority returns the display priority index for a grade, -1 when
// the grade is not in the configured order.
func (c RateConfig) GradePriority(grade Grade) int {
	for i, g := range c.GradeOrder {
		if g == grade {
			return i
		}
	}
	return -1
}
