/*
pricing.go - Enrollment pricing rule

PURPOSE:
  Converts one enrollment intent plus the current rate configuration into
  a priced revenue line. Pure function, no error path: an unknown grade
  or lesson-count combination degrades to unit price 0 rather than
  failing, because pricing must never block data entry.

FORMULA:
  unitPrice        = tuitionTable[grade][weeklyLessons]   (0 if missing)
  premiumSurcharge = premiumFeeTable[grade]               (0 if missing)
  groupSurcharge   = isGroup ? premiumSurcharge * 2 : 0
  amount = (unitPrice + monthlyFee) * studentCount
         + (isPremium ? premiumSurcharge * studentCount : 0)
         + (isGroup   ? groupSurcharge   * studentCount : 0)

All inputs and outputs are integer yen; no rounding is involved.

SEE ALSO:
  - recalc.go: Re-pricing with stale-grade fallback
*/
package engine

// PriceQuote is the result of pricing one enrollment intent.
type PriceQuote struct {
	UnitPrice        int64
	PremiumSurcharge int64 // per student, 0 when not premium
	GroupSurcharge   int64 // per student, 0 when not group
	Amount           int64
}

// PriceEnrollment applies the pricing rule to an intent. A StudentCount
// of zero is treated as 1 (per-student bulk rows omit it).
func PriceEnrollment(intent EnrollmentIntent, cfg RateConfig) PriceQuote {
	count := int64(intent.StudentCount)
	if count <= 0 {
		count = 1
	}

	unitPrice, _ := cfg.unitPrice(intent.Grade, intent.WeeklyLessons)
	premiumFee := cfg.premiumFee(intent.Grade)

	quote := PriceQuote{UnitPrice: unitPrice}
	quote.Amount = (unitPrice + cfg.MonthlyFee) * count
	if intent.IsPremium {
		quote.PremiumSurcharge = premiumFee
		quote.Amount += premiumFee * count
	}
	if intent.IsGroup {
		quote.GroupSurcharge = premiumFee * 2
		quote.Amount += quote.GroupSurcharge * count
	}
	return quote
}
