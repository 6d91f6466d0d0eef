/*
recalc.go - Full re-derivation after a configuration change

PURPOSE:
  Whenever the rate configuration changes, every cached price in the
  ledger is stale. Recalculate re-runs the pricing rule over every
  revenue line and the payroll rule over every linked expense line.
  This is a full pass, not an incremental diff: the rule set is cheap
  and the ledger is bounded by monthly enrollment counts.

STALE-GRADE FALLBACK:
  If a revenue line's grade (or its lesson-count option) has been
  removed from the tuition table, the line keeps its previously cached
  unit price instead of dropping to zero. A previously valid price is
  never silently zeroed; it simply stops updating until the line is
  removed and re-added.

  Surcharges are NOT subject to the fallback: a grade removed from the
  premium fee table prices its surcharge at 0, matching first pricing.

ATOMICITY:
  Runs synchronously with the configuration write that triggered it.
  Callers must not expose the ledger between the write and this pass.
*/
package engine

// Recalculate re-derives every revenue line's cached price and every
// linked payroll line's amount against cfg, in place. Identity and
// unrelated fields are untouched. Returns the same ledger for chaining.
func Recalculate(l *Ledger, cfg RateConfig) *Ledger {
	for i := range l.Revenues {
		repriceLine(&l.Revenues[i], cfg)
	}
	for i := range l.Expenses {
		e := &l.Expenses[i]
		if !e.Linked() {
			continue
		}
		rev := l.FindRevenue(e.LinkedRevenueID)
		if rev == nil {
			continue
		}
		e.Amount = ComputePayroll(rev.WeeklyLessons, rev.StudentCount, rev.IsPremium, cfg)
	}
	return l
}

func repriceLine(r *RevenueLine, cfg RateConfig) {
	unitPrice, ok := cfg.unitPrice(r.Grade, r.WeeklyLessons)
	if !ok {
		// Grade or lesson count gone from the table: keep the cached price.
		unitPrice = r.UnitPrice
	}

	count := int64(r.StudentCount)
	premiumFee := cfg.premiumFee(r.Grade)

	amount := (unitPrice + cfg.MonthlyFee) * count
	if r.IsPremium {
		amount += premiumFee * count
	}
	if r.IsGroup {
		amount += premiumFee * 2 * count
	}

	r.UnitPrice = unitPrice
	r.Amount = amount
}
