/*
summary.go - Summary aggregation and display ordering

PURPOSE:
  A pure fold over the ledger and rate configuration producing the
  reportable totals, plus the combined display list merging revenue and
  expense lines in report order.

TOTALS:
  totalRevenue   = sum of revenue line amounts
  royalty, tax   = round(totalRevenue * rate/100), rounded independently
  totalExpense   = sum of expense line amounts + royalty + tax
  totalProfit    = totalRevenue - totalExpense

  The revenue breakdown (base tuition, monthly fees, premium fees, group
  fees) is recomputed from the lines and the configuration, not derived
  from the cached amounts, so the itemized report stays truthful even
  when surcharge rates changed after a stale-grade fallback.

DISPLAY ORDER:
  Revenue lines by grade priority; each linked payroll line immediately
  after its revenue line (priority + 0.5); unlinked expense lines after
  all of those; synthetic royalty then tax lines always last. Ties break
  by id ascending. Royalty/tax items exist only in this derived list and
  only when non-zero - they are never part of the persisted ledger.
*/
package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SUMMARY
// =============================================================================

// Summary is the reportable aggregate of one ledger state.
type Summary struct {
	TotalRevenue  int64 `json:"total_revenue"`
	TotalExpense  int64 `json:"total_expense"` // includes royalty and sales tax
	TotalProfit   int64 `json:"total_profit"`
	TotalStudents int   `json:"total_students"`

	// Expense breakdown by category bucket
	PayrollTotal      int64 `json:"payroll_total"`
	TransportTotal    int64 `json:"transport_total"`
	GroupPayrollTotal int64 `json:"group_payroll_total"`
	FixedTotal        int64 `json:"fixed_total"`
	RoyaltyAmount     int64 `json:"royalty_amount"`
	SalesTaxAmount    int64 `json:"sales_tax_amount"`

	// Revenue breakdown, recomputed from lines + configuration
	BaseTuitionTotal int64 `json:"base_tuition_total"`
	MonthlyFeeTotal  int64 `json:"monthly_fee_total"`
	PremiumFeeTotal  int64 `json:"premium_fee_total"`
	GroupFeeTotal    int64 `json:"group_fee_total"`
}

// Summarize folds the ledger into a Summary.
func Summarize(l *Ledger, cfg RateConfig) Summary {
	var s Summary

	for _, r := range l.Revenues {
		s.TotalRevenue += r.Amount
		s.TotalStudents += r.StudentCount

		count := int64(r.StudentCount)
		premiumFee := cfg.premiumFee(r.Grade)
		s.BaseTuitionTotal += r.UnitPrice * count
		s.MonthlyFeeTotal += cfg.MonthlyFee * count
		if r.IsPremium {
			s.PremiumFeeTotal += premiumFee * count
		}
		if r.IsGroup {
			s.GroupFeeTotal += premiumFee * 2 * count
		}
	}

	var rawExpense int64
	for _, e := range l.Expenses {
		rawExpense += e.Amount
		switch e.Category {
		case CategoryPayroll:
			s.PayrollTotal += e.Amount
		case CategoryTransport:
			s.TransportTotal += e.Amount
		case CategoryGroupPayroll:
			s.GroupPayrollTotal += e.Amount
		default:
			s.FixedTotal += e.Amount
		}
	}

	s.RoyaltyAmount = percentOf(s.TotalRevenue, cfg.RoyaltyRatePercent)
	s.SalesTaxAmount = percentOf(s.TotalRevenue, cfg.SalesTaxRatePercent)

	s.TotalExpense = rawExpense + s.RoyaltyAmount + s.SalesTaxAmount
	s.TotalProfit = s.TotalRevenue - s.TotalExpense
	return s
}

// percentOf rounds half-up, independently per rate.
func percentOf(total int64, ratePercent int) int64 {
	if ratePercent == 0 || total == 0 {
		return 0
	}
	return roundYen(decimal.NewFromInt(total).
		Mul(decimal.NewFromInt(int64(ratePercent))).
		Div(hundred))
}

// =============================================================================
// COMBINED DISPLAY LIST
// =============================================================================

// DisplayItem is one row of the merged revenue/expense report list.
type DisplayItem struct {
	ID          LineID          `json:"id,omitempty"` // 0 for synthetic royalty/tax rows
	IsRevenue   bool            `json:"is_revenue"`
	Category    ExpenseCategory `json:"category,omitempty"` // empty for revenue rows
	Description string          `json:"description"`
	Amount      int64           `json:"amount"`

	sortKey float64
}

const (
	sortKeyUnlinkedPayroll = 99  // payroll line whose revenue line vanished
	sortKeyOtherExpense    = 100 // transport, group, fixed
	sortKeyRoyalty         = 200
	sortKeyTax             = 201
)

// DisplayItems merges revenue and expense lines into report order and
// materializes the synthetic royalty/tax rows when non-zero.
func DisplayItems(l *Ledger, cfg RateConfig) []DisplayItem {
	items := make([]DisplayItem, 0, len(l.Revenues)+len(l.Expenses)+2)

	for _, r := range l.Revenues {
		items = append(items, DisplayItem{
			ID:          r.ID,
			IsRevenue:   true,
			Description: r.Description,
			Amount:      r.Amount,
			sortKey:     float64(cfg.GradePriority(r.Grade)),
		})
	}

	for _, e := range l.Expenses {
		key := float64(sortKeyOtherExpense)
		if e.Linked() {
			key = sortKeyUnlinkedPayroll
			if rev := l.FindRevenue(e.LinkedRevenueID); rev != nil {
				key = float64(cfg.GradePriority(rev.Grade)) + 0.5
			}
		}
		items = append(items, DisplayItem{
			ID:          e.ID,
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount,
			sortKey:     key,
		})
	}

	var totalRevenue int64
	for _, r := range l.Revenues {
		totalRevenue += r.Amount
	}
	if royalty := percentOf(totalRevenue, cfg.RoyaltyRatePercent); royalty > 0 {
		items = append(items, DisplayItem{
			Category:    CategoryRoyalty,
			Description: fmt.Sprintf("ロイヤリティ (%d%%)", cfg.RoyaltyRatePercent),
			Amount:      royalty,
			sortKey:     sortKeyRoyalty,
		})
	}
	if tax := percentOf(totalRevenue, cfg.SalesTaxRatePercent); tax > 0 {
		items = append(items, DisplayItem{
			Category:    CategoryTax,
			Description: fmt.Sprintf("消費税 (%d%%)", cfg.SalesTaxRatePercent),
			Amount:      tax,
			sortKey:     sortKeyTax,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].sortKey != items[j].sortKey {
			return items[i].sortKey < items[j].sortKey
		}
		return items[i].ID < items[j].ID
	})
	return items
}
