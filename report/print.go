package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/juku/tuition-engine/engine"
)

// =============================================================================
// TEXT REPORT - Printable monthly statement
// =============================================================================
// Mirrors the printed report layout: income section with the revenue
// breakdown, expense section with the category buckets, monthly profit,
// then the detail tables.

const reportWidth = 46

// RenderText writes the monthly management report as plain text.
func RenderText(w io.Writer, l *engine.Ledger, cfg engine.RateConfig, targetYear, targetMonth int, now time.Time) error {
	s := engine.Summarize(l, cfg)

	var b strings.Builder
	rule := strings.Repeat("=", reportWidth)
	thin := strings.Repeat("-", reportWidth)

	b.WriteString(rule + "\n")
	b.WriteString("経営収支報告書\n")
	b.WriteString(fmt.Sprintf("対象年月: %d年%d月    出力日: %d/%d/%d\n",
		targetYear, targetMonth, now.Year(), int(now.Month()), now.Day()))
	b.WriteString(rule + "\n\n")

	b.WriteString("【収入の部】\n")
	writeAmountLine(&b, "収入合計", s.TotalRevenue)
	b.WriteString(thin + "\n")
	writeAmountLine(&b, "  個別指導授業料", s.BaseTuitionTotal)
	writeAmountLine(&b, "  諸費", s.MonthlyFeeTotal)
	writeAmountLine(&b, "  プレミア費", s.PremiumFeeTotal)
	writeAmountLine(&b, "  グループレッスン費", s.GroupFeeTotal)
	b.WriteString(fmt.Sprintf("  生徒総数: %d名\n\n", s.TotalStudents))

	b.WriteString("【支出の部】\n")
	writeAmountLine(&b, "支出合計", s.TotalExpense)
	b.WriteString(thin + "\n")
	writeAmountLine(&b, "  人件費 (給与)", s.PayrollTotal)
	writeAmountLine(&b, "  人件費 (交通費)", s.TransportTotal)
	writeAmountLine(&b, "  その他固定費", s.FixedTotal)
	if s.GroupPayrollTotal > 0 {
		writeAmountLine(&b, "  グループレッスン人件費", s.GroupPayrollTotal)
	}
	if s.RoyaltyAmount > 0 {
		writeAmountLine(&b, "  ロイヤリティ", s.RoyaltyAmount)
	}
	if s.SalesTaxAmount > 0 {
		writeAmountLine(&b, "  消費税", s.SalesTaxAmount)
	}
	b.WriteString("\n【月間損益】\n")
	writeAmountLine(&b, "損益", s.TotalProfit)
	if s.TotalRevenue > 0 {
		b.WriteString(fmt.Sprintf("利益率: %.1f%%\n", float64(s.TotalProfit)/float64(s.TotalRevenue)*100))
	}

	b.WriteString("\n【詳細内訳】\n")
	for _, item := range engine.DisplayItems(l, cfg) {
		marker := "支"
		if item.IsRevenue {
			marker = "収"
		}
		b.WriteString(fmt.Sprintf("[%s] %s  ¥%d\n", marker, item.Description, item.Amount))
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeAmountLine(b *strings.Builder, label string, amount int64) {
	b.WriteString(fmt.Sprintf("%s: ¥%d\n", label, amount))
}
