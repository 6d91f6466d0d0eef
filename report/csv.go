/*
Package report renders ledger state for export and printing.

PURPOSE:
  The core produces plain data; this package turns it into the two
  outward formats the simulator supports:
  - a per-student monthly statement CSV (Excel-compatible: UTF-8 BOM,
    CRLF line endings)
  - a plain-text monthly report (print surface)
  and parses bulk-enrollment CSV rows back into enrollment intents.

CSV EXPORT:
  One row PER STUDENT: a revenue line with studentCount 3 expands into
  three identical rows. Component columns (tuition, monthly fee, premium
  fee, group fee) are resolved against the CURRENT configuration; the
  tuition column is the line's cached unit price, so stale-grade lines
  export the price they are actually billed at.

BULK IMPORT:
  Columns: name, grade, weekly lessons, premium flag (あり/TRUE/1).
  A header row containing 氏名 is skipped. Rows with an unknown grade or
  a non-numeric lesson count are skipped and counted, never fatal.
  Student count is fixed to 1 - bulk rows are individual students.
*/
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/juku/tuition-engine/engine"
)

// utf8BOM keeps Excel happy with Japanese column headers.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// exportHeader is the statement column layout.
var exportHeader = []string{"氏名", "学年", "授業料", "諸費", "プレミア費", "グループ費", "月謝総計", "対象年月", "出力日"}

// =============================================================================
// EXPORT
// =============================================================================

// ExportRow is one per-student statement row.
type ExportRow struct {
	StudentName string
	Grade       engine.Grade
	Tuition     int64
	MonthlyFee  int64
	PremiumFee  int64
	GroupFee    int64
	Total       int64
	TargetLabel string // e.g. "2026年8月"
	OutputDate  string // e.g. "2026/8/28"
}

// ExportRows expands the ledger into per-student statement rows.
func ExportRows(l *engine.Ledger, cfg engine.RateConfig, targetYear, targetMonth int, now time.Time) []ExportRow {
	targetLabel := fmt.Sprintf("%d年%d月", targetYear, targetMonth)
	outputDate := fmt.Sprintf("%d/%d/%d", now.Year(), int(now.Month()), now.Day())

	var rows []ExportRow
	for _, r := range l.Revenues {
		premiumFee := int64(0)
		groupFee := int64(0)
		if fee := cfg.PremiumFeeTable[r.Grade]; fee > 0 {
			if r.IsPremium {
				premiumFee = fee
			}
			if r.IsGroup {
				groupFee = fee * 2
			}
		}
		for i := 0; i < r.StudentCount; i++ {
			rows = append(rows, ExportRow{
				StudentName: r.StudentName,
				Grade:       r.Grade,
				Tuition:     r.UnitPrice,
				MonthlyFee:  cfg.MonthlyFee,
				PremiumFee:  premiumFee,
				GroupFee:    groupFee,
				Total:       r.UnitPrice + cfg.MonthlyFee + premiumFee + groupFee,
				TargetLabel: targetLabel,
				OutputDate:  outputDate,
			})
		}
	}
	return rows
}

// WriteCSV writes the statement with BOM and CRLF line endings.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.StudentName,
			string(r.Grade),
			strconv.FormatInt(r.Tuition, 10),
			strconv.FormatInt(r.MonthlyFee, 10),
			strconv.FormatInt(r.PremiumFee, 10),
			strconv.FormatInt(r.GroupFee, 10),
			strconv.FormatInt(r.Total, 10),
			r.TargetLabel,
			r.OutputDate,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename is the suggested download name, e.g. 月謝明細_2026-08.csv.
func ExportFilename(targetYear, targetMonth int) string {
	return fmt.Sprintf("月謝明細_%d-%02d.csv", targetYear, targetMonth)
}

// =============================================================================
// BULK IMPORT
// =============================================================================

// ImportResult is the outcome of parsing a bulk-enrollment CSV.
type ImportResult struct {
	Intents []engine.EnrollmentIntent
	Skipped int // rows dropped for an unknown grade or invalid lesson count
}

// ParseBulkCSV parses bulk-enrollment rows. Grades are validated against
// cfg.GradeOrder; invalid rows are skipped, not fatal. Only a read error
// on r itself returns a non-nil error.
func ParseBulkCSV(r io.Reader, cfg engine.RateConfig) (ImportResult, error) {
	var result ImportResult

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		line = strings.TrimPrefix(line, string(utf8BOM))
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first {
			first = false
			if strings.Contains(line, "氏名") {
				continue
			}
		}

		cols := strings.Split(line, ",")
		if len(cols) < 3 {
			continue
		}

		name := strings.TrimSpace(cols[0])
		grade := engine.Grade(strings.TrimSpace(cols[1]))
		lessons, err := strconv.Atoi(strings.TrimSpace(cols[2]))

		premium := false
		if len(cols) > 3 {
			switch strings.TrimSpace(cols[3]) {
			case "あり", "TRUE", "1":
				premium = true
			}
		}

		if cfg.GradePriority(grade) < 0 || err != nil {
			result.Skipped++
			continue
		}

		result.Intents = append(result.Intents, engine.EnrollmentIntent{
			StudentName:   name,
			Grade:         grade,
			WeeklyLessons: lessons,
			StudentCount:  1,
			IsPremium:     premium,
		})
	}
	if err := scanner.Err(); err != nil {
		return ImportResult{}, fmt.Errorf("failed to read import data: %w", err)
	}
	return result, nil
}
