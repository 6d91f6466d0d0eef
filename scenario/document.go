/*
Package scenario owns one in-process simulation session.

PURPOSE:
  Wraps the calculation engine with the session-level concerns the core
  deliberately excludes: the target year/month label, configuration
  writes (validate -> swap -> recalculate), and mirroring the whole
  state to a persistence slot.

KEY CONCEPTS:
  - Session:  Exclusive owner of one ledger + rate configuration
  - Document: The plain serializable snapshot of a session
  - DocumentStore: Where documents are mirrored (sqlite, memory)

CONCURRENCY:
  Single-threaded by design. A Session has no internal locking; callers
  that share one across goroutines (the HTTP handler does) serialize
  access themselves.

SEE ALSO:
  - engine: The pure derivation rules
  - store/sqlite, store/memory: DocumentStore implementations
*/
package scenario

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/juku/tuition-engine/engine"
)

// =============================================================================
// DOCUMENT - Serializable session snapshot
// =============================================================================

// Document is the plain data mirrored to a persistence slot. It carries
// everything needed to restore a session: the ledger, the full rate
// configuration, and the snapshot labels. Synthetic royalty/tax display
// rows are never part of it.
type Document struct {
	Revenues    []engine.RevenueLine `json:"revenues"`
	Expenses    []engine.ExpenseLine `json:"expenses"`
	NextID      engine.LineID        `json:"next_id"`
	Config      engine.RateConfig    `json:"config"`
	TargetYear  int                  `json:"target_year"`
	TargetMonth int                  `json:"target_month"`
	AutoSave    bool                 `json:"auto_save"`
	SavedAt     time.Time            `json:"saved_at,omitempty"`
}

// ledger rebuilds an engine ledger from the document.
func (d Document) ledger() *engine.Ledger {
	l := &engine.Ledger{
		Revenues: append([]engine.RevenueLine(nil), d.Revenues...),
		Expenses: append([]engine.ExpenseLine(nil), d.Expenses...),
		NextID:   d.NextID,
	}
	if l.NextID == 0 {
		l.NextID = 1
	}
	return l
}

// =============================================================================
// PARTIAL CONFIGURATION VIEWS
// =============================================================================
// Configuration edits arrive through two separate surfaces, wages and
// master data, matching the settings and master-data edit screens.
// Each view is merged onto the current config, validated as a whole,
// and only then swapped in.

// WageSettings is the instructor pay and percentage portion of the
// configuration.
type WageSettings struct {
	NormalHourlyWage    int64 `json:"normal_hourly_wage"`
	PremiumHourlyWage   int64 `json:"premium_hourly_wage"`
	PremiumWageRatio    int   `json:"premium_wage_ratio"`
	AdminHourlyWage     int64 `json:"admin_hourly_wage"`
	GroupHourlyWage     int64 `json:"group_hourly_wage"`
	GroupDailyHours     int64 `json:"group_daily_hours"`
	RoyaltyRatePercent  int   `json:"royalty_rate_percent"`
	SalesTaxRatePercent int   `json:"sales_tax_rate_percent"`
}

func (w WageSettings) applyTo(cfg engine.RateConfig) engine.RateConfig {
	cfg.NormalHourlyWage = w.NormalHourlyWage
	cfg.PremiumHourlyWage = w.PremiumHourlyWage
	cfg.PremiumWageRatio = w.PremiumWageRatio
	cfg.AdminHourlyWage = w.AdminHourlyWage
	cfg.GroupHourlyWage = w.GroupHourlyWage
	cfg.GroupDailyHours = w.GroupDailyHours
	cfg.RoyaltyRatePercent = w.RoyaltyRatePercent
	cfg.SalesTaxRatePercent = w.SalesTaxRatePercent
	return cfg
}

// MasterData is the price-table portion of the configuration.
type MasterData struct {
	TuitionTable       map[engine.Grade]map[int]int64 `json:"tuition_table"`
	MonthlyFee         int64                          `json:"monthly_fee"`
	PremiumFeeTable    map[engine.Grade]int64         `json:"premium_fee_table"`
	StudentsPerTeacher decimal.Decimal                `json:"students_per_teacher"`
}

func (m MasterData) applyTo(cfg engine.RateConfig) engine.RateConfig {
	cfg.TuitionTable = m.TuitionTable
	cfg.MonthlyFee = m.MonthlyFee
	cfg.PremiumFeeTable = m.PremiumFeeTable
	cfg.StudentsPerTeacher = m.StudentsPerTeacher
	return cfg
}

// MasterDataOf extracts the master-data view of a configuration.
func MasterDataOf(cfg engine.RateConfig) MasterData {
	return MasterData{
		TuitionTable:       cfg.TuitionTable,
		MonthlyFee:         cfg.MonthlyFee,
		PremiumFeeTable:    cfg.PremiumFeeTable,
		StudentsPerTeacher: cfg.StudentsPerTeacher,
	}
}

// WageSettingsOf extracts the wage view of a configuration.
func WageSettingsOf(cfg engine.RateConfig) WageSettings {
	return WageSettings{
		NormalHourlyWage:    cfg.NormalHourlyWage,
		PremiumHourlyWage:   cfg.PremiumHourlyWage,
		PremiumWageRatio:    cfg.PremiumWageRatio,
		AdminHourlyWage:     cfg.AdminHourlyWage,
		GroupHourlyWage:     cfg.GroupHourlyWage,
		GroupDailyHours:     cfg.GroupDailyHours,
		RoyaltyRatePercent:  cfg.RoyaltyRatePercent,
		SalesTaxRatePercent: cfg.SalesTaxRatePercent,
	}
}
