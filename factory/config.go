/*
Package factory provides JSON to rate-configuration conversion.

PURPOSE:
  Converts JSON rate-configuration documents into engine.RateConfig.
  This enables price-table edits without code changes - the operator
  edits JSON (or an admin UI posts it), and the factory produces a
  validated configuration.

JSON SCHEMA:
  {
    "tuition_table": {
      "中1": {"1": 17550, "2": 33400, "3": 47550}
    },
    "monthly_fee": 3600,
    "premium_fee_table": {"中1": 4598},
    "students_per_teacher": 2,
    "grade_order": ["小学生", "中1"],
    "normal_hourly_wage": 1300,
    "premium_hourly_wage": 1800,
    "premium_wage_ratio": 50,
    "admin_hourly_wage": 1200,
    "group_hourly_wage": 2500,
    "group_daily_hours": 3,
    "transport_cost_per_teacher": 2000,
    "royalty_rate_percent": 0,
    "sales_tax_rate_percent": 0
  }

KEY FEATURES:
  - Omitted fields fall back to the engine defaults
  - Lesson-count keys are JSON object keys, so strings; the factory
    converts and rejects non-numeric keys
  - The assembled configuration is validated before being returned;
    invalid values surface as engine.ConfigurationError

USAGE:
  cfg, err := factory.ParseConfig(jsonBytes)
  if err != nil { ... }
  session.SetConfig(ctx, cfg)

SEE ALSO:
  - engine/config.go: RateConfig and validation rules
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/juku/tuition-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of a rate configuration.
// Pointer fields distinguish "omitted" (use default) from explicit
// zero values.
type ConfigJSON struct {
	TuitionTable            map[string]map[string]int64 `json:"tuition_table,omitempty"`
	MonthlyFee              *int64                      `json:"monthly_fee,omitempty"`
	PremiumFeeTable         map[string]int64            `json:"premium_fee_table,omitempty"`
	StudentsPerTeacher      *json.Number                `json:"students_per_teacher,omitempty"`
	GradeOrder              []string                    `json:"grade_order,omitempty"`
	TransportCostPerTeacher *int64                      `json:"transport_cost_per_teacher,omitempty"`

	NormalHourlyWage  *int64 `json:"normal_hourly_wage,omitempty"`
	PremiumHourlyWage *int64 `json:"premium_hourly_wage,omitempty"`
	PremiumWageRatio  *int   `json:"premium_wage_ratio,omitempty"`
	AdminHourlyWage   *int64 `json:"admin_hourly_wage,omitempty"`
	GroupHourlyWage   *int64 `json:"group_hourly_wage,omitempty"`
	GroupDailyHours   *int64 `json:"group_daily_hours,omitempty"`

	RoyaltyRatePercent  *int `json:"royalty_rate_percent,omitempty"`
	SalesTaxRatePercent *int `json:"sales_tax_rate_percent,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseConfig converts a JSON document into a validated RateConfig.
// Omitted fields keep their engine defaults.
func ParseConfig(data []byte) (engine.RateConfig, error) {
	var doc ConfigJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return engine.RateConfig{}, fmt.Errorf("invalid configuration JSON: %w", err)
	}
	return BuildConfig(doc)
}

// BuildConfig assembles a RateConfig from an already-decoded document.
func BuildConfig(doc ConfigJSON) (engine.RateConfig, error) {
	cfg := engine.DefaultRateConfig()

	if doc.TuitionTable != nil {
		table, err := convertTuitionTable(doc.TuitionTable)
		if err != nil {
			return engine.RateConfig{}, err
		}
		cfg.TuitionTable = table
	}
	if doc.PremiumFeeTable != nil {
		fees := make(map[engine.Grade]int64, len(doc.PremiumFeeTable))
		for grade, fee := range doc.PremiumFeeTable {
			fees[engine.Grade(grade)] = fee
		}
		cfg.PremiumFeeTable = fees
	}
	if doc.GradeOrder != nil {
		order := make([]engine.Grade, len(doc.GradeOrder))
		for i, g := range doc.GradeOrder {
			order[i] = engine.Grade(g)
		}
		cfg.GradeOrder = order
	}
	if doc.StudentsPerTeacher != nil {
		d, err := decimal.NewFromString(doc.StudentsPerTeacher.String())
		if err != nil {
			return engine.RateConfig{}, fmt.Errorf("invalid students_per_teacher %q: %w", doc.StudentsPerTeacher.String(), err)
		}
		cfg.StudentsPerTeacher = d
	}

	setInt64(&cfg.MonthlyFee, doc.MonthlyFee)
	setInt64(&cfg.TransportCostPerTeacher, doc.TransportCostPerTeacher)
	setInt64(&cfg.NormalHourlyWage, doc.NormalHourlyWage)
	setInt64(&cfg.PremiumHourlyWage, doc.PremiumHourlyWage)
	setInt64(&cfg.AdminHourlyWage, doc.AdminHourlyWage)
	setInt64(&cfg.GroupHourlyWage, doc.GroupHourlyWage)
	setInt64(&cfg.GroupDailyHours, doc.GroupDailyHours)
	setInt(&cfg.PremiumWageRatio, doc.PremiumWageRatio)
	setInt(&cfg.RoyaltyRatePercent, doc.RoyaltyRatePercent)
	setInt(&cfg.SalesTaxRatePercent, doc.SalesTaxRatePercent)

	if err := cfg.Validate(); err != nil {
		return engine.RateConfig{}, err
	}
	return cfg, nil
}

func convertTuitionTable(raw map[string]map[string]int64) (map[engine.Grade]map[int]int64, error) {
	table := make(map[engine.Grade]map[int]int64, len(raw))
	for grade, lessons := range raw {
		converted := make(map[int]int64, len(lessons))
		for key, price := range lessons {
			var count int
			if _, err := fmt.Sscanf(key, "%d", &count); err != nil || count <= 0 {
				return nil, fmt.Errorf("tuition_table[%s]: invalid lesson count key %q", grade, key)
			}
			converted[count] = price
		}
		table[engine.Grade(grade)] = converted
	}
	return table, nil
}

func setInt64(dst *int64, src *int64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
