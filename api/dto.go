/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the internal domain
  model from the external contract. Engine line types and the scenario
  document already carry JSON tags and are returned directly; this file
  holds the request shapes and thin response wrappers.

NAMING CONVENTION:
  - *Request:  Request body types from clients
  - *Response: Response wrappers

VALIDATION:
  Done in handlers; DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/juku/tuition-engine/engine"
	"github.com/juku/tuition-engine/scenario"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// EnrollmentRequest is one enrollment intent as posted by the client.
type EnrollmentRequest struct {
	StudentName   string `json:"student_name"`
	Grade         string `json:"grade"`
	WeeklyLessons int    `json:"weekly_lessons"`
	StudentCount  int    `json:"student_count"`
	IsPremium     bool   `json:"is_premium"`
	IsGroup       bool   `json:"is_group"`
}

func (r EnrollmentRequest) intent() engine.EnrollmentIntent {
	return engine.EnrollmentIntent{
		StudentName:   r.StudentName,
		Grade:         engine.Grade(r.Grade),
		WeeklyLessons: r.WeeklyLessons,
		StudentCount:  r.StudentCount,
		IsPremium:     r.IsPremium,
		IsGroup:       r.IsGroup,
	}
}

// BulkEnrollmentRequest posts multiple intents at once, order preserved.
type BulkEnrollmentRequest struct {
	Items []EnrollmentRequest `json:"items"`
}

// FixedExpenseRequest adds to or sets a fixed expense line.
type FixedExpenseRequest struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// TransportRequest replaces the transport line for a teacher headcount.
type TransportRequest struct {
	TeacherCount int `json:"teacher_count"`
}

// GroupPayrollRequest upserts the flat group labor line.
type GroupPayrollRequest struct {
	WeeklyOpenDays int `json:"weekly_open_days"`
}

// TargetRequest updates the snapshot year/month label.
type TargetRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// SlotRequest names a persistence slot.
type SlotRequest struct {
	Slot string `json:"slot"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SummaryResponse pairs the totals with the snapshot label.
type SummaryResponse struct {
	TargetYear  int            `json:"target_year"`
	TargetMonth int            `json:"target_month"`
	Summary     engine.Summary `json:"summary"`
}

// ItemsResponse is the merged display list.
type ItemsResponse struct {
	Items []engine.DisplayItem `json:"items"`
}

// EnrollmentResponse returns the created revenue line(s).
type EnrollmentResponse struct {
	Revenues []engine.RevenueLine `json:"revenues"`
}

// ImportResponse reports a bulk CSV import outcome.
type ImportResponse struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// SlotsResponse lists saved scenario slots.
type SlotsResponse struct {
	Slots []scenario.SlotInfo `json:"slots"`
}

// RemoveResponse reports whether a line was removed.
type RemoveResponse struct {
	Removed bool `json:"removed"`
}
