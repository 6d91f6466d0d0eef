/*
payroll.go - Instructor payroll rules

PURPOSE:
  Two independent sub-rules:

  PER-STUDENT PAYROLL (linked to a revenue line):
    studentLessonVolume = weeklyLessons * studentCount * WeeksPerMonth
    teacherLessonVolume = studentLessonVolume / studentsPerTeacher
    teacherHours        = teacherLessonVolume * 80/60
    teachingPay         = round(hours split across premium/normal wages)
    adminPay            = round(teacherLessonVolume * 10/60 * adminWage)
    total               = teachingPay + adminPay

  GROUP PAYROLL (flat, independent of student counts):
    amount = groupHourlyWage * groupDailyHours * weeklyOpenDays * WeeksPerMonth

ROUNDING:
  Round-half-up to the nearest yen, applied to teachingPay and adminPay
  INDEPENDENTLY before summing, never to the final sum. decimal.Round
  rounds half away from zero, which is half-up for the non-negative
  values that occur here; published report numbers depend on this
  bit-exactly.

PRECONDITION:
  cfg.StudentsPerTeacher > 0, guaranteed by RateConfig.Validate at the
  configuration write boundary. The rule itself performs no division
  guard and must never see an invalid divisor.
*/
package engine

import "github.com/shopspring/decimal"

var (
	sixty   = decimal.NewFromInt(60)
	hundred = decimal.NewFromInt(100)
)

// roundYen rounds half-up to an integer yen amount.
func roundYen(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// ComputePayroll derives the monthly pay for the instructor time behind
// one non-group enrollment: teaching pay plus per-lesson admin pay.
func ComputePayroll(weeklyLessons, studentCount int, isPremium bool, cfg RateConfig) int64 {
	count := studentCount
	if count <= 0 {
		count = 1
	}

	studentLessonVolume := decimal.NewFromInt(int64(weeklyLessons * count * WeeksPerMonth))
	teacherLessonVolume := studentLessonVolume.Div(cfg.StudentsPerTeacher)
	teacherHours := teacherLessonVolume.Mul(decimal.NewFromInt(LessonDurationMinutes)).Div(sixty)

	var teachingPay int64
	if isPremium {
		ratio := decimal.NewFromInt(int64(cfg.PremiumWageRatio)).Div(hundred)
		premiumHours := teacherHours.Mul(ratio)
		normalHours := teacherHours.Sub(premiumHours)
		teachingPay = roundYen(
			premiumHours.Mul(decimal.NewFromInt(cfg.PremiumHourlyWage)).
				Add(normalHours.Mul(decimal.NewFromInt(cfg.NormalHourlyWage))))
	} else {
		teachingPay = roundYen(teacherHours.Mul(decimal.NewFromInt(cfg.NormalHourlyWage)))
	}

	adminPay := roundYen(
		teacherLessonVolume.
			Mul(decimal.NewFromInt(AdminMinutesPerLesson)).Div(sixty).
			Mul(decimal.NewFromInt(cfg.AdminHourlyWage)))

	return teachingPay + adminPay
}

// ComputeGroupPayroll derives the flat monthly labor cost of running
// group lessons for the given number of open days per week. All inputs
// are integers; no rounding is needed.
func ComputeGroupPayroll(weeklyOpenDays int, cfg RateConfig) int64 {
	return cfg.GroupHourlyWage * cfg.GroupDailyHours * int64(weeklyOpenDays) * WeeksPerMonth
}
