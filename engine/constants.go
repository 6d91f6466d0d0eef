package engine

// =============================================================================
// FIXED DERIVATION CONSTANTS
// =============================================================================
// These are structural to the business model, not configuration: lessons
// are 80 minutes, a billing month is 4 weeks, and each lesson carries 10
// minutes of admin work.

const (
	// WeeksPerMonth converts weekly lesson counts to monthly volume.
	WeeksPerMonth = 4

	// LessonDurationMinutes is the length of one lesson slot.
	LessonDurationMinutes = 80

	// AdminMinutesPerLesson is the administrative time paid per teacher
	// lesson.
	AdminMinutesPerLesson = 10
)

// =============================================================================
// DEFAULT RATE TABLES
// =============================================================================
// Default master data. Grades and prices mirror the published tuition
// schedule; everything here is overridable through the rate configuration.

// DefaultGradeOrder is the fixed display priority for revenue lines.
var DefaultGradeOrder = []Grade{"小学生", "中1", "中2", "中3", "高1", "高2", "高3"}

// DefaultTuitionTable maps grade -> weekly lesson count -> unit price (yen).
// Different grades support different lesson-count options.
func DefaultTuitionTable() map[Grade]map[int]int64 {
	return map[Grade]map[int]int64{
		"小学生": {1: 16090, 2: 30490, 3: 43440},
		"中1":  {1: 17550, 2: 33400, 3: 47550},
		"中2":  {1: 17550, 2: 33400, 3: 47550, 4: 60260},
		"中3":  {1: 18510, 2: 35090, 3: 50090, 4: 63280},
		"高1":  {1: 18510, 2: 35090, 3: 50090},
		"高2":  {1: 18510, 2: 35090, 3: 50090},
		"高3":  {1: 19360, 2: 36910, 3: 52510},
	}
}

// DefaultPremiumFeeTable maps grade -> premium plan surcharge (yen).
func DefaultPremiumFeeTable() map[Grade]int64 {
	return map[Grade]int64{
		"小学生": 4235,
		"中1":  4598,
		"中2":  4598,
		"中3":  4840,
		"高1":  4840,
		"高2":  4840,
		"高3":  5082,
	}
}

const (
	// DefaultMonthlyFee is the flat per-student monthly fee (諸費).
	DefaultMonthlyFee int64 = 3600

	// DefaultTransportCostPerTeacher is the monthly transport allowance
	// per teacher.
	DefaultTransportCostPerTeacher int64 = 2000
)
