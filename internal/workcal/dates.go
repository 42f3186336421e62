package workcal

// RU production calendar, 2024-2025.

func dateSet(days ...string) map[string]bool {
	m := make(map[string]bool, len(days))
	for _, d := range days {
		m[d] = true
	}
	return m
}

// holidays are official non-working holiday dates.
var holidays = dateSet(
	// 2024
	"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
	"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08",
	"2024-02-23",
	"2024-03-08",
	"2024-05-01",
	"2024-05-09",
	"2024-06-12",
	"2024-11-04",
	// 2025
	"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04",
	"2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08",
	"2025-02-23",
	"2025-03-08",
	"2025-05-01",
	"2025-05-09",
	"2025-06-12",
	"2025-11-04",
)

// nonWorkDays are transferred rest days that are not holidays themselves.
var nonWorkDays = dateSet(
	// 2024
	"2024-04-29", "2024-04-30",
	"2024-05-10",
	"2024-12-30", "2024-12-31",
	// 2025
	"2025-05-02", "2025-05-08",
	"2025-06-13",
	"2025-11-03",
	"2025-12-31",
)

// preHolidays are shortened 7-hour working days.
var preHolidays = dateSet(
	// 2024
	"2024-02-22",
	"2024-03-07",
	"2024-04-27",
	"2024-05-08",
	"2024-06-11",
	"2024-11-02",
	"2024-12-28",
	// 2025
	"2025-03-07",
	"2025-04-30",
	"2025-06-11",
	"2025-11-01",
	"2025-12-30",
)

// workingWeekends are Saturdays moved into the working week by transfer
// decrees. Shortened ones also appear in preHolidays, which wins.
var workingWeekends = dateSet(
	"2024-04-27",
	"2024-11-02",
	"2024-12-28",
	"2025-11-01",
)
