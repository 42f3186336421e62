// Package aggregate turns raw time tracks into report rows. All duration
// addition funnels through the ISO round-trip in internal/duration so that
// every summation in the system shares a single arithmetic path.
package aggregate

import (
	"sort"

	"tsheet/internal/duration"
	"tsheet/internal/models"
	"tsheet/internal/workcal"
)

// User is the roster slice the aggregator receives; order is preserved and
// becomes the column order of any table rendered from the result.
type User struct {
	UID     int64
	Display string
}

// ByIssueResult pairs the aggregated rows with the ordered user id list.
type ByIssueResult struct {
	Rows    []models.IssueSummaryRow
	UserIDs []int64
}

// ByIssue groups tracks by issue key and sums durations per user and per
// row. Tracks without an issue key are skipped. Tracks whose duration does
// not parse contribute nothing, but do not suppress the row when other
// tracks for the same issue are valid. Rows come back sorted by total
// duration descending; ties keep insertion order.
func ByIssue(tracks []models.TrackByUser, users []User) ByIssueResult {
	userIDs := make([]int64, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.UID)
	}

	byKey := make(map[string]*models.IssueSummaryRow)
	var order []string

	for _, tr := range tracks {
		if tr.IssueKey == "" {
			continue
		}
		row, ok := byKey[tr.IssueKey]
		if !ok {
			row = &models.IssueSummaryRow{
				IssueKey:     tr.IssueKey,
				IssueSummary: tr.IssueSummary,
				Users:        make(map[int64]models.BusinessDuration),
			}
			byKey[tr.IssueKey] = row
			order = append(order, tr.IssueKey)
		}

		if _, ok := duration.ISOToMs(tr.Duration); !ok {
			continue
		}
		// Round-trip through ISO: serialize the running total back to the
		// string form and re-sum, rather than keeping a ms accumulator.
		if cur, ok := row.Users[tr.UID]; ok {
			row.Users[tr.UID] = duration.AddISO(duration.BusinessToISO(cur), tr.Duration)
		} else {
			row.Users[tr.UID] = duration.SumISO([]string{tr.Duration})
		}
	}

	rows := make([]models.IssueSummaryRow, 0, len(order))
	for _, key := range order {
		row := byKey[key]
		// Total is recomputed across all known user ids, independent of the
		// map's insertion order.
		isos := make([]string, 0, len(userIDs))
		for _, uid := range userIDs {
			if d, ok := row.Users[uid]; ok {
				isos = append(isos, duration.BusinessToISO(d))
			}
		}
		row.Total = duration.SumISO(isos)
		rows = append(rows, *row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return duration.BusinessToMs(rows[i].Total) > duration.BusinessToMs(rows[j].Total)
	})

	return ByIssueResult{Rows: rows, UserIDs: userIDs}
}

// ByDay sums one user's tracks per calendar day and pairs each day's total
// with the expected hours from the production calendar. Days appear in
// ascending date order; only days with at least one parseable track appear.
func ByDay(tracks []models.TrackByUser, uid int64) []models.DaySummary {
	byDay := make(map[string][]string)
	for _, tr := range tracks {
		if tr.UID != uid {
			continue
		}
		if _, ok := duration.ISOToMs(tr.Duration); !ok {
			continue
		}
		day := workcal.NormalizeDay(tr.Start)
		byDay[day] = append(byDay[day], tr.Duration)
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]models.DaySummary, 0, len(days))
	for _, d := range days {
		out = append(out, models.DaySummary{
			Day:      d,
			Logged:   duration.SumISO(byDay[d]),
			Expected: workcal.ExpectedHours(d),
		})
	}
	return out
}

// UserTotal sums every parseable duration a user logged across all tracks.
func UserTotal(tracks []models.TrackByUser, uid int64) models.BusinessDuration {
	var isos []string
	for _, tr := range tracks {
		if tr.UID == uid {
			isos = append(isos, tr.Duration)
		}
	}
	return duration.SumISO(isos)
}
