package models

// BusinessDuration is the normalized, carry-corrected duration record used
// for display and summation. Hours, minutes, and seconds are always set;
// after normalization 0 <= Minutes < 60 and 0 <= Seconds < 60. Years, months,
// and days are only carried when they were present in the source ISO string —
// hours never roll up into days.
type BusinessDuration struct {
	Years   int `json:"years,omitempty"`
	Months  int `json:"months,omitempty"`
	Days    int `json:"days,omitempty"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// IsZero reports whether every field is zero.
func (d BusinessDuration) IsZero() bool {
	return d.Years == 0 && d.Months == 0 && d.Days == 0 &&
		d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}
