package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsheet/internal/models"
)

func TestISOToMs(t *testing.T) {
	tests := []struct {
		iso  string
		ms   int64
		ok   bool
		name string
	}{
		{"PT2H30M", 9000000, true, "hours and minutes"},
		{"PT1H", 3600000, true, "hours only"},
		{"PT45S", 45000, true, "seconds only"},
		{"P1DT1H", 9 * 3600000, true, "business day is 8 hours"},
		{"P1W", 40 * 3600000, true, "business week is 40 hours"},
		{"PT0S", 0, true, "zero"},
		{"", 0, false, "empty"},
		{"P", 0, false, "bare designator"},
		{"garbage", 0, false, "garbage"},
		{"PT1.5H", 0, false, "fractional components rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, ok := ISOToMs(tt.iso)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ms, ms)
		})
	}
}

func TestMsToBusiness(t *testing.T) {
	d := MsToBusiness(5400000)
	assert.Equal(t, models.BusinessDuration{Hours: 1, Minutes: 30}, d)

	// Hours never roll into days.
	d = MsToBusiness(30 * 3600000)
	assert.Equal(t, 30, d.Hours)
	assert.Equal(t, 0, d.Days)
}

func TestMsToBusiness_NormalizationBounds(t *testing.T) {
	for _, ms := range []int64{0, 999, 59999, 60000, 3599999, 3600000, 86399999, 123456789} {
		d := MsToBusiness(ms)
		assert.GreaterOrEqual(t, d.Minutes, 0)
		assert.Less(t, d.Minutes, 60)
		assert.GreaterOrEqual(t, d.Seconds, 0)
		assert.Less(t, d.Seconds, 60)
	}
}

func TestRoundTrip(t *testing.T) {
	// businessDuration → ISO → ms must reproduce the original total exactly
	// for any whole-second millisecond count.
	for _, ms := range []int64{0, 1000, 60000, 5400000, 9000000, 3600000 * 27, 359999000} {
		got, ok := ISOToMs(BusinessToISO(MsToBusiness(ms)))
		require.True(t, ok)
		assert.Equal(t, ms, got, "round trip for %d", ms)
	}
}

func TestBusinessToISO(t *testing.T) {
	assert.Equal(t, "PT2H30M0S", BusinessToISO(models.BusinessDuration{Hours: 2, Minutes: 30}))
	assert.Equal(t, "P3DT0H0M0S", BusinessToISO(models.BusinessDuration{Days: 3}))
	assert.Equal(t, "PT0H0M0S", BusinessToISO(models.BusinessDuration{}))
}

func TestSumISO(t *testing.T) {
	got := SumISO([]string{"PT2H", "PT1H30M", "PT45M"})
	assert.Equal(t, models.BusinessDuration{Hours: 4, Minutes: 15}, got)
}

func TestSumISO_CarriesSecondsAndMinutes(t *testing.T) {
	got := SumISO([]string{"PT59M59S", "PT1S", "PT30M"})
	assert.Equal(t, models.BusinessDuration{Hours: 1, Minutes: 30}, got)
}

func TestSumISO_DoesNotRollHoursIntoDays(t *testing.T) {
	got := SumISO([]string{"PT20H", "PT20H"})
	assert.Equal(t, 40, got.Hours)
	assert.Equal(t, 0, got.Days)
}

func TestSumISO_SkipsUnparseable(t *testing.T) {
	got := SumISO([]string{"PT1H", "", "nope", "PT30M"})
	assert.Equal(t, models.BusinessDuration{Hours: 1, Minutes: 30}, got)
}

func TestSumISO_AccumulatesDayFields(t *testing.T) {
	// Weeks fold into days (5 business days each); day fields accumulate
	// independently of hours.
	got := SumISO([]string{"P1W", "P2DT3H"})
	assert.Equal(t, 7, got.Days)
	assert.Equal(t, 3, got.Hours)
}

func TestAddISO(t *testing.T) {
	got := AddISO("PT2H", "PT1H")
	assert.Equal(t, models.BusinessDuration{Hours: 3}, got)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		d    models.BusinessDuration
		want string
	}{
		{models.BusinessDuration{Hours: 2, Minutes: 30}, "2h 30m"},
		{models.BusinessDuration{Days: 1, Hours: 2}, "1d 2h"},
		{models.BusinessDuration{Seconds: 42}, "42s"},
		{models.BusinessDuration{}, "0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.d))
	}
}
