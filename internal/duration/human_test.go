package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanToISO(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1h 30m", "PT1H30M", true},
		{"2h", "PT2H", true},
		{"45m", "PT45M", true},
		{"2ч", "PT2H", true},
		{"45м", "PT45M", true},
		{"1д 2ч", "P1DT2H", true},
		{"1d 2h 30m", "P1DT2H30M", true},
		{"30min", "PT30M", true},
		{"2часа", "PT2H", true},
		{"90s", "PT90S", true},
		{"0m", "PT0S", true},
		{"garbage", "", false},
		{"", "", false},
		{"   ", "", false},
		{"1x", "", false},
		{"h30m", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := HumanToISO(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateHuman(t *testing.T) {
	assert.True(t, ValidateHuman("1h 30m"))
	assert.True(t, ValidateHuman("2ч 15м"))
	assert.False(t, ValidateHuman("ninety minutes"))
	assert.False(t, ValidateHuman(""))
}

func TestHumanToMinutes(t *testing.T) {
	min, ok := HumanToMinutes("1h 30m")
	assert.True(t, ok)
	assert.Equal(t, 90, min)

	min, ok = HumanToMinutes("2ч")
	assert.True(t, ok)
	assert.Equal(t, 120, min)

	_, ok = HumanToMinutes("nope")
	assert.False(t, ok)
}
