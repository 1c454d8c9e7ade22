package wb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/aquila-performance/model"
)

func TestVolumeConversions(t *testing.T) {
	assert.InDelta(t, LitersPerGallon, ToLiters(1, model.Gallon), 1e-12)
	assert.Equal(t, 5.0, ToLiters(5, model.Liter))
	assert.InDelta(t, 1.0, FromLiters(LitersPerGallon, model.Gallon), 1e-12)
	assert.Equal(t, 0.72, Density(model.FuelAvgas))
	assert.Equal(t, 0.75, Density(model.FuelMogas))
}

func TestBurnPlan(t *testing.T) {
	plan := AquilaBurn.Required(time.Hour, 30*time.Minute)
	assert.InDelta(t, 2.0, plan.TaxiL, 1e-9)
	assert.InDelta(t, 17.0, plan.TripL, 1e-9)
	assert.InDelta(t, 8.5, plan.AlternateL, 1e-9)
	assert.InDelta(t, 12.75, plan.ReserveL, 1e-9)
	assert.InDelta(t, 1.7, plan.ContingencyL, 1e-9)
	assert.InDelta(t, 41.95, plan.RequiredL(), 1e-9)

	settled := AquilaBurn.Settle(plan, 51.0)
	assert.InDelta(t, 9.05, settled.ExtraL, 1e-9)
	assert.True(t, settled.Sufficient())
	assert.Equal(t, 3*time.Hour, settled.Endurance)

	short := AquilaBurn.Settle(plan, 40)
	assert.False(t, short.Sufficient())
}

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"01:30", 90 * time.Minute, true},
		{"0:05", 5 * time.Minute, true},
		{" 12:00 ", 12 * time.Hour, true},
		{"", 0, true},
		{"90", 0, false},
		{"aa:10", 0, false},
		{"01:-5", 0, false},
	}
	for _, c := range cases {
		got, err := ParseHHMM(c.in)
		if !c.ok {
			if err == nil {
				t.Fatalf("ParseHHMM(%q) = %v, want error", c.in, got)
			}
			assert.ErrorIs(t, err, ErrInvalidLoading)
			continue
		}
		require.NoError(t, err, c.in)
		if got != c.want {
			t.Fatalf("ParseHHMM(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFormatHHMM(t *testing.T) {
	assert.Equal(t, "01:30", FormatHHMM(90*time.Minute+59*time.Second))
	assert.Equal(t, "00:00", FormatHHMM(-time.Minute))
	assert.Equal(t, "26:03", FormatHHMM(26*time.Hour+3*time.Minute))
}

func TestFormatVolume(t *testing.T) {
	assert.Equal(t, "12.5 L", FormatVolume(12.5, model.Liter))
	assert.Equal(t, "1.0 gal", FormatVolume(LitersPerGallon, model.Gallon))
	assert.Equal(t, "0.0 L", FormatVolume(-0.01, model.Liter))
}
