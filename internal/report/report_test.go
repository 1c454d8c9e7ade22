package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/aquila-performance/internal/planner"
	"github.com/signalsfoundry/aquila-performance/model"
	"github.com/signalsfoundry/aquila-performance/wb"
)

func sampleReport(t *testing.T) *planner.Report {
	t.Helper()
	r, err := planner.New(nil, nil).Plan(context.Background(), planner.Request{
		Reference: "PH-DHB 2026-10-19",
		Loading: wb.Loading{
			Callsign: "PHDHB",
			PilotKg:  80,
			FuelType: model.FuelAvgas,
			FuelUnit: model.Liter,
			Trip:     time.Hour,
		},
		Conditions: planner.Conditions{
			OATCelsius:         15,
			PressureAltitudeFt: 1000,
			WindSpeedKt:        5,
			WindDirection:      model.Tailwind,
		},
	})
	require.NoError(t, err)
	return r
}

func TestRenderProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(t), model.Liter))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output is not a PDF")
	assert.Contains(t, string(out), "%%EOF")
	assert.Greater(t, buf.Len(), 1000)
}

func TestRenderInGallons(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(t), model.Gallon))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderRejectsEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, nil, model.Liter))
	assert.Error(t, Render(&buf, &planner.Report{}, model.Liter))
	assert.Zero(t, buf.Len())
}

func TestGridMapping(t *testing.T) {
	g := grid{OffsetU: 10, OffsetV: 20, W: 100, H: 50, MinX: 0, MaxX: 10, MinY: 0, MaxY: 5}
	assert.InDelta(t, 10.0, g.U(0), 1e-9)
	assert.InDelta(t, 110.0, g.U(10), 1e-9)
	assert.InDelta(t, 70.0, g.V(0), 1e-9, "y origin is at the bottom")
	assert.InDelta(t, 20.0, g.V(5), 1e-9)
}
