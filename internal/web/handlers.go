package web

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/signalsfoundry/aquila-performance/core"
	"github.com/signalsfoundry/aquila-performance/internal/logging"
	"github.com/signalsfoundry/aquila-performance/internal/planner"
	"github.com/signalsfoundry/aquila-performance/internal/report"
	"github.com/signalsfoundry/aquila-performance/model"
	"github.com/signalsfoundry/aquila-performance/wb"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeSVG  = "image/svg+xml"
	contentTypePDF  = "application/pdf"
)

// formView feeds form.html; Get returns the submitted value of a field so the
// form can be re-rendered with the pilot's input intact.
type formView struct {
	Error     string
	Callsigns []string
	values    url.Values
}

func (f formView) Get(key string) string { return f.values.Get(key) }

type fuelLine struct {
	Name     string
	Quantity string
}

type hiddenField struct {
	Name  string
	Value string
}

// resultsView feeds calculations.html.
type resultsView struct {
	Callsign        string
	Report          *planner.Report
	EnvelopeURL     string
	FuelType        string
	Fuel            []fuelLine
	Endurance       string
	FuelSufficient  bool
	FuelShort       string
	FuelFits        bool
	TakeoffChartURL string
	LandingChartURL string
	Hidden          []hiddenField
}

func newResultsView(r *planner.Report, q url.Values) resultsView {
	f := r.Flight
	p := f.FuelPlan
	unit := f.Loading.FuelUnit

	fuel := []fuelLine{
		{"Taxi", wb.FormatVolume(p.TaxiL, unit)},
		{"Trip", wb.FormatVolume(p.TripL, unit)},
		{"Alternate", wb.FormatVolume(p.AlternateL, unit)},
		{"Final reserve", wb.FormatVolume(p.ReserveL, unit)},
		{"Contingency", wb.FormatVolume(p.ContingencyL, unit)},
		{"Extra", wb.FormatVolume(p.ExtraL, unit)},
		{"Total", wb.FormatVolume(p.TotalL, unit)},
	}

	return resultsView{
		Callsign:        f.Takeoff.Callsign,
		Report:          r,
		EnvelopeURL:     "/wb-chart?" + formQuery(q).Encode(),
		FuelType:        f.Loading.FuelType.String(),
		Fuel:            fuel,
		Endurance:       wb.FormatHHMM(p.Endurance),
		FuelSufficient:  p.Sufficient(),
		FuelShort:       wb.FormatVolume(math.Abs(p.ExtraL), unit),
		FuelFits:        f.FuelWithinCapacity(),
		TakeoffChartURL: chartURL(core.ChartTakeoff, r.Conditions, f.TakeoffMassKg()),
		LandingChartURL: chartURL(core.ChartLanding, r.Conditions, f.LandingMassKg()),
		Hidden:          hiddenFields(q),
	}
}

// formQuery copies q without the submit button.
func formQuery(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		if k == fieldSubmit {
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func hiddenFields(q url.Values) []hiddenField {
	clean := formQuery(q)
	keys := make([]string, 0, len(clean))
	for k := range clean {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []hiddenField
	for _, k := range keys {
		for _, v := range clean[k] {
			out = append(out, hiddenField{Name: k, Value: v})
		}
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, http.StatusOK, r.URL.Query(), "")
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, code int, q url.Values, msg string) {
	body, err := render(s.templates, "form.html", formView{Error: msg, Callsigns: Callsigns, values: q})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeBody(w, code, contentTypeHTML, body)
}

func (s *Server) handleCalculations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get(fieldSubmit) == submitBack {
		s.renderForm(w, r, http.StatusOK, formQuery(q), "")
		return
	}

	rep, err := s.plan(r.Context(), q)
	if err != nil {
		if code := ToHTTPStatus(err); code != http.StatusInternalServerError {
			logging.FromContext(r.Context(), s.log).Info(r.Context(), "form rejected", logging.Err(err))
			s.renderForm(w, r, code, formQuery(q), err.Error())
			return
		}
		writeError(w, r, s.log, err)
		return
	}

	body, err := render(s.templates, "calculations.html", newResultsView(rep, q))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeBody(w, http.StatusOK, contentTypeHTML, body)
}

func (s *Server) plan(ctx context.Context, q url.Values) (*planner.Report, error) {
	req, err := parseRequest(q)
	if err != nil {
		return nil, err
	}
	return s.planner.Plan(ctx, req)
}

// chartPrefix is followed by the chart name in the overlay routes.
const chartPrefix = "/perf-"

func chartURL(c core.Chart, cond planner.Conditions, massKg float64) string {
	return chartPrefix + c.String() + "?" + chartQuery(cond, massKg)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	chart, err := core.ParseChart(strings.TrimPrefix(r.URL.Path, chartPrefix))
	if err != nil {
		writeError(w, r, s.log, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	s.serveChart(w, r, chart, chartPrefix+chart.String())
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, chart core.Chart, route string) {
	q := r.URL.Query()
	body, err := s.cached("chart", cacheKey(route, q), func() ([]byte, error) {
		in, err := parseChartInput(q, fieldMTOW)
		if err != nil {
			return nil, err
		}
		res, err := s.planner.Compute(r.Context(), chart, in)
		if err != nil {
			return nil, err
		}
		p, err := core.PipelineFor(chart)
		if err != nil {
			return nil, err
		}
		return render(s.templates, "chart.svg", newChartOverlay(p.Calibration(), in, res))
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeBody(w, http.StatusOK, contentTypeSVG, body)
}

func (s *Server) handleEnvelope(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body, err := s.cached("envelope", cacheKey("/wb-chart", q), func() ([]byte, error) {
		l, err := parseLoading(q)
		if err != nil {
			return nil, err
		}
		f, err := wb.BuildAquila(l)
		if err != nil {
			return nil, err
		}
		return render(s.templates, "envelope.svg", newEnvelopeChart(f))
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeBody(w, http.StatusOK, contentTypeSVG, body)
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body, err := s.cached("print", cacheKey("/print", q), func() ([]byte, error) {
		rep, err := s.plan(r.Context(), q)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := report.Render(&buf, rep, rep.Flight.Loading.FuelUnit); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.Header().Set("Content-Disposition", `inline; filename="aquila-wb.pdf"`)
	writeBody(w, http.StatusOK, contentTypePDF, body)
}

// performanceResponse is the JSON body of /api/v1/performance.
type performanceResponse struct {
	Input performanceInput        `json:"input"`
	TOD   model.PerformanceResult `json:"tod"`
	LDR   model.PerformanceResult `json:"ldr"`
}

type performanceInput struct {
	model.PerformanceInput
	WindDirection string `json:"wind_direction"`
}

func (s *Server) handlePerformanceAPI(w http.ResponseWriter, r *http.Request) {
	in, err := parseChartInput(r.URL.Query(), fieldMass)
	if err != nil {
		writeJSONError(w, r, s.log, err)
		return
	}

	resp := performanceResponse{Input: performanceInput{PerformanceInput: in, WindDirection: in.WindDirection.String()}}
	if resp.TOD, err = s.planner.Compute(r.Context(), core.ChartTakeoff, in); err != nil {
		writeJSONError(w, r, s.log, err)
		return
	}
	if resp.LDR, err = s.planner.Compute(r.Context(), core.ChartLanding, in); err != nil {
		writeJSONError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeBody(w, http.StatusOK, "text/plain; charset=utf-8", []byte("OK"))
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeBody(w, http.StatusServiceUnavailable, "text/plain; charset=utf-8", []byte("Not ready"))
		return
	}
	writeBody(w, http.StatusOK, "text/plain; charset=utf-8", []byte("Ready"))
}

func writeBody(w http.ResponseWriter, code int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
