package trend

import (
	"math"
	"testing"

	"caiwu_agent/pkg/core/metric"
	"caiwu_agent/pkg/models"
)

func floatPtr(f float64) *float64 { return &f }

func seriesWithRevenues(revenues ...float64) *models.FinancialSeries {
	s := &models.FinancialSeries{StockCode: "000001"}
	labels := []string{"2019-12-31", "2020-12-31", "2021-12-31", "2022-12-31", "2023-12-31"}
	for i, r := range revenues {
		s.Periods = append(s.Periods, models.FinancialPeriod{
			Period:            labels[i],
			Revenue:           r,
			NetProfit:         r / 10,
			OperatingCashFlow: floatPtr(r / 8),
		})
	}
	return s
}

func TestCAGRRoundTrip(t *testing.T) {
	// Exact 10% geometric growth over 3 periods: 1000 -> 1331.
	start, rate, periods := 1000.0, 0.10, 3
	end := start * math.Pow(1+rate, float64(periods))

	got := CAGR(start, end, periods)
	if !got.Available {
		t.Fatal("Expected available CAGR")
	}
	if math.Abs(got.Value-10.0) > 1e-6 {
		t.Errorf("Expected CAGR 10%%, got %f", got.Value)
	}
}

func TestCAGRUndefinedCases(t *testing.T) {
	if m := CAGR(0, 100, 2); m.Available {
		t.Errorf("Zero start must be unavailable")
	}
	if m := CAGR(-100, 100, 2); m.Available {
		t.Errorf("Negative start must be unavailable")
	}
	if m := CAGR(100, 200, 0); m.Available {
		t.Errorf("Zero periods must be unavailable")
	}
	// Negative end with an even root has no real solution; the NaN must be
	// swallowed into unavailable.
	if m := CAGR(100, -50, 2); m.Available {
		t.Errorf("Expected unavailable for negative end over even periods, got %+v", m)
	}
}

func TestClassifyDeadBand(t *testing.T) {
	cases := []struct {
		cagr float64
		want Direction
	}{
		{2.0, Flat},      // exactly on the band edge stays flat
		{2.0001, Rising}, // just past the edge turns rising
		{-2.0, Flat},
		{-2.0001, Falling},
		{-1.9999, Flat},
		{0, Flat},
	}
	for _, c := range cases {
		if got := Classify(metric.Of(c.cagr)); got != c.want {
			t.Errorf("Classify(%f): expected %s, got %s", c.cagr, c.want, got)
		}
	}

	if got := Classify(metric.Unavailable()); got != Flat {
		t.Errorf("Unavailable CAGR must classify flat, got %s", got)
	}
}

func TestAnalyzeGrowth(t *testing.T) {
	// 1000 -> 1200 over one step: CAGR = 20%, rising.
	s := seriesWithRevenues(1000, 1200)
	metrics := Analyze(s, DefaultWindow)

	if len(metrics) != 3 {
		t.Fatalf("Expected 3 trend metrics, got %d", len(metrics))
	}

	rev := metrics[0]
	if rev.Name != "revenue" {
		t.Fatalf("Expected revenue first, got %s", rev.Name)
	}
	if math.Abs(rev.CAGRPct.Value-20.0) > 1e-9 {
		t.Errorf("Expected revenue CAGR 20, got %f", rev.CAGRPct.Value)
	}
	if rev.Direction != Rising {
		t.Errorf("Expected rising, got %s", rev.Direction)
	}
	if rev.AbsoluteChange.Value != 200.0 {
		t.Errorf("Expected absolute change 200, got %f", rev.AbsoluteChange.Value)
	}
}

func TestAnalyzeWindowClamping(t *testing.T) {
	// Two periods against the default window of four: used window shrinks to
	// the series length and the metric says so.
	s := seriesWithRevenues(1000, 1200)
	metrics := Analyze(s, DefaultWindow)

	for _, m := range metrics {
		if !m.Clamped {
			t.Errorf("%s: expected clamped window", m.Name)
		}
		if m.Window != 2 {
			t.Errorf("%s: expected window 2, got %d", m.Name, m.Window)
		}
	}

	// A window that fits is not flagged.
	s5 := seriesWithRevenues(1000, 1100, 1210, 1331, 1464.1)
	for _, m := range Analyze(s5, 4) {
		if m.Clamped {
			t.Errorf("%s: window 4 over 5 periods must not clamp", m.Name)
		}
		if m.Window != 4 {
			t.Errorf("%s: expected window 4, got %d", m.Name, m.Window)
		}
	}
}

func TestAnalyzeMissingCashFlow(t *testing.T) {
	s := seriesWithRevenues(1000, 1200)
	for i := range s.Periods {
		s.Periods[i].OperatingCashFlow = nil
	}

	metrics := Analyze(s, 0)
	ocf := metrics[2]
	if ocf.Name != "operating_cash_flow" {
		t.Fatalf("Expected operating_cash_flow third, got %s", ocf.Name)
	}
	if ocf.CAGRPct.Available || ocf.AbsoluteChange.Available {
		t.Errorf("Missing cash flow must yield unavailable growth figures")
	}
	if ocf.Direction != Flat {
		t.Errorf("Expected flat for unavailable, got %s", ocf.Direction)
	}
}

func TestAnalyzeSinglePeriod(t *testing.T) {
	s := seriesWithRevenues(1000)
	for _, m := range Analyze(s, DefaultWindow) {
		if m.CAGRPct.Available {
			t.Errorf("%s: single period can have no CAGR", m.Name)
		}
		if m.Direction != Flat {
			t.Errorf("%s: expected flat, got %s", m.Name, m.Direction)
		}
	}
}
