package metric

import (
	"math"
	"testing"
)

func TestRatioEpsilonGuard(t *testing.T) {
	// 100 / 200 = 0.5
	m := Ratio(100, 200)
	if !m.Available || m.Value != 0.5 {
		t.Errorf("Expected 0.5 available, got %+v", m)
	}

	// Denominator below Epsilon must degrade, not divide.
	if m := Ratio(100, 0); m.Available {
		t.Errorf("Expected unavailable for zero denominator, got %+v", m)
	}
	if m := Ratio(100, 1e-9); m.Available {
		t.Errorf("Expected unavailable for denominator below epsilon, got %+v", m)
	}
	// Just above the guard is a legitimate (huge) ratio.
	if m := Ratio(100, 1e-5); !m.Available {
		t.Errorf("Expected available for denominator above epsilon")
	}
}

func TestPercentScaling(t *testing.T) {
	// 150 / 1200 = 0.125 => 12.5%
	m := Percent(150, 1200)
	if !m.Available || math.Abs(m.Value-12.5) > 1e-9 {
		t.Errorf("Expected 12.5, got %+v", m)
	}
}

func TestOfRejectsNonFinite(t *testing.T) {
	if m := Of(math.NaN()); m.Available {
		t.Errorf("NaN must be unavailable")
	}
	if m := Of(math.Inf(1)); m.Available {
		t.Errorf("+Inf must be unavailable")
	}
	if m := Of(math.Inf(-1)); m.Available {
		t.Errorf("-Inf must be unavailable")
	}
}

func TestRound(t *testing.T) {
	m := Of(12.3456).Round2()
	if m.Value != 12.35 {
		t.Errorf("Expected 12.35, got %f", m.Value)
	}
	// Rounding an unavailable metric keeps it unavailable.
	if m := Unavailable().Round2(); m.Available {
		t.Errorf("Unavailable must survive rounding")
	}
}

func TestFromPtrAndOr(t *testing.T) {
	if m := FromPtr(nil); m.Available {
		t.Errorf("nil pointer must lift to unavailable")
	}
	v := 3.0
	if m := FromPtr(&v); !m.Available || m.Value != 3.0 {
		t.Errorf("Expected 3.0, got %+v", m)
	}

	if got := Unavailable().Or(-1); got != -1 {
		t.Errorf("Expected fallback -1, got %f", got)
	}
	if got := Of(7).Or(-1); got != 7 {
		t.Errorf("Expected 7, got %f", got)
	}
}
