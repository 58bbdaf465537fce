package slots

import (
	"math"
	"testing"
)

func TestAggregateWeightedMean(t *testing.T) {
	r := NewRecord()
	r.Set(FieldLeagueName, "WWE", 90)
	r.Set(FieldAirYear, Unknown, 0)

	weights := Weights{FieldLeagueName: 30, FieldAirYear: 15}

	d := Aggregate(r, weights, nil, 0)

	// (30*90 + 15*0) / 45 = 60 on the 0-100 scale, 0.60 normalized.
	if math.Abs(d.Score-0.60) > 1e-9 {
		t.Errorf("Score = %v, want 0.60", d.Score)
	}
}

func TestAggregateThreshold(t *testing.T) {
	r := NewRecord()
	r.Set(FieldLeagueName, "WWE", 90)
	r.Set(FieldAirYear, "1987", 90)

	weights := Weights{FieldLeagueName: 30, FieldAirYear: 15}

	if d := Aggregate(r, weights, nil, 0.95); !d.Quarantine {
		t.Error("score below threshold should quarantine")
	}
	if d := Aggregate(r, weights, nil, 0.50); d.Quarantine {
		t.Error("score above threshold should not quarantine")
	}
}

func TestAggregatePolicyShortCircuit(t *testing.T) {
	r := NewRecord()
	// Everything confident except league, which is Unknown.
	r.Set(FieldLeagueName, Unknown, 0)
	r.Set(FieldAirYear, "2012", 90)
	r.Set(FieldCodec, "x264", 90)

	weights := Weights{FieldAirYear: 15, FieldCodec: 10}
	policy := QuarantinePolicy{FieldLeagueName: true}

	d := Aggregate(r, weights, policy, 0.10)
	if d.Score < 0.10 {
		t.Fatalf("test setup wrong: score %v should clear the threshold", d.Score)
	}
	if !d.Quarantine {
		t.Error("mandatory Unknown field must force quarantine")
	}
	if d.ForcedBy != FieldLeagueName {
		t.Errorf("ForcedBy = %q, want %q", d.ForcedBy, FieldLeagueName)
	}
}

func TestAggregateForcedByStableOrder(t *testing.T) {
	// With several mandatory fields Unknown, ForcedBy reports the first in
	// Fields order every time.
	policy := QuarantinePolicy{
		FieldLeagueName: true,
		FieldAirYear:    true,
		FieldExtension:  true,
	}
	for i := 0; i < 20; i++ {
		r := NewRecord()
		r.FillUnresolved()
		d := Aggregate(r, DefaultWeights(), policy, 0.50)
		if d.ForcedBy != FieldLeagueName {
			t.Fatalf("ForcedBy = %q, want %q", d.ForcedBy, FieldLeagueName)
		}
	}
}

func TestAggregateEmptyWeights(t *testing.T) {
	r := NewRecord()
	d := Aggregate(r, nil, nil, 0.5)
	if d.Score != 0 {
		t.Errorf("Score = %v, want 0 with no weights", d.Score)
	}
	if !d.Quarantine {
		t.Error("zero score below threshold should quarantine")
	}
}

func TestDefaultPolicyLeavesEventNameAlone(t *testing.T) {
	policy := DefaultQuarantinePolicy()
	if policy[FieldEventName] {
		t.Error("event_name must not be policy-quarantinable by default")
	}
}
