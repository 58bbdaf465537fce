package slots

import (
	"testing"
)

func TestUnfilledSlotReadsUnknown(t *testing.T) {
	r := NewRecord()

	s := r.Get(FieldLeagueName)
	if s.Value() != Unknown {
		t.Errorf("Value = %q, want Unknown", s.Value())
	}
	if s.Confidence() != 0 {
		t.Errorf("Confidence = %d, want 0", s.Confidence())
	}
	if !s.IsUnknown() {
		t.Error("IsUnknown should be true for an unfilled slot")
	}
}

func TestSetDoesNotOverwrite(t *testing.T) {
	r := NewRecord()
	r.Set(FieldLeagueName, "WWE", 90)
	r.Set(FieldLeagueName, "AEW", 70)

	if got := r.Value(FieldLeagueName); got != "WWE" {
		t.Errorf("later Set overwrote resolved slot: got %q", got)
	}
	if got := r.Confidence(FieldLeagueName); got != 90 {
		t.Errorf("Confidence = %d, want 90", got)
	}
}

func TestSetReplacesUnknown(t *testing.T) {
	r := NewRecord()
	r.Set(FieldCodec, Unknown, 0)
	r.Set(FieldCodec, "x264", 60)

	if got := r.Value(FieldCodec); got != "x264" {
		t.Errorf("Set should replace an Unknown placeholder: got %q", got)
	}
}

func TestOverrideReplacesResolvedValue(t *testing.T) {
	r := NewRecord()
	r.Set(FieldLeagueName, "WWE", 90)
	r.Override(FieldLeagueName, "WWE RAW", 70)

	if got := r.Value(FieldLeagueName); got != "WWE RAW" {
		t.Errorf("Override = %q, want WWE RAW", got)
	}
}

func TestClearRemovesSlot(t *testing.T) {
	r := NewRecord()
	r.Set(FieldEventName, "Royal Rumble", 75)
	r.Clear(FieldEventName)

	if r.Get(FieldEventName).Filled() {
		t.Error("cleared slot should be unfilled")
	}
}

func TestFillUnresolvedCompletesRecord(t *testing.T) {
	r := NewRecord()
	r.Set(FieldLeagueName, "WWE", 90)
	r.Clear(FieldEventName)
	r.FillUnresolved(FieldEventName)

	for _, f := range Fields {
		if f == FieldEventName {
			if r.Get(f).Filled() {
				t.Errorf("cleared field %s should stay unfilled", f)
			}
			continue
		}
		if !r.Get(f).Filled() {
			t.Errorf("field %s left unset after FillUnresolved", f)
		}
	}
	if got := r.Value(FieldCodec); got != Unknown {
		t.Errorf("unresolved codec = %q, want Unknown", got)
	}
	if got := r.Value(FieldLeagueName); got != "WWE" {
		t.Errorf("resolved league clobbered: %q", got)
	}
}

func TestConfidences(t *testing.T) {
	r := NewRecord()
	r.Set(FieldLeagueName, "WWE", 90)
	r.Set(FieldAirYear, "1987", 70)

	conf := r.Confidences()
	if conf[FieldLeagueName] != 90 || conf[FieldAirYear] != 70 {
		t.Errorf("Confidences = %v", conf)
	}
	if conf[FieldCodec] != 0 {
		t.Errorf("unfilled field confidence = %d, want 0", conf[FieldCodec])
	}
}
