package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	d, err := Parse("2025-02-28")
	if err != nil {
		t.Fatal(err)
	}
	if d != New(2025, time.February, 28) {
		t.Errorf("Parse = %v", d)
	}
	for _, in := range []string{"", "2025-2-28", "2025-02-30", "28.02.2025", "None"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded", in)
		}
	}
}

func TestOfDropsClock(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	got := Of(time.Date(2025, time.March, 10, 23, 59, 0, 0, loc))
	if got != New(2025, time.March, 10) {
		t.Errorf("Of = %v, want 2025-03-10", got)
	}
}

func TestDaysUntil(t *testing.T) {
	a := New(2025, time.February, 27)
	b := New(2025, time.March, 2)
	if n := a.DaysUntil(b); n != 3 {
		t.Errorf("DaysUntil = %d, want 3", n)
	}
	if n := b.DaysUntil(a); n != -3 {
		t.Errorf("DaysUntil = %d, want -3", n)
	}
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Error("Before mismatch")
	}
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(New(2025, time.January, 5))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2025-01-05"` {
		t.Errorf("Marshal = %s", data)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-12-31"`), &d); err != nil {
		t.Fatal(err)
	}
	if d.String() != "2024-12-31" {
		t.Errorf("Unmarshal = %v", d)
	}
	if err := json.Unmarshal([]byte(`"tomorrow"`), &d); err == nil {
		t.Error("expected error for bad date")
	}
}
