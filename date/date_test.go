package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"01/02/2024", New(2024, time.February, 1), false},
		{"1/2/2024", New(2024, time.February, 1), false},
		{"2024-02-01", New(2024, time.February, 1), false},
		{"2024-2-1", New(2024, time.February, 1), false},
		{"2024-02-01T10:11:12Z", New(2024, time.February, 1), false},
		{"12 March 2024", New(2024, time.March, 12), false},
		{"12 Mar 2024", New(2024, time.March, 12), false},
		{"March 12, 2024", New(2024, time.March, 12), false},
		{"  Value as at   12 March 2024 ", New(2024, time.March, 12), false},
		{"£200.00 received on 3 April 2024", New(2024, time.April, 3), false},
		{"Valuation date: 15/01/2024", New(2024, time.January, 15), false},
		{"", Date{}, true},
		{"yesterday", Date{}, true},
		{"32/01/2024", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got, want := New(2024, time.January, 5).String(), "05/01/2024"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := (Date{}).String(); got != "" {
		t.Errorf("zero String() = %q, want empty", got)
	}
	// canonical identity: equal strings iff equal dates.
	a, b := MustParse("5/1/2024"), MustParse("2024-01-05")
	if a != b || a.String() != b.String() {
		t.Errorf("%v and %v should be the same day", a, b)
	}
}

func TestOrder(t *testing.T) {
	a := New(2024, time.January, 31)
	b := New(2024, time.February, 1)
	if !a.Before(b) || b.Before(a) || !b.After(a) {
		t.Errorf("ordering of %v and %v is wrong", a, b)
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare is inconsistent with Before/After")
	}
	if got := a.Add(1); got != b {
		t.Errorf("Add(1) = %v, want %v", got, b)
	}
}

func TestJSON(t *testing.T) {
	d := New(2024, time.March, 9)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"09/03/2024"` {
		t.Errorf("Marshal = %s", data)
	}
	var got Date
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != d {
		t.Errorf("Unmarshal = %v, want %v", got, d)
	}
	if err := json.Unmarshal([]byte(`""`), &got); err != nil || !got.IsZero() {
		t.Errorf("empty string should decode into zero date, got %v, %v", got, err)
	}
	if err := json.Unmarshal([]byte(`"2024-03-09"`), &got); err == nil {
		t.Errorf("data files only accept the canonical format")
	}
}

func TestScanValue(t *testing.T) {
	d := New(2024, time.March, 9)
	v, err := d.Value()
	if err != nil || v != "2024-03-09" {
		t.Fatalf("Value() = %v, %v", v, err)
	}
	var got Date
	for _, src := range []any{"2024-03-09", []byte("2024-03-09"), time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), "2024-03-09T00:00:00Z"} {
		if err := got.Scan(src); err != nil || got != d {
			t.Errorf("Scan(%v) = %v, %v", src, got, err)
		}
	}
	if err := got.Scan(nil); err != nil || !got.IsZero() {
		t.Errorf("Scan(nil) = %v, %v", got, err)
	}
	if v, _ := (Date{}).Value(); v != nil {
		t.Errorf("zero date Value() = %v, want nil", v)
	}
}
