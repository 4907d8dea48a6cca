package pension

import (
	"errors"
	"testing"
)

func TestParseReading(t *testing.T) {
	r, err := ParseReading("Value as at 1 February 2024", "£1,105.00")
	if err != nil {
		t.Fatalf("ParseReading() error: %v", err)
	}
	if r.AsOf != D("01/02/2024") || !r.Balance.Equal(GBP("1105")) {
		t.Errorf("ParseReading() = %v %v", r.AsOf, r.Balance)
	}

	for _, tt := range []struct{ date, balance, field string }{
		{"not a date", "£10.00", "date"},
		{"01/02/2024", "ten pounds", "amount"},
	} {
		_, err := ParseReading(tt.date, tt.balance)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("ParseReading(%q, %q) error = %v, want a *ParseError", tt.date, tt.balance, err)
		}
		if perr.Field != tt.field {
			t.Errorf("ParseReading(%q, %q) field = %q, want %q", tt.date, tt.balance, perr.Field, tt.field)
		}
	}
}

func TestParsePremium(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   *PremiumEvent
		hasErr bool
	}{
		{"blank", "   ", nil, false},
		{"empty", "", nil, false},
		{"tab triplet", "Last premium paid\t£200.00\t15/01/2024", &PremiumEvent{D("15/01/2024"), GBP("200")}, false},
		{"tab triplet any order", "15 January 2024\tLast premium\t£1,200.50", &PremiumEvent{D("15/01/2024"), GBP("1200.50")}, false},
		{"received on", "£10.00 received on 15 January 2024", &PremiumEvent{D("15/01/2024"), GBP("10")}, false},
		{"received on, numeric date", "£10.00 received on 15/01/2024", &PremiumEvent{D("15/01/2024"), GBP("10")}, false},
		{"other wording", "Last premium of £75.50 paid 3 March 2024", &PremiumEvent{D("03/03/2024"), GBP("75.50")}, false},
		{"tab without date", "Last premium paid\t£200.00\tsoon", nil, true},
		{"received without amount", "nothing received on 15 January 2024", nil, true},
		{"no amount", "Last premium paid on 15 January 2024", nil, true},
		{"no date", "£200.00 pending", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePremium(tt.input)
			if (err != nil) != tt.hasErr {
				t.Fatalf("ParsePremium(%q) error = %v, wantErr %v", tt.input, err, tt.hasErr)
			}
			if tt.hasErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Errorf("error %T is not a *ParseError", err)
				}
				return
			}
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParsePremium(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && (got.PaidOn != tt.want.PaidOn || !got.Amount.Equal(tt.want.Amount)) {
				t.Errorf("ParsePremium(%q) = %v %v, want %v %v", tt.input, got.PaidOn, got.Amount, tt.want.PaidOn, tt.want.Amount)
			}
		})
	}
}

func TestObservationParse(t *testing.T) {
	premium := "£10.00 received on 15 January 2024"
	obs := Observation{DateText: "01/02/2024", BalanceText: "£120.00", PremiumText: &premium}
	r, p, err := obs.Parse()
	if err != nil {
		t.Fatal(err)
	}
	if r.AsOf != D("01/02/2024") || p == nil || p.PaidOn != D("15/01/2024") {
		t.Errorf("Parse() = %v, %v", r, p)
	}

	// a present but unparsable premium line must abort, not degrade to "no premium".
	bad := "premium information unavailable"
	obs.PremiumText = &bad
	if _, _, err := obs.Parse(); err == nil {
		t.Errorf("Parse() with an unparsable premium should fail")
	}

	obs.PremiumText = nil
	if _, p, err := obs.Parse(); err != nil || p != nil {
		t.Errorf("Parse() without premium = %v, %v", p, err)
	}
}
