package pension

import (
	"regexp"
	"strings"

	"github.com/etnz/pension/date"
)

// Reading is one observed balance for a given date.
type Reading struct {
	AsOf    date.Date
	Balance Amount
}

// PremiumEvent is a contribution reported by the source.
type PremiumEvent struct {
	PaidOn date.Date
	Amount Amount
}

// Observation is the raw text delivered by an acquisition adapter, exactly as
// scraped. PremiumText is nil when the source has no premium line.
type Observation struct {
	DateText    string  `json:"date"`
	BalanceText string  `json:"balance"`
	PremiumText *string `json:"premium,omitempty"`
}

// Parse parses the observation into a Reading and an optional PremiumEvent.
func (o Observation) Parse() (Reading, *PremiumEvent, error) {
	r, err := ParseReading(o.DateText, o.BalanceText)
	if err != nil {
		return Reading{}, nil, err
	}
	if o.PremiumText == nil {
		return r, nil, nil
	}
	p, err := ParsePremium(*o.PremiumText)
	if err != nil {
		return Reading{}, nil, err
	}
	return r, p, nil
}

// ParseReading parses the raw date and balance texts.
func ParseReading(rawDate, rawBalance string) (Reading, error) {
	on, err := date.Parse(rawDate)
	if err != nil {
		return Reading{}, &ParseError{Field: "date", Text: rawDate, Err: err}
	}
	balance, err := ParseAmount(rawBalance)
	if err != nil {
		return Reading{}, err
	}
	return Reading{AsOf: on, Balance: balance}, nil
}

var (
	receivedRE = regexp.MustCompile(`(?i)^(.+?)\s+received\s+on\s+(.+)$`)
	moneyRE    = regexp.MustCompile(`[-+]?[£$€]\s?\d[\d,]*(\.\d+)?|\d[\d,]*\.\d{2}`)
)

// ParsePremium parses the premium line reported by the source.
//
// A blank line means no premium was observed and returns nil. Known layouts
// are a tab delimited triplet (label, amount and date in any order) and the
// free text "<amount> received on <date>". A line that is present but holds
// no amount or no date is a *ParseError.
func ParsePremium(raw string) (*PremiumEvent, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, nil
	}

	if strings.Contains(text, "\t") {
		return parseTabbedPremium(raw)
	}

	if m := receivedRE.FindStringSubmatch(text); m != nil {
		amount, err := ParseAmount(m[1])
		if err != nil {
			return nil, &ParseError{Field: "premium", Text: raw, Err: err}
		}
		on, err := date.Parse(m[2])
		if err != nil {
			return nil, &ParseError{Field: "premium", Text: raw, Err: err}
		}
		return &PremiumEvent{PaidOn: on, Amount: amount}, nil
	}

	// any other wording: the first money looking token and the date it carries.
	m := moneyRE.FindString(text)
	if m == "" {
		return nil, &ParseError{Field: "premium", Text: raw}
	}
	amount, err := ParseAmount(m)
	if err != nil {
		return nil, &ParseError{Field: "premium", Text: raw, Err: err}
	}
	on, err := date.Parse(strings.Replace(text, m, " ", 1))
	if err != nil {
		return nil, &ParseError{Field: "premium", Text: raw, Err: err}
	}
	return &PremiumEvent{PaidOn: on, Amount: amount}, nil
}

func parseTabbedPremium(raw string) (*PremiumEvent, error) {
	var (
		p                  PremiumEvent
		hasAmount, hasDate bool
	)
	for _, field := range strings.Split(raw, "\t") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if a, err := ParseAmount(field); err == nil && !hasAmount {
			p.Amount, hasAmount = a, true
			continue
		}
		if d, err := date.Parse(field); err == nil && !hasDate {
			p.PaidOn, hasDate = d, true
		}
	}
	if !hasAmount || !hasDate {
		return nil, &ParseError{Field: "premium", Text: raw}
	}
	return &p, nil
}
