// Package renderer formats ledgers and reconciliation passes as markdown.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/pension"
	"github.com/etnz/pension/date"
	md "github.com/nao1215/markdown"
)

var rowHeader = []string{"Date", "Time", "Value", "Change", "Payment", "Total Payments", "Total Gain", "Rate of Return"}

var rowAlignment = []md.TableAlignment{
	md.AlignLeft, md.AlignLeft,
	md.AlignRight, md.AlignRight,
	md.AlignCenter,
	md.AlignRight, md.AlignRight, md.AlignRight,
}

func rowCells(r pension.LedgerRow) []string {
	payment := ""
	if r.IsPayment {
		payment = "✓"
	}
	return []string{
		r.Date.String(),
		r.Time,
		r.Value.String(),
		r.Change.String(),
		payment,
		r.TotalContributions.String(),
		r.TotalGain.String(),
		r.RateOfReturn.String(),
	}
}

// LedgerMarkdown renders the recorded rows, newest first.
func LedgerMarkdown(title string, rows []pension.LedgerRow) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	if len(rows) == 0 {
		doc.PlainText("The ledger is empty.")
		return doc.String()
	}
	last := rows[len(rows)-1]
	doc.PlainText(fmt.Sprintf("Value on %s: %s", last.Date, md.Bold(last.Value.String())))

	table := md.TableSet{Alignment: rowAlignment, Header: rowHeader}
	for i := len(rows) - 1; i >= 0; i-- {
		table.Rows = append(table.Rows, rowCells(rows[i]))
	}
	doc.Table(table)
	return doc.String()
}

// OutcomeMarkdown renders the result of a reconciliation pass.
func OutcomeMarkdown(outcome pension.Outcome, dryRun bool) string {
	reading, premium := outcome.Reading, outcome.Premium
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Reconciliation on %s", reading.AsOf))
	observed := []string{fmt.Sprintf("Balance: %s", reading.Balance)}
	if premium != nil {
		observed = append(observed, fmt.Sprintf("Last premium: %s paid on %s", premium.Amount, premium.PaidOn))
	}
	doc.BulletList(observed...)

	if outcome.AlreadyRecorded() {
		doc.PlainText(fmt.Sprintf("Row %s: %s already recorded.", reading.AsOf, reading.Balance))
		return doc.String()
	}

	if dryRun {
		doc.H2("Rows to write (dry run)")
	} else {
		doc.H2("Rows written")
	}
	table := md.TableSet{
		Alignment: append([]md.TableAlignment{md.AlignRight}, rowAlignment...),
		Header:    append([]string{"Slot"}, rowHeader...),
	}
	for _, w := range outcome.Writes {
		table.Rows = append(table.Rows, append([]string{fmt.Sprint(w.Index)}, rowCells(w.Row)...))
	}
	doc.Table(table)
	return doc.String()
}

// ObservationMarkdown renders what was read from the provider.
func ObservationMarkdown(obs pension.Observation) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Account Observation")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Field", "Observed", "Parsed"},
	}
	on, dateErr := date.Parse(obs.DateText)
	balance, balanceErr := pension.ParseAmount(obs.BalanceText)
	parsed := func(err error, v fmt.Stringer) string {
		if err != nil {
			return "⚠ invalid"
		}
		return v.String()
	}
	table.Rows = append(table.Rows,
		[]string{"Value date", obs.DateText, parsed(dateErr, on)},
		[]string{"Total value", obs.BalanceText, parsed(balanceErr, balance)},
	)
	if obs.PremiumText != nil {
		premium, err := pension.ParsePremium(*obs.PremiumText)
		value := "none"
		switch {
		case err != nil:
			value = "⚠ invalid"
		case premium != nil:
			value = fmt.Sprintf("%s on %s", premium.Amount, premium.PaidOn)
		}
		table.Rows = append(table.Rows, []string{"Last premium", *obs.PremiumText, value})
	}
	doc.Table(table)
	return doc.String()
}
