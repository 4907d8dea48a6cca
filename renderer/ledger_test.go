package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/pension"
	"github.com/etnz/pension/date"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// tables parses markdown and returns the cell texts of every table, header row first.
func tables(t *testing.T, markdown string) [][][]string {
	t.Helper()
	source := []byte(markdown)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	var result [][][]string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != east.KindTable {
			return ast.WalkContinue, nil
		}
		var rows [][]string
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, strings.TrimSpace(nodeText(cell, source)))
			}
			rows = append(rows, cells)
		}
		result = append(result, rows)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if txt, ok := n.(*ast.Text); ok && entering {
			b.Write(txt.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

var clock = time.Date(2024, 2, 1, 10, 11, 12, 0, time.Local)

func rows() []pension.LedgerRow {
	seed := pension.NewSeedRow(date.New(2024, time.January, 1), pension.MustAmount("100"), pension.MustAmount("100"), clock)
	return []pension.LedgerRow{
		seed,
		{Time: "10:11:12", Date: date.New(2024, time.January, 15), Value: pension.MustAmount("110"), Change: pension.MustAmount("10"),
			IsPayment: true, TotalContributions: pension.MustAmount("110"), RateOfReturn: 0},
		{Time: "10:11:12", Date: date.New(2024, time.February, 1), Value: pension.MustAmount("1120"), Change: pension.MustAmount("1010"),
			TotalContributions: pension.MustAmount("110"), TotalGain: pension.MustAmount("1010"), RateOfReturn: pension.Rate(1010.0 / 110.0)},
	}
}

func TestLedgerMarkdown(t *testing.T) {
	out := LedgerMarkdown("Pension", rows())
	if !strings.HasPrefix(out, "# Pension") {
		t.Errorf("missing title:\n%s", out)
	}
	got := tables(t, out)
	if len(got) != 1 {
		t.Fatalf("want one table, got %d:\n%s", len(got), out)
	}
	table := got[0]
	if len(table) != 4 {
		t.Fatalf("want header and 3 rows, got %d:\n%s", len(table), out)
	}
	if strings.Join(table[0], ",") != "Date,Time,Value,Change,Payment,Total Payments,Total Gain,Rate of Return" {
		t.Errorf("header = %v", table[0])
	}
	want := []string{"01/02/2024", "10:11:12", "£1,120.00", "£1,010.00", "", "£110.00", "£1,010.00", "918.18%"}
	if strings.Join(table[1], "|") != strings.Join(want, "|") {
		t.Errorf("newest row = %v, want %v", table[1], want)
	}
	if table[2][4] != "✓" {
		t.Errorf("payment row should be marked: %v", table[2])
	}
	if table[3][0] != "01/01/2024" {
		t.Errorf("oldest row should come last: %v", table[3])
	}
}

func TestLedgerMarkdownEmpty(t *testing.T) {
	out := LedgerMarkdown("Pension", nil)
	if len(tables(t, out)) != 0 || !strings.Contains(out, "empty") {
		t.Errorf("empty ledger:\n%s", out)
	}
}

func TestOutcomeMarkdown(t *testing.T) {
	r := rows()
	reading := pension.Reading{AsOf: r[2].Date, Balance: r[2].Value}
	premium := &pension.PremiumEvent{PaidOn: r[1].Date, Amount: pension.MustAmount("10")}

	out := OutcomeMarkdown(pension.Outcome{State: pension.Done, Reading: reading, Premium: premium, Writes: []pension.Write{
		{Index: 3, Row: r[1]},
		{Index: 2, Row: r[2]},
	}}, true)
	if !strings.Contains(out, "dry run") || !strings.Contains(out, "Last premium: £10.00 paid on 15/01/2024") {
		t.Errorf("unexpected outcome:\n%s", out)
	}
	got := tables(t, out)
	if len(got) != 1 || len(got[0]) != 3 || got[0][1][0] != "3" || got[0][2][0] != "2" {
		t.Errorf("want the writes in order with their slots:\n%s", out)
	}

	out = OutcomeMarkdown(pension.Outcome{State: pension.NoOp, Reading: reading}, false)
	if !strings.Contains(out, "Row 01/02/2024: £1,120.00 already recorded.") || len(tables(t, out)) != 0 {
		t.Errorf("unexpected no-op outcome:\n%s", out)
	}
}

func TestObservationMarkdown(t *testing.T) {
	premium := "£10.00 received on 15/01/2024"
	out := ObservationMarkdown(pension.Observation{DateText: "1 February 2024", BalanceText: "oops", PremiumText: &premium})
	got := tables(t, out)
	if len(got) != 1 || len(got[0]) != 4 {
		t.Fatalf("unexpected observation:\n%s", out)
	}
	if got[0][1][2] != "01/02/2024" || got[0][2][2] != "⚠ invalid" || got[0][3][2] != "£10.00 on 15/01/2024" {
		t.Errorf("parsed column = %v", got[0])
	}
}
