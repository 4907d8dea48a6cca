package pension

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/pension/date"
)

// MarshalJSON writes the row fields in a fixed order so that ledger files
// diff nicely.
func (r LedgerRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("time", r.Time)
	w.Append("date", r.Date)
	w.Append("value", r.Value)
	w.Append("change", r.Change)
	w.Optional("payment", r.IsPayment)
	w.Append("totalPayments", r.TotalContributions)
	w.Append("totalGain", r.TotalGain)
	w.Append("rateOfReturn", r.RateOfReturn)
	return w.MarshalJSON()
}

func (r *LedgerRow) UnmarshalJSON(data []byte) error {
	// rateOfReturn is a pointer to tell a missing field from a defined rate.
	var temp struct {
		Time          string    `json:"time"`
		Date          date.Date `json:"date"`
		Value         Amount    `json:"value"`
		Change        Amount    `json:"change"`
		Payment       bool      `json:"payment"`
		TotalPayments Amount    `json:"totalPayments"`
		TotalGain     Amount    `json:"totalGain"`
		RateOfReturn  *Rate     `json:"rateOfReturn"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	rate := UndefinedRate
	if temp.RateOfReturn != nil {
		rate = *temp.RateOfReturn
	}
	*r = LedgerRow{
		Time:               temp.Time,
		Date:               temp.Date,
		Value:              temp.Value,
		Change:             temp.Change,
		IsPayment:          temp.Payment,
		TotalContributions: temp.TotalPayments,
		TotalGain:          temp.TotalGain,
		RateOfReturn:       rate,
	}
	return nil
}

// EncodeRows writes rows as JSONL, one row per line.
func EncodeRows(w io.Writer, rows []LedgerRow) error {
	for _, row := range rows {
		line, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("cannot encode row %v: %w", row, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// DecodeRows reads JSONL rows, skipping empty lines.
func DecodeRows(r io.Reader) ([]LedgerRow, error) {
	var rows []LedgerRow
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var row LedgerRow
		if err := json.Unmarshal(lineBytes, &row); err != nil {
			return nil, fmt.Errorf("line %d: could not decode row %q: %w", lineNo, string(lineBytes), err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
