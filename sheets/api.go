package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Credentials of the service account allowed to edit the spreadsheet.
// File takes precedence over Email and PrivateKey.
type Credentials struct {
	File       string // service account JSON key file
	Email      string
	PrivateKey string // PEM, literal "\n" sequences are accepted
}

// Open returns a Store over the sheet named sheet (the first one when empty)
// of the spreadsheet id.
func Open(ctx context.Context, creds Credentials, id, sheet string, layout Layout) (*Store, error) {
	var opt option.ClientOption
	switch {
	case creds.File != "":
		opt = option.WithCredentialsFile(creds.File)
	case creds.Email != "" && creds.PrivateKey != "":
		conf := &jwt.Config{
			Email:      creds.Email,
			PrivateKey: []byte(strings.ReplaceAll(creds.PrivateKey, `\n`, "\n")),
			Scopes:     []string{gsheets.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}
		opt = option.WithHTTPClient(conf.Client(ctx))
	default:
		return nil, fmt.Errorf("missing Google service account credentials")
	}

	srv, err := gsheets.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("cannot create sheets client: %w", err)
	}
	if sheet == "" {
		doc, err := srv.Spreadsheets.Get(id).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("cannot load spreadsheet %q: %w", id, err)
		}
		if len(doc.Sheets) == 0 {
			return nil, fmt.Errorf("spreadsheet %q has no sheet", id)
		}
		sheet = doc.Sheets[0].Properties.Title
	}
	return &Store{Layout: layout, t: &apiTable{values: srv.Spreadsheets.Values, id: id, sheet: sheet}}, nil
}

// apiTable is the table of a real sheet.
type apiTable struct {
	values *gsheets.SpreadsheetsValuesService
	id     string
	sheet  string
}

func (a *apiTable) Rows(ctx context.Context, from, to int) ([][]any, error) {
	rng := fmt.Sprintf("%s!%d:%d", quote(a.sheet), from, to)
	if to <= 0 {
		rng = fmt.Sprintf("%s!%d:%d", quote(a.sheet), from, sheetMaxRows)
	}
	resp, err := a.values.Get(a.id, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("cannot read range %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (a *apiTable) Set(ctx context.Context, cells []cell) error {
	if len(cells) == 0 {
		return nil
	}
	req := &gsheets.BatchUpdateValuesRequest{ValueInputOption: "USER_ENTERED"}
	for _, c := range cells {
		req.Data = append(req.Data, &gsheets.ValueRange{
			Range:  quote(a.sheet) + "!" + a1(c.Row, c.Col),
			Values: [][]any{{c.Value}},
		})
	}
	if _, err := a.values.BatchUpdate(a.id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("cannot update sheet %q: %w", a.sheet, err)
	}
	return nil
}

// sheetMaxRows is the row limit of a Google Sheet.
const sheetMaxRows = 10_000_000

// a1 returns the A1 notation of a cell, 1-based row, 0-based column.
func a1(row, col int) string {
	var name []byte
	for col++; col > 0; col = (col - 1) / 26 {
		name = append([]byte{byte('A' + (col-1)%26)}, name...)
	}
	return fmt.Sprintf("%s%d", name, row)
}

// quote quotes a sheet name for A1 ranges.
func quote(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
