package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/pension"
)

const account = `{
  "customer": "J. Doe",
  "policies": [
    {"name": "Personal Pension", "number": "PP-1", "valueDate": "01/02/2024", "totalValue": "£12,345.67",
     "lastPremiumPaid": "£150.00 received on 15/01/2024"},
    {"name": "Stakeholder Plan", "number": "SP-2", "valueDate": "31/01/2024", "totalValue": 2500.5}
  ]
}`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "session=42" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestObserve(t *testing.T) {
	srv := serve(t, http.StatusOK, account)
	header := http.Header{"Cookie": []string{"session=42"}}

	tests := []struct {
		name        string
		policy      string
		wantDate    string
		wantBalance string
		wantPremium string // empty for no premium line
	}{
		{"first policy", "", "01/02/2024", "£12,345.67", "£150.00 received on 15/01/2024"},
		{"exact name", "Stakeholder Plan", "31/01/2024", "2500.5", ""},
		{"closest name", "stakeholder", "31/01/2024", "2500.5", ""},
		{"typo", "Personnal Pension", "01/02/2024", "£12,345.67", "£150.00 received on 15/01/2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{URL: srv.URL, Header: header, Policy: tt.policy}
			obs, err := c.Observe(context.Background())
			if err != nil {
				t.Fatalf("Observe() error: %v", err)
			}
			if obs.DateText != tt.wantDate || obs.BalanceText != tt.wantBalance {
				t.Errorf("Observe() = %q %q, want %q %q", obs.DateText, obs.BalanceText, tt.wantDate, tt.wantBalance)
			}
			switch {
			case tt.wantPremium == "" && obs.PremiumText != nil:
				t.Errorf("Observe() premium = %q, want none", *obs.PremiumText)
			case tt.wantPremium != "" && (obs.PremiumText == nil || *obs.PremiumText != tt.wantPremium):
				t.Errorf("Observe() premium = %v, want %q", obs.PremiumText, tt.wantPremium)
			}
			if _, _, err := obs.Parse(); err != nil {
				t.Errorf("observation does not parse: %v", err)
			}
		})
	}
}

func TestObserveErrors(t *testing.T) {
	header := http.Header{"Cookie": []string{"session=42"}}
	tests := []struct {
		name        string
		status      int
		body        string
		header      http.Header
		maintenance bool
	}{
		{"unavailable", http.StatusServiceUnavailable, "", header, true},
		{"maintenance page", http.StatusOK, "<html><body><h1>Site MAINTENANCE in progress</h1></body></html>", header, true},
		{"maintenance flag", http.StatusOK, `{"maintenance": true, "policies": []}`, header, true},
		{"logged out", http.StatusOK, account, nil, false},
		{"server error", http.StatusInternalServerError, "", header, false},
		{"not json", http.StatusOK, "<html>hello</html>", header, false},
		{"no policy", http.StatusOK, `{"policies": []}`, header, false},
		{"no balance", http.StatusOK, `{"policies": [{"name": "x", "valueDate": "01/02/2024"}]}`, header, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			c := &Client{URL: srv.URL, Header: tt.header}
			_, err := c.Observe(context.Background())
			if err == nil {
				t.Fatal("Observe() should fail")
			}
			if got := errors.Is(err, pension.ErrMaintenance); got != tt.maintenance {
				t.Errorf("Observe() error = %v, maintenance = %v, want %v", err, got, tt.maintenance)
			}
		})
	}
}

func TestSession(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	if _, err := LoadHeaders(); err == nil {
		t.Errorf("LoadHeaders() should fail before login")
	}
	if err := SaveHeaders([]string{"no colon"}); err == nil {
		t.Errorf("SaveHeaders() should reject a malformed header")
	}
	if err := SaveHeaders([]string{"Cookie: session=42", "User-Agent: Mozilla/5.0 (X11; Linux)"}); err != nil {
		t.Fatalf("SaveHeaders() error: %v", err)
	}
	h, err := LoadHeaders()
	if err != nil {
		t.Fatalf("LoadHeaders() error: %v", err)
	}
	if got := h.Get("Cookie"); got != "session=42" {
		t.Errorf("Cookie = %q", got)
	}
	if got := h.Get("User-Agent"); got != "Mozilla/5.0 (X11; Linux)" {
		t.Errorf("User-Agent = %q", got)
	}
}
