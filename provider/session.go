package provider

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const sessionFile = "pension-provider-session"

// SessionPath is where the session headers are stored between commands.
func SessionPath() string { return filepath.Join(os.TempDir(), sessionFile) }

// SaveHeaders stores "Name: value" header lines copied from a logged in
// browser request.
func SaveHeaders(headers []string) error {
	for _, h := range headers {
		if !strings.Contains(h, ":") {
			return fmt.Errorf("invalid header %q, want \"Name: value\"", h)
		}
	}
	return os.WriteFile(SessionPath(), []byte(strings.Join(headers, "\n")), 0600)
}

// LoadHeaders reads the headers stored by SaveHeaders.
func LoadHeaders() (http.Header, error) {
	headerData, err := os.ReadFile(SessionPath())
	if err != nil {
		return nil, fmt.Errorf("provider session not found. Please run 'pensionctl login' first: %w", err)
	}

	headers := make(http.Header)
	scanner := bufio.NewScanner(strings.NewReader(string(headerData)))
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 {
			headers.Add(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		}
	}
	return headers, nil
}
