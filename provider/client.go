// Package provider observes a pension account on the provider's customer
// portal, reusing the session headers of a logged in browser.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/agnivade/levenshtein"
	"github.com/etnz/pension"
)

// Paths locates the account fields in the portal's JSON payload.
//
// Policies selects the list of policies held by the customer, the other
// paths are evaluated against one policy.
type Paths struct {
	Policies    string
	Name        string
	ValueDate   string
	TotalValue  string
	LastPremium string
	Maintenance string // evaluated on the whole payload, optional
}

// DefaultPaths matches the portal's account summary.
var DefaultPaths = Paths{
	Policies:    "$.policies",
	Name:        "$.name",
	ValueDate:   "$.valueDate",
	TotalValue:  "$.totalValue",
	LastPremium: "$.lastPremiumPaid",
	Maintenance: "$.maintenance",
}

// Client is a pension.Source reading the account summary at URL.
type Client struct {
	URL    string
	Header http.Header
	HTTP   *http.Client // defaults to http.DefaultClient
	Policy string       // policy name, the closest match is used. Empty for the first one.
	Paths  Paths        // zero value means DefaultPaths
}

var _ pension.Source = (*Client)(nil)

// maintenanceRE spots the maintenance page served instead of the payload.
var maintenanceRE = regexp.MustCompile(`(?is)<h1[^>]*>[^<]*maintenance`)

// Observe implements pension.Source.
func (c *Client) Observe(ctx context.Context) (obs pension.Observation, err error) {
	data, status, err := c.wget(ctx, c.URL)
	if err != nil {
		return obs, err
	}
	switch {
	case status == http.StatusServiceUnavailable, maintenanceRE.Match(data):
		return obs, pension.ErrMaintenance
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return obs, fmt.Errorf("session rejected (%d), run 'pensionctl login' again", status)
	case status/100 != 2:
		return obs, fmt.Errorf("unexpected status %d from %q", status, c.URL)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("json=```\n\n%s\n\n```", string(data))
		return obs, fmt.Errorf("could not decode account json: %w", err)
	}

	paths := c.Paths
	if paths == (Paths{}) {
		paths = DefaultPaths
	}
	if paths.Maintenance != "" {
		if v, err := jsonpath.Get(paths.Maintenance, doc); err == nil && v == true {
			return obs, pension.ErrMaintenance
		}
	}

	policy, err := c.selectPolicy(paths, doc)
	if err != nil {
		return obs, err
	}

	if obs.DateText, err = text(paths.ValueDate, policy); err != nil {
		return obs, fmt.Errorf("cannot read value date: %w", err)
	}
	if obs.BalanceText, err = text(paths.TotalValue, policy); err != nil {
		return obs, fmt.Errorf("cannot read total value: %w", err)
	}
	// a policy without premium yet has no such field.
	if premium, err := text(paths.LastPremium, policy); err == nil {
		obs.PremiumText = &premium
	}
	return obs, nil
}

// selectPolicy returns the policy whose name is the closest to c.Policy.
func (c *Client) selectPolicy(paths Paths, doc any) (any, error) {
	v, err := jsonpath.Get(paths.Policies, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot find policies at %q: %w", paths.Policies, err)
	}
	policies, ok := v.([]any)
	if !ok || len(policies) == 0 {
		return nil, fmt.Errorf("no policy found at %q", paths.Policies)
	}
	if c.Policy == "" {
		return policies[0], nil
	}

	want := strings.ToUpper(c.Policy)
	best, bestDist := -1, 0
	for i, p := range policies {
		name, err := text(paths.Name, p)
		if err != nil {
			continue
		}
		dist := levenshtein.ComputeDistance(strings.ToUpper(name), want)
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("no named policy found at %q", paths.Policies)
	}
	if bestDist > 0 {
		log.Printf("policy %q not found, using the closest match (distance %d)", c.Policy, bestDist)
	}
	return policies[best], nil
}

// text evaluates path on v and returns the result as text.
func text(path string, v any) (string, error) {
	jval, err := jsonpath.Get(path, v)
	if err != nil {
		return "", err
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch x := jval.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%q is not a text: %v", path, jval)
	}
}

// wget little helper to retrieve payload from http.
func (c *Client) wget(ctx context.Context, uri string) ([]byte, int, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot create http request %q: %w", uri, err)
	}
	r.Header = c.Header.Clone()

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(r)
	if err != nil {
		log.Printf("URI=%s", uri)
		return nil, 0, fmt.Errorf("cannot execute http request: %w", err)
	}
	body := resp.Body
	defer body.Close()

	// reading in a buffer to be able to print the json in debug mode
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	return buf.Bytes(), resp.StatusCode, nil
}
