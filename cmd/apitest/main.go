// Command apitest exercises a running panchang API and reports which
// endpoints and invariants hold.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// =============================================================================
// Response Types
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type RangeResponse struct {
	Start   string             `json:"start"`
	End     string             `json:"end"`
	Reports []*panchang.Report `json:"reports"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Tamil Panchang API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	tr.testHealth()
	tr.testPostPanchang()
	tr.testToday()
	tr.testCities()
	tr.testRange()
	tr.testMarkdown()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.Data, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testPostPanchang() {
	tr.printSection("POST /api/panchang")

	report, err := tr.postReport("/api/panchang", map[string]any{
		"date": "2024-01-15", "latitude": 13.0827, "longitude": 80.2707, "timezone": 5.5,
	})
	if err != nil {
		tr.recordError("Chennai 2024-01-15", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Chennai 2024-01-15: %s, %s, %s",
		report.TamilMonth.Name, report.Tithi.Name, report.Nakshatra.Name))
	tr.checkReport("Chennai 2024-01-15", report)
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	report, err := tr.postReport("/api/today", map[string]any{"latitude": 13.0827, "longitude": 80.2707})
	if err != nil {
		tr.recordError("POST /api/today", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("POST /api/today: %s (%s)", report.Date, report.Weekday.English))
	}

	resp, err := tr.get("/api/v1/panchang/today?place=chennai")
	if err != nil {
		tr.recordError("GET today", err.Error())
		return
	}
	var r panchang.Report
	if err := json.Unmarshal(resp.Data, &r); err != nil {
		tr.recordError("GET today", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("GET /api/v1/panchang/today: %s", r.Date))
}

func (tr *TestRunner) testCities() {
	tr.printSection("Cities")

	for _, place := range []string{"chennai", "mumbai", "delhi", "madurai", "colombo", "singapore", "london"} {
		resp, err := tr.get("/api/v1/panchang/2024-04-14?place=" + place)
		if err != nil {
			tr.recordError(place, err.Error())
			continue
		}
		var r panchang.Report
		if err := json.Unmarshal(resp.Data, &r); err != nil {
			tr.recordError(place, err.Error())
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: sunrise %s, Rahu Kalam %s-%s",
			place, r.Sunrise, r.Inauspicious.RahuKalam.Start, r.Inauspicious.RahuKalam.End))
		tr.checkReport(place, &r)
	}
}

func (tr *TestRunner) testRange() {
	tr.printSection("Range")

	resp, err := tr.get("/api/v1/panchang/range?start=2024-02-27&end=2024-03-02&place=chennai")
	if err != nil {
		tr.recordError("Range", err.Error())
		return
	}
	var data RangeResponse
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		tr.recordError("Range", err.Error())
		return
	}
	if len(data.Reports) != 5 {
		tr.recordError("Range", fmt.Sprintf("got %d reports, want 5", len(data.Reports)))
		return
	}
	tr.recordSuccess("Range across leap day returned 5 reports")

	// Consecutive days hand over at sunrise.
	for i := 1; i < len(data.Reports); i++ {
		prev, cur := data.Reports[i-1], data.Reports[i]
		want := strings.SplitN(prev.NextSunrise, " ", 2)[0]
		if cur.Sunrise != want {
			tr.recordError("Range", fmt.Sprintf("%s next sunrise %s but %s sunrise %s",
				prev.Date, prev.NextSunrise, cur.Date, cur.Sunrise))
		}
	}
}

func (tr *TestRunner) testMarkdown() {
	tr.printSection("Markdown")

	resp, err := tr.getRaw("/api/v1/panchang/2024-01-15?place=chennai&format=markdown")
	if err != nil {
		tr.recordError("Markdown", err.Error())
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusOK && bytes.HasPrefix(body, []byte("# Tamil Panchang for 2024-01-15")) {
		tr.recordSuccess("Markdown report rendered")
		if tr.verbose {
			fmt.Println(string(body))
		}
	} else {
		tr.recordError("Markdown", fmt.Sprintf("HTTP %d", resp.StatusCode))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	cases := []struct {
		name   string
		path   string
		status int
	}{
		{"Invalid date format", "/api/v1/panchang/15-01-2024?place=chennai", http.StatusBadRequest},
		{"Year before 1900", "/api/v1/panchang/1899-12-31?place=chennai", http.StatusBadRequest},
		{"Latitude out of range", "/api/v1/panchang/2024-01-15?lat=91&lon=0", http.StatusBadRequest},
		{"Unknown place", "/api/v1/panchang/2024-01-15?place=atlantis", http.StatusNotFound},
		{"Missing range end", "/api/v1/panchang/range?start=2024-01-01&place=chennai", http.StatusBadRequest},
		{"Polar night", "/api/v1/panchang/2024-12-21?lat=85&lon=0&tz=0", http.StatusUnprocessableEntity},
	}
	for _, c := range cases {
		resp, err := tr.getRaw(c.path)
		if err != nil {
			tr.recordError(c.name, err.Error())
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == c.status {
			tr.recordSuccess(fmt.Sprintf("%s rejected with %d", c.name, c.status))
		} else {
			tr.recordError(c.name, fmt.Sprintf("HTTP %d, want %d", resp.StatusCode, c.status))
		}
	}

	if _, err := tr.get("/api/v1/panchang/2024-02-29?place=chennai"); err != nil {
		tr.recordError("Leap year", err.Error())
	} else {
		tr.recordSuccess("Leap year date (2024-02-29) handled")
	}
}

// checkReport verifies structural invariants every report must satisfy.
func (tr *TestRunner) checkReport(name string, r *panchang.Report) {
	var problems []string

	if n := len(r.GowriPanchangam.Day) + len(r.GowriPanchangam.Night); n != 16 {
		problems = append(problems, fmt.Sprintf("%d Gowri periods", n))
	}
	if len(r.Hora) != 24 {
		problems = append(problems, fmt.Sprintf("%d horas", len(r.Hora)))
	}
	if len(r.Transitions.Tithi) == 0 || len(r.Transitions.Nakshatra) == 0 || len(r.Transitions.Yoga) == 0 {
		problems = append(problems, "empty transition timeline")
	}
	for _, e := range []panchang.Element{r.Tithi, r.Nakshatra, r.Yoga, r.Karana} {
		if e.Remaining < 0 || e.Remaining > 100 {
			problems = append(problems, fmt.Sprintf("%s remaining %v", e.Name, e.Remaining))
		}
	}

	if len(problems) > 0 {
		tr.recordError(name, strings.Join(problems, "; "))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.getRaw(path)
	if err != nil {
		return nil, err
	}
	return tr.decode(resp)
}

func (tr *TestRunner) postReport(path string, body any) (*panchang.Report, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := tr.client.Post(tr.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	apiResp, err := tr.decode(resp)
	if err != nil {
		return nil, err
	}
	var r panchang.Report
	if err := json.Unmarshal(apiResp.Data, &r); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &r, nil
}

func (tr *TestRunner) decode(resp *http.Response) (*APIResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (print the Markdown report)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
