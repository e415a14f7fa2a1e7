// Package adp estimates take-home pay with the Symmetry hourly calculator.
package adp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"
)

// DefaultCalculatorURL is the Symmetry hourly calculator endpoint. The API
// key below can be found by inspecting requests on
// http://www.symmetry.com/try-it-for-free/calculators.
const (
	DefaultCalculatorURL = "https://calculators.symmetry.com/api/calculators/hourly?report=none"
	apiKey               = "RnFqNFA0NVlRTExEenRwWjNiRnJrTXY4WkZHZEpkcENEeFFzQ3F0Nnh5VT0="
	referer              = "https://www.symmetry.com/"
)

// stateCodes are the INCITS 38 state and territory codes.
var stateCodes = map[string]bool{
	"AK": true, "AL": true, "AR": true, "AS": true, "AZ": true, "CA": true,
	"CO": true, "CT": true, "DC": true, "DE": true, "FL": true, "FM": true,
	"GA": true, "GU": true, "HI": true, "IA": true, "ID": true, "IL": true,
	"IN": true, "KS": true, "KY": true, "LA": true, "MA": true, "MD": true,
	"ME": true, "MH": true, "MI": true, "MN": true, "MO": true, "MP": true,
	"MS": true, "MT": true, "NC": true, "ND": true, "NE": true, "NH": true,
	"NJ": true, "NM": true, "NV": true, "NY": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "PR": true, "PW": true, "RI": true, "SC": true,
	"SD": true, "TN": true, "TX": true, "UM": true, "UT": true, "VA": true,
	"VI": true, "VT": true, "WA": true, "WI": true, "WV": true, "WY": true,
}

// ValidStateCode reports whether code is a known INCITS 38 code.
func ValidStateCode(code string) bool {
	return stateCodes[strings.ToUpper(code)]
}

// StateCodes returns every known INCITS 38 code, sorted.
func StateCodes() []string {
	codes := make([]string, 0, len(stateCodes))
	for code := range stateCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Salary is a monthly pay breakdown. Withheld is the difference between
// gross and net pay.
type Salary struct {
	Federal  float64
	FICA     float64
	Gross    float64
	Medicare float64
	NetPay   float64
	State    float64
	Withheld float64
}

// String renders a report with the amounts in color. Set NO_COLOR to
// disable the escapes.
func (s *Salary) String() string {
	amount := color.New(color.Bold, color.FgGreen).SprintfFunc()
	withheld := color.New(color.Bold, color.FgRed).SprintfFunc()
	var b strings.Builder
	for _, line := range []struct {
		label string
		value float64
	}{
		{"Gross", s.Gross},
		{"Federal", s.Federal},
		{"FICA", s.FICA},
		{"Medicare", s.Medicare},
		{"State", s.State},
	} {
		fmt.Fprintf(&b, "%-10s%s\n", line.label, amount("%8.2f", line.value))
	}
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "%-10s%s\n", "Net", amount("%8.2f", s.NetPay))
	b.WriteString("\n------------------\n")
	fmt.Fprintf(&b, "%-10s%s", "Withheld", withheld("%8.2f", s.Withheld))
	return b.String()
}

// Calculator calls the Symmetry hourly calculator.
type Calculator struct {
	// HTTPClient defaults to one with a 30 second timeout.
	HTTPClient *http.Client
	// BaseURL defaults to DefaultCalculatorURL.
	BaseURL string
}

type rateEntry struct {
	PayRate string `json:"payRate"`
	Hours   string `json:"hours"`
}

type stateParm struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func calculatorPayload(hours int, payRate float64, state string, checkDate int64) map[string]any {
	grossPay := float64(hours) * payRate
	return map[string]any{
		"checkDate":     checkDate,
		"state":         state,
		"rates":         []rateEntry{{formatFloat(payRate), strconv.Itoa(hours)}},
		"grossPay":      formatFloat(grossPay),
		"grossPayType":  "PAY_PER_PERIOD",
		"grossPayYTD":   "0",
		"payFrequency":  "MONTHLY",
		"exemptFederal": "false", "exemptFica": "false", "exemptMedicare": "false",
		"federalFilingStatusType":      "SINGLE",
		"federalAllowances":            "0",
		"additionalFederalWithholding": "0",
		"roundFederalWithholding":      "false",
		"print": map[string]any{
			"checkDate":           checkDate,
			"checkNumber":         "",
			"checkNumberOnCheck":  "false",
			"companyAddressLine1": "", "companyAddressLine2": "", "companyAddressLine3": "",
			"companyName": "", "companyNameOnCheck": "false",
			"employeeAddressLine1": "", "employeeAddressLine2": "", "employeeAddressLine3": "",
			"employeeName": "", "id": "", "remarks": "",
		},
		"otherIncome": []any{},
		"payCodes":    []any{},
		"stockOptions": []any{},
		"stateInfo": map[string]any{
			"parms": []stateParm{
				{"TOTALALLOWANCES", "0"},
				{"additionalStateWithholding", "0"},
				{"SPOUSEBLINDNESS", "false"},
				{"stateExemption", "false"},
				{"PERSONALBLINDNESS", "false"},
				{"HEADOFHOUSEHOLD", "false"},
				{"FULLTIMESTUDENT", "false"},
			},
		},
		"voluntaryDeductions": []any{},
		"presetDeductions":    []any{},
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Calculate estimates monthly take-home pay for hours worked at payRate in
// the given state.
func (c *Calculator) Calculate(ctx context.Context, hours int, payRate float64,
	state string) (*Salary, error) {
	state = strings.ToUpper(state)
	if !ValidStateCode(state) {
		return nil, errors.Errorf("%s is not a known state code", state)
	}
	checkDate := time.Now().UTC().UnixMilli()
	body, err := json.Marshal(calculatorPayload(hours, payRate, state, checkDate))
	if err != nil {
		return nil, errors.Errorf("encoding calculator request: %w", err)
	}
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultCalculatorURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Errorf("building calculator request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("DNT", "1")
	req.Header.Set("Origin", "https://www.symmetry.com")
	req.Header.Set("pcc-api-key", apiKey)
	req.Header.Set("Referer", referer)
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("calling calculator: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("calculator returned %s", resp.Status)
	}
	var parsed struct {
		Content struct {
			Federal  float64 `json:"federal"`
			FICA     float64 `json:"fica"`
			Medicare float64 `json:"medicare"`
			NetPay   float64 `json:"netPay"`
			State    float64 `json:"state"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Errorf("decoding calculator response: %w", err)
	}
	gross := float64(hours) * payRate
	return &Salary{
		Federal:  parsed.Content.Federal,
		FICA:     parsed.Content.FICA,
		Gross:    gross,
		Medicare: parsed.Content.Medicare,
		NetPay:   parsed.Content.NetPay,
		State:    parsed.Content.State,
		Withheld: gross - parsed.Content.NetPay,
	}, nil
}
