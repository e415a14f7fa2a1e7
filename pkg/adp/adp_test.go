package adp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStateCode(t *testing.T) {
	assert.True(t, ValidStateCode("FL"))
	assert.True(t, ValidStateCode("ny"))
	assert.False(t, ValidStateCode("ZZ"))
	assert.False(t, ValidStateCode(""))
}

func TestStateCodes(t *testing.T) {
	codes := StateCodes()
	assert.Len(t, codes, 59)
	assert.Equal(t, "AK", codes[0])
	assert.Equal(t, "WY", codes[len(codes)-1])
}

func TestCalculate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("pcc-api-key"))
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "FL", payload["state"])
		assert.Equal(t, "11200", payload["grossPay"])
		assert.Equal(t, "MONTHLY", payload["payFrequency"])
		_, _ = w.Write([]byte(`{"content":{"federal":1200.5,"fica":694.4,` +
			`"medicare":162.4,"netPay":9142.7,"state":0}}`))
	}))
	defer srv.Close()

	calc := &Calculator{HTTPClient: srv.Client(), BaseURL: srv.URL}
	salary, err := calc.Calculate(context.Background(), 160, 70, "fl")
	require.NoError(t, err)
	assert.InDelta(t, 11200.0, salary.Gross, 0.001)
	assert.InDelta(t, 1200.5, salary.Federal, 0.001)
	assert.InDelta(t, 9142.7, salary.NetPay, 0.001)
	assert.InDelta(t, 11200.0-9142.7, salary.Withheld, 0.001)
}

func TestCalculateBadState(t *testing.T) {
	calc := &Calculator{}
	_, err := calc.Calculate(context.Background(), 160, 70, "XX")
	assert.ErrorContains(t, err, "not a known state code")
}

func TestSalaryString(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
	salary := &Salary{
		Federal: 1200.5, FICA: 694.4, Gross: 11200, Medicare: 162.4,
		NetPay: 9142.7, State: 0, Withheld: 2057.3,
	}
	out := salary.String()
	assert.Contains(t, out, "Gross     11200.00")
	assert.Contains(t, out, "Net        9142.70")
	assert.Contains(t, out, "Withheld   2057.30")
}
