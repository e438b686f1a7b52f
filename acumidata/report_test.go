package acumidata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quantariumSample = `{
  "Details": {
    "PropertyValuation": {
      "EstimatedValue": 425000,
      "ConfidenceScore": 92,
      "ValuationRangeLow": 400000,
      "ValuationRangeHigh": 450000
    },
    "PropertySummary": {
      "Bedrooms": 3,
      "FullBaths": 2,
      "YearBuilt": "1987"
    },
    "PropertyDetails": {
      "PropertyBasics": {"YearBuiltActual": "1985"}
    },
    "ComparablePropertyListings": {
      "Comparables": [
        {"Address": "12 Oak St", "City": "Belfair", "State": "WA", "Zip": "98528",
         "Price": 410000, "Bedrooms": 3, "Bathrooms": 2, "BuildingSqft": 1650,
         "YearBuilt": "1990", "Distance": 0.4},
        {"Address": "9 Pine Ct", "City": "Belfair", "State": "WA", "Zip": "98528",
         "Price": 440000, "Bedrooms": 4, "Baths": 2.5, "SquareFeet": 1900,
         "YearBuilt": 1995, "Distance": 0.8},
        {"Address": "no sale price", "Price": 0, "Distance": 0}
      ]
    }
  }
}`

func TestParseQuantariumProfile(t *testing.T) {
	d := mustEndpoint(t, "valuation_estimate")
	r, err := Parse(d, []byte(quantariumSample))
	require.NoError(t, err)

	assert.Equal(t, "valuation_estimate", r.Endpoint)
	assert.Equal(t, CategoryValuation, r.Category)
	assert.Equal(t, float64(425000), r.Fields["estimated_value"])
	assert.Equal(t, float64(92), r.Fields["confidence_score"])
	// first present path wins: YearBuiltActual over PropertySummary.YearBuilt
	assert.Equal(t, "1985", r.Fields["year_built"])

	require.Len(t, r.Comparables, 3)
	first := r.Comparables[0]
	assert.Equal(t, "12 Oak St", first.Address)
	assert.Equal(t, float64(410000), first.Price)
	assert.Equal(t, float64(1650), first.Sqft)
	// alternate vendor keys Baths / SquareFeet, and numeric YearBuilt
	second := r.Comparables[1]
	assert.Equal(t, 2.5, second.Bathrooms)
	assert.Equal(t, float64(1900), second.Sqft)
	assert.Equal(t, "1995", second.YearBuilt)

	require.NotNil(t, r.Stats)
	assert.Equal(t, 3, r.Stats.TotalComps)
	assert.Equal(t, float64(425000), r.Stats.AvgPrice) // zero price excluded
	assert.Equal(t, float64(410000), r.Stats.MinPrice)
	assert.Equal(t, float64(440000), r.Stats.MaxPrice)
	assert.Equal(t, 0.6, r.Stats.AvgDistance)
}

func TestParseRelarFullProfile(t *testing.T) {
	raw := `{
	  "searchData": {"beds": 3, "baths": 2, "yearBuilt": 2001, "size": 1800, "lotSize": 7200},
	  "analysis": {"houseWorth": {"valuations": {"current": {"value": 512000, "confidence": 0.87, "variance": 0.05}}}},
	  "metadata": {"reportPDFLink": "https://reports.example/r/abc.pdf"}
	}`
	d := mustEndpoint(t, "valuation_advantage")
	r, err := Parse(d, []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, float64(512000), r.Fields["estimated_value"])
	assert.Equal(t, 0.87, r.Fields["confidence_score"])
	assert.Equal(t, "https://reports.example/r/abc.pdf", r.Fields["pdf_report_link"])
	assert.Empty(t, r.Comparables)
}

func TestParseRelarRangedDerivesMidpoint(t *testing.T) {
	raw := `{"prediction": {"priceLow": 300000, "priceHigh": 340000, "confidence": 0.8}}`
	d := mustEndpoint(t, "valuation_ranged")
	r, err := Parse(d, []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, float64(320000), r.Fields["value_midpoint"])
}

func TestParseEquityDerivesRatios(t *testing.T) {
	d := mustEndpoint(t, "equity_advantage")

	raw := `{"Details": {"EquityCalculation": {"EstimatedValue": 500000, "LoanAmount": 350000, "EquityAmount": 150000}}}`
	r, err := Parse(d, []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 0.7, r.Fields["loan_to_value"])
	assert.Equal(t, 0.3, r.Fields["equity_percent"])

	// zero estimated value must not divide
	raw = `{"Details": {"EquityCalculation": {"EstimatedValue": 0, "LoanAmount": 350000, "EquityAmount": 150000}}}`
	r, err = Parse(d, []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, Undefined, r.Fields["loan_to_value"])
	assert.Equal(t, Undefined, r.Fields["equity_percent"])
}

func TestParseMissingRequiredField(t *testing.T) {
	d := mustEndpoint(t, "valuation_estimate")
	_, err := Parse(d, []byte(`{"Details": {"PropertySummary": {"Bedrooms": 3}}}`))
	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "valuation_estimate", pErr.Endpoint)
	assert.Equal(t, "Details.PropertyValuation.EstimatedValue", pErr.Missing)
}

func TestParseOptionalFieldsAbsent(t *testing.T) {
	d := mustEndpoint(t, "valuation_estimate")
	r, err := Parse(d, []byte(`{"Details": {"PropertyValuation": {"EstimatedValue": 100000}}}`))
	require.NoError(t, err)
	assert.Equal(t, float64(100000), r.Fields["estimated_value"])
	_, has := r.Fields["confidence_score"]
	assert.False(t, has, "absent optional path must not produce a field")
	assert.Equal(t, []string{"estimated_value"}, r.Order)
}

func TestParseInvalidJSON(t *testing.T) {
	d := mustEndpoint(t, "valuation_estimate")
	_, err := Parse(d, []byte(`<html>gateway timeout</html>`))
	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)
}

func TestDisplayColumnsIncludeDerived(t *testing.T) {
	cols := DisplayColumns(ProfileRelarRanged)
	assert.Contains(t, cols, "price_low")
	assert.Contains(t, cols, "value_midpoint")

	cols = DisplayColumns(ProfileEquity)
	assert.Equal(t, []string{"estimated_value", "loan_amount", "equity_amount", "lien_count", "loan_to_value", "equity_percent"}, cols)
}

func mustDoc(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestLookupPathArrayIndexing(t *testing.T) {
	var v any
	v, found := lookupPath(mustDoc(t, `{"a": [{"b": 7}, {"b": 8}]}`), "a.1.b")
	require.True(t, found)
	assert.Equal(t, float64(8), v)

	_, found = lookupPath(mustDoc(t, `{"a": []}`), "a.0.b")
	assert.False(t, found)
}
