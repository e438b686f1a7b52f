package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/property-intel/acumidata"
)

func TestParse(t *testing.T) {
	for in, want := range map[string]Role{
		"lender": RoleLender, "INVESTOR": RoleInvestor,
		"asset_manager": RoleAssetManager, "asset-manager": RoleAssetManager,
	} {
		got, ok := Parse(in)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, want, got)
	}
	_, ok := Parse("tenant")
	assert.False(t, ok)
	_, ok = Parse("")
	assert.False(t, ok)
}

func TestApplySelectsAndRelabels(t *testing.T) {
	r := &acumidata.Report{Fields: map[string]any{
		"estimated_value":  float64(500000),
		"loan_to_value":    0.7,
		"confidence_score": float64(92),
		"pdf_report_link":  "https://reports.example/r.pdf",
	}}

	v := Apply(RoleLender, r)
	assert.Equal(t, RoleLender, v.Role)

	labels := make(map[string]any, len(v.Fields))
	for _, f := range v.Fields {
		labels[f.Label] = f.Value
	}
	assert.Equal(t, float64(500000), labels["Collateral Value"])
	assert.Equal(t, 0.7, labels["LTV Ratio"])
	_, has := labels["Full Report"]
	assert.False(t, has, "lender view must not carry asset-manager fields")
}

func TestApplyDuplicateLabelKeepsFirstPopulated(t *testing.T) {
	// both estimated_value and predicted_price map to "Collateral Value"
	r := &acumidata.Report{Fields: map[string]any{
		"estimated_value": float64(100),
		"predicted_price": float64(200),
	}}
	v := Apply(RoleLender, r)

	var collateral []any
	for _, f := range v.Fields {
		if f.Label == "Collateral Value" {
			collateral = append(collateral, f.Value)
		}
	}
	require.Len(t, collateral, 1)
	assert.Equal(t, float64(100), collateral[0])
}

func TestApplyMissingFieldsAbsent(t *testing.T) {
	v := Apply(RoleInvestor, &acumidata.Report{Fields: map[string]any{}})
	assert.Empty(t, v.Fields)
}
