package roles

import (
	"strings"

	"github.com/yourorg/property-intel/acumidata"
)

// Role tags the audience a view is rendered for. Views never compute
// anything of their own: each one selects and relabels fields of a single
// Report.
type Role string

const (
	RoleLender       Role = "lender"
	RoleInvestor     Role = "investor"
	RoleAssetManager Role = "asset_manager"
)

// Parse maps user input onto a Role; empty input means no role filter.
func Parse(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lender":
		return RoleLender, true
	case "investor":
		return RoleInvestor, true
	case "asset_manager", "asset-manager", "assetmanager":
		return RoleAssetManager, true
	default:
		return "", false
	}
}

type pick struct {
	Source string
	Label  string
}

// View is the role-filtered rendering of a Report: a stable-order list of
// labeled values.
type View struct {
	Role   Role        `json:"role"`
	Fields []ViewField `json:"fields"`
}

type ViewField struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

var picks = map[Role][]pick{
	RoleLender: {
		{Source: "estimated_value", Label: "Collateral Value"},
		{Source: "predicted_price", Label: "Collateral Value"},
		{Source: "confidence_score", Label: "Valuation Confidence"},
		{Source: "valuation_range_low", Label: "Value Range Low"},
		{Source: "valuation_range_high", Label: "Value Range High"},
		{Source: "price_low", Label: "Value Range Low"},
		{Source: "price_high", Label: "Value Range High"},
		{Source: "loan_amount", Label: "Outstanding Loan"},
		{Source: "loan_to_value", Label: "LTV Ratio"},
		{Source: "lien_count", Label: "Liens"},
		{Source: "year_built", Label: "Property Age Basis"},
	},
	RoleInvestor: {
		{Source: "estimated_value", Label: "Current Value"},
		{Source: "predicted_price", Label: "Current Value"},
		{Source: "value_midpoint", Label: "Range Midpoint"},
		{Source: "price_low", Label: "Buy Range Low"},
		{Source: "price_high", Label: "Buy Range High"},
		{Source: "variance", Label: "Valuation Variance"},
		{Source: "equity_amount", Label: "Owner Equity"},
		{Source: "equity_percent", Label: "Equity %"},
		{Source: "home_size", Label: "Living Area (sq ft)"},
		{Source: "lot_size", Label: "Lot (sq ft)"},
	},
	RoleAssetManager: {
		{Source: "estimated_value", Label: "Asset Value"},
		{Source: "predicted_price", Label: "Asset Value"},
		{Source: "confidence_score", Label: "Valuation Confidence"},
		{Source: "variance", Label: "Value Variance"},
		{Source: "year_built", Label: "Year Built"},
		{Source: "bedrooms", Label: "Beds"},
		{Source: "bathrooms", Label: "Baths"},
		{Source: "owner_name", Label: "Owner of Record"},
		{Source: "last_transfer_date", Label: "Last Transfer"},
		{Source: "pdf_report_link", Label: "Full Report"},
	},
}

// Apply renders the role view of a report. Fields the report lacks are
// simply absent; duplicate labels keep the first populated source.
func Apply(role Role, r *acumidata.Report) View {
	v := View{Role: role}
	seen := make(map[string]struct{})
	for _, p := range picks[role] {
		val, ok := r.Fields[p.Source]
		if !ok {
			continue
		}
		if _, dup := seen[p.Label]; dup {
			continue
		}
		seen[p.Label] = struct{}{}
		v.Fields = append(v.Fields, ViewField{Label: p.Label, Value: val})
	}
	return v
}
