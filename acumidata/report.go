package acumidata

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Mapping profile keys. Several endpoints share a response shape, so profiles
// are keyed separately from endpoint names.
const (
	ProfileQuantarium  = "quantarium"
	ProfileRelarFull   = "relar_full"
	ProfileRelarSimple = "relar_simple"
	ProfileRelarRanged = "relar_ranged"
	ProfileComps       = "comps"
	ProfileEquity      = "equity"
	ProfileMonitoring  = "monitoring"
	ProfileTitle       = "title"
	ProfileListings    = "listings"
	ProfileParcels     = "parcels"
)

// fieldMapping binds one JSON path in the vendor payload to a display field.
// Multiple mappings may share a Name; the first present path wins, which is
// how year-built fallbacks across payload sections are expressed.
type fieldMapping struct {
	Path     string
	Name     string
	Required bool
}

type profile struct {
	Fields    []fieldMapping
	CompsPath string        // path to the comparables array, if the shape has one
	Derive    func(*Report) // derived ratios over already-mapped fields
	Derived   []string      // names Derive may add, for stable column sets
}

// Report is the normalized, display-ready form of one vendor response. It is
// never persisted as-is; Raw is kept so the UI can offer the original JSON.
type Report struct {
	Endpoint    string          `json:"endpoint"`
	Title       string          `json:"title"`
	Category    Category        `json:"category"`
	Fields      map[string]any  `json:"fields"`
	Order       []string        `json:"order"`
	Comparables []Comparable    `json:"comparables,omitempty"`
	Stats       *CompStats      `json:"stats,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

// Comparable is one comparable-sale row as the comps products return it.
type Comparable struct {
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Zip       string  `json:"zip"`
	Price     float64 `json:"price"`
	Bedrooms  float64 `json:"bedrooms"`
	Bathrooms float64 `json:"bathrooms"`
	Sqft      float64 `json:"sqft"`
	YearBuilt string  `json:"year_built"`
	Distance  float64 `json:"distance"`
}

var profiles = map[string]profile{
	ProfileQuantarium: {
		Fields: []fieldMapping{
			{Path: "Details.PropertyValuation.EstimatedValue", Name: "estimated_value", Required: true},
			{Path: "Details.PropertyValuation.ConfidenceScore", Name: "confidence_score"},
			{Path: "Details.PropertyValuation.ValuationRangeLow", Name: "valuation_range_low"},
			{Path: "Details.PropertyValuation.ValuationRangeHigh", Name: "valuation_range_high"},
			{Path: "Details.PropertySummary.Bedrooms", Name: "bedrooms"},
			{Path: "Details.PropertySummary.FullBaths", Name: "bathrooms"},
			{Path: "Details.PropertyDetails.PropertyBasics.YearBuiltActual", Name: "year_built"},
			{Path: "Details.PropertySummary.YearBuilt", Name: "year_built"},
			{Path: "Details.PropertyValuation.YearBuilt", Name: "year_built"},
		},
		CompsPath: "Details.ComparablePropertyListings.Comparables",
	},
	ProfileRelarFull: {
		Fields: []fieldMapping{
			{Path: "analysis.houseWorth.valuations.current.value", Name: "estimated_value", Required: true},
			{Path: "analysis.houseWorth.valuations.current.confidence", Name: "confidence_score"},
			{Path: "analysis.houseWorth.valuations.current.variance", Name: "variance"},
			{Path: "searchData.beds", Name: "bedrooms"},
			{Path: "searchData.baths", Name: "bathrooms"},
			{Path: "searchData.yearBuilt", Name: "year_built"},
			{Path: "searchData.size", Name: "home_size"},
			{Path: "searchData.lotSize", Name: "lot_size"},
			{Path: "metadata.reportPDFLink", Name: "pdf_report_link"},
		},
	},
	ProfileRelarSimple: {
		Fields: []fieldMapping{
			{Path: "prediction.predictedPrice", Name: "predicted_price", Required: true},
			{Path: "prediction.confidence", Name: "confidence_score"},
			{Path: "prediction.priceLow", Name: "price_low"},
			{Path: "prediction.priceHigh", Name: "price_high"},
			{Path: "subjectParcel.structures.0.bedrooms", Name: "bedrooms"},
			{Path: "subjectParcel.structures.0.bathrooms", Name: "bathrooms"},
			{Path: "subjectParcel.structures.0.gla", Name: "home_size"},
			{Path: "metadata.reportPDFLink", Name: "pdf_report_link"},
		},
	},
	ProfileRelarRanged: {
		Fields: []fieldMapping{
			{Path: "prediction.priceLow", Name: "price_low", Required: true},
			{Path: "prediction.priceHigh", Name: "price_high"},
			{Path: "prediction.confidence", Name: "confidence_score"},
			{Path: "prediction.error", Name: "error_margin"},
			{Path: "subjectParcel.structures.0.bedrooms", Name: "bedrooms"},
			{Path: "subjectParcel.structures.0.bathrooms", Name: "bathrooms"},
			{Path: "subjectParcel.structures.0.gla", Name: "home_size"},
			{Path: "metadata.reportPDFLink", Name: "pdf_report_link"},
		},
		Derive:  deriveMidpoint,
		Derived: []string{"value_midpoint"},
	},
	ProfileComps: {
		Fields: []fieldMapping{
			{Path: "Details.ComparablePropertyListings", Name: "", Required: true},
			{Path: "Details.PropertyValuation.EstimatedValue", Name: "estimated_value"},
			{Path: "Details.PropertyValuation.ConfidenceScore", Name: "confidence_score"},
			{Path: "Details.PropertySummary.Bedrooms", Name: "bedrooms"},
			{Path: "Details.PropertySummary.FullBaths", Name: "bathrooms"},
			{Path: "Details.PropertySummary.YearBuilt", Name: "year_built"},
		},
		CompsPath: "Details.ComparablePropertyListings.Comparables",
	},
	ProfileEquity: {
		Fields: []fieldMapping{
			{Path: "Details.EquityCalculation.EstimatedValue", Name: "estimated_value"},
			{Path: "Details.EquityCalculation.LoanAmount", Name: "loan_amount"},
			{Path: "Details.EquityCalculation.EquityAmount", Name: "equity_amount"},
			{Path: "Details.EquityCalculation.LienCount", Name: "lien_count"},
		},
		Derive:  deriveEquityRatios,
		Derived: []string{"loan_to_value", "equity_percent"},
	},
	ProfileMonitoring: {
		Fields: []fieldMapping{
			{Path: "Details.Portfolio.PortfolioId", Name: "portfolio_id"},
			{Path: "Details.Portfolio.Status", Name: "status"},
			{Path: "message", Name: "message"},
		},
	},
	ProfileTitle: {
		Fields: []fieldMapping{
			{Path: "Details.TitleReport.OwnerName", Name: "owner_name"},
			{Path: "Details.TitleReport.VestingType", Name: "vesting_type"},
			{Path: "Details.TitleReport.LienCount", Name: "lien_count"},
			{Path: "Details.TitleReport.LastTransferDate", Name: "last_transfer_date"},
			{Path: "message", Name: "message"},
		},
	},
	ProfileListings: {
		Fields: []fieldMapping{
			{Path: "orderId", Name: "order_id"},
			{Path: "status", Name: "status"},
			{Path: "transactionId", Name: "transaction_id"},
			{Path: "message", Name: "message"},
		},
	},
	ProfileParcels: {
		Fields: []fieldMapping{
			{Path: "parcelId", Name: "parcel_id"},
			{Path: "apn", Name: "apn"},
			{Path: "fips", Name: "fips"},
			{Path: "message", Name: "message"},
		},
	},
}

// Parse normalizes a raw vendor payload into a Report using the descriptor's
// mapping profile. Missing optional paths yield absent fields; a missing
// required path yields a ParseError with the payload attached.
func Parse(d EndpointDescriptor, raw []byte) (*Report, error) {
	prof, ok := profiles[d.Profile]
	if !ok {
		return nil, &ParseError{Endpoint: d.Name, Missing: "mapping profile " + d.Profile, Raw: raw}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Endpoint: d.Name, Missing: "valid JSON document", Raw: raw}
	}

	r := &Report{
		Endpoint: d.Name,
		Title:    d.Title,
		Category: d.Category,
		Fields:   make(map[string]any),
		Raw:      raw,
	}

	for _, m := range prof.Fields {
		v, found := lookupPath(doc, m.Path)
		if !found || v == nil {
			if m.Required {
				return nil, &ParseError{Endpoint: d.Name, Missing: m.Path, Raw: raw}
			}
			continue
		}
		if m.Name == "" {
			continue // presence check only
		}
		if _, dup := r.Fields[m.Name]; dup {
			continue // earlier path already satisfied this field
		}
		r.Fields[m.Name] = v
		r.Order = append(r.Order, m.Name)
	}

	if prof.CompsPath != "" {
		if arr, found := lookupPath(doc, prof.CompsPath); found {
			r.Comparables = mapComparables(arr)
			if len(r.Comparables) > 0 {
				r.Stats = Statistics(r.Comparables)
			}
		}
	}
	if prof.Derive != nil {
		prof.Derive(r)
	}
	return r, nil
}

// DisplayColumns returns the profile's declared display names in mapping
// order, deduplicated. Batch output uses this as its column set so the CSV
// shape is stable even when every row errored.
func DisplayColumns(profileKey string) []string {
	prof, ok := profiles[profileKey]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, m := range prof.Fields {
		if m.Name == "" {
			continue
		}
		if _, dup := seen[m.Name]; dup {
			continue
		}
		seen[m.Name] = struct{}{}
		out = append(out, m.Name)
	}
	for _, name := range prof.Derived {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// lookupPath walks dot-separated segments through nested objects; numeric
// segments index arrays.
func lookupPath(doc any, path string) (any, bool) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func mapComparables(v any) []Comparable {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Comparable, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		c := Comparable{
			Address:   asString(m["Address"]),
			City:      asString(m["City"]),
			State:     asString(m["State"]),
			Zip:       asString(m["Zip"]),
			YearBuilt: asString(m["YearBuilt"]),
		}
		c.Price, _ = asFloat(m["Price"])
		c.Bedrooms, _ = asFloat(m["Bedrooms"])
		if baths, ok := asFloat(m["Bathrooms"]); ok {
			c.Bathrooms = baths
		} else {
			c.Bathrooms, _ = asFloat(m["Baths"])
		}
		if sqft, ok := asFloat(m["BuildingSqft"]); ok {
			c.Sqft = sqft
		} else {
			c.Sqft, _ = asFloat(m["SquareFeet"])
		}
		c.Distance, _ = asFloat(m["Distance"])
		out = append(out, c)
	}
	return out
}

// asFloat accepts the number/string ambivalence the vendor exhibits.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// AsNumber exposes the vendor's number/string ambivalence to callers that
// derive ratios outside this package.
func AsNumber(v any) (float64, bool) { return asFloat(v) }

// AddDerived appends a derived field without clobbering a mapped one.
func (r *Report) AddDerived(name string, v any) {
	if _, dup := r.Fields[name]; dup {
		return
	}
	r.Fields[name] = v
	r.Order = append(r.Order, name)
}

func deriveMidpoint(r *Report) {
	low, okLow := asFloat(r.Fields["price_low"])
	high, okHigh := asFloat(r.Fields["price_high"])
	if okLow && okHigh {
		r.AddDerived("value_midpoint", (low+high)/2)
	}
}

func deriveEquityRatios(r *Report) {
	value, okV := asFloat(r.Fields["estimated_value"])
	loan, okL := asFloat(r.Fields["loan_amount"])
	if okV && okL {
		r.AddDerived("loan_to_value", Ratio(loan, value))
	}
	if equity, okE := asFloat(r.Fields["equity_amount"]); okE && okV {
		r.AddDerived("equity_percent", Ratio(equity, value))
	}
}
