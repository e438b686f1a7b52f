package acumidata

import "strings"

// Query carries every input a vendor endpoint can take. Most endpoints only
// read the address fields; the rest are populated by the specialized forms
// (radius comps, polygon comps, listing feeds).
type Query struct {
	Address string
	City    string
	State   string
	Zip     string

	Radius       string // comps radius, miles
	Polygon      string // comps polygon, WKT-ish vendor format
	LandUse      string
	Date         string
	Birdseye     string
	Product      string // listings product, e.g. "advantage"
	ZipCodes     string // delta-zip, comma separated
	FIPSCode     string // delta-fips
	StateCode    string // listings feed
	StartDate    string
	EndDate      string
	Statuses     string
	RefID        string
	StartStamp   string
	EndStamp     string
	ExtractType  string
	PageSize     string
	TransactionID string
}

// field names used by ParamSpec bindings.
const (
	FieldAddress       = "address"
	FieldCity          = "city"
	FieldState         = "state"
	FieldZip           = "zip"
	FieldRadius        = "radius"
	FieldPolygon       = "polygon"
	FieldLandUse       = "land_use"
	FieldDate          = "date"
	FieldBirdseye      = "include_birdseye"
	FieldProduct       = "product"
	FieldZipCodes      = "zip_codes"
	FieldFIPSCode      = "fips_code"
	FieldStateCode     = "state_code"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldStatuses      = "statuses"
	FieldRefID         = "ref_id"
	FieldStartStamp    = "start_timestamp"
	FieldEndStamp      = "end_timestamp"
	FieldExtractType   = "extract_type"
	FieldPageSize      = "page_size"
	FieldTransactionID = "transaction_id"
)

func (q Query) value(field string) string {
	switch field {
	case FieldAddress:
		return strings.TrimSpace(q.Address)
	case FieldCity:
		return strings.TrimSpace(q.City)
	case FieldState:
		return strings.TrimSpace(q.State)
	case FieldZip:
		return strings.TrimSpace(q.Zip)
	case FieldRadius:
		return strings.TrimSpace(q.Radius)
	case FieldPolygon:
		return strings.TrimSpace(q.Polygon)
	case FieldLandUse:
		return strings.TrimSpace(q.LandUse)
	case FieldDate:
		return strings.TrimSpace(q.Date)
	case FieldBirdseye:
		return strings.TrimSpace(q.Birdseye)
	case FieldProduct:
		return strings.TrimSpace(q.Product)
	case FieldZipCodes:
		return strings.TrimSpace(q.ZipCodes)
	case FieldFIPSCode:
		return strings.TrimSpace(q.FIPSCode)
	case FieldStateCode:
		return strings.TrimSpace(q.StateCode)
	case FieldStartDate:
		return strings.TrimSpace(q.StartDate)
	case FieldEndDate:
		return strings.TrimSpace(q.EndDate)
	case FieldStatuses:
		return strings.TrimSpace(q.Statuses)
	case FieldRefID:
		return strings.TrimSpace(q.RefID)
	case FieldStartStamp:
		return strings.TrimSpace(q.StartStamp)
	case FieldEndStamp:
		return strings.TrimSpace(q.EndStamp)
	case FieldExtractType:
		return strings.TrimSpace(q.ExtractType)
	case FieldPageSize:
		return strings.TrimSpace(q.PageSize)
	case FieldTransactionID:
		return strings.TrimSpace(q.TransactionID)
	default:
		return ""
	}
}

// Validate checks the query against the descriptor's required params. It runs
// before any network call so bad input never burns vendor quota.
func (q Query) Validate(d EndpointDescriptor) error {
	for _, p := range d.Params {
		if p.Required && q.value(p.Field) == "" {
			return &ValidationError{Field: p.Field, Reason: "required by " + d.Name}
		}
	}
	return nil
}
