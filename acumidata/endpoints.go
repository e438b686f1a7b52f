package acumidata

import (
	"fmt"
	"net/http"
	"strings"
)

// Category groups vendor endpoints by product family.
type Category string

const (
	CategoryValuation   Category = "valuation"
	CategoryComparables Category = "comparables"
	CategoryEquity      Category = "equity"
	CategoryMonitoring  Category = "monitoring"
	CategoryTitle       Category = "title"
	CategoryListings    Category = "listings"
	CategoryParcels     Category = "parcels"
)

// ParamSpec binds one Query field to its vendor wire name. Acumidata is not
// consistent about casing across products, so the wire name is data, not a
// convention.
type ParamSpec struct {
	Field    string
	Wire     string
	Required bool
}

// EndpointDescriptor is static metadata for one vendor operation. The catalog
// is defined once at startup and never mutated; adding an endpoint is a data
// change here plus a mapping profile, not new client code.
type EndpointDescriptor struct {
	Name        string
	Title       string
	Category    Category
	Method      string
	Path        string // may contain {product}
	Profile     string // mapping profile key, see report.go
	Params      []ParamSpec
	Description string
}

var addressParams = []ParamSpec{
	{Field: FieldAddress, Wire: "streetAddress", Required: true},
	{Field: FieldCity, Wire: "city", Required: true},
	{Field: FieldState, Wire: "state", Required: true},
	{Field: FieldZip, Wire: "zip", Required: true},
}

// Valuation products only key off street + zip.
var valuationParams = []ParamSpec{
	{Field: FieldAddress, Wire: "streetAddress", Required: true},
	{Field: FieldZip, Wire: "zip", Required: true},
}

// Catalog returns the full endpoint table. Callers treat the result as
// read-only; LookupEndpoint is the usual entry point.
func Catalog() []EndpointDescriptor {
	return catalog
}

var catalog = []EndpointDescriptor{
	{
		Name: "valuation_estimate", Title: "Property Valuation (Full Report)",
		Category: CategoryValuation, Method: http.MethodGet,
		Path: "api/Valuation/estimate", Profile: ProfileQuantarium,
		Params:      valuationParams,
		Description: "Comprehensive property valuation with Quantarium Full Report",
	},
	{
		Name: "valuation_advantage", Title: "RELAR Full Report",
		Category: CategoryValuation, Method: http.MethodGet,
		Path: "api/Valuation/advantage", Profile: ProfileRelarFull,
		Params:      valuationParams,
		Description: "RELAR Full Report with comprehensive property analysis",
	},
	{
		Name: "valuation_simple", Title: "RELAR Simple Report",
		Category: CategoryValuation, Method: http.MethodGet,
		Path: "api/Valuation/simple", Profile: ProfileRelarSimple,
		Params:      valuationParams,
		Description: "RELAR Simple Valuation Report",
	},
	{
		Name: "valuation_ranged", Title: "RELAR Ranged Report",
		Category: CategoryValuation, Method: http.MethodGet,
		Path: "api/Valuation/ranged", Profile: ProfileRelarRanged,
		Params:      valuationParams,
		Description: "RELAR Ranged Valuation Report",
	},
	{
		Name: "valuation_collateral", Title: "Quantarium Collateral",
		Category: CategoryValuation, Method: http.MethodGet,
		Path: "api/Valuation/collateral", Profile: ProfileQuantarium,
		Params:      valuationParams,
		Description: "Quantarium Collateral Report for lending purposes",
	},
	{
		Name: "valuation_qvmsimple", Title: "QVM Simple Valuation",
		Category: CategoryValuation, Method: http.MethodGet,
		Path: "api/Valuation/qvmsimple", Profile: ProfileQuantarium,
		Params:      valuationParams,
		Description: "Quantarium QVM simple valuation data",
	},
	{
		Name: "comps_advantage", Title: "Property Comps (Advantage)",
		Category: CategoryComparables, Method: http.MethodGet,
		Path: "api/Comps/advantage", Profile: ProfileComps,
		Params:      addressParams,
		Description: "Rich property and comparable data",
	},
	{
		Name: "comps_radius", Title: "Property Comps (Radius)",
		Category: CategoryComparables, Method: http.MethodGet,
		Path: "api/Comps/advantageradius", Profile: ProfileComps,
		Params: []ParamSpec{
			{Field: FieldAddress, Wire: "StreetAddress", Required: true},
			{Field: FieldCity, Wire: "City", Required: true},
			{Field: FieldState, Wire: "State", Required: true},
			{Field: FieldZip, Wire: "Zip", Required: true},
			{Field: FieldRadius, Wire: "Radius", Required: true},
		},
		Description: "Comparable properties within a radius (miles)",
	},
	{
		Name: "comps_polygon", Title: "Property Comps (Polygon)",
		Category: CategoryComparables, Method: http.MethodGet,
		Path: "api/Comps/advantagepolygon", Profile: ProfileComps,
		Params: []ParamSpec{
			{Field: FieldAddress, Wire: "StreetAddress", Required: true},
			{Field: FieldCity, Wire: "City", Required: true},
			{Field: FieldState, Wire: "State", Required: true},
			{Field: FieldZip, Wire: "Zip", Required: true},
			{Field: FieldPolygon, Wire: "Polygon", Required: true},
			{Field: FieldLandUse, Wire: "LandUse"},
			{Field: FieldDate, Wire: "Date"},
			{Field: FieldBirdseye, Wire: "IncludeBirdseye"},
		},
		Description: "Comparable properties within a custom polygon",
	},
	{
		Name: "equity_advantage", Title: "Equity Calculator",
		Category: CategoryEquity, Method: http.MethodGet,
		Path: "api/Equity/advantage", Profile: ProfileEquity,
		Params:      addressParams,
		Description: "Equity calculator report for a property",
	},
	{
		Name: "monitors_advantage", Title: "Property Monitoring",
		Category: CategoryMonitoring, Method: http.MethodGet,
		Path: "api/Monitors/advantage", Profile: ProfileMonitoring,
		Params:      addressParams,
		Description: "Create a monitoring portfolio for a property",
	},
	{
		Name: "title_advantage", Title: "Title Report",
		Category: CategoryTitle, Method: http.MethodGet,
		Path: "api/Title/advantage", Profile: ProfileTitle,
		Params:      addressParams,
		Description: "Comprehensive title report for a property",
	},
	{
		Name: "parcels_detail", Title: "Simple Parcel Details",
		Category: CategoryParcels, Method: http.MethodPost,
		Path: "api/Parcels/detail", Profile: ProfileParcels,
		Params:      addressParams,
		Description: "Simple parcel details (POST)",
	},
	{
		Name: "listings_property", Title: "Listings by Property",
		Category: CategoryListings, Method: http.MethodGet,
		Path: "api/Listings/{product}", Profile: ProfileListings,
		Params: append([]ParamSpec{
			{Field: FieldProduct, Wire: "{product}", Required: true},
		}, addressParams...),
		Description: "Create a listing order for a property",
	},
	{
		Name: "listings_delta_zip", Title: "Listings Delta (Zip)",
		Category: CategoryListings, Method: http.MethodGet,
		Path: "api/Listings/delta-zip", Profile: ProfileListings,
		Params: []ParamSpec{
			{Field: FieldZipCodes, Wire: "zipCodes", Required: true},
			{Field: FieldStartDate, Wire: "startDate"},
			{Field: FieldEndDate, Wire: "endDate"},
			{Field: FieldStatuses, Wire: "statuses"},
			{Field: FieldRefID, Wire: "refId"},
		},
		Description: "Listings delta report by zip code",
	},
	{
		Name: "listings_delta_fips", Title: "Listings Delta (FIPS)",
		Category: CategoryListings, Method: http.MethodGet,
		Path: "api/Listings/delta-fips", Profile: ProfileListings,
		Params: []ParamSpec{
			{Field: FieldFIPSCode, Wire: "fipsCode", Required: true},
			{Field: FieldStartDate, Wire: "startDate"},
			{Field: FieldEndDate, Wire: "endDate"},
			{Field: FieldStatuses, Wire: "statuses"},
			{Field: FieldRefID, Wire: "refId"},
		},
		Description: "Listings delta report by FIPS code",
	},
	{
		Name: "listings_feed", Title: "MLS Data Feed",
		Category: CategoryListings, Method: http.MethodGet,
		Path: "api/Listings/feed", Profile: ProfileListings,
		Params: []ParamSpec{
			{Field: FieldStateCode, Wire: "state", Required: true},
			{Field: FieldStartStamp, Wire: "startTimeStamp"},
			{Field: FieldEndStamp, Wire: "endTimeStamp"},
			{Field: FieldExtractType, Wire: "extractType"},
			{Field: FieldPageSize, Wire: "pagesize"},
			{Field: FieldTransactionID, Wire: "transactionId"},
		},
		Description: "MLS data feed by state with optional pagination",
	},
}

// LookupEndpoint finds a descriptor by name.
func LookupEndpoint(name string) (EndpointDescriptor, bool) {
	for _, d := range catalog {
		if d.Name == name {
			return d, true
		}
	}
	return EndpointDescriptor{}, false
}

// ValidateCatalog checks the endpoint table for internal consistency. Run at
// startup so a bad data edit fails the boot, not a user request.
func ValidateCatalog() error {
	seen := make(map[string]struct{}, len(catalog))
	for _, d := range catalog {
		if d.Name == "" || d.Path == "" {
			return fmt.Errorf("catalog: endpoint with empty name or path: %+v", d)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("catalog: duplicate endpoint %q", d.Name)
		}
		seen[d.Name] = struct{}{}
		if d.Method != http.MethodGet && d.Method != http.MethodPost {
			return fmt.Errorf("catalog: endpoint %q: unsupported method %q", d.Name, d.Method)
		}
		if _, ok := profiles[d.Profile]; !ok {
			return fmt.Errorf("catalog: endpoint %q: unknown profile %q", d.Name, d.Profile)
		}
		wires := make(map[string]struct{}, len(d.Params))
		for _, p := range d.Params {
			if p.Wire == "" {
				return fmt.Errorf("catalog: endpoint %q: param %q has no wire name", d.Name, p.Field)
			}
			if _, dup := wires[p.Wire]; dup {
				return fmt.Errorf("catalog: endpoint %q: duplicate wire name %q", d.Name, p.Wire)
			}
			wires[p.Wire] = struct{}{}
			if strings.HasPrefix(p.Wire, "{") && !strings.Contains(d.Path, p.Wire) {
				return fmt.Errorf("catalog: endpoint %q: path param %q not in path", d.Name, p.Wire)
			}
		}
	}
	return nil
}
