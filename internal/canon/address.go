package canon

import (
	"regexp"
	"strings"
)

var rePunct = regexp.MustCompile(`[^A-Za-z0-9\s]`)

// Normalized is a canonical address plus its stable property key. The key
// identifies one parcel across lookups and is used for cache and snapshot
// identity; unit/suite designators are intentionally dropped.
type Normalized struct {
	Line1 string
	City  string
	State string
	Zip   string
	Key   string
}

var suffixes = map[string]string{
	" STREET":    " ST",
	" ROAD":      " RD",
	" AVENUE":    " AVE",
	" BOULEVARD": " BLVD",
	" DRIVE":     " DR",
	" LANE":      " LN",
	" COURT":     " CT",
	" CIRCLE":    " CIR",
	" TERRACE":   " TER",
	" PLACE":     " PL",
	" PARKWAY":   " PKWY",
	" HIGHWAY":   " HWY",
}

var unitMarkers = []string{" APT ", " UNIT ", " STE ", " SUITE ", " #"}

// Normalize canonicalizes an address into USPS-style upper-case form and
// computes its property key.
func Normalize(line1, city, state, zip string) Normalized {
	n1 := strings.ToUpper(strings.TrimSpace(line1))
	n1 = stripUnit(n1)
	n1 = rePunct.ReplaceAllString(n1, " ")
	for long, short := range suffixes {
		n1 = strings.ReplaceAll(n1, long, short)
	}
	n1 = collapse(n1)

	c := collapse(rePunct.ReplaceAllString(strings.ToUpper(strings.TrimSpace(city)), " "))
	st := strings.ToUpper(strings.TrimSpace(state))
	if len(st) > 2 {
		if abbr, ok := stateAbbrevs[st]; ok {
			st = abbr
		}
	}
	z := strings.TrimSpace(zip)
	if len(z) > 5 {
		z = z[:5]
	}

	return Normalized{
		Line1: n1,
		City:  c,
		State: st,
		Zip:   z,
		Key:   strings.ToLower(n1 + "|" + c + "|" + st + "|" + z),
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripUnit(s string) string {
	padded := " " + s + " "
	for _, marker := range unitMarkers {
		if i := strings.Index(padded, marker); i >= 0 {
			return strings.TrimSpace(padded[:i])
		}
	}
	return strings.TrimSpace(s)
}

var stateAbbrevs = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR",
	"CALIFORNIA": "CA", "COLORADO": "CO", "CONNECTICUT": "CT", "DELAWARE": "DE",
	"FLORIDA": "FL", "GEORGIA": "GA", "HAWAII": "HI", "IDAHO": "ID",
	"ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA", "KANSAS": "KS",
	"KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME", "MARYLAND": "MD",
	"MASSACHUSETTS": "MA", "MICHIGAN": "MI", "MINNESOTA": "MN", "MISSISSIPPI": "MS",
	"MISSOURI": "MO", "MONTANA": "MT", "NEBRASKA": "NE", "NEVADA": "NV",
	"NEW HAMPSHIRE": "NH", "NEW JERSEY": "NJ", "NEW MEXICO": "NM", "NEW YORK": "NY",
	"NORTH CAROLINA": "NC", "NORTH DAKOTA": "ND", "OHIO": "OH", "OKLAHOMA": "OK",
	"OREGON": "OR", "PENNSYLVANIA": "PA", "RHODE ISLAND": "RI", "SOUTH CAROLINA": "SC",
	"SOUTH DAKOTA": "SD", "TENNESSEE": "TN", "TEXAS": "TX", "UTAH": "UT",
	"VERMONT": "VT", "VIRGINIA": "VA", "WASHINGTON": "WA", "WEST VIRGINIA": "WV",
	"WISCONSIN": "WI", "WYOMING": "WY",
}
