package acumidata

import "math"

// Undefined is the sentinel for a derived ratio whose denominator is zero.
// It is a string on purpose: the value renders as-is and can never be
// mistaken for a real number downstream.
const Undefined = "undefined"

// Ratio divides num by den, guarding division by zero. Results are rounded
// to four decimal places; these are display ratios, not financial math.
func Ratio(num, den float64) any {
	if den == 0 {
		return Undefined
	}
	return math.Round(num/den*10000) / 10000
}

// CompStats summarizes a set of comparable sales.
type CompStats struct {
	TotalComps  int     `json:"total_comps"`
	AvgPrice    float64 `json:"avg_price"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	AvgDistance float64 `json:"avg_distance"`
}

// Statistics computes CompStats over comparables, skipping zero prices and
// distances the way the source records can omit them.
func Statistics(comps []Comparable) *CompStats {
	if len(comps) == 0 {
		return nil
	}
	s := &CompStats{TotalComps: len(comps)}
	var priceSum, distSum float64
	var priceN, distN int
	for _, c := range comps {
		if c.Price > 0 {
			priceSum += c.Price
			priceN++
			if s.MinPrice == 0 || c.Price < s.MinPrice {
				s.MinPrice = c.Price
			}
			if c.Price > s.MaxPrice {
				s.MaxPrice = c.Price
			}
		}
		if c.Distance > 0 {
			distSum += c.Distance
			distN++
		}
	}
	if priceN > 0 {
		s.AvgPrice = math.Round(priceSum/float64(priceN)*100) / 100
	}
	if distN > 0 {
		s.AvgDistance = math.Round(distSum/float64(distN)*100) / 100
	}
	return s
}
