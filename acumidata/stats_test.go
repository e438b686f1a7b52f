package acumidata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.75, Ratio(300, 400))
	assert.Equal(t, 0.3333, Ratio(1, 3)) // rounded to four places
	assert.Equal(t, Undefined, Ratio(100, 0))
}

func TestStatisticsSkipsZeroValues(t *testing.T) {
	stats := Statistics([]Comparable{
		{Price: 200000, Distance: 1.0},
		{Price: 300000, Distance: 0}, // distance unreported
		{Price: 0, Distance: 2.0},    // price unreported
	})
	assert.Equal(t, 3, stats.TotalComps)
	assert.Equal(t, float64(250000), stats.AvgPrice)
	assert.Equal(t, float64(200000), stats.MinPrice)
	assert.Equal(t, float64(300000), stats.MaxPrice)
	assert.Equal(t, 1.5, stats.AvgDistance)
}

func TestStatisticsEmpty(t *testing.T) {
	assert.Nil(t, Statistics(nil))
}
