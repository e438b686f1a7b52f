package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := Normalize("531 n.e. Beck Road", " belfair ", "Washington", "98528-1234")
	assert.Equal(t, "531 N E BECK RD", n.Line1)
	assert.Equal(t, "BELFAIR", n.City)
	assert.Equal(t, "WA", n.State)
	assert.Equal(t, "98528", n.Zip)
	assert.Equal(t, "531 n e beck rd|belfair|wa|98528", n.Key)
}

func TestNormalizeStripsUnit(t *testing.T) {
	for _, in := range []string{
		"100 Main Street Apt 4B",
		"100 Main Street Unit 4B",
		"100 Main Street #4B",
		"100 Main Street Suite 4B",
	} {
		n := Normalize(in, "Belfair", "WA", "98528")
		assert.Equal(t, "100 MAIN ST", n.Line1, "input %q", in)
	}
}

func TestNormalizeKeyStableAcrossFormatting(t *testing.T) {
	a := Normalize("12  Oak   Street", "Belfair", "wa", "98528")
	b := Normalize("12 oak st.", " Belfair", "WA", "98528-0001")
	assert.Equal(t, a.Key, b.Key)
}

func TestNormalizeUnknownStateKept(t *testing.T) {
	n := Normalize("1 Main St", "Somewhere", "Atlantis", "00000")
	assert.Equal(t, "ATLANTIS", n.State)
}
