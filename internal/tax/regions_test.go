package tax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khata/internal/tax"
)

func TestRegions_Normalize(t *testing.T) {
	r := testRegions()

	tests := []struct {
		in   string
		want string
	}{
		{"27", "27"},
		{"MH", "27"},
		{"  maharashtra ", "27"},
		{"MAHARASHTRA", "27"},
		{"27AAPFU0939F1ZV", "27"},
		{"7", "07"},
		{"delhi", "07"},
		{"Unknown Land", "unknown land"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Normalize(tt.in))
		})
	}
}

func TestRegions_Same(t *testing.T) {
	r := testRegions()

	assert.True(t, r.Same("KA", "29"))
	assert.True(t, r.Same("29ABCDE1234F1Z5", "karnataka"))
	assert.False(t, r.Same("KA", "MH"))
	assert.False(t, r.Same("", ""))
}

func TestRegions_NilTableComparesCaseInsensitively(t *testing.T) {
	var r *tax.Regions

	assert.True(t, r.Same("Goa", "GOA"))
	assert.Equal(t, 0, r.Len())
}

func TestParseMissingPolicy(t *testing.T) {
	p, err := tax.ParseMissingPolicy("")
	require.NoError(t, err)
	assert.Equal(t, tax.MissingAsSameRegion, p)

	p, err = tax.ParseMissingPolicy(" Reject ")
	require.NoError(t, err)
	assert.Equal(t, tax.MissingReject, p)

	_, err = tax.ParseMissingPolicy("guess")
	assert.Error(t, err)
}
