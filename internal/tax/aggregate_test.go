package tax_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khata/internal/domain"
	"khata/internal/tax"
)

func line(qty, rate, discount, taxRate string) tax.Line {
	return tax.Line{
		Quantity:    dec(qty),
		UnitRate:    dec(rate),
		DiscountPct: dec(discount),
		TaxRate:     dec(taxRate),
	}
}

func TestCalculator_Aggregate_MixedRates(t *testing.T) {
	calc := tax.NewCalculator(testRegions(), tax.MissingAsSameRegion)
	lines := []tax.Line{
		line("1", "90000", "0", "18"),
		line("1", "25000", "0", "18"),
		line("1", "0", "0", "0"),
	}

	totals, err := calc.Aggregate(lines, "MH", "MH", false)

	require.NoError(t, err)
	assert.Equal(t, domain.TaxTreatmentSameRegion, totals.Treatment)
	assertDecimal(t, "115000", totals.Subtotal)
	assertDecimal(t, "10350", totals.SameRegionTax1)
	assertDecimal(t, "10350", totals.SameRegionTax2)
	assertDecimal(t, "0", totals.CrossRegionTax)
	assertDecimal(t, "20700", totals.TotalTax)
	assertDecimal(t, "135700", totals.GrandTotal)
	assertDecimal(t, "135700", totals.RoundedTotal)
	assertDecimal(t, "0", totals.RoundingDelta)
	assert.Len(t, totals.Lines, 3)
}

func TestCalculator_Aggregate_DiscountAndRounding(t *testing.T) {
	calc := tax.NewCalculator(testRegions(), tax.MissingAsSameRegion)
	// 3 x 99.99 = 299.97, less 10% = 269.973, 12% cross-region = 32.39676
	lines := []tax.Line{line("3", "99.99", "10", "12")}

	totals, err := calc.Aggregate(lines, "KA", "MH", false)

	require.NoError(t, err)
	assertDecimal(t, "269.973", totals.Subtotal)
	assertDecimal(t, "32.39676", totals.CrossRegionTax)
	assertDecimal(t, "302.36976", totals.GrandTotal)
	assertDecimal(t, "302", totals.RoundedTotal)
	assertDecimal(t, "-0.36976", totals.RoundingDelta)
	assert.True(t, totals.GrandTotal.Add(totals.RoundingDelta).Equal(totals.RoundedTotal))
}

func TestCalculator_Aggregate_RoundsHalfToEven(t *testing.T) {
	calc := tax.NewCalculator(nil, tax.MissingAsSameRegion)

	even, err := calc.Aggregate([]tax.Line{line("1", "100.5", "0", "0")}, "", "", false)
	require.NoError(t, err)
	assertDecimal(t, "100", even.RoundedTotal)
	assertDecimal(t, "-0.5", even.RoundingDelta)

	odd, err := calc.Aggregate([]tax.Line{line("1", "101.5", "0", "0")}, "", "", false)
	require.NoError(t, err)
	assertDecimal(t, "102", odd.RoundedTotal)
	assertDecimal(t, "0.5", odd.RoundingDelta)
}

func TestCalculator_Aggregate_TaxIsSumOfLines(t *testing.T) {
	calc := tax.NewCalculator(nil, tax.MissingAsSameRegion)
	lines := []tax.Line{
		line("1", "0.33", "0", "18"),
		line("1", "0.33", "0", "18"),
		line("1", "0.33", "0", "18"),
	}

	totals, err := calc.Aggregate(lines, "a", "a", false)

	require.NoError(t, err)
	sum := dec("0")
	for _, l := range totals.Lines {
		sum = sum.Add(l.TotalTax)
	}
	assert.True(t, sum.Equal(totals.TotalTax))
}

func TestCalculator_Aggregate_Idempotent(t *testing.T) {
	calc := tax.NewCalculator(testRegions(), tax.MissingAsSameRegion)
	lines := []tax.Line{line("2.5", "1234.567", "7.5", "28"), line("1", "10", "0", "5")}

	first, err := calc.Aggregate(lines, "DL", "07", false)
	require.NoError(t, err)
	second, err := calc.Aggregate(lines, "DL", "07", false)
	require.NoError(t, err)

	assert.Equal(t, first.GrandTotal.String(), second.GrandTotal.String())
	assert.Equal(t, first.RoundingDelta.String(), second.RoundingDelta.String())
	assert.Equal(t, first.SameRegionTax1.String(), second.SameRegionTax1.String())
	assert.Equal(t, first.SameRegionTax2.String(), second.SameRegionTax2.String())
}

func TestCalculator_Aggregate_ReverseLiability(t *testing.T) {
	calc := tax.NewCalculator(testRegions(), tax.MissingAsSameRegion)

	totals, err := calc.Aggregate([]tax.Line{line("1", "1000", "0", "18")}, "MH", "KA", true)

	require.NoError(t, err)
	assert.True(t, totals.ReverseLiability)
	assertDecimal(t, "180", totals.CrossRegionTax)
	assertDecimal(t, "1000", totals.GrandTotal)
}

func TestCalculator_Aggregate_EmptyDocument(t *testing.T) {
	calc := tax.NewCalculator(nil, tax.MissingAsSameRegion)

	_, err := calc.Aggregate(nil, "MH", "MH", false)

	assert.True(t, errors.Is(err, domain.ErrEmptyDocument))
}

func TestCalculator_Aggregate_InvalidLine(t *testing.T) {
	calc := tax.NewCalculator(nil, tax.MissingAsSameRegion)

	_, err := calc.Aggregate([]tax.Line{
		line("1", "10", "0", "5"),
		line("1", "10", "120", "5"),
	}, "a", "a", false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRate))
	assert.Contains(t, err.Error(), "line 2")
}
