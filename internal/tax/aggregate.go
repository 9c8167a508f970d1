package tax

import (
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"khata/internal/domain"
)

// Line is one priced document line before tax.
type Line struct {
	Quantity      decimal.Decimal
	UnitRate      decimal.Decimal
	DiscountPct   decimal.Decimal
	TaxRate       decimal.Decimal
	SurchargeRate decimal.Decimal
}

// LineTotals is the computed amounts of one line.
type LineTotals struct {
	LineAmount decimal.Decimal `json:"line_amount"`
	Discount   decimal.Decimal `json:"discount"`
	Taxable    decimal.Decimal `json:"taxable_amount"`
	Split
	LineTotal decimal.Decimal `json:"line_total"`
}

// Totals is the folded result of all lines of a document.
type Totals struct {
	Treatment        domain.TaxTreatment `json:"treatment"`
	ReverseLiability bool                `json:"reverse_liability"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	SameRegionTax1   decimal.Decimal     `json:"same_region_tax_1"`
	SameRegionTax2   decimal.Decimal     `json:"same_region_tax_2"`
	CrossRegionTax   decimal.Decimal     `json:"cross_region_tax"`
	Surcharge        decimal.Decimal     `json:"surcharge"`
	TotalTax         decimal.Decimal     `json:"total_tax"`
	// GrandTotal is the unrounded total; RoundedTotal is what the counterparty owes.
	GrandTotal    decimal.Decimal `json:"grand_total"`
	RoundedTotal  decimal.Decimal `json:"rounded_total"`
	RoundingDelta decimal.Decimal `json:"rounding_delta"`
	Lines         []LineTotals    `json:"lines"`
}

// Aggregate folds lines through the calculator. Tax totals are the sums of per-line
// tax and the grand total is rounded exactly once, half to even, to a whole unit.
// Under reverse liability the tax is reported but not added to the grand total.
func (c *Calculator) Aggregate(lines []Line, origin, destination string, reverseLiability bool) (*Totals, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	treatment, err := c.Treatment(origin, destination)
	if err != nil {
		return nil, err
	}

	t := &Totals{
		Treatment:        treatment,
		ReverseLiability: reverseLiability,
		Lines:            make([]LineTotals, 0, len(lines)),
	}
	for i := range lines {
		lt, err := computeLine(treatment, &lines[i])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
		t.Subtotal = t.Subtotal.Add(lt.Taxable)
		t.SameRegionTax1 = t.SameRegionTax1.Add(lt.SameRegionA)
		t.SameRegionTax2 = t.SameRegionTax2.Add(lt.SameRegionB)
		t.CrossRegionTax = t.CrossRegionTax.Add(lt.CrossRegion)
		t.Surcharge = t.Surcharge.Add(lt.Surcharge)
		t.TotalTax = t.TotalTax.Add(lt.TotalTax)
		t.Lines = append(t.Lines, lt)
	}

	t.GrandTotal = t.Subtotal
	if !reverseLiability {
		t.GrandTotal = t.GrandTotal.Add(t.TotalTax)
	}
	t.RoundedTotal = t.GrandTotal.RoundBank(0)
	t.RoundingDelta = t.RoundedTotal.Sub(t.GrandTotal)
	return t, nil
}

func computeLine(treatment domain.TaxTreatment, l *Line) (LineTotals, error) {
	if l.Quantity.IsNegative() {
		return LineTotals{}, errors.Wrapf(domain.ErrInvalidAmount, "quantity %s is negative", l.Quantity)
	}
	if l.UnitRate.IsNegative() {
		return LineTotals{}, errors.Wrapf(domain.ErrInvalidAmount, "unit rate %s is negative", l.UnitRate)
	}
	if err := checkPercent(l.DiscountPct, "discount"); err != nil {
		return LineTotals{}, err
	}

	amount := l.Quantity.Mul(l.UnitRate)
	discount := amount.Mul(l.DiscountPct).Div(hundred)
	taxable := amount.Sub(discount)

	s, err := split(treatment, taxable, l.TaxRate, l.SurchargeRate)
	if err != nil {
		return LineTotals{}, err
	}
	return LineTotals{
		LineAmount: amount,
		Discount:   discount,
		Taxable:    taxable,
		Split:      s,
		LineTotal:  taxable.Add(s.TotalTax),
	}, nil
}
