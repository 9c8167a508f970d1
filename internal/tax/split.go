package tax

import (
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"khata/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// SplitInput is the taxable amount of one line and the jurisdictions it moves between.
type SplitInput struct {
	TaxableAmount decimal.Decimal
	Rate          decimal.Decimal
	SurchargeRate decimal.Decimal
	Origin        string
	Destination   string
}

// Split is the tax charged on one taxable amount.
type Split struct {
	Treatment   domain.TaxTreatment `json:"treatment"`
	SameRegionA decimal.Decimal     `json:"same_region_tax_1"`
	SameRegionB decimal.Decimal     `json:"same_region_tax_2"`
	CrossRegion decimal.Decimal     `json:"cross_region_tax"`
	Surcharge   decimal.Decimal     `json:"surcharge"`
	TotalTax    decimal.Decimal     `json:"total_tax"`
}

// Calculator computes tax splits against a fixed jurisdiction table and missing-jurisdiction policy.
type Calculator struct {
	regions *Regions
	missing MissingPolicy
}

// NewCalculator creates a Calculator. A nil regions table compares identifiers case-insensitively only.
func NewCalculator(regions *Regions, missing MissingPolicy) *Calculator {
	if missing == "" {
		missing = MissingAsSameRegion
	}
	return &Calculator{regions: regions, missing: missing}
}

// Treatment decides whether tax between origin and destination is split same-region or cross-region.
func (c *Calculator) Treatment(origin, destination string) (domain.TaxTreatment, error) {
	o, d := c.regions.Normalize(origin), c.regions.Normalize(destination)
	if o == "" || d == "" {
		switch c.missing {
		case MissingReject:
			return "", errors.Wrapf(domain.ErrMissingJurisdiction, "origin %q, destination %q", origin, destination)
		case MissingAsCrossRegion:
			return domain.TaxTreatmentCrossRegion, nil
		default:
			return domain.TaxTreatmentSameRegion, nil
		}
	}
	if c.regions.Same(origin, destination) {
		return domain.TaxTreatmentSameRegion, nil
	}
	return domain.TaxTreatmentCrossRegion, nil
}

// Split computes the tax on in.TaxableAmount at in.Rate.
func (c *Calculator) Split(in SplitInput) (Split, error) {
	treatment, err := c.Treatment(in.Origin, in.Destination)
	if err != nil {
		return Split{}, err
	}
	return split(treatment, in.TaxableAmount, in.Rate, in.SurchargeRate)
}

func split(treatment domain.TaxTreatment, taxable, rate, surchargeRate decimal.Decimal) (Split, error) {
	if taxable.IsNegative() {
		return Split{}, errors.Wrapf(domain.ErrInvalidAmount, "taxable amount %s is negative", taxable)
	}
	if err := checkPercent(rate, "tax rate"); err != nil {
		return Split{}, err
	}
	if err := checkPercent(surchargeRate, "surcharge rate"); err != nil {
		return Split{}, err
	}

	tax := taxable.Mul(rate).Div(hundred)
	out := Split{
		Treatment: treatment,
		Surcharge: taxable.Mul(surchargeRate).Div(hundred),
	}
	if treatment == domain.TaxTreatmentSameRegion {
		out.SameRegionA = tax.Div(two)
		// Derive the second half by subtraction so A+B is exactly the full tax.
		out.SameRegionB = tax.Sub(out.SameRegionA)
	} else {
		out.CrossRegion = tax
	}
	out.TotalTax = out.SameRegionA.Add(out.SameRegionB).Add(out.CrossRegion).Add(out.Surcharge)
	return out, nil
}

func checkPercent(v decimal.Decimal, what string) error {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return errors.Wrapf(domain.ErrInvalidRate, "%s %s is outside 0-100", what, v)
	}
	return nil
}
