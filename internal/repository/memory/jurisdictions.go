package memory

import (
	"context"

	"khata/internal/domain"
)

type jurisdictionRepo struct {
	s *Store
}

func (r *jurisdictionRepo) LoadAll(_ context.Context) ([]domain.Jurisdiction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.Jurisdiction(nil), r.s.jurisdictions...), nil
}

// IndianStates is the GST state code directory used to seed the in-memory driver.
var IndianStates = []domain.Jurisdiction{
	{Code: "01", Name: "Jammu and Kashmir", ShortCode: "JK"},
	{Code: "02", Name: "Himachal Pradesh", ShortCode: "HP"},
	{Code: "03", Name: "Punjab", ShortCode: "PB"},
	{Code: "04", Name: "Chandigarh", ShortCode: "CH"},
	{Code: "05", Name: "Uttarakhand", ShortCode: "UK"},
	{Code: "06", Name: "Haryana", ShortCode: "HR"},
	{Code: "07", Name: "Delhi", ShortCode: "DL"},
	{Code: "08", Name: "Rajasthan", ShortCode: "RJ"},
	{Code: "09", Name: "Uttar Pradesh", ShortCode: "UP"},
	{Code: "10", Name: "Bihar", ShortCode: "BR"},
	{Code: "11", Name: "Sikkim", ShortCode: "SK"},
	{Code: "12", Name: "Arunachal Pradesh", ShortCode: "AR"},
	{Code: "13", Name: "Nagaland", ShortCode: "NL"},
	{Code: "14", Name: "Manipur", ShortCode: "MN"},
	{Code: "15", Name: "Mizoram", ShortCode: "MZ"},
	{Code: "16", Name: "Tripura", ShortCode: "TR"},
	{Code: "17", Name: "Meghalaya", ShortCode: "ML"},
	{Code: "18", Name: "Assam", ShortCode: "AS"},
	{Code: "19", Name: "West Bengal", ShortCode: "WB"},
	{Code: "20", Name: "Jharkhand", ShortCode: "JH"},
	{Code: "21", Name: "Odisha", ShortCode: "OD"},
	{Code: "22", Name: "Chhattisgarh", ShortCode: "CG"},
	{Code: "23", Name: "Madhya Pradesh", ShortCode: "MP"},
	{Code: "24", Name: "Gujarat", ShortCode: "GJ"},
	{Code: "26", Name: "Dadra and Nagar Haveli and Daman and Diu", ShortCode: "DN"},
	{Code: "27", Name: "Maharashtra", ShortCode: "MH"},
	{Code: "29", Name: "Karnataka", ShortCode: "KA"},
	{Code: "30", Name: "Goa", ShortCode: "GA"},
	{Code: "31", Name: "Lakshadweep", ShortCode: "LD"},
	{Code: "32", Name: "Kerala", ShortCode: "KL"},
	{Code: "33", Name: "Tamil Nadu", ShortCode: "TN"},
	{Code: "34", Name: "Puducherry", ShortCode: "PY"},
	{Code: "35", Name: "Andaman and Nicobar Islands", ShortCode: "AN"},
	{Code: "36", Name: "Telangana", ShortCode: "TS"},
	{Code: "37", Name: "Andhra Pradesh", ShortCode: "AP"},
	{Code: "38", Name: "Ladakh", ShortCode: "LA"},
	{Code: "97", Name: "Other Territory", ShortCode: "OT"},
}
