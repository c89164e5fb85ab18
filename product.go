package omiswath

import (
	"fmt"
	"strings"
)

// Product identifies which OMI level-2 product a granule holds.
type Product int

const (
	NO2 Product = iota + 1
	SO2
)

// ProductInfo is the fixed field-name table for a product.
type ProductInfo struct {
	Swath   string   // HDF-EOS5 swath name
	SDS     string   // primary science dataset
	Export  []string // datasets written by the ASCII/xlsx exporters
	Summary string   // banner shown when a granule is opened
}

var products = map[Product]ProductInfo{
	NO2: {
		Swath:   "ColumnAmountNO2",
		SDS:     "ColumnAmountNO2",
		Export:  []string{"ColumnAmountNO2", "ColumnAmountNO2Std", "VcdQualityFlags"},
		Summary: "This is an OMI NO2 file.",
	},
	SO2: {
		Swath:   "OMI Total Column Amount SO2",
		SDS:     "ColumnAmountSO2_PBL",
		Export:  []string{"ColumnAmountSO2_PBL", "ColumnAmountO3", "QualityFlags_PBL"},
		Summary: "This is an OMI SO2 file.",
	},
}

// Info returns the field table for p.
func (p Product) Info() ProductInfo { return products[p] }

func (p Product) String() string {
	switch p {
	case NO2:
		return "NO2"
	case SO2:
		return "SO2"
	}
	return fmt.Sprintf("Product(%d)", int(p))
}

// ProductFromName picks the product from a granule file name or product
// label. "NO2" takes precedence over "SO2" when both appear.
func ProductFromName(name string) (Product, error) {
	switch {
	case strings.Contains(name, "NO2"):
		return NO2, nil
	case strings.Contains(name, "SO2"):
		return SO2, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownProduct)
}

// DataFieldPath returns the HDF-EOS5 path of a data field of p.
func (p Product) DataFieldPath(sds string) string {
	return "/HDFEOS/SWATHS/" + p.Info().Swath + "/Data Fields/" + sds
}

// GeolocationGroup returns the HDF-EOS5 group holding p's geolocation fields.
func (p Product) GeolocationGroup() string {
	return "/HDFEOS/SWATHS/" + p.Info().Swath + "/Geolocation Fields"
}
