package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateClassification(t *testing.T) {
	cases := []struct {
		name            string
		businessType    VehicleBusinessType
		vendorName      string
		commissionType  CommissionType
		commissionValue decimal.Decimal
		wantErr         error
	}{
		{
			name:         "owner needs no vendor or commission",
			businessType: VehicleBusinessTypeOwner,
		},
		{
			name:            "dealer network without vendor",
			businessType:    VehicleBusinessTypeDealerNetwork,
			commissionType:  CommissionTypePercentage,
			commissionValue: decimal.NewFromInt(10),
			wantErr:         ErrIncompleteClassification,
		},
		{
			name:            "consigned with whitespace vendor",
			businessType:    VehicleBusinessTypeConsigned,
			vendorName:      "   ",
			commissionType:  CommissionTypeFixed,
			commissionValue: decimal.NewFromInt(500),
			wantErr:         ErrIncompleteClassification,
		},
		{
			name:            "consigned without commission type",
			businessType:    VehicleBusinessTypeConsigned,
			vendorName:      "Ayeyarwady Motors",
			commissionValue: decimal.NewFromInt(500),
			wantErr:         ErrIncompleteClassification,
		},
		{
			name:           "dealer network with zero commission value",
			businessType:   VehicleBusinessTypeDealerNetwork,
			vendorName:     "Golden Valley Autos",
			commissionType: CommissionTypePercentage,
			wantErr:        ErrIncompleteClassification,
		},
		{
			name:            "dealer network fully classified",
			businessType:    VehicleBusinessTypeDealerNetwork,
			vendorName:      "Golden Valley Autos",
			commissionType:  CommissionTypePercentage,
			commissionValue: decimal.NewFromInt(10),
		},
		{
			name:            "consigned fully classified",
			businessType:    VehicleBusinessTypeConsigned,
			vendorName:      "Ayeyarwady Motors",
			commissionType:  CommissionTypeFixed,
			commissionValue: decimal.NewFromInt(500),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateClassification(tc.businessType, tc.vendorName, tc.commissionType, tc.commissionValue)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
