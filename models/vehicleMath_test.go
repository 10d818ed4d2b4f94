package models_test

import (
	"testing"

	"github.com/mattobell/dealer_backend/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCommissionAndNetPayable(t *testing.T) {
	cases := []struct {
		name           string
		businessType   models.VehicleBusinessType
		purchasePrice  string
		commissionType models.CommissionType
		value          string
		wantCommission string
		wantNetPayable string
	}{
		{"consigned percentage", models.VehicleBusinessTypeConsigned, "10000", models.CommissionTypePercentage, "5", "500", "9500"},
		{"dealer network fixed", models.VehicleBusinessTypeDealerNetwork, "10000", models.CommissionTypeFixed, "750", "750", "9250"},
		{"owner never pays commission", models.VehicleBusinessTypeOwner, "10000", models.CommissionTypePercentage, "5", "0", "10000"},
		{"zero cost yields zero commission", models.VehicleBusinessTypeConsigned, "0", models.CommissionTypePercentage, "5", "0", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			commission := models.CalculateCommissionAmount(tc.businessType, dec(tc.purchasePrice), tc.commissionType, dec(tc.value))
			if !commission.Equal(dec(tc.wantCommission)) {
				t.Fatalf("commission = %s, want %s", commission, tc.wantCommission)
			}
			net := models.CalculateNetPayable(tc.businessType, dec(tc.purchasePrice), commission)
			if !net.Equal(dec(tc.wantNetPayable)) {
				t.Fatalf("net payable = %s, want %s", net, tc.wantNetPayable)
			}
		})
	}
}

func TestCalculateProfit(t *testing.T) {
	profit, pct := models.CalculateProfit(dec("12000"), dec("9500"), dec("10000"))
	if !profit.Equal(dec("2500")) {
		t.Errorf("profit = %s, want 2500", profit)
	}
	if !pct.Equal(dec("25")) {
		t.Errorf("profit pct = %s, want 25", pct)
	}

	// zero cost cannot produce a percentage
	profit, pct = models.CalculateProfit(dec("12000"), dec("0"), dec("0"))
	if !profit.Equal(dec("12000")) {
		t.Errorf("profit = %s, want 12000", profit)
	}
	if !pct.IsZero() {
		t.Errorf("profit pct = %s, want 0", pct)
	}

	// selling below net payable is a loss
	profit, _ = models.CalculateProfit(dec("9000"), dec("9500"), dec("10000"))
	if !profit.Equal(dec("-500")) {
		t.Errorf("profit = %s, want -500", profit)
	}
}

func TestBuildDisplayName(t *testing.T) {
	cases := []struct {
		name  string
		year  int
		make  string
		model string
		color string
		trim  string
		want  string
	}{
		{"full", 2024, "Toyota", "Corolla", "White", "XLE", "2024 Toyota Corolla White XLE"},
		{"no color or trim", 2024, "Toyota", "Corolla", "", "", "2024 Toyota Corolla"},
		{"no year", 0, "Toyota", "Corolla", "", "", "Toyota Corolla"},
		{"blank middle field skipped", 2023, "Honda", "", "Red", "", "2023 Honda Red"},
		{"whitespace only skipped", 2023, "Honda", "  ", "Red", "", "2023 Honda Red"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.BuildDisplayName(tc.year, tc.make, tc.model, tc.color, tc.trim)
			if got != tc.want {
				t.Fatalf("BuildDisplayName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVehicleTransitions(t *testing.T) {
	allowed := []struct{ from, to models.VehicleState }{
		{models.VehicleStateDraft, models.VehicleStateAvailable},
		{models.VehicleStateAvailable, models.VehicleStateReserved},
		{models.VehicleStateAvailable, models.VehicleStateSold},
		{models.VehicleStateReserved, models.VehicleStateAvailable},
		{models.VehicleStateReserved, models.VehicleStateSold},
		{models.VehicleStateSold, models.VehicleStateReturned},
	}
	for _, tc := range allowed {
		if !models.CanTransition(tc.from, tc.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to models.VehicleState }{
		{models.VehicleStateDraft, models.VehicleStateSold},
		{models.VehicleStateDraft, models.VehicleStateReserved},
		{models.VehicleStateAvailable, models.VehicleStateDraft},
		{models.VehicleStateSold, models.VehicleStateAvailable},
		{models.VehicleStateReturned, models.VehicleStateAvailable},
		{models.VehicleStateReturned, models.VehicleStateSold},
	}
	for _, tc := range denied {
		if models.CanTransition(tc.from, tc.to) {
			t.Errorf("CanTransition(%s, %s) = true, want false", tc.from, tc.to)
		}
	}
}

func TestVehicleRecompute(t *testing.T) {
	v := models.Vehicle{
		BusinessType:    models.VehicleBusinessTypeConsigned,
		PurchasePrice:   dec("10000"),
		SellingPrice:    dec("12000"),
		CommissionType:  models.CommissionTypePercentage,
		CommissionValue: dec("5"),
	}
	v.Recompute()

	if !v.CommissionAmount.Equal(dec("500")) {
		t.Errorf("commission = %s, want 500", v.CommissionAmount)
	}
	if !v.NetPayable.Equal(dec("9500")) {
		t.Errorf("net payable = %s, want 9500", v.NetPayable)
	}
	if !v.ProfitAmount.Equal(dec("2500")) {
		t.Errorf("profit = %s, want 2500", v.ProfitAmount)
	}
	if !v.ProfitPercentage.Equal(dec("25")) {
		t.Errorf("profit pct = %s, want 25", v.ProfitPercentage)
	}
}
