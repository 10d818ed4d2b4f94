package workflow_test

import (
	"errors"
	"testing"

	"github.com/mattobell/dealer_backend/models"
	"github.com/mattobell/dealer_backend/workflow"
)

func TestPlanReceipt(t *testing.T) {
	cases := []struct {
		name       string
		internal   bool
		registered bool
		want       workflow.ReceiptDecision
	}{
		{"new serial into dealership stock", true, false, workflow.ReceiptCreate},
		{"duplicate serial acknowledged", true, true, workflow.ReceiptSkipDuplicate},
		{"external destination ignored", false, false, workflow.ReceiptSkipExternal},
		{"external wins over duplicate", false, true, workflow.ReceiptSkipExternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := workflow.PlanReceipt(tc.internal, tc.registered)
			if got != tc.want {
				t.Fatalf("PlanReceipt(%v, %v) = %v, want %v", tc.internal, tc.registered, got, tc.want)
			}
		})
	}
}

func TestPlanSale(t *testing.T) {
	for _, state := range []models.VehicleState{
		models.VehicleStateDraft,
		models.VehicleStateAvailable,
		models.VehicleStateReserved,
	} {
		plan, err := workflow.PlanSale(state)
		if err != nil {
			t.Fatalf("PlanSale(%s): unexpected error %v", state, err)
		}
		if plan.NewState != models.VehicleStateSold {
			t.Errorf("PlanSale(%s).NewState = %s, want sold", state, plan.NewState)
		}
		if !plan.MarkSerialSold {
			t.Errorf("PlanSale(%s).MarkSerialSold = false, want true", state)
		}
	}

	for _, state := range []models.VehicleState{
		models.VehicleStateSold,
		models.VehicleStateReturned,
	} {
		_, err := workflow.PlanSale(state)
		if !errors.Is(err, models.ErrInvalidTransition) {
			t.Errorf("PlanSale(%s) error = %v, want ErrInvalidTransition", state, err)
		}
	}
}

func TestPlanReturn(t *testing.T) {
	plan, err := workflow.PlanReturn(models.VehicleStateSold, models.VehicleBusinessTypeConsigned)
	if err != nil {
		t.Fatalf("PlanReturn(sold, consigned): unexpected error %v", err)
	}
	if plan.NewState != models.VehicleStateReturned || !plan.MarkSerialReturned {
		t.Fatalf("PlanReturn(sold, consigned) = %+v, want returned + serial marked", plan)
	}

	if _, err := workflow.PlanReturn(models.VehicleStateAvailable, models.VehicleBusinessTypeConsigned); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("return of unsold vehicle: error = %v, want ErrInvalidTransition", err)
	}
	if _, err := workflow.PlanReturn(models.VehicleStateSold, models.VehicleBusinessTypeOwner); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("return of owner stock: error = %v, want ErrInvalidTransition", err)
	}
	if _, err := workflow.PlanReturn(models.VehicleStateSold, models.VehicleBusinessTypeDealerNetwork); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("return of dealer network stock: error = %v, want ErrInvalidTransition", err)
	}
}

func TestPlanCatalogAvailability(t *testing.T) {
	if workflow.PlanCatalogAvailability(0) {
		t.Error("zero in-stock serials should not be available")
	}
	if !workflow.PlanCatalogAvailability(1) {
		t.Error("one in-stock serial should be available")
	}
	if !workflow.PlanCatalogAvailability(7) {
		t.Error("several in-stock serials should be available")
	}
}

func TestReceiptDecisionString(t *testing.T) {
	cases := map[workflow.ReceiptDecision]string{
		workflow.ReceiptCreate:        "create",
		workflow.ReceiptSkipDuplicate: "skip_duplicate",
		workflow.ReceiptSkipExternal:  "skip_external",
	}
	for decision, want := range cases {
		if got := decision.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", decision, got, want)
		}
	}
}
