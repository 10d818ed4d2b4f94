package workflow

import (
	"github.com/mattobell/dealer_backend/models"
)

// The policy layer is pure: each Plan function maps the current state
// and an inbound event to a decision, with no database access. The
// workflows below execute the decision inside a transaction, so the
// rules stay testable without a running MySQL.

type ReceiptDecision int

const (
	// create the vehicle and its serial
	ReceiptCreate ReceiptDecision = iota
	// serial already registered, log and acknowledge
	ReceiptSkipDuplicate
	// receipt did not land in dealership stock, ignore
	ReceiptSkipExternal
)

func (d ReceiptDecision) String() string {
	switch d {
	case ReceiptCreate:
		return "create"
	case ReceiptSkipDuplicate:
		return "skip_duplicate"
	case ReceiptSkipExternal:
		return "skip_external"
	}
	return "unknown"
}

// PlanReceipt decides what an incoming stock receipt line does.
// Duplicate serials are acknowledged without error so at-least-once
// delivery never poisons the queue.
func PlanReceipt(isInternalDestination bool, serialAlreadyRegistered bool) ReceiptDecision {
	if !isInternalDestination {
		return ReceiptSkipExternal
	}
	if serialAlreadyRegistered {
		return ReceiptSkipDuplicate
	}
	return ReceiptCreate
}

type SalePlan struct {
	NewState       models.VehicleState
	MarkSerialSold bool
}

// PlanSale decides the effect of a confirmed sale on a vehicle.
// Selling an already sold or returned unit is a hard error.
func PlanSale(current models.VehicleState) (SalePlan, error) {
	switch current {
	case models.VehicleStateSold, models.VehicleStateReturned:
		return SalePlan{}, models.ErrInvalidTransition
	}
	return SalePlan{
		NewState:       models.VehicleStateSold,
		MarkSerialSold: true,
	}, nil
}

type ReturnPlan struct {
	NewState           models.VehicleState
	MarkSerialReturned bool
}

// PlanReturn decides the effect of a customer return. Only consigned
// vehicles that were actually sold can come back.
func PlanReturn(current models.VehicleState, businessType models.VehicleBusinessType) (ReturnPlan, error) {
	if current != models.VehicleStateSold {
		return ReturnPlan{}, models.ErrInvalidTransition
	}
	if businessType != models.VehicleBusinessTypeConsigned {
		return ReturnPlan{}, models.ErrInvalidTransition
	}
	return ReturnPlan{
		NewState:           models.VehicleStateReturned,
		MarkSerialReturned: true,
	}, nil
}

// PlanCatalogAvailability maps the in-stock serial count of a catalog
// entry to its storefront availability.
func PlanCatalogAvailability(inStockSerials int64) bool {
	return inStockSerials > 0
}
