package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/models"
	"github.com/mattobell/dealer_backend/utils"
	"gorm.io/gorm"
)

const handlerVehicleReceipt = "vehicle_receipt"

// VehicleReceipt is one goods receipt from the host ERP. Each line
// carries the catalog entry the unit was received against and the
// unit's serial (VIN).
type VehicleReceipt struct {
	ReceiptReference      string        `json:"receipt_reference" binding:"required"`
	IsInternalDestination bool          `json:"is_internal_destination"`
	Lines                 []ReceiptLine `json:"lines" binding:"required"`
}

type ReceiptLine struct {
	CatalogEntryId int    `json:"catalog_entry_id" binding:"required"`
	SerialNumber   string `json:"serial_number" binding:"required"`
}

type ReceiptLineResult struct {
	SerialNumber string          `json:"serial_number"`
	Decision     string          `json:"decision"`
	VehicleId    int             `json:"vehicle_id,omitempty"`
	Error        string          `json:"error,omitempty"`
	decision     ReceiptDecision `json:"-"`
}

// ProcessReceiptBatch registers every line of a receipt. A failing
// line does not abort the rest; each line runs in its own transaction
// and reports its own outcome.
func ProcessReceiptBatch(ctx context.Context, receipt *VehicleReceipt) ([]ReceiptLineResult, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	logger := config.GetLogger()

	results := make([]ReceiptLineResult, 0, len(receipt.Lines))
	for _, line := range receipt.Lines {
		result, err := ProcessVehicleReceipt(ctx, receipt, line)
		if err != nil {
			config.LogError(logger, "vehicleReceiptWorkflow.go", "ProcessReceiptBatch", "line", line, err)
			results = append(results, ReceiptLineResult{
				SerialNumber: line.SerialNumber,
				Decision:     "error",
				Error:        err.Error(),
			})
			continue
		}
		results = append(results, *result)
	}
	return results, nil
}

// ProcessVehicleReceipt handles one received unit. Duplicate serials
// are a logged no-op so redelivered receipts stay harmless.
func ProcessVehicleReceipt(ctx context.Context, receipt *VehicleReceipt, line ReceiptLine) (*ReceiptLineResult, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	serial := strings.TrimSpace(line.SerialNumber)
	if serial == "" {
		return nil, errors.New("serial number is required")
	}
	logger := config.GetLogger()

	db := config.GetDB()
	result := &ReceiptLineResult{SerialNumber: serial}
	messageId := receipt.ReceiptReference + ":" + serial

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skip, err := BeginIdempotency(tx, businessId, handlerVehicleReceipt, messageId)
		if err != nil {
			return err
		}
		if skip {
			result.Decision = ReceiptSkipDuplicate.String()
			result.decision = ReceiptSkipDuplicate
			return nil
		}

		existing, err := models.FindVehicleBySerial(ctx, tx, serial)
		if err != nil && !errors.Is(err, models.ErrUnknownSerial) {
			return err
		}

		decision := PlanReceipt(receipt.IsInternalDestination, existing != nil)
		result.Decision = decision.String()
		result.decision = decision

		switch decision {
		case ReceiptSkipExternal:
			return MarkIdempotencySucceeded(tx, businessId, handlerVehicleReceipt, messageId)

		case ReceiptSkipDuplicate:
			result.VehicleId = existing.ID
			config.LogInfo(logger, "vehicleReceiptWorkflow.go", "ProcessVehicleReceipt", "duplicate serial", serial)
			if err := models.SaveHistoryNote(tx.WithContext(ctx), existing.ID, "vehicles",
				fmt.Sprintf("Duplicate receipt %s ignored for serial %s.", receipt.ReceiptReference, serial)); err != nil {
				return err
			}
			return MarkIdempotencySucceeded(tx, businessId, handlerVehicleReceipt, messageId)
		}

		vehicle, err := createVehicleFromCatalogEntry(ctx, tx, businessId, line.CatalogEntryId, serial, receipt.ReceiptReference)
		if err != nil {
			if markErr := MarkIdempotencyFailed(tx, businessId, handlerVehicleReceipt, messageId, err); markErr != nil {
				return markErr
			}
			return err
		}
		result.VehicleId = vehicle.ID
		return MarkIdempotencySucceeded(tx, businessId, handlerVehicleReceipt, messageId)
	})
	if err != nil {
		return nil, err
	}
	if result.decision == ReceiptCreate {
		if err := utils.RemoveRedisItem[models.CatalogEntry](line.CatalogEntryId); err != nil {
			return nil, err
		}
		if err := utils.RemoveRedisList[models.CatalogEntry](businessId); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// createVehicleFromCatalogEntry materializes a received unit, copying
// the entry's descriptive attributes, pricing and commission defaults.
func createVehicleFromCatalogEntry(ctx context.Context, tx *gorm.DB, businessId string, catalogEntryId int, serial string, receiptRef string) (*models.Vehicle, error) {
	var entry models.CatalogEntry
	if err := tx.Where("business_id = ?", businessId).First(&entry, catalogEntryId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("catalog entry not found")
		}
		return nil, err
	}

	vehicle := models.Vehicle{
		BusinessId:      businessId,
		Name:            entry.Name,
		VinNumber:       &serial,
		BusinessType:    entry.BusinessType,
		MakeId:          entry.MakeId,
		ModelId:         entry.ModelId,
		Year:            entry.Year,
		Color:           entry.Color,
		Trim:            entry.Trim,
		EngineSize:      entry.EngineSize,
		FuelType:        entry.FuelType,
		Transmission:    entry.Transmission,
		Condition:       entry.Condition,
		PurchasePrice:   entry.CostPrice,
		SellingPrice:    entry.ListPrice,
		VendorName:      entry.DefaultVendorName,
		CommissionType:  entry.DefaultCommissionType,
		CommissionValue: entry.DefaultCommissionValue,
		State:           models.VehicleStateAvailable,
		Quantity:        1,
		CatalogEntryId:  &entry.ID,
		IsActive:        utils.NewTrue(),
	}
	vehicle.Recompute()

	if err := tx.Create(&vehicle).Error; err != nil {
		return nil, err
	}

	catalogSerial := models.CatalogSerial{
		BusinessId:     businessId,
		CatalogEntryId: entry.ID,
		SerialNumber:   serial,
		Status:         models.SerialStatusInStock,
	}
	if err := tx.Create(&catalogSerial).Error; err != nil {
		return nil, err
	}

	if err := models.MarkCatalogEntryAvailability(tx, entry.ID, true); err != nil {
		return nil, err
	}

	if err := models.SaveHistoryCreate(tx.WithContext(ctx), vehicle.ID, vehicle,
		fmt.Sprintf("Vehicle received via %s, serial %s.", receiptRef, serial)); err != nil {
		return nil, err
	}
	if err := models.PublishSync(ctx, tx, businessId, time.Now(), vehicle.ID,
		models.SyncReferenceTypeReceipt, vehicle, nil, models.SyncMessageActionCreate); err != nil {
		return nil, err
	}
	return &vehicle, nil
}
