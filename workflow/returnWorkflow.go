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

const handlerVehicleReturn = "vehicle_return"

// VehicleReturn comes from the host ERP when a sold consigned unit is
// handed back.
type VehicleReturn struct {
	ReturnReference string `json:"return_reference" binding:"required"`
	SerialNumber    string `json:"serial_number" binding:"required"`
	Reason          string `json:"reason"`
}

// ProcessVehicleReturn moves a sold consigned vehicle to returned and
// flags the serial so it never counts as sellable stock again.
func ProcessVehicleReturn(ctx context.Context, ret *VehicleReturn) (*models.Vehicle, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	serial := strings.TrimSpace(ret.SerialNumber)
	if serial == "" {
		return nil, models.ErrUnknownSerial
	}

	db := config.GetDB()
	var vehicle *models.Vehicle
	messageId := ret.ReturnReference + ":" + serial

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skip, err := BeginIdempotency(tx, businessId, handlerVehicleReturn, messageId)
		if err != nil {
			return err
		}

		vehicle, err = models.FindVehicleBySerial(ctx, tx, serial)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		plan, err := PlanReturn(vehicle.State, vehicle.BusinessType)
		if err != nil {
			if markErr := MarkIdempotencyFailed(tx, businessId, handlerVehicleReturn, messageId, err); markErr != nil {
				return markErr
			}
			return err
		}

		old := *vehicle
		vehicle.State = plan.NewState
		if err := tx.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).
			Update("state", plan.NewState).Error; err != nil {
			return err
		}

		if plan.MarkSerialReturned {
			if err := tx.Model(&models.CatalogSerial{}).
				Where("serial_number = ?", serial).
				Update("status", models.SerialStatusReturned).Error; err != nil {
				return err
			}
		}

		note := fmt.Sprintf("Vehicle returned via %s, serial %s.", ret.ReturnReference, serial)
		if ret.Reason != "" {
			note = note + " Reason: " + ret.Reason
		}
		if err := models.SaveHistoryNote(tx.WithContext(ctx), vehicle.ID, "vehicles", note); err != nil {
			return err
		}
		if err := models.PublishSync(ctx, tx, businessId, time.Now(), vehicle.ID,
			models.SyncReferenceTypeReturn, vehicle, &old, models.SyncMessageActionUpdate); err != nil {
			return err
		}
		return MarkIdempotencySucceeded(tx, businessId, handlerVehicleReturn, messageId)
	})
	if err != nil {
		return nil, err
	}

	if err := utils.RemoveRedisItem[models.Vehicle](vehicle.ID); err != nil {
		return nil, err
	}
	return vehicle, nil
}
