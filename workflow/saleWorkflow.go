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

const handlerSaleConfirmed = "sale_confirmed"

// SaleConfirmation comes from the host ERP when an order covering one
// of our serial-tracked units is confirmed.
type SaleConfirmation struct {
	SaleReference string `json:"sale_reference" binding:"required"`
	SerialNumber  string `json:"serial_number" binding:"required"`
}

// ProcessSaleConfirmed marks the unit behind the serial as sold and
// withdraws the catalog entry once its last in-stock unit is gone.
func ProcessSaleConfirmed(ctx context.Context, sale *SaleConfirmation) (*models.Vehicle, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	serial := strings.TrimSpace(sale.SerialNumber)
	if serial == "" {
		return nil, models.ErrUnknownSerial
	}

	db := config.GetDB()
	var vehicle *models.Vehicle
	messageId := sale.SaleReference + ":" + serial

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skip, err := BeginIdempotency(tx, businessId, handlerSaleConfirmed, messageId)
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

		plan, err := PlanSale(vehicle.State)
		if err != nil {
			if markErr := MarkIdempotencyFailed(tx, businessId, handlerSaleConfirmed, messageId, err); markErr != nil {
				return markErr
			}
			return err
		}

		old := *vehicle
		vehicle.State = plan.NewState
		vehicle.SaleReference = sale.SaleReference
		if err := tx.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).Updates(map[string]interface{}{
			"State":         plan.NewState,
			"SaleReference": sale.SaleReference,
		}).Error; err != nil {
			return err
		}

		if plan.MarkSerialSold {
			now := time.Now()
			if err := tx.Model(&models.CatalogSerial{}).
				Where("serial_number = ?", serial).
				Updates(map[string]interface{}{
					"Status":        models.SerialStatusSold,
					"SaleReference": sale.SaleReference,
					"SoldAt":        &now,
				}).Error; err != nil {
				return err
			}
		}

		if vehicle.CatalogEntryId != nil {
			inStock, err := models.AvailableSerialCount(tx, *vehicle.CatalogEntryId)
			if err != nil {
				return err
			}
			if err := models.MarkCatalogEntryAvailability(tx, *vehicle.CatalogEntryId, PlanCatalogAvailability(inStock)); err != nil {
				return err
			}
		}

		if err := models.SaveHistoryNote(tx.WithContext(ctx), vehicle.ID, "vehicles",
			fmt.Sprintf("Vehicle sold via %s, serial %s.", sale.SaleReference, serial)); err != nil {
			return err
		}
		if err := models.PublishSync(ctx, tx, businessId, time.Now(), vehicle.ID,
			models.SyncReferenceTypeSale, vehicle, &old, models.SyncMessageActionUpdate); err != nil {
			return err
		}
		return MarkIdempotencySucceeded(tx, businessId, handlerSaleConfirmed, messageId)
	})
	if err != nil {
		return nil, err
	}

	if err := utils.RemoveRedisItem[models.Vehicle](vehicle.ID); err != nil {
		return nil, err
	}
	if vehicle.CatalogEntryId != nil {
		if err := utils.RemoveRedisItem[models.CatalogEntry](*vehicle.CatalogEntryId); err != nil {
			return nil, err
		}
	}
	if err := utils.RemoveRedisList[models.CatalogEntry](businessId); err != nil {
		return nil, err
	}
	return vehicle, nil
}
