package models

import (
	"context"
	"errors"
	"time"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceRecord is one maintenance entry in a vehicle's history.
type ServiceRecord struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"index;not null" json:"business_id"`
	VehicleId    int             `gorm:"index;not null" json:"vehicle_id" binding:"required"`
	Vehicle      *Vehicle        `gorm:"foreignKey:VehicleId" json:"vehicle,omitempty"`
	ServiceDate  time.Time       `gorm:"type:date;not null" json:"service_date" binding:"required"`
	ServiceType  string          `gorm:"size:100;not null" json:"service_type" binding:"required"`
	Cost         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"cost"`
	CurrencyCode string          `gorm:"size:3;default:'USD'" json:"currency_code"`
	Description  string          `gorm:"type:text" json:"description"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj ServiceRecord) GetBusinessId() string {
	return obj.BusinessId
}

type NewServiceRecord struct {
	VehicleId    int             `json:"vehicle_id" binding:"required"`
	ServiceDate  time.Time       `json:"service_date" binding:"required"`
	ServiceType  string          `json:"service_type" binding:"required"`
	Cost         decimal.Decimal `json:"cost"`
	CurrencyCode string          `json:"currency_code"`
	Description  string          `json:"description"`
}

func CreateServiceRecord(ctx context.Context, input *NewServiceRecord) (*ServiceRecord, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[Vehicle](ctx, businessId, input.VehicleId); err != nil {
		return nil, errors.New("vehicle not found")
	}

	currencyCode := input.CurrencyCode
	if currencyCode == "" {
		currencyCode = "USD"
	}

	record := ServiceRecord{
		BusinessId:   businessId,
		VehicleId:    input.VehicleId,
		ServiceDate:  input.ServiceDate,
		ServiceType:  input.ServiceType,
		Cost:         input.Cost,
		CurrencyCode: currencyCode,
		Description:  input.Description,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return SaveHistoryCreate(tx.WithContext(ctx), record.ID, record, "Service recorded: "+record.ServiceType)
	})
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(record); err != nil {
		return nil, err
	}
	return &record, nil
}

func UpdateServiceRecord(ctx context.Context, id int, input *NewServiceRecord) (*ServiceRecord, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	old, err := utils.FetchModel[ServiceRecord](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateResourceId[Vehicle](ctx, businessId, input.VehicleId); err != nil {
		return nil, errors.New("vehicle not found")
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ServiceRecord{ID: id}).Updates(map[string]interface{}{
			"VehicleId":   input.VehicleId,
			"ServiceDate": input.ServiceDate,
			"ServiceType": input.ServiceType,
			"Cost":        input.Cost,
			"Description": input.Description,
		}).Error; err != nil {
			return err
		}
		return SaveHistoryUpdate(tx.WithContext(ctx), id, old, "Service record updated")
	})
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*old); err != nil {
		return nil, err
	}
	return utils.FetchModel[ServiceRecord](ctx, businessId, id)
}

func DeleteServiceRecord(ctx context.Context, id int) (*ServiceRecord, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	record, err := utils.FetchModel[ServiceRecord](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ServiceRecord{}, id).Error; err != nil {
			return err
		}
		return SaveHistoryDelete(tx.WithContext(ctx), id, record, "Service record deleted")
	})
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*record); err != nil {
		return nil, err
	}
	return record, nil
}

func GetServiceRecord(ctx context.Context, id int) (*ServiceRecord, error) {
	return GetResource[ServiceRecord](ctx, id, "Vehicle")
}

func ListServiceRecord(ctx context.Context, vehicleId *int) ([]*ServiceRecord, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*ServiceRecord
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if vehicleId != nil && *vehicleId > 0 {
		dbCtx = dbCtx.Where("vehicle_id = ?", *vehicleId)
	}
	if err := dbCtx.Order("service_date DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
