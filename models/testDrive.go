package models

import (
	"context"
	"errors"
	"time"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
	"gorm.io/gorm"
)

type TestDrive struct {
	ID         int            `gorm:"primary_key" json:"id"`
	BusinessId string         `gorm:"index;not null" json:"business_id"`
	VehicleId  int            `gorm:"index;not null" json:"vehicle_id" binding:"required"`
	Vehicle    *Vehicle       `gorm:"foreignKey:VehicleId" json:"vehicle,omitempty"`
	Name       string         `gorm:"size:255;not null" json:"name" binding:"required"`
	Email      string         `gorm:"size:255;not null" json:"email" binding:"required"`
	Date       time.Time      `gorm:"type:date;not null" json:"date" binding:"required"`
	State      TestDriveState `gorm:"type:enum('draft','confirmed','cancelled');default:draft" json:"state"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj TestDrive) GetBusinessId() string {
	return obj.BusinessId
}

type NewTestDrive struct {
	VehicleId int       `json:"vehicle_id" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	Email     string    `json:"email" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
}

func (input *NewTestDrive) validate(ctx context.Context, businessId string) error {
	if !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email address")
	}
	if err := utils.ValidateResourceId[Vehicle](ctx, businessId, input.VehicleId); err != nil {
		return errors.New("vehicle not found")
	}
	return nil
}

func CreateTestDrive(ctx context.Context, input *NewTestDrive) (*TestDrive, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	testDrive := TestDrive{
		BusinessId: businessId,
		VehicleId:  input.VehicleId,
		Name:       input.Name,
		Email:      input.Email,
		Date:       input.Date,
		State:      TestDriveStateDraft,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&testDrive).Error; err != nil {
			return err
		}
		return SaveHistoryCreate(tx.WithContext(ctx), testDrive.ID, testDrive, "Test drive requested by "+testDrive.Name)
	})
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(testDrive); err != nil {
		return nil, err
	}
	return &testDrive, nil
}

func setTestDriveState(ctx context.Context, id int, to TestDriveState, note string) (*TestDrive, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var testDrive TestDrive
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", businessId).First(&testDrive, id).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		// only open requests can move
		if testDrive.State != TestDriveStateDraft {
			return ErrInvalidTransition
		}
		testDrive.State = to
		if err := tx.Model(&TestDrive{ID: id}).Update("state", to).Error; err != nil {
			return err
		}
		return SaveHistoryNote(tx.WithContext(ctx), id, "test_drives", note)
	})
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(testDrive); err != nil {
		return nil, err
	}
	return &testDrive, nil
}

func ConfirmTestDrive(ctx context.Context, id int) (*TestDrive, error) {
	return setTestDriveState(ctx, id, TestDriveStateConfirmed, "Test drive confirmed.")
}

func CancelTestDrive(ctx context.Context, id int) (*TestDrive, error) {
	return setTestDriveState(ctx, id, TestDriveStateCancelled, "Test drive cancelled.")
}

func GetTestDrive(ctx context.Context, id int) (*TestDrive, error) {
	return GetResource[TestDrive](ctx, id, "Vehicle")
}

func ListTestDrive(ctx context.Context, vehicleId *int) ([]*TestDrive, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*TestDrive
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if vehicleId != nil && *vehicleId > 0 {
		dbCtx = dbCtx.Where("vehicle_id = ?", *vehicleId)
	}
	if err := dbCtx.Preload("Vehicle").Order("date DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
