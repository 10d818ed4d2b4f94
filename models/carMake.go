package models

import (
	"context"
	"errors"
	"time"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
)

type CarMake struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Country    string    `gorm:"size:100" json:"country"`
	LogoUrl    string    `json:"logo_url"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj CarMake) GetBusinessId() string {
	return obj.BusinessId
}

type NewCarMake struct {
	Name    string `json:"name" binding:"required"`
	Country string `json:"country"`
	LogoUrl string `json:"logo_url"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewCarMake) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateUnique[CarMake](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateCarMake(ctx context.Context, input *NewCarMake) (*CarMake, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	make := CarMake{
		BusinessId: businessId,
		Name:       input.Name,
		Country:    input.Country,
		LogoUrl:    input.LogoUrl,
		IsActive:   utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&make).Error; err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(make); err != nil {
		return nil, err
	}
	return &make, nil
}

func UpdateCarMake(ctx context.Context, id int, input *NewCarMake) (*CarMake, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	make, err := utils.FetchModel[CarMake](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&make).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Country": input.Country,
		"LogoUrl": input.LogoUrl,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*make); err != nil {
		return nil, err
	}
	return make, nil
}

func DeleteCarMake(ctx context.Context, id int) (*CarMake, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	result, err := utils.FetchModel[CarMake](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// check if make is used
	var count int64
	if err := db.WithContext(ctx).Model(&CarModel{}).
		Where("make_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("make has models")
	}

	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*result); err != nil {
		return nil, err
	}
	return result, nil
}

func GetCarMake(ctx context.Context, id int) (*CarMake, error) {
	return GetResource[CarMake](ctx, id)
}

func ListCarMake(ctx context.Context) ([]*CarMake, error) {
	return ListAllResource[CarMake](ctx, "name")
}

func ToggleActiveCarMake(ctx context.Context, id int, isActive bool) (*CarMake, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return ToggleActiveModel[CarMake](ctx, businessId, id, isActive)
}
