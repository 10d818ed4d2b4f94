package models

import (
	"context"
	"errors"
	"time"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
)

type CarFeature struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"index;not null" json:"business_id"`
	Name       string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Category   FeatureCategory `gorm:"type:enum('interior','exterior','safety','technology','performance')" json:"category"`
	IsActive   *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj CarFeature) GetBusinessId() string {
	return obj.BusinessId
}

type NewCarFeature struct {
	Name     string          `json:"name" binding:"required"`
	Category FeatureCategory `json:"category"`
}

func (input *NewCarFeature) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateUnique[CarFeature](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateCarFeature(ctx context.Context, input *NewCarFeature) (*CarFeature, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	feature := CarFeature{
		BusinessId: businessId,
		Name:       input.Name,
		Category:   input.Category,
		IsActive:   utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&feature).Error; err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

func UpdateCarFeature(ctx context.Context, id int, input *NewCarFeature) (*CarFeature, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	feature, err := utils.FetchModel[CarFeature](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&feature).Updates(map[string]interface{}{
		"Name":     input.Name,
		"Category": input.Category,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*feature); err != nil {
		return nil, err
	}
	return feature, nil
}

func DeleteCarFeature(ctx context.Context, id int) (*CarFeature, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	result, err := utils.FetchModel[CarFeature](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// detach from any vehicles first
	if err := db.WithContext(ctx).Exec("DELETE FROM vehicle_features WHERE car_feature_id = ?", id).Error; err != nil {
		return nil, err
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

func GetCarFeature(ctx context.Context, id int) (*CarFeature, error) {
	return GetResource[CarFeature](ctx, id)
}

func ListCarFeature(ctx context.Context) ([]*CarFeature, error) {
	return ListAllResource[CarFeature](ctx, "name")
}

func ToggleActiveCarFeature(ctx context.Context, id int, isActive bool) (*CarFeature, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return ToggleActiveModel[CarFeature](ctx, businessId, id, isActive)
}
