package models

import (
	"context"
	"errors"
	"time"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
)

type CarModel struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	MakeId     int       `gorm:"index;not null" json:"make_id" binding:"required"`
	Make       *CarMake  `gorm:"foreignKey:MakeId" json:"make,omitempty"`
	BodyType   BodyType  `gorm:"type:enum('sedan','suv','hatchback','coupe','convertible','wagon','truck','van')" json:"body_type"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj CarModel) GetBusinessId() string {
	return obj.BusinessId
}

type NewCarModel struct {
	Name     string   `json:"name" binding:"required"`
	MakeId   int      `json:"make_id" binding:"required"`
	BodyType BodyType `json:"body_type"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewCarModel) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateResourceId[CarMake](ctx, businessId, input.MakeId); err != nil {
		return errors.New("make not found")
	}
	// model name unique within make
	count, err := utils.ResourceCountWhere[CarModel](ctx, businessId, "name = ? AND make_id = ? AND id != ?", input.Name, input.MakeId, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate model name for this make")
	}
	return nil
}

func CreateCarModel(ctx context.Context, input *NewCarModel) (*CarModel, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	model := CarModel{
		BusinessId: businessId,
		Name:       input.Name,
		MakeId:     input.MakeId,
		BodyType:   input.BodyType,
		IsActive:   utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(model); err != nil {
		return nil, err
	}
	return &model, nil
}

func UpdateCarModel(ctx context.Context, id int, input *NewCarModel) (*CarModel, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	model, err := utils.FetchModel[CarModel](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&model).Updates(map[string]interface{}{
		"Name":     input.Name,
		"MakeId":   input.MakeId,
		"BodyType": input.BodyType,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*model); err != nil {
		return nil, err
	}
	return model, nil
}

func DeleteCarModel(ctx context.Context, id int) (*CarModel, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	result, err := utils.FetchModel[CarModel](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// check if model is used
	var count int64
	if err := db.WithContext(ctx).Model(&Vehicle{}).
		Where("model_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("model has vehicles")
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

func GetCarModel(ctx context.Context, id int) (*CarModel, error) {
	return GetResource[CarModel](ctx, id, "Make")
}

func ListCarModel(ctx context.Context, makeId *int) ([]*CarModel, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*CarModel

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if makeId != nil && *makeId > 0 {
		dbCtx = dbCtx.Where("make_id = ?", *makeId)
	}
	err := dbCtx.Preload("Make").Order("make_id, name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ToggleActiveCarModel(ctx context.Context, id int, isActive bool) (*CarModel, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return ToggleActiveModel[CarModel](ctx, businessId, id, isActive)
}
