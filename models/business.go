package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
)

// Business is the dealership tenant. Every record in the system is
// scoped to one business through BusinessId.
type Business struct {
	ID           uuid.UUID `gorm:"primary_key" json:"id"`
	LogoUrl      string    `json:"logo_url"`
	Name         string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	ContactName  string    `gorm:"size:100" json:"contact_name"`
	Email        string    `gorm:"size:255" json:"email"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Website      string    `gorm:"size:255" json:"website"`
	Address      string    `gorm:"type:text" json:"address"`
	Country      string    `gorm:"size:100" json:"country"`
	City         string    `gorm:"size:100" json:"city"`
	CurrencyCode string    `gorm:"size:3;default:'USD'" json:"currency_code"`
	Timezone     string    `gorm:"size:50" json:"timezone"`
	CompanyId    string    `gorm:"size:100" json:"company_id"`
	TaxId        string    `gorm:"size:100" json:"tax_id"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// host ERP tenant identifier, set once the connection is established
	IntegrationId *string `gorm:"size:255;default:NULL" json:"integration_id"`
}

type NewBusiness struct {
	LogoUrl      string `json:"logo_url"`
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone"`
	Website      string `json:"website"`
	Address      string `json:"address"`
	Country      string `json:"country"`
	City         string `json:"city"`
	CurrencyCode string `json:"currency_code"`
	Timezone     string `json:"timezone"`
	CompanyId    string `json:"company_id"`
	TaxId        string `json:"tax_id"`
}

func CreateBusiness(ctx context.Context, input *NewBusiness) (*Business, error) {
	currencyCode := input.CurrencyCode
	if currencyCode == "" {
		currencyCode = "USD"
	}

	business := Business{
		ID:           uuid.New(),
		LogoUrl:      input.LogoUrl,
		Name:         input.Name,
		ContactName:  input.ContactName,
		Email:        input.Email,
		Phone:        input.Phone,
		Website:      input.Website,
		Address:      input.Address,
		Country:      input.Country,
		City:         input.City,
		CurrencyCode: currencyCode,
		Timezone:     input.Timezone,
		CompanyId:    input.CompanyId,
		TaxId:        input.TaxId,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func GetBusinessById(ctx context.Context, businessId string) (*Business, error) {
	if businessId == "" {
		return nil, errors.New("business id is required")
	}

	var business Business
	exists, err := config.GetRedisObject("Business:"+businessId, &business)
	if err != nil {
		return nil, err
	}
	if !exists {
		db := config.GetDB()
		if err := db.WithContext(ctx).Where("id = ?", businessId).First(&business).Error; err != nil {
			return nil, err
		}
		if err := config.SetRedisObject("Business:"+businessId, &business, 0); err != nil {
			return nil, err
		}
	}
	return &business, nil
}

func SetBusinessIntegrationId(ctx context.Context, businessId string, integrationId string) error {
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Business{}).
		Where("id = ?", businessId).
		Update("integration_id", integrationId).Error; err != nil {
		return err
	}
	return config.RemoveRedisKey("Business:" + businessId)
}
