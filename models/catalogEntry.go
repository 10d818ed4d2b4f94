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

// CatalogCategory buckets catalog entries by business classification.
// Categories are created once at bootstrap and passed around by id,
// never searched by name during an operation.
type CatalogCategory struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	ParentId   *int      `gorm:"index" json:"parent_id"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj CatalogCategory) GetBusinessId() string {
	return obj.BusinessId
}

const (
	categoryNameRoot          = "Dealership Vehicles"
	categoryNameOwner         = "Owner Products"
	categoryNameDealerNetwork = "Dealer Network Products"
	categoryNameConsigned     = "Consigned Products"
)

func categoryNameForBusinessType(t VehicleBusinessType) string {
	switch t {
	case VehicleBusinessTypeOwner:
		return categoryNameOwner
	case VehicleBusinessTypeDealerNetwork:
		return categoryNameDealerNetwork
	case VehicleBusinessTypeConsigned:
		return categoryNameConsigned
	}
	return categoryNameRoot
}

// EnsureCatalogCategories creates the classification categories for a
// business if missing and returns the name -> id map. The map is cached
// so operations resolve category ids without a name search.
func EnsureCatalogCategories(ctx context.Context, businessId string) (map[string]int, error) {
	categoryIds := make(map[string]int)
	redisKey := "CatalogCategoryMap:" + businessId
	exists, err := config.GetRedisObject(redisKey, &categoryIds)
	if err != nil {
		return nil, err
	}
	if exists && len(categoryIds) > 0 {
		return categoryIds, nil
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root CatalogCategory
		if err := tx.Where("business_id = ? AND name = ?", businessId, categoryNameRoot).
			First(&root).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			root = CatalogCategory{BusinessId: businessId, Name: categoryNameRoot, IsActive: utils.NewTrue()}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
		}
		categoryIds[categoryNameRoot] = root.ID

		for _, name := range []string{categoryNameOwner, categoryNameDealerNetwork, categoryNameConsigned} {
			var category CatalogCategory
			if err := tx.Where("business_id = ? AND name = ?", businessId, name).
				First(&category).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				category = CatalogCategory{BusinessId: businessId, Name: name, ParentId: &root.ID, IsActive: utils.NewTrue()}
				if err := tx.Create(&category).Error; err != nil {
					return err
				}
			}
			categoryIds[name] = category.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := config.SetRedisObject(redisKey, &categoryIds, 0); err != nil {
		return nil, err
	}
	return categoryIds, nil
}

func resolveCategoryId(ctx context.Context, businessId string, t VehicleBusinessType) (int, error) {
	categoryIds, err := EnsureCatalogCategories(ctx, businessId)
	if err != nil {
		return 0, err
	}
	if id, ok := categoryIds[categoryNameForBusinessType(t)]; ok {
		return id, nil
	}
	return categoryIds[categoryNameRoot], nil
}

// CatalogEntry is the sellable representation of one vehicle. Pricing
// and classification flow one way, Vehicle -> CatalogEntry.
type CatalogEntry struct {
	ID         int    `gorm:"primary_key" json:"id"`
	BusinessId string `gorm:"index;not null" json:"business_id"`
	Name       string `gorm:"size:255;not null" json:"name"`

	// at most one catalog entry per vehicle
	VehicleId *int `gorm:"uniqueIndex" json:"vehicle_id"`

	CategoryId int              `gorm:"index" json:"category_id"`
	Category   *CatalogCategory `gorm:"foreignKey:CategoryId" json:"category,omitempty"`

	BusinessType VehicleBusinessType `gorm:"type:enum('owner','dealer_network','consigned');default:owner" json:"business_type"`
	MakeId       int                 `gorm:"index" json:"make_id"`
	ModelId      int                 `gorm:"index" json:"model_id"`
	Year         int                 `json:"year"`
	Color        string              `gorm:"size:50" json:"color"`
	Trim         string              `gorm:"size:50" json:"trim"`
	EngineSize   string              `gorm:"size:50" json:"engine_size"`
	FuelType     FuelType            `gorm:"type:enum('petrol','gasoline','diesel','hybrid','electric','cng','other')" json:"fuel_type"`
	Transmission TransmissionType    `gorm:"type:enum('amt','manual','automatic','cvt')" json:"transmission"`
	Condition    VehicleCondition    `gorm:"type:enum('new','foreign_used','local_used')" json:"condition"`

	ListPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"list_price"`
	CostPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"cost_price"`

	// default commission terms copied onto receipt-created vehicles
	DefaultCommissionType  CommissionType  `gorm:"type:enum('percentage','fixed')" json:"default_commission_type"`
	DefaultCommissionValue decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"default_commission_value"`
	DefaultVendorName      string          `gorm:"size:255" json:"default_vendor_name"`

	// each physical unit is tracked by its own serial (VIN)
	IsSerialTracked *bool `gorm:"not null;default:true" json:"is_serial_tracked"`
	IsAvailable     *bool `gorm:"not null;default:true" json:"is_available"`
	IsPublished     *bool `gorm:"not null;default:false" json:"is_published"`

	Description  string    `gorm:"type:text" json:"description"`
	ImageUrl     string    `json:"image_url"`
	ThumbnailUrl string    `json:"thumbnail_url"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj CatalogEntry) GetBusinessId() string {
	return obj.BusinessId
}

// Serial unit states at the inventory layer.
const (
	SerialStatusInStock  = "in_stock"
	SerialStatusSold     = "sold"
	SerialStatusReturned = "returned"
)

// CatalogSerial is one physical unit of a catalog entry, keyed by VIN.
type CatalogSerial struct {
	ID             int        `gorm:"primary_key" json:"id"`
	BusinessId     string     `gorm:"index;not null" json:"business_id"`
	CatalogEntryId int        `gorm:"index;not null" json:"catalog_entry_id"`
	SerialNumber   string     `gorm:"size:64;not null;uniqueIndex" json:"serial_number"`
	Status         string     `gorm:"size:20;not null;default:'in_stock'" json:"status"`
	SaleReference  string     `gorm:"size:100" json:"sale_reference"`
	ReceivedAt     time.Time  `gorm:"autoCreateTime" json:"received_at"`
	SoldAt         *time.Time `json:"sold_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// createCatalogEntryForVehicle synthesizes the sellable entry inside
// the caller's transaction and links it back to the vehicle.
func createCatalogEntryForVehicle(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) (*CatalogEntry, error) {
	categoryId, err := resolveCategoryId(ctx, vehicle.BusinessId, vehicle.BusinessType)
	if err != nil {
		return nil, err
	}

	entry := CatalogEntry{
		BusinessId:             vehicle.BusinessId,
		Name:                   vehicle.Name,
		VehicleId:              &vehicle.ID,
		CategoryId:             categoryId,
		BusinessType:           vehicle.BusinessType,
		MakeId:                 vehicle.MakeId,
		ModelId:                vehicle.ModelId,
		Year:                   vehicle.Year,
		Color:                  vehicle.Color,
		Trim:                   vehicle.Trim,
		EngineSize:             vehicle.EngineSize,
		FuelType:               vehicle.FuelType,
		Transmission:           vehicle.Transmission,
		Condition:              vehicle.Condition,
		ListPrice:              vehicle.SellingPrice,
		CostPrice:              vehicle.PurchasePrice,
		DefaultCommissionType:  vehicle.CommissionType,
		DefaultCommissionValue: vehicle.CommissionValue,
		DefaultVendorName:      vehicle.VendorName,
		IsSerialTracked:        utils.NewTrue(),
		IsAvailable:            utils.NewTrue(),
		IsPublished:            utils.NewFalse(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	if err := tx.Model(&Vehicle{}).Where("id = ?", vehicle.ID).
		Update("catalog_entry_id", entry.ID).Error; err != nil {
		return nil, err
	}
	vehicle.CatalogEntryId = &entry.ID

	if vehicle.VinNumber != nil && *vehicle.VinNumber != "" {
		serial := CatalogSerial{
			BusinessId:     vehicle.BusinessId,
			CatalogEntryId: entry.ID,
			SerialNumber:   *vehicle.VinNumber,
			Status:         SerialStatusInStock,
		}
		if err := tx.Create(&serial).Error; err != nil {
			return nil, err
		}
	}
	return &entry, nil
}

// EnsureCatalogEntry returns the vehicle's entry, synthesizing one
// inside the caller's transaction when it is missing.
func EnsureCatalogEntry(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) (*CatalogEntry, error) {
	if vehicle.CatalogEntryId != nil {
		var entry CatalogEntry
		if err := tx.First(&entry, *vehicle.CatalogEntryId).Error; err == nil {
			return &entry, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return createCatalogEntryForVehicle(ctx, tx, vehicle)
}

// pushCatalogEntryFromVehicle propagates display, pricing and
// classification changes. One-directional: Vehicle -> CatalogEntry.
func pushCatalogEntryFromVehicle(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	if vehicle.CatalogEntryId == nil {
		return nil
	}
	categoryId, err := resolveCategoryId(ctx, vehicle.BusinessId, vehicle.BusinessType)
	if err != nil {
		return err
	}

	err = tx.Model(&CatalogEntry{}).Where("id = ?", *vehicle.CatalogEntryId).
		Updates(map[string]interface{}{
			"Name":                   vehicle.Name,
			"CategoryId":             categoryId,
			"BusinessType":           vehicle.BusinessType,
			"MakeId":                 vehicle.MakeId,
			"ModelId":                vehicle.ModelId,
			"Year":                   vehicle.Year,
			"Color":                  vehicle.Color,
			"Trim":                   vehicle.Trim,
			"EngineSize":             vehicle.EngineSize,
			"FuelType":               vehicle.FuelType,
			"Transmission":           vehicle.Transmission,
			"Condition":              vehicle.Condition,
			"ListPrice":              vehicle.SellingPrice,
			"CostPrice":              vehicle.PurchasePrice,
			"DefaultCommissionType":  vehicle.CommissionType,
			"DefaultCommissionValue": vehicle.CommissionValue,
			"DefaultVendorName":      vehicle.VendorName,
		}).Error
	if err != nil {
		return err
	}
	if err := utils.RemoveRedisItem[CatalogEntry](*vehicle.CatalogEntryId); err != nil {
		return err
	}
	return utils.RemoveRedisList[CatalogEntry](vehicle.BusinessId)
}

// AvailableSerialCount counts in-stock units of a catalog entry.
func AvailableSerialCount(tx *gorm.DB, catalogEntryId int) (int64, error) {
	var count int64
	err := tx.Model(&CatalogSerial{}).
		Where("catalog_entry_id = ? AND status = ?", catalogEntryId, SerialStatusInStock).
		Count(&count).Error
	return count, err
}

func MarkCatalogEntryAvailability(tx *gorm.DB, catalogEntryId int, available bool) error {
	return tx.Model(&CatalogEntry{}).Where("id = ?", catalogEntryId).
		Update("is_available", available).Error
}

func GetCatalogEntry(ctx context.Context, id int) (*CatalogEntry, error) {
	return GetResource[CatalogEntry](ctx, id, "Category")
}

func ListCatalogEntries(ctx context.Context, availableOnly bool, publishedOnly bool) ([]*CatalogEntry, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*CatalogEntry

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if availableOnly {
		dbCtx = dbCtx.Where("is_available = ?", true)
	}
	if publishedOnly {
		dbCtx = dbCtx.Where("is_published = ?", true)
	}
	err := dbCtx.Preload("Category").Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func PublishCatalogEntry(ctx context.Context, id int, publish bool) (*CatalogEntry, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	entry, err := utils.FetchModel[CatalogEntry](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&entry).
		Update("is_published", publish).Error; err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func ListCatalogSerials(ctx context.Context, catalogEntryId int, status *string) ([]*CatalogSerial, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*CatalogSerial
	dbCtx := db.WithContext(ctx).
		Where("business_id = ? AND catalog_entry_id = ?", businessId, catalogEntryId)
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
