package models

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vehicle is one physical unit on the lot. The VIN, when present, is
// unique across all vehicles; the unique index is the second line of
// defense behind the in-transaction check.
type Vehicle struct {
	ID         int     `gorm:"primary_key" json:"id"`
	BusinessId string  `gorm:"index;not null" json:"business_id"`
	Name       string  `gorm:"size:255;not null" json:"name"`
	VinNumber  *string `gorm:"size:64;uniqueIndex" json:"vin_number"`

	BusinessType VehicleBusinessType `gorm:"type:enum('owner','dealer_network','consigned');default:owner" json:"business_type"`

	MakeId       int              `gorm:"index;not null" json:"make_id" binding:"required"`
	Make         *CarMake         `gorm:"foreignKey:MakeId" json:"make,omitempty"`
	ModelId      int              `gorm:"index;not null" json:"model_id" binding:"required"`
	Model        *CarModel        `gorm:"foreignKey:ModelId" json:"model,omitempty"`
	Year         int              `json:"year"`
	Color        string           `gorm:"size:50" json:"color"`
	Trim         string           `gorm:"size:50" json:"trim"`
	EngineSize   string           `gorm:"size:50" json:"engine_size"`
	Mileage      decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0" json:"mileage"`
	FuelType     FuelType         `gorm:"type:enum('petrol','gasoline','diesel','hybrid','electric','cng','other')" json:"fuel_type"`
	Transmission TransmissionType `gorm:"type:enum('amt','manual','automatic','cvt')" json:"transmission"`
	Condition    VehicleCondition `gorm:"type:enum('new','foreign_used','local_used')" json:"condition"`

	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"purchase_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"selling_price"`
	CurrencyCode  string          `gorm:"size:3;default:'USD'" json:"currency_code"`

	VendorName      string          `gorm:"size:255" json:"vendor_name"`
	CommissionType  CommissionType  `gorm:"type:enum('percentage','fixed')" json:"commission_type"`
	CommissionValue decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"commission_value"`

	// derived money fields, recomputed on every write, never hand-set
	CommissionAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"commission_amount"`
	NetPayable       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"net_payable"`
	ProfitAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"profit_amount"`
	ProfitPercentage decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"profit_percentage"`

	State         VehicleState `gorm:"type:enum('draft','available','reserved','sold','returned');default:draft" json:"state"`
	SaleReference string       `gorm:"size:100" json:"sale_reference"`
	Quantity      int          `gorm:"not null;default:1" json:"quantity"`

	CatalogEntryId *int          `gorm:"index" json:"catalog_entry_id"`
	CatalogEntry   *CatalogEntry `gorm:"foreignKey:CatalogEntryId" json:"catalog_entry,omitempty"`

	Features []*CarFeature   `gorm:"many2many:vehicle_features" json:"features,omitempty"`
	Images   []*VehicleImage `gorm:"foreignKey:VehicleId" json:"images,omitempty"`

	IsActive *bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj Vehicle) GetBusinessId() string {
	return obj.BusinessId
}

type NewVehicle struct {
	VinNumber       *string             `json:"vin_number"`
	BusinessType    VehicleBusinessType `json:"business_type" binding:"required"`
	MakeId          int                 `json:"make_id" binding:"required"`
	ModelId         int                 `json:"model_id" binding:"required"`
	Year            int                 `json:"year"`
	Color           string              `json:"color"`
	Trim            string              `json:"trim"`
	EngineSize      string              `json:"engine_size"`
	Mileage         decimal.Decimal     `json:"mileage"`
	FuelType        FuelType            `json:"fuel_type"`
	Transmission    TransmissionType    `json:"transmission"`
	Condition       VehicleCondition    `json:"condition"`
	PurchasePrice   decimal.Decimal     `json:"purchase_price"`
	SellingPrice    decimal.Decimal     `json:"selling_price"`
	CurrencyCode    string              `json:"currency_code"`
	VendorName      string              `json:"vendor_name"`
	CommissionType  CommissionType      `json:"commission_type"`
	CommissionValue decimal.Decimal     `json:"commission_value"`
	FeatureIds      []int               `json:"feature_ids"`
	Description     string              `json:"description"`
}

/* derived money math */

// CalculateCommissionAmount: cost x value/100 for percentage, the raw
// value for fixed, zero otherwise. Owner stock never carries commission.
func CalculateCommissionAmount(businessType VehicleBusinessType, purchasePrice decimal.Decimal, commissionType CommissionType, commissionValue decimal.Decimal) decimal.Decimal {
	if !businessType.IsNonOwned() || purchasePrice.IsZero() {
		return decimal.Zero
	}
	switch commissionType {
	case CommissionTypePercentage:
		return purchasePrice.Mul(commissionValue).Div(decimal.NewFromInt(100))
	case CommissionTypeFixed:
		return commissionValue
	}
	return decimal.Zero
}

// CalculateNetPayable: cost minus commission for non-owned stock,
// plain cost otherwise.
func CalculateNetPayable(businessType VehicleBusinessType, purchasePrice decimal.Decimal, commissionAmount decimal.Decimal) decimal.Decimal {
	if businessType.IsNonOwned() {
		return purchasePrice.Sub(commissionAmount)
	}
	return purchasePrice
}

// CalculateProfit returns profit amount and percentage. Percentage uses
// purchase price as the denominator and is zero when cost is zero.
func CalculateProfit(sellingPrice decimal.Decimal, netPayable decimal.Decimal, purchasePrice decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	profit := sellingPrice.Sub(netPayable)
	if purchasePrice.IsZero() {
		return profit, decimal.Zero
	}
	percentage := profit.Div(purchasePrice).Mul(decimal.NewFromInt(100))
	return profit, percentage
}

// Recompute refreshes all derived money fields from their inputs.
func (v *Vehicle) Recompute() {
	v.CommissionAmount = CalculateCommissionAmount(v.BusinessType, v.PurchasePrice, v.CommissionType, v.CommissionValue)
	v.NetPayable = CalculateNetPayable(v.BusinessType, v.PurchasePrice, v.CommissionAmount)
	v.ProfitAmount, v.ProfitPercentage = CalculateProfit(v.SellingPrice, v.NetPayable, v.PurchasePrice)
}

// BuildDisplayName joins year, make, model, color, trim in that order,
// skipping empty fields. The ordering is load-bearing for tests and
// catalog round-trips, do not reorder.
func BuildDisplayName(year int, makeName, modelName, color, trim string) string {
	var parts []string
	if year > 0 {
		parts = append(parts, strconv.Itoa(year))
	}
	for _, part := range []string{makeName, modelName, color, trim} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

/* lifecycle */

var vehicleTransitions = map[VehicleState][]VehicleState{
	VehicleStateDraft:     {VehicleStateAvailable},
	VehicleStateAvailable: {VehicleStateReserved, VehicleStateSold},
	VehicleStateReserved:  {VehicleStateAvailable, VehicleStateSold},
	VehicleStateSold:      {VehicleStateReturned},
	VehicleStateReturned:  {},
}

// CanTransition reports whether from -> to is a legal lifecycle move.
// Returned is reachable only from sold and the workflow additionally
// restricts it to consigned stock.
func CanTransition(from VehicleState, to VehicleState) bool {
	for _, next := range vehicleTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

/* validation */

func validateVinUnique(ctx context.Context, tx *gorm.DB, vin string, exceptId int) error {
	if vin == "" {
		return nil
	}
	var count int64
	dbCtx := tx.WithContext(ctx).Model(&Vehicle{})
	if config.VINCaseInsensitive() {
		dbCtx = dbCtx.Where("LOWER(vin_number) = ? AND id != ?", strings.ToLower(vin), exceptId)
	} else {
		// exact match, BINARY defeats a case-insensitive collation
		dbCtx = dbCtx.Where("BINARY vin_number = ? AND id != ?", vin, exceptId)
	}
	if err := dbCtx.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateIdentifier
	}
	return nil
}

func validateClassification(businessType VehicleBusinessType, vendorName string, commissionType CommissionType, commissionValue decimal.Decimal) error {
	if !businessType.IsNonOwned() {
		return nil
	}
	if strings.TrimSpace(vendorName) == "" {
		return ErrIncompleteClassification
	}
	if commissionType == "" || commissionValue.IsZero() {
		return ErrIncompleteClassification
	}
	return nil
}

// validate input for both create & update. (id = 0 for create)
func (input *NewVehicle) validate(ctx context.Context, tx *gorm.DB, businessId string, id int) error {
	if input.VinNumber != nil {
		if err := validateVinUnique(ctx, tx, *input.VinNumber, id); err != nil {
			return err
		}
	}
	if err := validateClassification(input.BusinessType, input.VendorName, input.CommissionType, input.CommissionValue); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[CarMake](ctx, businessId, input.MakeId); err != nil {
		return errors.New("make not found")
	}
	if err := utils.ValidateResourceId[CarModel](ctx, businessId, input.ModelId); err != nil {
		return errors.New("model not found")
	}
	if len(input.FeatureIds) > 0 {
		if err := utils.ValidateResourcesId[CarFeature](ctx, businessId, input.FeatureIds); err != nil {
			return errors.New("feature not found")
		}
	}
	return nil
}

func (input *NewVehicle) mapInput(ctx context.Context, businessId string, makeName, modelName string) *Vehicle {
	currencyCode := input.CurrencyCode
	if currencyCode == "" {
		currencyCode = "USD"
	}
	vehicle := Vehicle{
		BusinessId:      businessId,
		Name:            BuildDisplayName(input.Year, makeName, modelName, input.Color, input.Trim),
		VinNumber:       input.VinNumber,
		BusinessType:    input.BusinessType,
		MakeId:          input.MakeId,
		ModelId:         input.ModelId,
		Year:            input.Year,
		Color:           input.Color,
		Trim:            input.Trim,
		EngineSize:      input.EngineSize,
		Mileage:         input.Mileage,
		FuelType:        input.FuelType,
		Transmission:    input.Transmission,
		Condition:       input.Condition,
		PurchasePrice:   input.PurchasePrice,
		SellingPrice:    input.SellingPrice,
		CurrencyCode:    currencyCode,
		VendorName:      input.VendorName,
		CommissionType:  input.CommissionType,
		CommissionValue: input.CommissionValue,
		State:           VehicleStateDraft,
		Quantity:        1,
	}
	vehicle.Recompute()
	return &vehicle
}

/* operations */

// CreateVehicle registers a vehicle and synthesizes its catalog entry.
// The VIN check and the insert share one transaction; the unique index
// backstops concurrent registrations.
func CreateVehicle(ctx context.Context, input *NewVehicle) (*Vehicle, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	make, err := GetCarMake(ctx, input.MakeId)
	if err != nil {
		return nil, errors.New("make not found")
	}
	model, err := GetCarModel(ctx, input.ModelId)
	if err != nil {
		return nil, errors.New("model not found")
	}

	db := config.GetDB()
	var vehicle *Vehicle
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := input.validate(ctx, tx, businessId, 0); err != nil {
			return err
		}

		vehicle = input.mapInput(ctx, businessId, make.Name, model.Name)
		if err := tx.Create(vehicle).Error; err != nil {
			return err
		}

		if len(input.FeatureIds) > 0 {
			var features []*CarFeature
			if err := tx.Where("business_id = ? AND id IN ?", businessId, input.FeatureIds).
				Find(&features).Error; err != nil {
				return err
			}
			if err := tx.Model(vehicle).Association("Features").Replace(features); err != nil {
				return err
			}
		}

		entry, err := createCatalogEntryForVehicle(ctx, tx, vehicle)
		if err != nil {
			return err
		}
		vehicle.CatalogEntry = entry

		if err := SaveHistoryCreate(tx.WithContext(ctx), vehicle.ID, vehicle, "Vehicle registered, catalog entry created: "+entry.Name); err != nil {
			return err
		}
		return PublishSync(ctx, tx, businessId, time.Now(), vehicle.ID, SyncReferenceTypeVehicle, vehicle, nil, SyncMessageActionCreate)
	})
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

// UpdateVehicle applies an attribute edit, revalidates, recomputes the
// derived fields and pushes the changes to the catalog entry.
func UpdateVehicle(ctx context.Context, id int, input *NewVehicle) (*Vehicle, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	old, err := utils.FetchModel[Vehicle](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	make, err := GetCarMake(ctx, input.MakeId)
	if err != nil {
		return nil, errors.New("make not found")
	}
	model, err := GetCarModel(ctx, input.ModelId)
	if err != nil {
		return nil, errors.New("model not found")
	}

	db := config.GetDB()
	var vehicle *Vehicle
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := input.validate(ctx, tx, businessId, id); err != nil {
			return err
		}

		vehicle = input.mapInput(ctx, businessId, make.Name, model.Name)
		vehicle.ID = id
		vehicle.State = old.State
		vehicle.SaleReference = old.SaleReference
		vehicle.CatalogEntryId = old.CatalogEntryId

		err := tx.Model(&Vehicle{ID: id}).Updates(map[string]interface{}{
			"Name":             vehicle.Name,
			"VinNumber":        vehicle.VinNumber,
			"BusinessType":     vehicle.BusinessType,
			"MakeId":           vehicle.MakeId,
			"ModelId":          vehicle.ModelId,
			"Year":             vehicle.Year,
			"Color":            vehicle.Color,
			"Trim":             vehicle.Trim,
			"EngineSize":       vehicle.EngineSize,
			"Mileage":          vehicle.Mileage,
			"FuelType":         vehicle.FuelType,
			"Transmission":     vehicle.Transmission,
			"Condition":        vehicle.Condition,
			"PurchasePrice":    vehicle.PurchasePrice,
			"SellingPrice":     vehicle.SellingPrice,
			"CurrencyCode":     vehicle.CurrencyCode,
			"VendorName":       vehicle.VendorName,
			"CommissionType":   vehicle.CommissionType,
			"CommissionValue":  vehicle.CommissionValue,
			"CommissionAmount": vehicle.CommissionAmount,
			"NetPayable":       vehicle.NetPayable,
			"ProfitAmount":     vehicle.ProfitAmount,
			"ProfitPercentage": vehicle.ProfitPercentage,
		}).Error
		if err != nil {
			return err
		}

		if len(input.FeatureIds) > 0 {
			var features []*CarFeature
			if err := tx.Where("business_id = ? AND id IN ?", businessId, input.FeatureIds).
				Find(&features).Error; err != nil {
				return err
			}
			if err := tx.Model(&Vehicle{ID: id}).Association("Features").Replace(features); err != nil {
				return err
			}
		}

		if catalogPushNeeded(old, vehicle) {
			if err := pushCatalogEntryFromVehicle(ctx, tx, vehicle); err != nil {
				return err
			}
		}

		if err := SaveHistoryUpdate(tx.WithContext(ctx), id, old, "Vehicle updated"); err != nil {
			return err
		}
		return PublishSync(ctx, tx, businessId, time.Now(), id, SyncReferenceTypeVehicle, vehicle, old, SyncMessageActionUpdate)
	})
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Vehicle](id); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// catalogPushNeeded: display, pricing and classification fields are the
// only ones that propagate.
func catalogPushNeeded(old *Vehicle, updated *Vehicle) bool {
	if old.Name != updated.Name {
		return true
	}
	if !old.SellingPrice.Equal(updated.SellingPrice) || !old.PurchasePrice.Equal(updated.PurchasePrice) {
		return true
	}
	if old.BusinessType != updated.BusinessType {
		return true
	}
	if old.CommissionType != updated.CommissionType || !old.CommissionValue.Equal(updated.CommissionValue) {
		return true
	}
	if old.VendorName != updated.VendorName {
		return true
	}
	return false
}

// DeleteVehicle removes a vehicle and cascades to its exclusively
// owned catalog entry and serials.
func DeleteVehicle(ctx context.Context, id int) (*Vehicle, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	vehicle, err := utils.FetchModel[Vehicle](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM vehicle_features WHERE vehicle_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", id).Delete(&VehicleImage{}).Error; err != nil {
			return err
		}
		if vehicle.CatalogEntryId != nil {
			if err := tx.Where("catalog_entry_id = ?", *vehicle.CatalogEntryId).
				Delete(&CatalogSerial{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&CatalogEntry{}, *vehicle.CatalogEntryId).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&Vehicle{}, id).Error; err != nil {
			return err
		}
		if err := SaveHistoryDelete(tx.WithContext(ctx), id, vehicle, "Vehicle deleted"); err != nil {
			return err
		}
		return PublishSync(ctx, tx, businessId, time.Now(), id, SyncReferenceTypeVehicle, nil, vehicle, SyncMessageActionDelete)
	})
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Vehicle](id); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func GetVehicle(ctx context.Context, id int) (*Vehicle, error) {
	return GetResource[Vehicle](ctx, id, "Make", "Model", "CatalogEntry", "Features", "Images")
}

// FindVehicleBySerial resolves a VIN to exactly one vehicle.
func FindVehicleBySerial(ctx context.Context, tx *gorm.DB, serial string) (*Vehicle, error) {
	if strings.TrimSpace(serial) == "" {
		return nil, ErrUnknownSerial
	}
	var vehicle Vehicle
	dbCtx := tx.WithContext(ctx)
	if config.VINCaseInsensitive() {
		dbCtx = dbCtx.Where("LOWER(vin_number) = ?", strings.ToLower(serial))
	} else {
		dbCtx = dbCtx.Where("BINARY vin_number = ?", serial)
	}
	if err := dbCtx.First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSerial
		}
		return nil, err
	}
	return &vehicle, nil
}

type VehicleFilter struct {
	State        *VehicleState
	BusinessType *VehicleBusinessType
	MakeId       *int
	ModelId      *int
	Vin          *string
}

func ListVehicle(ctx context.Context, filter *VehicleFilter) ([]*Vehicle, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*Vehicle

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if filter != nil {
		if filter.State != nil {
			dbCtx = dbCtx.Where("state = ?", *filter.State)
		}
		if filter.BusinessType != nil {
			dbCtx = dbCtx.Where("business_type = ?", *filter.BusinessType)
		}
		if filter.MakeId != nil && *filter.MakeId > 0 {
			dbCtx = dbCtx.Where("make_id = ?", *filter.MakeId)
		}
		if filter.ModelId != nil && *filter.ModelId > 0 {
			dbCtx = dbCtx.Where("model_id = ?", *filter.ModelId)
		}
		if filter.Vin != nil && len(*filter.Vin) > 0 {
			dbCtx = dbCtx.Where("vin_number LIKE ?", "%"+*filter.Vin+"%")
		}
	}
	err := dbCtx.Preload("Make").Preload("Model").Order("id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

/* state actions */

func transitionVehicle(ctx context.Context, id int, to VehicleState, note string, mutate func(*Vehicle, *gorm.DB) error) (*Vehicle, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var vehicle Vehicle
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", businessId).First(&vehicle, id).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		if !CanTransition(vehicle.State, to) {
			if config.StrictLifecycleGuards() {
				return ErrInvalidTransition
			}
			config.GetLogger().WithContext(ctx).
				Warnf("vehicle %d forced from %s to %s with lifecycle guards off", id, vehicle.State, to)
		}

		old := vehicle
		vehicle.State = to
		if mutate != nil {
			if err := mutate(&vehicle, tx); err != nil {
				return err
			}
		}
		updates := map[string]interface{}{"State": vehicle.State}
		if vehicle.SaleReference != old.SaleReference {
			updates["SaleReference"] = vehicle.SaleReference
		}
		if err := tx.Model(&Vehicle{ID: id}).Updates(updates).Error; err != nil {
			return err
		}
		if err := SaveHistoryNote(tx.WithContext(ctx), id, "vehicles", note); err != nil {
			return err
		}
		return PublishSync(ctx, tx, businessId, time.Now(), id, SyncReferenceTypeVehicle, &vehicle, &old, SyncMessageActionUpdate)
	})
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Vehicle](id); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func ToggleActiveVehicle(ctx context.Context, id int, isActive bool) (*Vehicle, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return ToggleActiveModel[Vehicle](ctx, businessId, id, isActive)
}

func MakeVehicleAvailable(ctx context.Context, id int) (*Vehicle, error) {
	return transitionVehicle(ctx, id, VehicleStateAvailable, "Vehicle is now available for sale.", nil)
}

func ReserveVehicle(ctx context.Context, id int) (*Vehicle, error) {
	return transitionVehicle(ctx, id, VehicleStateReserved, "Vehicle has been reserved.", nil)
}

// ReturnVehicle sends a consigned, sold vehicle back to its consignor.
func ReturnVehicle(ctx context.Context, id int) (*Vehicle, error) {
	return transitionVehicle(ctx, id, VehicleStateReturned, "Vehicle has been returned to consignor.",
		func(v *Vehicle, tx *gorm.DB) error {
			if v.BusinessType != VehicleBusinessTypeConsigned {
				return ErrInvalidTransition
			}
			if v.VinNumber != nil && *v.VinNumber != "" {
				if err := tx.Model(&CatalogSerial{}).
					Where("serial_number = ?", *v.VinNumber).
					Update("status", SerialStatusReturned).Error; err != nil {
					return err
				}
			}
			return nil
		})
}
