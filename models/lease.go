package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Lease is a rental contract against a single vehicle. The vehicle is
// held in reserved state for the life of the contract.
type Lease struct {
	ID         int    `gorm:"primary_key" json:"id"`
	BusinessId string `gorm:"index;not null" json:"business_id"`
	SequenceNo int64  `gorm:"not null" json:"sequence_no"`
	LeaseNo    string `gorm:"size:30;not null;index" json:"lease_no"`

	VehicleId int      `gorm:"index;not null" json:"vehicle_id" binding:"required"`
	Vehicle   *Vehicle `gorm:"foreignKey:VehicleId" json:"vehicle,omitempty"`

	CustomerName  string `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:255" json:"customer_email"`
	CustomerPhone string `gorm:"size:50" json:"customer_phone"`

	StartDate      time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate        time.Time       `gorm:"type:date;not null" json:"end_date"`
	LeaseTerm      int             `gorm:"not null;default:0" json:"lease_term"`
	MonthlyPayment decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"monthly_payment"`
	Deposit        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"deposit"`
	CurrencyCode   string          `gorm:"size:3;default:'USD'" json:"currency_code"`

	AnnualMileageLimit int             `gorm:"default:20000" json:"annual_mileage_limit"`
	ExcessMileageRate  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"excess_mileage_rate"`

	State LeaseState `gorm:"type:enum('draft','active','expired','terminated','completed');default:draft" json:"state"`

	ContractFileUrl string `json:"contract_file_url"`
	Notes           string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj Lease) GetBusinessId() string {
	return obj.BusinessId
}

type NewLease struct {
	VehicleId          int             `json:"vehicle_id" binding:"required"`
	CustomerName       string          `json:"customer_name" binding:"required"`
	CustomerEmail      string          `json:"customer_email"`
	CustomerPhone      string          `json:"customer_phone"`
	StartDate          time.Time       `json:"start_date" binding:"required"`
	EndDate            time.Time       `json:"end_date" binding:"required"`
	MonthlyPayment     decimal.Decimal `json:"monthly_payment"`
	Deposit            decimal.Decimal `json:"deposit"`
	CurrencyCode       string          `json:"currency_code"`
	AnnualMileageLimit int             `json:"annual_mileage_limit"`
	ExcessMileageRate  decimal.Decimal `json:"excess_mileage_rate"`
	ContractFileUrl    string          `json:"contract_file_url"`
	Notes              string          `json:"notes"`
}

// LeaseTermMonths counts whole calendar months between the two dates.
func LeaseTermMonths(start, end time.Time) int {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	return months
}

var leaseTransitions = map[LeaseState][]LeaseState{
	LeaseStateDraft:      {LeaseStateActive, LeaseStateTerminated},
	LeaseStateActive:     {LeaseStateExpired, LeaseStateTerminated, LeaseStateCompleted},
	LeaseStateExpired:    {LeaseStateCompleted},
	LeaseStateTerminated: {},
	LeaseStateCompleted:  {},
}

func canLeaseTransition(from LeaseState, to LeaseState) bool {
	for _, next := range leaseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (input *NewLease) validate(ctx context.Context, businessId string) (*Vehicle, error) {
	if input.EndDate.Before(input.StartDate) {
		return nil, errors.New("end date must not be before start date")
	}
	if input.CustomerEmail != "" && !utils.IsValidEmail(input.CustomerEmail) {
		return nil, errors.New("invalid email address")
	}
	vehicle, err := utils.FetchModel[Vehicle](ctx, businessId, input.VehicleId)
	if err != nil {
		return nil, errors.New("vehicle not found")
	}
	// only unsold stock can be put on a contract
	if vehicle.State != VehicleStateAvailable && vehicle.State != VehicleStateReserved {
		return nil, ErrInvalidTransition
	}
	return vehicle, nil
}

// CreateLease opens a draft contract and reserves the vehicle.
func CreateLease(ctx context.Context, input *NewLease) (*Lease, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	vehicle, err := input.validate(ctx, businessId)
	if err != nil {
		return nil, err
	}

	seq, err := utils.GetSequence[Lease](ctx, businessId)
	if err != nil {
		return nil, err
	}

	currencyCode := input.CurrencyCode
	if currencyCode == "" {
		currencyCode = vehicle.CurrencyCode
	}
	mileageLimit := input.AnnualMileageLimit
	if mileageLimit == 0 {
		mileageLimit = 20000
	}

	lease := Lease{
		BusinessId:         businessId,
		SequenceNo:         seq,
		LeaseNo:            fmt.Sprintf("LSE-%06d", seq),
		VehicleId:          input.VehicleId,
		CustomerName:       input.CustomerName,
		CustomerEmail:      input.CustomerEmail,
		CustomerPhone:      input.CustomerPhone,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		LeaseTerm:          LeaseTermMonths(input.StartDate, input.EndDate),
		MonthlyPayment:     input.MonthlyPayment,
		Deposit:            input.Deposit,
		CurrencyCode:       currencyCode,
		AnnualMileageLimit: mileageLimit,
		ExcessMileageRate:  input.ExcessMileageRate,
		State:              LeaseStateDraft,
		ContractFileUrl:    input.ContractFileUrl,
		Notes:              input.Notes,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lease).Error; err != nil {
			return err
		}
		if vehicle.State == VehicleStateAvailable {
			if err := tx.Model(&Vehicle{ID: vehicle.ID}).
				Update("state", VehicleStateReserved).Error; err != nil {
				return err
			}
		}
		if err := SaveHistoryCreate(tx.WithContext(ctx), lease.ID, lease, "Lease contract created: "+lease.LeaseNo); err != nil {
			return err
		}
		return PublishSync(ctx, tx, businessId, time.Now(), lease.ID, SyncReferenceTypeLease, lease, nil, SyncMessageActionCreate)
	})
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Vehicle](vehicle.ID); err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(lease); err != nil {
		return nil, err
	}
	return &lease, nil
}

func transitionLease(ctx context.Context, id int, to LeaseState, releaseVehicle bool, note string) (*Lease, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var lease Lease
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", businessId).First(&lease, id).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		if !canLeaseTransition(lease.State, to) {
			return ErrInvalidTransition
		}
		old := lease
		lease.State = to
		if err := tx.Model(&Lease{ID: id}).Update("state", to).Error; err != nil {
			return err
		}
		if releaseVehicle {
			if err := tx.Model(&Vehicle{ID: lease.VehicleId}).
				Where("state = ?", VehicleStateReserved).
				Update("state", VehicleStateAvailable).Error; err != nil {
				return err
			}
		}
		if err := SaveHistoryNote(tx.WithContext(ctx), id, "leases", note); err != nil {
			return err
		}
		return PublishSync(ctx, tx, businessId, time.Now(), id, SyncReferenceTypeLease, &lease, &old, SyncMessageActionUpdate)
	})
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Vehicle](lease.VehicleId); err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(lease); err != nil {
		return nil, err
	}
	return &lease, nil
}

func ActivateLease(ctx context.Context, id int) (*Lease, error) {
	lease, err := transitionLease(ctx, id, LeaseStateActive, false, "Lease activated.")
	if err != nil {
		return nil, err
	}
	if err := ensureLeasePaymentEntry(ctx, lease); err != nil {
		return nil, err
	}
	return lease, nil
}

// ensureLeasePaymentEntry creates the recurring service entry billed
// against an active contract. One entry per lease, keyed by lease no.
func ensureLeasePaymentEntry(ctx context.Context, lease *Lease) error {
	categoryIds, err := EnsureCatalogCategories(ctx, lease.BusinessId)
	if err != nil {
		return err
	}

	name := "Lease Payment - " + lease.LeaseNo
	db := config.GetDB()
	var existing CatalogEntry
	err = db.WithContext(ctx).
		Where("business_id = ? AND name = ?", lease.BusinessId, name).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	entry := CatalogEntry{
		BusinessId:      lease.BusinessId,
		Name:            name,
		CategoryId:      categoryIds[categoryNameRoot],
		ListPrice:       lease.MonthlyPayment,
		CostPrice:       decimal.Zero,
		IsSerialTracked: utils.NewFalse(),
		IsAvailable:     utils.NewTrue(),
		IsPublished:     utils.NewFalse(),
		Description:     "Recurring monthly payment for lease contract " + lease.LeaseNo + ".",
	}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return err
	}
	return SaveHistoryNote(db.WithContext(ctx), lease.ID, "leases", "Lease payment service entry created: "+name)
}

func ExpireLease(ctx context.Context, id int) (*Lease, error) {
	return transitionLease(ctx, id, LeaseStateExpired, false, "Lease term expired.")
}

func TerminateLease(ctx context.Context, id int) (*Lease, error) {
	return transitionLease(ctx, id, LeaseStateTerminated, true, "Lease terminated early.")
}

func CompleteLease(ctx context.Context, id int) (*Lease, error) {
	return transitionLease(ctx, id, LeaseStateCompleted, true, "Lease completed, vehicle released.")
}

func GetLease(ctx context.Context, id int) (*Lease, error) {
	return GetResource[Lease](ctx, id, "Vehicle")
}

func ListLease(ctx context.Context, state *LeaseState) ([]*Lease, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*Lease
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if state != nil {
		dbCtx = dbCtx.Where("state = ?", *state)
	}
	if err := dbCtx.Preload("Vehicle").Order("start_date DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ExpireOverdueLeases moves every active lease whose end date has
// passed to expired. Run from the scheduler.
func ExpireOverdueLeases(ctx context.Context, businessId string) (int64, error) {
	db := config.GetDB()
	result := db.WithContext(ctx).Model(&Lease{}).
		Where("business_id = ? AND state = ? AND end_date < ?", businessId, LeaseStateActive, time.Now().Format("2006-01-02")).
		Update("state", LeaseStateExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		if err := utils.RemoveRedisList[Lease](businessId); err != nil {
			return result.RowsAffected, err
		}
	}
	return result.RowsAffected, nil
}
