package models

import (
	"time"

	"github.com/mattobell/dealer_backend/utils"
)

type Identifier interface {
	GetId() int
}

// interface for dataloader result
type Data interface {
	Identifier
	GetDefault(int) Data
}

func (m CarMake) GetId() int {
	return m.ID
}

func (m CarMake) GetDefault(id int) Data {
	return CarMake{
		ID:        id,
		IsActive:  utils.NewFalse(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (m CarModel) GetId() int {
	return m.ID
}

func (m CarModel) GetDefault(id int) Data {
	return CarModel{
		ID:        id,
		IsActive:  utils.NewFalse(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (f CarFeature) GetId() int {
	return f.ID
}

func (f CarFeature) GetDefault(id int) Data {
	return CarFeature{
		ID:        id,
		IsActive:  utils.NewFalse(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (e CatalogEntry) GetId() int {
	return e.ID
}

func (e CatalogEntry) GetDefault(id int) Data {
	return CatalogEntry{
		ID:              id,
		IsSerialTracked: utils.NewFalse(),
		IsAvailable:     utils.NewFalse(),
		IsPublished:     utils.NewFalse(),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

func (v Vehicle) GetId() int {
	return v.ID
}

func (v Vehicle) GetDefault(id int) Data {
	return Vehicle{
		ID:        id,
		State:     VehicleStateDraft,
		IsActive:  utils.NewFalse(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// loader loading more than one model by one id
type RelatedData interface {
	GetReferenceId() int
}

func (i VehicleImage) GetReferenceId() int {
	return i.VehicleId
}

func (s CatalogSerial) GetReferenceId() int {
	return s.CatalogEntryId
}
