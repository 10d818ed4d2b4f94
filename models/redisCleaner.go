package models

import (
	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
)

type RedisCleaner interface {
	RemoveInstanceRedis() error // remove one
	RemoveAllRedis() error      // remove cached list if exists
}

// remove both item & list
func RemoveRedisBoth[T RedisCleaner](obj T) error {
	if err := obj.RemoveInstanceRedis(); err != nil {
		return err
	}
	if err := obj.RemoveAllRedis(); err != nil {
		return err
	}
	return nil
}

func (obj CarMake) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[CarMake](obj.ID)
}

func (obj CarMake) RemoveAllRedis() error {
	return utils.RemoveRedisList[CarMake](obj.BusinessId)
}

func (obj CarModel) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[CarModel](obj.ID)
}

func (obj CarModel) RemoveAllRedis() error {
	return utils.RemoveRedisList[CarModel](obj.BusinessId)
}

func (obj CarFeature) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[CarFeature](obj.ID)
}

func (obj CarFeature) RemoveAllRedis() error {
	return utils.RemoveRedisList[CarFeature](obj.BusinessId)
}

func (obj CatalogEntry) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[CatalogEntry](obj.ID)
}

func (obj CatalogEntry) RemoveAllRedis() error {
	return utils.RemoveRedisList[CatalogEntry](obj.BusinessId)
}

// categories are cached as a name-to-id map per business
func (obj CatalogCategory) RemoveInstanceRedis() error {
	return nil
}

func (obj CatalogCategory) RemoveAllRedis() error {
	return config.RemoveRedisKey("CatalogCategoryMap:" + obj.BusinessId)
}

func (obj Vehicle) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Vehicle](obj.ID)
}

func (obj Vehicle) RemoveAllRedis() error {
	return utils.RemoveRedisList[Vehicle](obj.BusinessId)
}

func (obj Lease) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Lease](obj.ID)
}

func (obj Lease) RemoveAllRedis() error {
	return utils.RemoveRedisList[Lease](obj.BusinessId)
}

func (obj TestDrive) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[TestDrive](obj.ID)
}

func (obj TestDrive) RemoveAllRedis() error {
	return utils.RemoveRedisList[TestDrive](obj.BusinessId)
}

func (obj ServiceRecord) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[ServiceRecord](obj.ID)
}

func (obj ServiceRecord) RemoveAllRedis() error {
	return utils.RemoveRedisList[ServiceRecord](obj.BusinessId)
}
