package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"

	"github.com/mattobell/dealer_backend/models"
)

type vehicleReader struct {
	db *gorm.DB
}

func (r *vehicleReader) getVehicles(ctx context.Context, ids []int) []*dataloader.Result[*models.Vehicle] {
	var results []models.Vehicle
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Vehicle](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

func GetVehicle(ctx context.Context, id int) (*models.Vehicle, error) {
	loaders := For(ctx)
	return loaders.vehicleLoader.Load(ctx, id)()
}

func GetVehicles(ctx context.Context, ids []int) ([]*models.Vehicle, []error) {
	loaders := For(ctx)
	return loaders.vehicleLoader.LoadMany(ctx, ids)()
}

type vehicleImageReader struct {
	db *gorm.DB
}

func (r *vehicleImageReader) getVehicleImages(ctx context.Context, vehicleIds []int) []*dataloader.Result[[]*models.VehicleImage] {
	var results []models.VehicleImage
	if err := r.db.WithContext(ctx).Where("vehicle_id IN ?", vehicleIds).Find(&results).Error; err != nil {
		return handleError[[]*models.VehicleImage](len(vehicleIds), err)
	}
	return generateLoaderArrayResults(results, vehicleIds)
}

func GetVehicleImages(ctx context.Context, vehicleId int) ([]*models.VehicleImage, error) {
	loaders := For(ctx)
	return loaders.vehicleImageLoader.Load(ctx, vehicleId)()
}
