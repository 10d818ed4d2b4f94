package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"

	"github.com/mattobell/dealer_backend/models"
)

type carModelReader struct {
	db *gorm.DB
}

func (r *carModelReader) getCarModels(ctx context.Context, ids []int) []*dataloader.Result[*models.CarModel] {
	var results []models.CarModel
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.CarModel](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

func GetCarModel(ctx context.Context, id int) (*models.CarModel, error) {
	loaders := For(ctx)
	return loaders.carModelLoader.Load(ctx, id)()
}

func GetCarModels(ctx context.Context, ids []int) ([]*models.CarModel, []error) {
	loaders := For(ctx)
	return loaders.carModelLoader.LoadMany(ctx, ids)()
}
