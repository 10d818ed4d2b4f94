package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"

	"github.com/mattobell/dealer_backend/models"
)

type carMakeReader struct {
	db *gorm.DB
}

func (r *carMakeReader) getCarMakes(ctx context.Context, ids []int) []*dataloader.Result[*models.CarMake] {
	var results []models.CarMake
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.CarMake](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

func GetCarMake(ctx context.Context, id int) (*models.CarMake, error) {
	loaders := For(ctx)
	return loaders.carMakeLoader.Load(ctx, id)()
}

func GetCarMakes(ctx context.Context, ids []int) ([]*models.CarMake, []error) {
	loaders := For(ctx)
	return loaders.carMakeLoader.LoadMany(ctx, ids)()
}
