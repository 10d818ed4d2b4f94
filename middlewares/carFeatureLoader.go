package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"

	"github.com/mattobell/dealer_backend/models"
)

type carFeatureReader struct {
	db *gorm.DB
}

func (r *carFeatureReader) getCarFeatures(ctx context.Context, ids []int) []*dataloader.Result[*models.CarFeature] {
	var results []models.CarFeature
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.CarFeature](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

func GetCarFeature(ctx context.Context, id int) (*models.CarFeature, error) {
	loaders := For(ctx)
	return loaders.carFeatureLoader.Load(ctx, id)()
}

func GetCarFeatures(ctx context.Context, ids []int) ([]*models.CarFeature, []error) {
	loaders := For(ctx)
	return loaders.carFeatureLoader.LoadMany(ctx, ids)()
}
