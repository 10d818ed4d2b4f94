package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"

	"github.com/mattobell/dealer_backend/models"
)

type catalogEntryReader struct {
	db *gorm.DB
}

func (r *catalogEntryReader) getCatalogEntries(ctx context.Context, ids []int) []*dataloader.Result[*models.CatalogEntry] {
	var results []models.CatalogEntry
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.CatalogEntry](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

func GetCatalogEntry(ctx context.Context, id int) (*models.CatalogEntry, error) {
	loaders := For(ctx)
	return loaders.catalogEntryLoader.Load(ctx, id)()
}

func GetCatalogEntries(ctx context.Context, ids []int) ([]*models.CatalogEntry, []error) {
	loaders := For(ctx)
	return loaders.catalogEntryLoader.LoadMany(ctx, ids)()
}

type catalogSerialReader struct {
	db *gorm.DB
}

func (r *catalogSerialReader) getCatalogSerials(ctx context.Context, catalogEntryIds []int) []*dataloader.Result[[]*models.CatalogSerial] {
	var results []models.CatalogSerial
	if err := r.db.WithContext(ctx).Where("catalog_entry_id IN ?", catalogEntryIds).Find(&results).Error; err != nil {
		return handleError[[]*models.CatalogSerial](len(catalogEntryIds), err)
	}
	return generateLoaderArrayResults(results, catalogEntryIds)
}

func GetCatalogSerials(ctx context.Context, catalogEntryId int) ([]*models.CatalogSerial, error) {
	loaders := For(ctx)
	return loaders.catalogSerialLoader.Load(ctx, catalogEntryId)()
}
