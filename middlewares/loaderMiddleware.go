package middlewares

import (
	"context"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/models"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap your data loaders to inject via middleware
type Loaders struct {
	carMakeLoader      *dataloader.Loader[int, *models.CarMake]
	carModelLoader     *dataloader.Loader[int, *models.CarModel]
	carFeatureLoader   *dataloader.Loader[int, *models.CarFeature]
	catalogEntryLoader *dataloader.Loader[int, *models.CatalogEntry]
	vehicleLoader      *dataloader.Loader[int, *models.Vehicle]

	vehicleImageLoader  *dataloader.Loader[int, []*models.VehicleImage]
	catalogSerialLoader *dataloader.Loader[int, []*models.CatalogSerial]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders(conn *gorm.DB) *Loaders {
	carMakeReader := &carMakeReader{db: conn}
	carModelReader := &carModelReader{db: conn}
	carFeatureReader := &carFeatureReader{db: conn}
	catalogEntryReader := &catalogEntryReader{db: conn}
	vehicleReader := &vehicleReader{db: conn}
	vehicleImageReader := &vehicleImageReader{db: conn}
	catalogSerialReader := &catalogSerialReader{db: conn}

	return &Loaders{
		carMakeLoader:      dataloader.NewBatchedLoader(carMakeReader.getCarMakes, dataloader.WithWait[int, *models.CarMake](time.Millisecond)),
		carModelLoader:     dataloader.NewBatchedLoader(carModelReader.getCarModels, dataloader.WithWait[int, *models.CarModel](time.Millisecond)),
		carFeatureLoader:   dataloader.NewBatchedLoader(carFeatureReader.getCarFeatures, dataloader.WithWait[int, *models.CarFeature](time.Millisecond)),
		catalogEntryLoader: dataloader.NewBatchedLoader(catalogEntryReader.getCatalogEntries, dataloader.WithWait[int, *models.CatalogEntry](time.Millisecond)),
		vehicleLoader:      dataloader.NewBatchedLoader(vehicleReader.getVehicles, dataloader.WithWait[int, *models.Vehicle](time.Millisecond)),

		vehicleImageLoader:  dataloader.NewBatchedLoader(vehicleImageReader.getVehicleImages, dataloader.WithWait[int, []*models.VehicleImage](time.Millisecond)),
		catalogSerialLoader: dataloader.NewBatchedLoader(catalogSerialReader.getCatalogSerials, dataloader.WithWait[int, []*models.CatalogSerial](time.Millisecond)),
	}
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func For(ctx context.Context) *Loaders {
	return ctx.Value(loadersKey).(*Loaders)
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

// turns results from db into dataloader results
// (T must be a struct)
func generateLoaderResults[T models.Data](results []T, ids []int) []*dataloader.Result[*T] {
	resultMap := make(map[int]T)
	var resultZero T
	resultMap[0] = resultZero.GetDefault(0).(T)
	for _, result := range results {
		resultMap[result.GetId()] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		data := resultMap[id]
		if reflect.ValueOf(data).IsZero() {
			data = data.GetDefault(id).(T)
		}
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: &data})
	}
	return loaderResults
}

// T must be struct
// each id has many related results
func generateLoaderArrayResults[T models.RelatedData](results []T, referenceIds []int) (loaderResults []*dataloader.Result[[]*T]) {
	resultMap := make(map[int][]*T)
	for _, result := range results {
		// creating a new variable every turn, to avoid pointing to the address of result
		copy := result
		resultMap[result.GetReferenceId()] = append(resultMap[result.GetReferenceId()], &copy)
	}
	for _, id := range referenceIds {
		resultArray := resultMap[id]
		loaderResults = append(loaderResults, &dataloader.Result[[]*T]{Data: resultArray})
	}
	return loaderResults
}
