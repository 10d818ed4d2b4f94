package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mattobell/dealer_backend/middlewares"
	"github.com/mattobell/dealer_backend/models"
)

func registerCatalogRoutes(r *gin.Engine) {
	r.GET("/makes", listCarMakesHandler())
	r.POST("/makes", createCarMakeHandler())
	r.GET("/makes/:id", getCarMakeHandler())
	r.PUT("/makes/:id", updateCarMakeHandler())
	r.DELETE("/makes/:id", deleteCarMakeHandler())
	r.POST("/makes/:id/toggle-active", toggleCarMakeHandler())

	r.GET("/models", listCarModelsHandler())
	r.POST("/models", createCarModelHandler())
	r.GET("/models/:id", getCarModelHandler())
	r.PUT("/models/:id", updateCarModelHandler())
	r.DELETE("/models/:id", deleteCarModelHandler())
	r.POST("/models/:id/toggle-active", toggleCarModelHandler())

	r.GET("/features", listCarFeaturesHandler())
	r.POST("/features", createCarFeatureHandler())
	r.GET("/features/:id", getCarFeatureHandler())
	r.PUT("/features/:id", updateCarFeatureHandler())
	r.DELETE("/features/:id", deleteCarFeatureHandler())
	r.POST("/features/:id/toggle-active", toggleCarFeatureHandler())

	r.GET("/catalog-entries", listCatalogEntriesHandler())
	r.GET("/catalog-entries/:id", getCatalogEntryHandler())
	r.POST("/catalog-entries/:id/publish", publishCatalogEntryHandler(true))
	r.POST("/catalog-entries/:id/unpublish", publishCatalogEntryHandler(false))
	r.GET("/catalog-entries/:id/serials", listCatalogSerialsHandler())
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func createCarMakeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCarMake
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		result, err := models.CreateCarMake(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func updateCarMakeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewCarMake
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		result, err := models.UpdateCarMake(c.Request.Context(), id, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteCarMakeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.DeleteCarMake(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getCarMakeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := middlewares.GetCarMake(c.Request.Context(), id)
		if err != nil || result == nil || result.ID == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "make not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listCarMakesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListCarMake(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

type toggleActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func toggleCarMakeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req toggleActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
			return
		}
		result, err := models.ToggleActiveCarMake(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func createCarModelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCarModel
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		result, err := models.CreateCarModel(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func updateCarModelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewCarModel
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		result, err := models.UpdateCarModel(c.Request.Context(), id, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteCarModelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.DeleteCarModel(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

type carModelResponse struct {
	*models.CarModel
	MakeName string `json:"make_name,omitempty"`
}

func getCarModelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := middlewares.GetCarModel(c.Request.Context(), id)
		if err != nil || result == nil || result.ID == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "model not found"})
			return
		}
		resp := carModelResponse{CarModel: result}
		if mk, err := middlewares.GetCarMake(c.Request.Context(), result.MakeId); err == nil && mk != nil {
			resp.MakeName = mk.Name
		}
		c.JSON(http.StatusOK, resp)
	}
}

func listCarModelsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var makeId *int
		if v := c.Query("make_id"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid make_id"})
				return
			}
			makeId = &n
		}
		results, err := models.ListCarModel(c.Request.Context(), makeId)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func toggleCarModelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req toggleActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
			return
		}
		result, err := models.ToggleActiveCarModel(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func createCarFeatureHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCarFeature
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		result, err := models.CreateCarFeature(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func updateCarFeatureHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewCarFeature
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		result, err := models.UpdateCarFeature(c.Request.Context(), id, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteCarFeatureHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.DeleteCarFeature(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getCarFeatureHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := middlewares.GetCarFeature(c.Request.Context(), id)
		if err != nil || result == nil || result.ID == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "feature not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listCarFeaturesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListCarFeature(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func toggleCarFeatureHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req toggleActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
			return
		}
		result, err := models.ToggleActiveCarFeature(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

type catalogEntryResponse struct {
	*models.CatalogEntry
	MakeName  string                  `json:"make_name,omitempty"`
	ModelName string                  `json:"model_name,omitempty"`
	Serials   []*models.CatalogSerial `json:"serials,omitempty"`
}

// decorateCatalogEntry enriches the row with batched make/model/serial
// lookups so list responses stay one query per related table.
func decorateCatalogEntry(c *gin.Context, entry *models.CatalogEntry, withSerials bool) catalogEntryResponse {
	resp := catalogEntryResponse{CatalogEntry: entry}
	ctx := c.Request.Context()
	if entry.MakeId > 0 {
		if mk, err := middlewares.GetCarMake(ctx, entry.MakeId); err == nil && mk != nil {
			resp.MakeName = mk.Name
		}
	}
	if entry.ModelId > 0 {
		if md, err := middlewares.GetCarModel(ctx, entry.ModelId); err == nil && md != nil {
			resp.ModelName = md.Name
		}
	}
	if withSerials {
		if serials, err := middlewares.GetCatalogSerials(ctx, entry.ID); err == nil {
			resp.Serials = serials
		}
	}
	return resp
}

func listCatalogEntriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		availableOnly := c.Query("available") == "true"
		publishedOnly := c.Query("published") == "true"
		entries, err := models.ListCatalogEntries(c.Request.Context(), availableOnly, publishedOnly)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		makeIds := make([]int, 0, len(entries))
		modelIds := make([]int, 0, len(entries))
		for _, entry := range entries {
			if entry.MakeId > 0 {
				makeIds = append(makeIds, entry.MakeId)
			}
			if entry.ModelId > 0 {
				modelIds = append(modelIds, entry.ModelId)
			}
		}
		middlewares.GetCarMakes(c.Request.Context(), makeIds)
		middlewares.GetCarModels(c.Request.Context(), modelIds)

		results := make([]catalogEntryResponse, 0, len(entries))
		for _, entry := range entries {
			results = append(results, decorateCatalogEntry(c, entry, false))
		}
		c.JSON(http.StatusOK, results)
	}
}

func getCatalogEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		entry, err := middlewares.GetCatalogEntry(c.Request.Context(), id)
		if err != nil || entry == nil || entry.ID == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "catalog entry not found"})
			return
		}
		c.JSON(http.StatusOK, decorateCatalogEntry(c, entry, true))
	}
}

func publishCatalogEntryHandler(publish bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		entry, err := models.PublishCatalogEntry(c.Request.Context(), id, publish)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

func listCatalogSerialsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var status *string
		if v := c.Query("status"); v != "" {
			status = &v
		}
		serials, err := models.ListCatalogSerials(c.Request.Context(), id, status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, serials)
	}
}
