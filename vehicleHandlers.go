package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mattobell/dealer_backend/middlewares"
	"github.com/mattobell/dealer_backend/models"
)

func registerVehicleRoutes(r *gin.Engine) {
	r.GET("/vehicles", listVehiclesHandler())
	r.POST("/vehicles", createVehicleHandler())
	r.GET("/vehicles/:id", getVehicleHandler())
	r.PUT("/vehicles/:id", updateVehicleHandler())
	r.DELETE("/vehicles/:id", deleteVehicleHandler())
	r.POST("/vehicles/:id/toggle-active", toggleVehicleHandler())
	r.POST("/vehicles/:id/make-available", vehicleTransitionHandler(models.MakeVehicleAvailable))
	r.POST("/vehicles/:id/reserve", vehicleTransitionHandler(models.ReserveVehicle))
	r.POST("/vehicles/:id/release", vehicleTransitionHandler(models.MakeVehicleAvailable))
	r.POST("/vehicles/:id/return", vehicleTransitionHandler(models.ReturnVehicle))
	r.POST("/vehicles/:id/images", attachVehicleImagesHandler())
	r.GET("/vehicles/:id/history", vehicleHistoryHandler())
}

type vehicleResponse struct {
	*models.Vehicle
	MakeName  string                 `json:"make_name,omitempty"`
	ModelName string                 `json:"model_name,omitempty"`
	Images    []*models.VehicleImage `json:"images,omitempty"`
}

func decorateVehicle(c *gin.Context, vehicle *models.Vehicle, withImages bool) vehicleResponse {
	resp := vehicleResponse{Vehicle: vehicle}
	ctx := c.Request.Context()
	if vehicle.MakeId > 0 {
		if mk, err := middlewares.GetCarMake(ctx, vehicle.MakeId); err == nil && mk != nil {
			resp.MakeName = mk.Name
		}
	}
	if vehicle.ModelId > 0 {
		if md, err := middlewares.GetCarModel(ctx, vehicle.ModelId); err == nil && md != nil {
			resp.ModelName = md.Name
		}
	}
	if withImages {
		if images, err := middlewares.GetVehicleImages(ctx, vehicle.ID); err == nil {
			resp.Images = images
		}
	}
	return resp
}

func createVehicleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewVehicle
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		vehicle, err := models.CreateVehicle(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

func updateVehicleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewVehicle
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		vehicle, err := models.UpdateVehicle(c.Request.Context(), id, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

func deleteVehicleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		vehicle, err := models.DeleteVehicle(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

func getVehicleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		vehicle, err := models.GetVehicle(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
			return
		}
		c.JSON(http.StatusOK, decorateVehicle(c, vehicle, true))
	}
}

func listVehiclesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.VehicleFilter
		if v := c.Query("state"); v != "" {
			state := models.VehicleState(v)
			filter.State = &state
		}
		if v := c.Query("business_type"); v != "" {
			bt := models.VehicleBusinessType(v)
			filter.BusinessType = &bt
		}
		if v := c.Query("make_id"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid make_id"})
				return
			}
			filter.MakeId = &n
		}
		if v := c.Query("model_id"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model_id"})
				return
			}
			filter.ModelId = &n
		}
		if v := c.Query("vin"); v != "" {
			filter.Vin = &v
		}

		vehicles, err := models.ListVehicle(c.Request.Context(), &filter)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// warm the loaders so per-row decoration is a single batch query
		makeIds := make([]int, 0, len(vehicles))
		modelIds := make([]int, 0, len(vehicles))
		for _, vehicle := range vehicles {
			if vehicle.MakeId > 0 {
				makeIds = append(makeIds, vehicle.MakeId)
			}
			if vehicle.ModelId > 0 {
				modelIds = append(modelIds, vehicle.ModelId)
			}
		}
		middlewares.GetCarMakes(c.Request.Context(), makeIds)
		middlewares.GetCarModels(c.Request.Context(), modelIds)

		results := make([]vehicleResponse, 0, len(vehicles))
		for _, vehicle := range vehicles {
			results = append(results, decorateVehicle(c, vehicle, false))
		}
		c.JSON(http.StatusOK, results)
	}
}

func toggleVehicleHandler() gin.HandlerFunc {
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
		vehicle, err := models.ToggleActiveVehicle(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

func vehicleTransitionHandler(transition func(ctx context.Context, id int) (*models.Vehicle, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		vehicle, err := transition(c.Request.Context(), id)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, models.ErrInvalidTransition) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

func attachVehicleImagesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var inputs []*models.NewVehicleImage
		if err := c.ShouldBindJSON(&inputs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		images, err := models.AttachVehicleImages(c.Request.Context(), id, inputs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, images)
	}
}

func vehicleHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		refType := "vehicles"
		histories, err := models.GetHistories(c.Request.Context(), &id, &refType, nil)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, histories)
	}
}
