package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mattobell/dealer_backend/middlewares"
	"github.com/mattobell/dealer_backend/models"
)

func registerAgreementRoutes(r *gin.Engine) {
	r.GET("/leases", listLeasesHandler())
	r.POST("/leases", createLeaseHandler())
	r.GET("/leases/:id", getLeaseHandler())
	r.POST("/leases/:id/activate", leaseTransitionHandler(models.ActivateLease))
	r.POST("/leases/:id/expire", leaseTransitionHandler(models.ExpireLease))
	r.POST("/leases/:id/terminate", leaseTransitionHandler(models.TerminateLease))
	r.POST("/leases/:id/complete", leaseTransitionHandler(models.CompleteLease))

	r.GET("/test-drives", listTestDrivesHandler())
	r.POST("/test-drives", createTestDriveHandler())
	r.GET("/test-drives/:id", getTestDriveHandler())
	r.POST("/test-drives/:id/confirm", testDriveTransitionHandler(models.ConfirmTestDrive))
	r.POST("/test-drives/:id/cancel", testDriveTransitionHandler(models.CancelTestDrive))

	r.GET("/service-records", listServiceRecordsHandler())
	r.POST("/service-records", createServiceRecordHandler())
	r.GET("/service-records/:id", getServiceRecordHandler())
	r.PUT("/service-records/:id", updateServiceRecordHandler())
	r.DELETE("/service-records/:id", deleteServiceRecordHandler())
}

type leaseResponse struct {
	*models.Lease
	VehicleName string `json:"vehicle_name,omitempty"`
}

func decorateLease(c *gin.Context, lease *models.Lease) leaseResponse {
	resp := leaseResponse{Lease: lease}
	if vehicle, err := middlewares.GetVehicle(c.Request.Context(), lease.VehicleId); err == nil && vehicle != nil {
		resp.VehicleName = vehicle.Name
	}
	return resp
}

func createLeaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewLease
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		lease, err := models.CreateLease(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, lease)
	}
}

func getLeaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		lease, err := models.GetLease(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "lease not found"})
			return
		}
		c.JSON(http.StatusOK, decorateLease(c, lease))
	}
}

func listLeasesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var state *models.LeaseState
		if v := c.Query("state"); v != "" {
			s := models.LeaseState(v)
			state = &s
		}
		leases, err := models.ListLease(c.Request.Context(), state)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		results := make([]leaseResponse, 0, len(leases))
		for _, lease := range leases {
			results = append(results, decorateLease(c, lease))
		}
		c.JSON(http.StatusOK, results)
	}
}

func leaseTransitionHandler(transition func(ctx context.Context, id int) (*models.Lease, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		lease, err := transition(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, lease)
	}
}

type testDriveResponse struct {
	*models.TestDrive
	VehicleName string `json:"vehicle_name,omitempty"`
}

func createTestDriveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewTestDrive
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		testDrive, err := models.CreateTestDrive(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, testDrive)
	}
}

func getTestDriveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		testDrive, err := models.GetTestDrive(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "test drive not found"})
			return
		}
		resp := testDriveResponse{TestDrive: testDrive}
		if vehicle, err := middlewares.GetVehicle(c.Request.Context(), testDrive.VehicleId); err == nil && vehicle != nil {
			resp.VehicleName = vehicle.Name
		}
		c.JSON(http.StatusOK, resp)
	}
}

func listTestDrivesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicleId *int
		if v := c.Query("vehicle_id"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle_id"})
				return
			}
			vehicleId = &n
		}
		testDrives, err := models.ListTestDrive(c.Request.Context(), vehicleId)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		vehicleIds := make([]int, 0, len(testDrives))
		for _, testDrive := range testDrives {
			vehicleIds = append(vehicleIds, testDrive.VehicleId)
		}
		middlewares.GetVehicles(c.Request.Context(), vehicleIds)

		results := make([]testDriveResponse, 0, len(testDrives))
		for _, testDrive := range testDrives {
			resp := testDriveResponse{TestDrive: testDrive}
			if vehicle, err := middlewares.GetVehicle(c.Request.Context(), testDrive.VehicleId); err == nil && vehicle != nil {
				resp.VehicleName = vehicle.Name
			}
			results = append(results, resp)
		}
		c.JSON(http.StatusOK, results)
	}
}

func testDriveTransitionHandler(transition func(ctx context.Context, id int) (*models.TestDrive, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		testDrive, err := transition(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, testDrive)
	}
}

type serviceRecordResponse struct {
	*models.ServiceRecord
	VehicleName string `json:"vehicle_name,omitempty"`
}

func listServiceRecordsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicleId *int
		if v := c.Query("vehicle_id"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle_id"})
				return
			}
			vehicleId = &n
		}
		records, err := models.ListServiceRecord(c.Request.Context(), vehicleId)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		vehicleIds := make([]int, 0, len(records))
		for _, record := range records {
			vehicleIds = append(vehicleIds, record.VehicleId)
		}
		middlewares.GetVehicles(c.Request.Context(), vehicleIds)

		results := make([]serviceRecordResponse, 0, len(records))
		for _, record := range records {
			resp := serviceRecordResponse{ServiceRecord: record}
			if vehicle, err := middlewares.GetVehicle(c.Request.Context(), record.VehicleId); err == nil && vehicle != nil {
				resp.VehicleName = vehicle.Name
			}
			results = append(results, resp)
		}
		c.JSON(http.StatusOK, results)
	}
}

func createServiceRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewServiceRecord
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		record, err := models.CreateServiceRecord(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func updateServiceRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewServiceRecord
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		record, err := models.UpdateServiceRecord(c.Request.Context(), id, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func deleteServiceRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		record, err := models.DeleteServiceRecord(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func getServiceRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		record, err := models.GetServiceRecord(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "service record not found"})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
