package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mattobell/dealer_backend/models"
	"github.com/mattobell/dealer_backend/utils"
	"github.com/mattobell/dealer_backend/workflow"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("dealer-backend")

type vehicleReceiptWebhookRequest struct {
	BusinessId string                  `json:"business_id"`
	Receipt    workflow.VehicleReceipt `json:"receipt"`
}

// vehicleReceiptWebhookHandler ingests a stock receipt from the host
// ERP. Lines are processed independently; the response reports a
// per-line decision so the caller can retry only what failed.
func vehicleReceiptWebhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req vehicleReceiptWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.BusinessId == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "business_id is required"})
			return
		}
		if err := authorizeInternalBusiness(c.Request.Context(), req.BusinessId); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx := utils.SetBusinessIdInContext(c.Request.Context(), req.BusinessId)
		ctx, span := tracer.Start(ctx, "webhook.vehicle-receipt")
		defer span.End()
		results, err := workflow.ProcessReceiptBatch(ctx, &req.Receipt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		failed := 0
		for _, result := range results {
			if result.Error != "" {
				failed++
			}
		}
		cid, _ := utils.GetCorrelationIdFromContext(ctx)
		c.JSON(http.StatusOK, gin.H{
			"business_id":       req.BusinessId,
			"receipt_reference": req.Receipt.ReceiptReference,
			"line_count":        len(results),
			"failed_count":      failed,
			"results":           results,
			"correlation_id":    cid,
		})
	}
}

type saleConfirmedWebhookRequest struct {
	BusinessId string                    `json:"business_id"`
	Sale       workflow.SaleConfirmation `json:"sale"`
}

func saleConfirmedWebhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req saleConfirmedWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.BusinessId == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "business_id is required"})
			return
		}
		if err := authorizeInternalBusiness(c.Request.Context(), req.BusinessId); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx := utils.SetBusinessIdInContext(c.Request.Context(), req.BusinessId)
		ctx, span := tracer.Start(ctx, "webhook.sale-confirmed")
		defer span.End()
		vehicle, err := workflow.ProcessSaleConfirmed(ctx, &req.Sale)
		if err != nil {
			c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		cid, _ := utils.GetCorrelationIdFromContext(ctx)
		c.JSON(http.StatusOK, gin.H{
			"business_id":    req.BusinessId,
			"vehicle_id":     vehicle.ID,
			"state":          vehicle.State,
			"sale_reference": vehicle.SaleReference,
			"correlation_id": cid,
		})
	}
}

type vehicleReturnWebhookRequest struct {
	BusinessId string                 `json:"business_id"`
	Return     workflow.VehicleReturn `json:"return"`
}

func vehicleReturnWebhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req vehicleReturnWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.BusinessId == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "business_id is required"})
			return
		}
		if err := authorizeInternalBusiness(c.Request.Context(), req.BusinessId); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx := utils.SetBusinessIdInContext(c.Request.Context(), req.BusinessId)
		ctx, span := tracer.Start(ctx, "webhook.vehicle-return")
		defer span.End()
		vehicle, err := workflow.ProcessVehicleReturn(ctx, &req.Return)
		if err != nil {
			c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		cid, _ := utils.GetCorrelationIdFromContext(ctx)
		c.JSON(http.StatusOK, gin.H{
			"business_id":    req.BusinessId,
			"vehicle_id":     vehicle.ID,
			"state":          vehicle.State,
			"correlation_id": cid,
		})
	}
}

func workflowErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrUnknownSerial):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
