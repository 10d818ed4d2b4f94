package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mattobell/dealer_backend/models/reports"
	"github.com/mattobell/dealer_backend/utils"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func inventoryReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Header("Content-Type", excelContentType)
		c.Header("Content-Disposition", "attachment; filename=inventory.xlsx")
		if err := reports.WriteInventoryExcel(c.Request.Context(), c.Writer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
}

func profitReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Header("Content-Type", excelContentType)
		c.Header("Content-Disposition", "attachment; filename=profit.xlsx")
		if err := reports.WriteProfitExcel(c.Request.Context(), c.Writer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
}
