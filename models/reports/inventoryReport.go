package reports

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type InventoryRow struct {
	VehicleId     int             `json:"vehicle_id"`
	Name          string          `json:"name"`
	VinNumber     *string         `json:"vin_number"`
	MakeName      string          `json:"make_name"`
	ModelName     string          `json:"model_name"`
	Year          int             `json:"year"`
	BusinessType  string          `json:"business_type"`
	State         string          `json:"state"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	NetPayable    decimal.Decimal `json:"net_payable"`
}

func getInventoryReport(ctx context.Context) ([]*InventoryRow, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	sql := `
SELECT
    vehicles.id AS vehicle_id,
    vehicles.name,
    vehicles.vin_number,
    car_makes.name AS make_name,
    car_models.name AS model_name,
    vehicles.year,
    vehicles.business_type,
    vehicles.state,
    vehicles.purchase_price,
    vehicles.selling_price,
    vehicles.net_payable
FROM
    vehicles
    LEFT JOIN car_makes ON car_makes.id = vehicles.make_id
    LEFT JOIN car_models ON car_models.id = vehicles.model_id
WHERE
    vehicles.business_id = ?
    AND vehicles.state IN ('available', 'reserved')
ORDER BY
    vehicles.id
`

	var records []*InventoryRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, businessId).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// WriteInventoryExcel renders the in-stock vehicle list as a worksheet.
func WriteInventoryExcel(ctx context.Context, w io.Writer) error {
	data, err := getInventoryReport(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet("Sheet1"); err != nil {
		return err
	}

	// Add headers
	f.SetCellValue("Sheet1", "A1", "VehicleId")
	f.SetCellValue("Sheet1", "B1", "Name")
	f.SetCellValue("Sheet1", "C1", "VIN")
	f.SetCellValue("Sheet1", "D1", "Make")
	f.SetCellValue("Sheet1", "E1", "Model")
	f.SetCellValue("Sheet1", "F1", "Year")
	f.SetCellValue("Sheet1", "G1", "BusinessType")
	f.SetCellValue("Sheet1", "H1", "State")
	f.SetCellValue("Sheet1", "I1", "PurchasePrice")
	f.SetCellValue("Sheet1", "J1", "SellingPrice")
	f.SetCellValue("Sheet1", "K1", "NetPayable")

	// Add data
	for i, d := range data {
		row := fmt.Sprint(i + 2)
		vin := ""
		if d.VinNumber != nil {
			vin = *d.VinNumber
		}
		f.SetCellValue("Sheet1", "A"+row, d.VehicleId)
		f.SetCellValue("Sheet1", "B"+row, d.Name)
		f.SetCellValue("Sheet1", "C"+row, vin)
		f.SetCellValue("Sheet1", "D"+row, d.MakeName)
		f.SetCellValue("Sheet1", "E"+row, d.ModelName)
		f.SetCellValue("Sheet1", "F"+row, d.Year)
		f.SetCellValue("Sheet1", "G"+row, d.BusinessType)
		f.SetCellValue("Sheet1", "H"+row, d.State)
		f.SetCellValue("Sheet1", "I"+row, d.PurchasePrice.InexactFloat64())
		f.SetCellValue("Sheet1", "J"+row, d.SellingPrice.InexactFloat64())
		f.SetCellValue("Sheet1", "K"+row, d.NetPayable.InexactFloat64())
	}

	return f.Write(w)
}
