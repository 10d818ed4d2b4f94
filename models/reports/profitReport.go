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

type ProfitRow struct {
	VehicleId        int             `json:"vehicle_id"`
	Name             string          `json:"name"`
	BusinessType     string          `json:"business_type"`
	SaleReference    string          `json:"sale_reference"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	NetPayable       decimal.Decimal `json:"net_payable"`
	ProfitAmount     decimal.Decimal `json:"profit_amount"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
}

func getProfitReport(ctx context.Context) ([]*ProfitRow, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	sql := `
SELECT
    vehicles.id AS vehicle_id,
    vehicles.name,
    vehicles.business_type,
    vehicles.sale_reference,
    vehicles.purchase_price,
    vehicles.selling_price,
    vehicles.commission_amount,
    vehicles.net_payable,
    vehicles.profit_amount,
    vehicles.profit_percentage
FROM
    vehicles
WHERE
    vehicles.business_id = ?
    AND vehicles.state = 'sold'
ORDER BY
    vehicles.id
`

	var records []*ProfitRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, businessId).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// WriteProfitExcel renders sold vehicles with their commission and
// profit figures as a worksheet.
func WriteProfitExcel(ctx context.Context, w io.Writer) error {
	data, err := getProfitReport(ctx)
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
	f.SetCellValue("Sheet1", "C1", "BusinessType")
	f.SetCellValue("Sheet1", "D1", "SaleReference")
	f.SetCellValue("Sheet1", "E1", "PurchasePrice")
	f.SetCellValue("Sheet1", "F1", "SellingPrice")
	f.SetCellValue("Sheet1", "G1", "Commission")
	f.SetCellValue("Sheet1", "H1", "NetPayable")
	f.SetCellValue("Sheet1", "I1", "Profit")
	f.SetCellValue("Sheet1", "J1", "ProfitPct")

	// Add data
	for i, d := range data {
		row := fmt.Sprint(i + 2)
		f.SetCellValue("Sheet1", "A"+row, d.VehicleId)
		f.SetCellValue("Sheet1", "B"+row, d.Name)
		f.SetCellValue("Sheet1", "C"+row, d.BusinessType)
		f.SetCellValue("Sheet1", "D"+row, d.SaleReference)
		f.SetCellValue("Sheet1", "E"+row, d.PurchasePrice.InexactFloat64())
		f.SetCellValue("Sheet1", "F"+row, d.SellingPrice.InexactFloat64())
		f.SetCellValue("Sheet1", "G"+row, d.CommissionAmount.InexactFloat64())
		f.SetCellValue("Sheet1", "H"+row, d.NetPayable.InexactFloat64())
		f.SetCellValue("Sheet1", "I"+row, d.ProfitAmount.InexactFloat64())
		f.SetCellValue("Sheet1", "J"+row, d.ProfitPercentage.InexactFloat64())
	}

	return f.Write(w)
}
