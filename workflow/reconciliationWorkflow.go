package workflow

import (
	"context"
	"errors"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/models"
	"github.com/mattobell/dealer_backend/utils"
	"gorm.io/gorm"
)

// ReconciliationReport summarizes one repair pass over the
// vehicle/catalog pairing.
type ReconciliationReport struct {
	MissingEntries     int `json:"missing_entries"`
	AvailabilityFixes  int `json:"availability_fixes"`
	SerialStatusFixes  int `json:"serial_status_fixes"`
	OrphanedSerialRows int `json:"orphaned_serial_rows"`
}

// ReconcileCatalog repairs drift between vehicles, catalog entries and
// serial units: every vehicle gets its entry back, availability is
// recomputed from in-stock serial counts and serial statuses are
// realigned with vehicle states. Run from the scheduler or on demand.
func ReconcileCatalog(ctx context.Context, businessId string) (*ReconciliationReport, error) {
	if businessId == "" {
		return nil, errors.New("business id is required")
	}
	logger := config.GetLogger()
	db := config.GetDB()
	report := &ReconciliationReport{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// vehicles that lost their catalog entry
		var orphans []*models.Vehicle
		if err := tx.
			Where("business_id = ? AND (catalog_entry_id IS NULL OR catalog_entry_id NOT IN (SELECT id FROM catalog_entries WHERE business_id = ?))",
				businessId, businessId).
			Find(&orphans).Error; err != nil {
			return err
		}
		for _, vehicle := range orphans {
			vehicle.CatalogEntryId = nil
			if _, err := models.EnsureCatalogEntry(ctx, tx, vehicle); err != nil {
				config.LogError(logger, "reconciliationWorkflow.go", "ReconcileCatalog", "EnsureCatalogEntry", vehicle.ID, err)
				return err
			}
			report.MissingEntries++
		}

		// serial rows whose status disagrees with the owning vehicle
		fixes := tx.Exec(`
			UPDATE catalog_serials cs
			JOIN vehicles v ON v.vin_number = cs.serial_number AND v.business_id = cs.business_id
			SET cs.status = CASE v.state
				WHEN 'sold' THEN 'sold'
				WHEN 'returned' THEN 'returned'
				ELSE 'in_stock'
			END
			WHERE cs.business_id = ?
			  AND cs.status != CASE v.state
				WHEN 'sold' THEN 'sold'
				WHEN 'returned' THEN 'returned'
				ELSE 'in_stock'
			END`, businessId)
		if fixes.Error != nil {
			return fixes.Error
		}
		report.SerialStatusFixes = int(fixes.RowsAffected)

		// serial rows pointing at entries that no longer exist
		orphaned := tx.Exec(`
			DELETE FROM catalog_serials
			WHERE business_id = ?
			  AND catalog_entry_id NOT IN (SELECT id FROM catalog_entries WHERE business_id = ?)`,
			businessId, businessId)
		if orphaned.Error != nil {
			return orphaned.Error
		}
		report.OrphanedSerialRows = int(orphaned.RowsAffected)

		// availability recomputed from the in-stock serial counts
		avail := tx.Exec(`
			UPDATE catalog_entries ce
			SET ce.is_available = (
				SELECT COUNT(*) > 0 FROM catalog_serials cs
				WHERE cs.catalog_entry_id = ce.id AND cs.status = 'in_stock'
			)
			WHERE ce.business_id = ?
			  AND ce.is_available != (
				SELECT COUNT(*) > 0 FROM catalog_serials cs
				WHERE cs.catalog_entry_id = ce.id AND cs.status = 'in_stock'
			)`, businessId)
		if avail.Error != nil {
			return avail.Error
		}
		report.AvailabilityFixes = int(avail.RowsAffected)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if report.MissingEntries+report.AvailabilityFixes+report.SerialStatusFixes+report.OrphanedSerialRows > 0 {
		config.LogInfo(logger, "reconciliationWorkflow.go", "ReconcileCatalog", "repairs applied", report)
		if err := utils.RemoveRedisList[models.CatalogEntry](businessId); err != nil {
			return nil, err
		}
		if err := utils.RemoveRedisList[models.Vehicle](businessId); err != nil {
			return nil, err
		}
	}
	return report, nil
}
