package erpsync

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/models"
	"github.com/mattobell/dealer_backend/utils"
	"github.com/mattobell/dealer_backend/workflow"
)

// DispatchSyncRun executes a queued run in the background. A redis lock
// keeps overlapping triggers for the same business from racing each
// other over the shared cursor state.
func DispatchSyncRun(runId uint, businessId string) {
	go func() {
		ctx := utils.SetBusinessIdInContext(context.Background(), businessId)
		logger := config.GetLogger()

		if locker := config.GetRedisLock(); locker != nil {
			lock, err := locker.Obtain(config.GetRedisContext(), "ErpSyncRun:"+businessId, 10*time.Minute, nil)
			if err != nil {
				config.LogError(logger, "Worker.go", "DispatchSyncRun", "Obtain lock", businessId, err)
				markRunFailed(ctx, runId, businessId, "another sync is already running")
				return
			}
			defer lock.Release(config.GetRedisContext())
		}

		if err := processSyncRun(ctx, runId, businessId); err != nil {
			config.LogError(logger, "Worker.go", "DispatchSyncRun", "Process run", runId, err)
			markRunFailed(ctx, runId, businessId, err.Error())
		}
	}()
}

func markRunFailed(ctx context.Context, runId uint, businessId string, message string) {
	now := time.Now()
	_ = config.GetDB().WithContext(ctx).
		Model(&models.ErpSyncRun{}).
		Where("id = ? AND business_id = ? AND status IN ?", runId, businessId,
			[]string{models.SyncRunStatusQueued, models.SyncRunStatusRunning}).
		Updates(map[string]interface{}{
			"status":      models.SyncRunStatusFailed,
			"finished_at": now,
			"error_count": gorm.Expr("error_count + 1"),
		}).Error
	_ = config.GetDB().WithContext(ctx).Create(&models.ErpSyncError{
		SyncRunId:  runId,
		BusinessId: businessId,
		EntityType: "run",
		ErrorCode:  "run_failed",
		Message:    message,
		Retryable:  true,
	}).Error
}

func processSyncRun(ctx context.Context, runId uint, businessId string) error {
	if runId == 0 || businessId == "" {
		return errors.New("invalid sync run")
	}

	db := config.GetDB().WithContext(ctx)

	var run models.ErpSyncRun
	if err := db.Where("id = ? AND business_id = ?", runId, businessId).Take(&run).Error; err != nil {
		return err
	}

	if run.Status == models.SyncRunStatusSuccess || run.Status == models.SyncRunStatusFailed || run.Status == models.SyncRunStatusPartial {
		return nil
	}

	var conn models.ErpConnection
	if err := db.Where("id = ? AND business_id = ?", run.ConnectionId, businessId).Take(&conn).Error; err != nil {
		return err
	}
	if conn.Status != models.IntegrationStatusConnected {
		return errors.New("dealer erp not connected")
	}

	modules := DecodeModules(run.ModulesJSON)
	cursorState := DecodeCursorState(conn.CursorStateJSON)

	now := time.Now()
	startedAt := run.StartedAt
	if startedAt == nil {
		startedAt = &now
	}

	if err := db.Model(&run).Updates(map[string]interface{}{
		"status":     models.SyncRunStatusRunning,
		"started_at": startedAt,
	}).Error; err != nil {
		return err
	}

	client, err := newErpClient(conn.AuthSecretRef)
	if err != nil {
		return err
	}

	stats := map[string]int{
		"makes":    0,
		"models":   0,
		"features": 0,
		"receipts": 0,
		"sales":    0,
		"returns":  0,
	}
	errorCount := 0

	if modules.Makes {
		count, newCursor, newUpdatedSince, err := syncMakes(ctx, db, run.ID, businessId, conn, client, cursorState.Makes)
		if err != nil {
			errorCount++
			_ = createSyncError(ctx, db, run.ID, businessId, "makes", "", "sync_failed", err.Error(), nil, true)
		} else {
			stats["makes"] = count
			cursorState.Makes = CursorEntry{UpdatedSince: newUpdatedSince, Cursor: newCursor}
		}
	}

	if modules.Models {
		count, newCursor, newUpdatedSince, err := syncModels(ctx, db, run.ID, businessId, conn, client, cursorState.Models)
		if err != nil {
			errorCount++
			_ = createSyncError(ctx, db, run.ID, businessId, "models", "", "sync_failed", err.Error(), nil, true)
		} else {
			stats["models"] = count
			cursorState.Models = CursorEntry{UpdatedSince: newUpdatedSince, Cursor: newCursor}
		}
	}

	if modules.Features {
		count, newCursor, newUpdatedSince, err := syncFeatures(ctx, db, run.ID, businessId, conn, client, cursorState.Features)
		if err != nil {
			errorCount++
			_ = createSyncError(ctx, db, run.ID, businessId, "features", "", "sync_failed", err.Error(), nil, true)
		} else {
			stats["features"] = count
			cursorState.Features = CursorEntry{UpdatedSince: newUpdatedSince, Cursor: newCursor}
		}
	}

	if modules.Receipts {
		count, newCursor, newUpdatedSince, err := syncReceipts(ctx, db, run.ID, businessId, conn, client, cursorState.Receipts)
		if err != nil {
			errorCount++
			_ = createSyncError(ctx, db, run.ID, businessId, "receipts", "", "sync_failed", err.Error(), nil, true)
		} else {
			stats["receipts"] = count
			cursorState.Receipts = CursorEntry{UpdatedSince: newUpdatedSince, Cursor: newCursor}
		}
	}

	if modules.Sales {
		count, newCursor, newUpdatedSince, err := syncSales(ctx, db, run.ID, businessId, conn, client, cursorState.Sales)
		if err != nil {
			errorCount++
			_ = createSyncError(ctx, db, run.ID, businessId, "sales", "", "sync_failed", err.Error(), nil, true)
		} else {
			stats["sales"] = count
			cursorState.Sales = CursorEntry{UpdatedSince: newUpdatedSince, Cursor: newCursor}
		}
	}

	if modules.Returns {
		count, newCursor, newUpdatedSince, err := syncReturns(ctx, db, run.ID, businessId, conn, client, cursorState.Returns)
		if err != nil {
			errorCount++
			_ = createSyncError(ctx, db, run.ID, businessId, "returns", "", "sync_failed", err.Error(), nil, true)
		} else {
			stats["returns"] = count
			cursorState.Returns = CursorEntry{UpdatedSince: newUpdatedSince, Cursor: newCursor}
		}
	}

	finishedAt := time.Now()
	durationMs := finishedAt.Sub(*startedAt).Milliseconds()
	status := models.SyncRunStatusSuccess
	totalSynced := 0
	for _, count := range stats {
		totalSynced += count
	}
	if errorCount > 0 && totalSynced == 0 {
		status = models.SyncRunStatusFailed
	} else if errorCount > 0 {
		status = models.SyncRunStatusPartial
	}

	statsJSON, _ := json.Marshal(stats)
	cursorJSON := EncodeCursorState(cursorState)
	if err := db.Model(&run).Updates(map[string]interface{}{
		"status":            status,
		"finished_at":       finishedAt,
		"duration_ms":       durationMs,
		"records_synced":    totalSynced,
		"error_count":       errorCount,
		"stats_json":        statsJSON,
		"cursor_state_json": cursorJSON,
	}).Error; err != nil {
		return err
	}

	connUpdates := map[string]interface{}{
		"last_sync_at":      finishedAt,
		"cursor_state_json": cursorJSON,
	}
	if status == models.SyncRunStatusSuccess {
		connUpdates["last_success_sync_at"] = finishedAt
	}
	if err := db.Model(&models.ErpConnection{}).
		Where("id = ? AND business_id = ?", conn.ID, businessId).
		Updates(connUpdates).Error; err != nil {
		return err
	}

	return nil
}

func initialUpdatedSince(cursor CursorEntry, conn models.ErpConnection) string {
	updatedSince := strings.TrimSpace(cursor.UpdatedSince)
	if updatedSince == "" && conn.LastSuccessSyncAt != nil {
		updatedSince = conn.LastSuccessSyncAt.UTC().Format(time.RFC3339)
	}
	if updatedSince == "" {
		updatedSince = time.Now().Add(-30 * 24 * time.Hour).UTC().Format(time.RFC3339)
	}
	return updatedSince
}

func listParams(updatedSince string, nextCursor string) url.Values {
	params := url.Values{}
	params.Set("updated_since", updatedSince)
	if nextCursor != "" {
		params.Set("cursor", nextCursor)
	}
	params.Set("limit", "200")
	return params
}

func pageRecords(resp erpListResponse) []json.RawMessage {
	if len(resp.Data) > 0 {
		return resp.Data
	}
	return resp.Items
}

func syncMakes(ctx context.Context, db *gorm.DB, runID uint, businessId string, conn models.ErpConnection, client *erpClient, cursor CursorEntry) (int, string, string, error) {
	updatedSince := initialUpdatedSince(cursor, conn)
	nextCursor := strings.TrimSpace(cursor.Cursor)
	total := 0

	for {
		resp, err := client.getList(ctx, "/v1/makes", listParams(updatedSince, nextCursor))
		if err != nil {
			return total, nextCursor, updatedSince, err
		}

		for _, raw := range pageRecords(resp) {
			var mk RemoteMake
			if err := json.Unmarshal(raw, &mk); err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "make", "", "invalid_payload", err.Error(), raw, true)
				continue
			}
			extID := strings.TrimSpace(mk.ID)
			if extID == "" {
				_ = createSyncError(ctx, db, runID, businessId, "make", "", "missing_id", "make id missing", raw, false)
				continue
			}

			name := strings.TrimSpace(mk.Name)
			if name == "" {
				name = "ERP Make " + extID
			}

			input := &models.NewCarMake{
				Name:    name,
				Country: strings.TrimSpace(mk.Country),
				LogoUrl: strings.TrimSpace(mk.LogoUrl),
			}

			internalID, err := upsertMake(ctx, db, businessId, conn.ID, extID, input)
			if err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "make", extID, "sync_failed", err.Error(), raw, true)
				continue
			}
			total++
			_ = touchMapping(ctx, db, businessId, conn.ID, "make", extID, internalID, "")
		}

		if resp.NextCursor == "" || (resp.HasMore != nil && !*resp.HasMore) {
			return total, resp.NextCursor, updatedSince, nil
		}
		nextCursor = resp.NextCursor
	}
}

func syncModels(ctx context.Context, db *gorm.DB, runID uint, businessId string, conn models.ErpConnection, client *erpClient, cursor CursorEntry) (int, string, string, error) {
	updatedSince := initialUpdatedSince(cursor, conn)
	nextCursor := strings.TrimSpace(cursor.Cursor)
	total := 0

	for {
		resp, err := client.getList(ctx, "/v1/models", listParams(updatedSince, nextCursor))
		if err != nil {
			return total, nextCursor, updatedSince, err
		}

		for _, raw := range pageRecords(resp) {
			var mdl RemoteModel
			if err := json.Unmarshal(raw, &mdl); err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "model", "", "invalid_payload", err.Error(), raw, true)
				continue
			}
			extID := strings.TrimSpace(mdl.ID)
			if extID == "" {
				_ = createSyncError(ctx, db, runID, businessId, "model", "", "missing_id", "model id missing", raw, false)
				continue
			}

			// Makes sync before models in the same run, so a missing
			// mapping here means the make record itself failed.
			makeMapping, err := findMapping(ctx, db, businessId, conn.ID, "make", strings.TrimSpace(mdl.MakeId))
			if err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "model", extID, "mapping_error", err.Error(), raw, true)
				continue
			}
			if makeMapping == nil {
				_ = createSyncError(ctx, db, runID, businessId, "model", extID, "make_missing", "make not synced for model", raw, true)
				continue
			}
			makeID, err := strconv.Atoi(makeMapping.InternalId)
			if err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "model", extID, "mapping_error", err.Error(), raw, false)
				continue
			}

			name := strings.TrimSpace(mdl.Name)
			if name == "" {
				name = "ERP Model " + extID
			}

			input := &models.NewCarModel{
				Name:     name,
				MakeId:   makeID,
				BodyType: normalizeBodyType(mdl.BodyType),
			}

			internalID, err := upsertModel(ctx, db, businessId, conn.ID, extID, input)
			if err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "model", extID, "sync_failed", err.Error(), raw, true)
				continue
			}
			total++
			_ = touchMapping(ctx, db, businessId, conn.ID, "model", extID, internalID, "")
		}

		if resp.NextCursor == "" || (resp.HasMore != nil && !*resp.HasMore) {
			return total, resp.NextCursor, updatedSince, nil
		}
		nextCursor = resp.NextCursor
	}
}

func syncFeatures(ctx context.Context, db *gorm.DB, runID uint, businessId string, conn models.ErpConnection, client *erpClient, cursor CursorEntry) (int, string, string, error) {
	updatedSince := initialUpdatedSince(cursor, conn)
	nextCursor := strings.TrimSpace(cursor.Cursor)
	total := 0

	for {
		resp, err := client.getList(ctx, "/v1/features", listParams(updatedSince, nextCursor))
		if err != nil {
			return total, nextCursor, updatedSince, err
		}

		for _, raw := range pageRecords(resp) {
			var feat RemoteFeature
			if err := json.Unmarshal(raw, &feat); err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "feature", "", "invalid_payload", err.Error(), raw, true)
				continue
			}
			extID := strings.TrimSpace(feat.ID)
			if extID == "" {
				_ = createSyncError(ctx, db, runID, businessId, "feature", "", "missing_id", "feature id missing", raw, false)
				continue
			}

			name := strings.TrimSpace(feat.Name)
			if name == "" {
				name = "ERP Feature " + extID
			}

			input := &models.NewCarFeature{
				Name:     name,
				Category: normalizeFeatureCategory(feat.Category),
			}

			internalID, err := upsertFeature(ctx, db, businessId, conn.ID, extID, input)
			if err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "feature", extID, "sync_failed", err.Error(), raw, true)
				continue
			}
			total++
			_ = touchMapping(ctx, db, businessId, conn.ID, "feature", extID, internalID, "")
		}

		if resp.NextCursor == "" || (resp.HasMore != nil && !*resp.HasMore) {
			return total, resp.NextCursor, updatedSince, nil
		}
		nextCursor = resp.NextCursor
	}
}

func syncReceipts(ctx context.Context, db *gorm.DB, runID uint, businessId string, conn models.ErpConnection, client *erpClient, cursor CursorEntry) (int, string, string, error) {
	updatedSince := initialUpdatedSince(cursor, conn)
	nextCursor := strings.TrimSpace(cursor.Cursor)
	total := 0

	receiptsPath := strings.TrimSpace(os.Getenv("DEALER_ERP_RECEIPTS_PATH"))
	if receiptsPath == "" {
		receiptsPath = "/v1/receipts"
	}

	for {
		resp, err := client.getList(ctx, receiptsPath, listParams(updatedSince, nextCursor))
		if err != nil {
			return total, nextCursor, updatedSince, err
		}

		for _, raw := range pageRecords(resp) {
			var receipt RemoteReceipt
			if err := json.Unmarshal(raw, &receipt); err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "receipt", "", "invalid_payload", err.Error(), raw, true)
				continue
			}
			extID := strings.TrimSpace(receipt.ID)
			if extID == "" {
				_ = createSyncError(ctx, db, runID, businessId, "receipt", "", "missing_id", "receipt id missing", raw, false)
				continue
			}

			reference := strings.TrimSpace(receipt.Reference)
			if reference == "" {
				reference = "ERP-" + extID
			}

			batch := &workflow.VehicleReceipt{
				ReceiptReference:      reference,
				IsInternalDestination: receipt.IsInternalDestination,
			}
			for _, line := range receipt.Lines {
				batch.Lines = append(batch.Lines, workflow.ReceiptLine{
					CatalogEntryId: line.CatalogEntryId,
					SerialNumber:   line.SerialNumber,
				})
			}
			if len(batch.Lines) == 0 {
				_ = createSyncError(ctx, db, runID, businessId, "receipt", extID, "empty_lines", "no receipt lines", raw, false)
				continue
			}

			// Receipt lines are idempotent per serial, so re-processing
			// a receipt seen in an earlier run is a logged no-op.
			results, err := workflow.ProcessReceiptBatch(ctx, batch)
			if err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "receipt", extID, "sync_failed", err.Error(), raw, true)
				continue
			}
			lineFailed := false
			for _, result := range results {
				if result.Error != "" {
					lineFailed = true
					_ = createSyncError(ctx, db, runID, businessId, "receipt_line", result.SerialNumber, "line_failed", result.Error, raw, true)
				}
			}
			if lineFailed {
				continue
			}

			if mapping, err := findMapping(ctx, db, businessId, conn.ID, "receipt", extID); err == nil && mapping == nil {
				_ = createMapping(ctx, db, businessId, conn.ID, "receipt", extID, reference)
			}
			total++
			_ = touchMapping(ctx, db, businessId, conn.ID, "receipt", extID, reference, "")
		}

		if resp.NextCursor == "" || (resp.HasMore != nil && !*resp.HasMore) {
			return total, resp.NextCursor, updatedSince, nil
		}
		nextCursor = resp.NextCursor
	}
}

func syncSales(ctx context.Context, db *gorm.DB, runID uint, businessId string, conn models.ErpConnection, client *erpClient, cursor CursorEntry) (int, string, string, error) {
	updatedSince := initialUpdatedSince(cursor, conn)
	nextCursor := strings.TrimSpace(cursor.Cursor)
	total := 0

	salesPath := strings.TrimSpace(os.Getenv("DEALER_ERP_SALES_PATH"))
	if salesPath == "" {
		salesPath = "/v1/sales"
	}

	for {
		resp, err := client.getList(ctx, salesPath, listParams(updatedSince, nextCursor))
		if err != nil {
			return total, nextCursor, updatedSince, err
		}

		for _, raw := range pageRecords(resp) {
			var sale RemoteSale
			if err := json.Unmarshal(raw, &sale); err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "sale", "", "invalid_payload", err.Error(), raw, true)
				continue
			}
			extID := strings.TrimSpace(sale.ID)
			if extID == "" {
				_ = createSyncError(ctx, db, runID, businessId, "sale", "", "missing_id", "sale id missing", raw, false)
				continue
			}

			existing, err := findMapping(ctx, db, businessId, conn.ID, "sale", extID)
			if err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "sale", extID, "mapping_error", err.Error(), raw, true)
				continue
			}
			if existing != nil {
				total++
				continue
			}

			reference := strings.TrimSpace(sale.Reference)
			if reference == "" {
				reference = "ERP-" + extID
			}

			vehicle, err := workflow.ProcessSaleConfirmed(ctx, &workflow.SaleConfirmation{
				SaleReference: reference,
				SerialNumber:  sale.SerialNumber,
			})
			if err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "sale", extID, "sync_failed", err.Error(), raw, isRetryableWorkflowErr(err))
				continue
			}

			internalID := strconv.Itoa(vehicle.ID)
			if err := createMapping(ctx, db, businessId, conn.ID, "sale", extID, internalID); err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "sale", extID, "mapping_failed", err.Error(), raw, true)
				continue
			}
			total++
			_ = touchMapping(ctx, db, businessId, conn.ID, "sale", extID, internalID, "")
		}

		if resp.NextCursor == "" || (resp.HasMore != nil && !*resp.HasMore) {
			return total, resp.NextCursor, updatedSince, nil
		}
		nextCursor = resp.NextCursor
	}
}

func syncReturns(ctx context.Context, db *gorm.DB, runID uint, businessId string, conn models.ErpConnection, client *erpClient, cursor CursorEntry) (int, string, string, error) {
	updatedSince := initialUpdatedSince(cursor, conn)
	nextCursor := strings.TrimSpace(cursor.Cursor)
	total := 0

	for {
		resp, err := client.getList(ctx, "/v1/returns", listParams(updatedSince, nextCursor))
		if err != nil {
			return total, nextCursor, updatedSince, err
		}

		for _, raw := range pageRecords(resp) {
			var ret RemoteReturn
			if err := json.Unmarshal(raw, &ret); err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "return", "", "invalid_payload", err.Error(), raw, true)
				continue
			}
			extID := strings.TrimSpace(ret.ID)
			if extID == "" {
				_ = createSyncError(ctx, db, runID, businessId, "return", "", "missing_id", "return id missing", raw, false)
				continue
			}

			existing, err := findMapping(ctx, db, businessId, conn.ID, "return", extID)
			if err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "return", extID, "mapping_error", err.Error(), raw, true)
				continue
			}
			if existing != nil {
				total++
				continue
			}

			reference := strings.TrimSpace(ret.Reference)
			if reference == "" {
				reference = "ERP-" + extID
			}

			vehicle, err := workflow.ProcessVehicleReturn(ctx, &workflow.VehicleReturn{
				ReturnReference: reference,
				SerialNumber:    ret.SerialNumber,
				Reason:          strings.TrimSpace(ret.Reason),
			})
			if err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "return", extID, "sync_failed", err.Error(), raw, isRetryableWorkflowErr(err))
				continue
			}

			internalID := strconv.Itoa(vehicle.ID)
			if err := createMapping(ctx, db, businessId, conn.ID, "return", extID, internalID); err != nil {
				_ = createSyncError(ctx, db, runID, businessId, "return", extID, "mapping_failed", err.Error(), raw, true)
				continue
			}
			total++
			_ = touchMapping(ctx, db, businessId, conn.ID, "return", extID, internalID, "")
		}

		if resp.NextCursor == "" || (resp.HasMore != nil && !*resp.HasMore) {
			return total, resp.NextCursor, updatedSince, nil
		}
		nextCursor = resp.NextCursor
	}
}

func upsertMake(ctx context.Context, db *gorm.DB, businessId string, connectionId uint, externalId string, input *models.NewCarMake) (string, error) {
	mapping, err := findMapping(ctx, db, businessId, connectionId, "make", externalId)
	if err != nil {
		return "", err
	}

	if mapping != nil {
		internalID, err := strconv.Atoi(mapping.InternalId)
		if err != nil {
			return "", err
		}
		if _, err := models.UpdateCarMake(ctx, internalID, input); err != nil {
			return "", err
		}
		return mapping.InternalId, nil
	}

	carMake, err := models.CreateCarMake(ctx, input)
	if err != nil {
		return "", err
	}

	internalID := strconv.Itoa(carMake.ID)
	if err := createMapping(ctx, db, businessId, connectionId, "make", externalId, internalID); err != nil {
		return "", err
	}
	return internalID, nil
}

func upsertModel(ctx context.Context, db *gorm.DB, businessId string, connectionId uint, externalId string, input *models.NewCarModel) (string, error) {
	mapping, err := findMapping(ctx, db, businessId, connectionId, "model", externalId)
	if err != nil {
		return "", err
	}

	if mapping != nil {
		internalID, err := strconv.Atoi(mapping.InternalId)
		if err != nil {
			return "", err
		}
		if _, err := models.UpdateCarModel(ctx, internalID, input); err != nil {
			return "", err
		}
		return mapping.InternalId, nil
	}

	carModel, err := models.CreateCarModel(ctx, input)
	if err != nil {
		return "", err
	}

	internalID := strconv.Itoa(carModel.ID)
	if err := createMapping(ctx, db, businessId, connectionId, "model", externalId, internalID); err != nil {
		return "", err
	}
	return internalID, nil
}

func upsertFeature(ctx context.Context, db *gorm.DB, businessId string, connectionId uint, externalId string, input *models.NewCarFeature) (string, error) {
	mapping, err := findMapping(ctx, db, businessId, connectionId, "feature", externalId)
	if err != nil {
		return "", err
	}

	if mapping != nil {
		internalID, err := strconv.Atoi(mapping.InternalId)
		if err != nil {
			return "", err
		}
		if _, err := models.UpdateCarFeature(ctx, internalID, input); err != nil {
			return "", err
		}
		return mapping.InternalId, nil
	}

	feature, err := models.CreateCarFeature(ctx, input)
	if err != nil {
		return "", err
	}

	internalID := strconv.Itoa(feature.ID)
	if err := createMapping(ctx, db, businessId, connectionId, "feature", externalId, internalID); err != nil {
		return "", err
	}
	return internalID, nil
}

func isRetryableWorkflowErr(err error) bool {
	// Unknown serials usually mean the receipt has not landed yet;
	// invalid transitions never fix themselves.
	if errors.Is(err, models.ErrInvalidTransition) {
		return false
	}
	return true
}

// Unknown enum values from the remote side degrade to empty rather
// than failing the whole record.
func normalizeBodyType(raw string) models.BodyType {
	data, _ := json.Marshal(strings.ToLower(strings.TrimSpace(raw)))
	var bodyType models.BodyType
	if err := json.Unmarshal(data, &bodyType); err != nil {
		return ""
	}
	return bodyType
}

func normalizeFeatureCategory(raw string) models.FeatureCategory {
	data, _ := json.Marshal(strings.ToLower(strings.TrimSpace(raw)))
	var category models.FeatureCategory
	if err := json.Unmarshal(data, &category); err != nil {
		return ""
	}
	return category
}

func findMapping(ctx context.Context, db *gorm.DB, businessId string, connectionId uint, entityType string, externalId string) (*models.ErpEntityMapping, error) {
	var mapping models.ErpEntityMapping
	err := db.WithContext(ctx).
		Where("business_id = ? AND connection_id = ? AND provider = ? AND entity_type = ? AND external_id = ?",
			businessId, connectionId, models.IntegrationProviderDealerERP, entityType, externalId).
		Take(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}

func createMapping(ctx context.Context, db *gorm.DB, businessId string, connectionId uint, entityType string, externalId string, internalId string) error {
	mapping := models.ErpEntityMapping{
		BusinessId:   businessId,
		ConnectionId: connectionId,
		Provider:     models.IntegrationProviderDealerERP,
		EntityType:   entityType,
		ExternalId:   externalId,
		InternalId:   internalId,
	}
	return db.WithContext(ctx).Create(&mapping).Error
}

func touchMapping(ctx context.Context, db *gorm.DB, businessId string, connectionId uint, entityType string, externalId string, internalId string, updatedAt string) error {
	var metadata map[string]string
	if strings.TrimSpace(updatedAt) != "" {
		metadata = map[string]string{"updated_at": updatedAt}
	}
	metadataJSON, _ := json.Marshal(metadata)
	return db.WithContext(ctx).
		Model(&models.ErpEntityMapping{}).
		Where("business_id = ? AND connection_id = ? AND provider = ? AND entity_type = ? AND external_id = ?",
			businessId, connectionId, models.IntegrationProviderDealerERP, entityType, externalId).
		Updates(map[string]interface{}{
			"internal_id":   internalId,
			"last_seen_at":  time.Now(),
			"metadata_json": metadataJSON,
		}).Error
}

func createSyncError(ctx context.Context, db *gorm.DB, runId uint, businessId string, entityType string, externalId string, code string, message string, payload []byte, retryable bool) error {
	errRec := models.ErpSyncError{
		SyncRunId:   runId,
		BusinessId:  businessId,
		EntityType:  entityType,
		ExternalId:  externalId,
		ErrorCode:   code,
		Message:     message,
		PayloadJSON: payload,
		Retryable:   retryable,
	}
	return db.WithContext(ctx).Create(&errRec).Error
}
