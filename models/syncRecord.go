package models

import (
	"context"
	"errors"
	"time"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
)

// SyncRecord is the transactional outbox row for vehicle/catalog
// reconciliation. Producers write it inside their own DB transaction;
// the workflow dispatcher claims and processes rows after commit.
type SyncRecord struct {
	ID            int               `gorm:"primary_key;index:idx_sync_dispatch,priority:3" json:"id"`
	BusinessId    string            `gorm:"size:64;not null;index" json:"business_id"`
	EventDateTime time.Time         `gorm:"index;not null" json:"event_date_time"`
	ReferenceId   int               `json:"reference_id"`
	ReferenceType SyncReferenceType `gorm:"type:enum('VH','CE','RC','SL','RT','LS')" json:"reference_type"`
	Action        SyncMessageAction `gorm:"type:enum('C','U','D')" json:"action"`
	OldObj        []byte            `gorm:"type:blob" json:"old_obj"`
	NewObj        []byte            `gorm:"type:blob" json:"new_obj"`
	IsProcessed   bool              `gorm:"index;not null" json:"is_processed"`

	PublishStatus    string     `gorm:"size:20;index;not null;default:'PENDING';index:idx_sync_dispatch,priority:1" json:"publish_status"`
	PublishAttempts  int        `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time `gorm:"index;index:idx_sync_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time `gorm:"index" json:"locked_at"`
	LockedBy         *string    `gorm:"size:100" json:"locked_by"`
	LastPublishError *string    `gorm:"type:text" json:"last_publish_error"`

	LastProcessError *string    `gorm:"type:text" json:"last_process_error"`
	ProcessedAt      *time.Time `gorm:"index" json:"processed_at"`
	CorrelationId    string     `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetSyncRecord(ctx context.Context, id int) (*SyncRecord, error) {
	db := config.GetDB()
	var result SyncRecord
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func ListUnprocessedSyncRecords(ctx context.Context, businessId string, limit int) ([]*SyncRecord, error) {
	if businessId == "" {
		return nil, errors.New("business id is required")
	}
	db := config.GetDB()
	var results []*SyncRecord
	err := db.WithContext(ctx).
		Where("business_id = ? AND is_processed = ?", businessId, false).
		Order("id").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
