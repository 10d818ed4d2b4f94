package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mattobell/dealer_backend/utils"
	"gorm.io/gorm"
)

// PublishSync implements the transactional outbox: it writes the sync
// record inside the caller's DB transaction but does NOT dispatch it.
// Processing is performed asynchronously by the dispatcher after commit.
func PublishSync(ctx context.Context, db *gorm.DB, businessId string, eventDateTime time.Time, refId int, refType SyncReferenceType, obj interface{}, oldObj interface{}, action SyncMessageAction) error {

	var objInByte []byte
	var oldObjInByte []byte
	var err error

	if action == SyncMessageActionCreate || action == SyncMessageActionUpdate {
		objInByte, err = json.Marshal(obj)
		if err != nil {
			return err
		}
	}
	if action == SyncMessageActionUpdate || action == SyncMessageActionDelete {
		oldObjInByte, err = json.Marshal(oldObj)
		if err != nil {
			return err
		}
	}

	record := SyncRecord{
		BusinessId:    businessId,
		EventDateTime: eventDateTime,
		ReferenceId:   refId,
		ReferenceType: refType,
		Action:        action,
		NewObj:        objInByte,
		OldObj:        oldObjInByte,
		IsProcessed:   false,
		PublishStatus: OutboxPublishStatusPending,
		CorrelationId: correlationIdFromContextOrNew(ctx),
	}
	return db.Create(&record).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

type HasId struct {
	Id int `json:"id"`
}

type HasIsDeleted struct {
	IsDeleted bool `json:"is_deleted"`
}
