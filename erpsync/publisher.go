package erpsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mattobell/dealer_backend/models"
)

// SyncEventEnvelope is the wire shape pushed to the host ERP's event
// ingestion endpoint for every outbox record.
type SyncEventEnvelope struct {
	MessageId     string          `json:"message_id"`
	BusinessId    string          `json:"business_id"`
	ReferenceId   int             `json:"reference_id"`
	ReferenceType string          `json:"reference_type"`
	Action        string          `json:"action"`
	EventDateTime string          `json:"event_date_time"`
	CorrelationId string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
	OldData       json.RawMessage `json:"old_data,omitempty"`
}

// Publisher delivers outbox records to the host ERP over HTTP. It
// satisfies workflow.SyncPublisher. The DB is resolved lazily so the
// publisher can be constructed before the connection is established.
type Publisher struct {
	getDB func() *gorm.DB

	mu      sync.Mutex
	clients map[string]*erpClient
}

func NewPublisher(getDB func() *gorm.DB) *Publisher {
	return &Publisher{
		getDB:   getDB,
		clients: make(map[string]*erpClient),
	}
}

func (p *Publisher) clientFor(businessId string) (*erpClient, error) {
	p.mu.Lock()
	if c, ok := p.clients[businessId]; ok {
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	db := p.getDB()
	if db == nil {
		return nil, errors.New("db is nil")
	}
	var conn models.ErpConnection
	err := db.
		Where("business_id = ? AND provider = ?", businessId, models.IntegrationProviderDealerERP).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	if conn.Status != models.IntegrationStatusConnected {
		return nil, fmt.Errorf("dealer erp connection for business %s is %s", businessId, conn.Status)
	}
	c, err := newErpClient(conn.AuthSecretRef)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.clients[businessId] = c
	p.mu.Unlock()
	return c, nil
}

// InvalidateClient drops the cached client after a connect, disconnect
// or credential change so the next publish picks up fresh settings.
func (p *Publisher) InvalidateClient(businessId string) {
	p.mu.Lock()
	delete(p.clients, businessId)
	p.mu.Unlock()
}

func (p *Publisher) PublishSyncRecord(ctx context.Context, record *models.SyncRecord) error {
	db := p.getDB()
	if db == nil {
		return errors.New("db is nil")
	}

	// Businesses without an ERP link have nowhere to deliver to; the
	// record is considered delivered so the outbox can drain.
	var connCount int64
	err := db.Model(&models.ErpConnection{}).
		Where("business_id = ? AND provider = ?", record.BusinessId, models.IntegrationProviderDealerERP).
		Count(&connCount).Error
	if err != nil {
		return err
	}
	if connCount == 0 {
		return nil
	}

	client, err := p.clientFor(record.BusinessId)
	if err != nil {
		return err
	}

	envelope := SyncEventEnvelope{
		MessageId:     fmt.Sprintf("sync-%d", record.ID),
		BusinessId:    record.BusinessId,
		ReferenceId:   record.ReferenceId,
		ReferenceType: string(record.ReferenceType),
		Action:        string(record.Action),
		EventDateTime: record.EventDateTime.UTC().Format(time.RFC3339),
		CorrelationId: record.CorrelationId,
		Data:          json.RawMessage(record.NewObj),
		OldData:       json.RawMessage(record.OldObj),
	}
	return client.postJSON(ctx, "/v1/events", envelope)
}
