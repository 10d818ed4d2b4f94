package erpsync

import "encoding/json"

type SyncModules struct {
	Makes    bool `json:"makes"`
	Models   bool `json:"models"`
	Features bool `json:"features"`
	Receipts bool `json:"receipts"`
	Sales    bool `json:"sales"`
	Returns  bool `json:"returns"`
}

func DefaultModules() SyncModules {
	return SyncModules{
		Makes:    true,
		Models:   true,
		Features: true,
		Receipts: true,
		Sales:    true,
		Returns:  false,
	}
}

func NormalizeModules(mod SyncModules) SyncModules {
	// Required modules must always be enabled.
	mod.Makes = true
	mod.Models = true
	mod.Receipts = true
	return mod
}

func DecodeModules(raw []byte) SyncModules {
	if len(raw) == 0 {
		return DefaultModules()
	}
	var mod SyncModules
	if err := json.Unmarshal(raw, &mod); err != nil {
		return DefaultModules()
	}
	return NormalizeModules(mod)
}

func EncodeModules(mod SyncModules) []byte {
	b, _ := json.Marshal(NormalizeModules(mod))
	return b
}

type CursorEntry struct {
	UpdatedSince string `json:"updated_since"`
	Cursor       string `json:"cursor"`
}

type CursorState struct {
	Makes    CursorEntry `json:"makes"`
	Models   CursorEntry `json:"models"`
	Features CursorEntry `json:"features"`
	Receipts CursorEntry `json:"receipts"`
	Sales    CursorEntry `json:"sales"`
	Returns  CursorEntry `json:"returns"`
}

func DecodeCursorState(raw []byte) CursorState {
	if len(raw) == 0 {
		return CursorState{}
	}
	var state CursorState
	if err := json.Unmarshal(raw, &state); err != nil {
		return CursorState{}
	}
	return state
}

func EncodeCursorState(state CursorState) []byte {
	b, _ := json.Marshal(state)
	return b
}

type ConnectRequest struct {
	TenantId   string `json:"tenantId"`
	TenantName string `json:"tenantName"`
	APIKey     string `json:"apiKey"`
}

type UpdateSettingsRequest struct {
	Modules SyncModules `json:"modules"`
}

type TriggerSyncRequest struct {
	Modules SyncModules `json:"modules"`
}

type StatusResponse struct {
	Connection        ConnectionResponse `json:"connection"`
	LastSyncAt        *string            `json:"lastSyncAt"`
	LastSuccessSyncAt *string            `json:"lastSuccessSyncAt"`
	Modules           SyncModules        `json:"modules"`
}

type ConnectionResponse struct {
	Status     string `json:"status"`
	TenantId   string `json:"tenantId"`
	TenantName string `json:"tenantName"`
}

type SyncHistoryResponse struct {
	Items []SyncRunResponse `json:"items"`
}

type SyncRunResponse struct {
	ID            uint    `json:"id"`
	Status        string  `json:"status"`
	StartedAt     *string `json:"startedAt"`
	FinishedAt    *string `json:"finishedAt"`
	DurationMs    int64   `json:"durationMs"`
	RecordsSynced int     `json:"recordsSynced"`
	ErrorCount    int     `json:"errorCount"`
	TriggeredBy   string  `json:"triggeredBy"`
}

type SyncRunDetailResponse struct {
	SyncRunResponse
	Errors []SyncErrorResponse `json:"errors"`
}

type SyncErrorResponse struct {
	ID         uint   `json:"id"`
	EntityType string `json:"entityType"`
	ExternalId string `json:"externalId"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
}

// Remote record shapes returned by the host ERP's pull endpoints.

type RemoteMake struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	LogoUrl string `json:"logo_url"`
}

type RemoteModel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MakeId   string `json:"make_id"`
	BodyType string `json:"body_type"`
}

type RemoteFeature struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type RemoteReceipt struct {
	ID                    string              `json:"id"`
	Reference             string              `json:"reference"`
	IsInternalDestination bool                `json:"is_internal_destination"`
	Lines                 []RemoteReceiptLine `json:"lines"`
}

type RemoteReceiptLine struct {
	CatalogEntryId int    `json:"catalog_entry_id"`
	SerialNumber   string `json:"serial_number"`
}

type RemoteSale struct {
	ID           string `json:"id"`
	Reference    string `json:"reference"`
	SerialNumber string `json:"serial_number"`
}

type RemoteReturn struct {
	ID           string `json:"id"`
	Reference    string `json:"reference"`
	SerialNumber string `json:"serial_number"`
	Reason       string `json:"reason"`
}
