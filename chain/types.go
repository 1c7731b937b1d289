package chain

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Coin one coin object of a given coin type
type Coin struct {
	CoinType     string `json:"coinType"`
	CoinObjectId string `json:"coinObjectId"`
	Version      string `json:"version"`
	Digest       string `json:"digest"`
	Balance      uint64 `json:"balance,string"`
}

// CoinPage one page of suix_getCoins
type CoinPage struct {
	Data        []Coin  `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// OwnerKind discriminates the owner union
type OwnerKind string

const (
	OwnerAddress   OwnerKind = "AddressOwner"
	OwnerObject    OwnerKind = "ObjectOwner"
	OwnerShared    OwnerKind = "Shared"
	OwnerImmutable OwnerKind = "Immutable"
	OwnerUnknown   OwnerKind = "Unknown"
)

// Owner tagged union of object ownership
type Owner struct {
	Kind    OwnerKind
	Address string // set for AddressOwner and ObjectOwner
}

// ParseOwner validates the owner union at the boundary
func ParseOwner(raw gjson.Result) Owner {
	if !raw.Exists() {
		return Owner{Kind: OwnerUnknown}
	}
	if raw.Type == gjson.String {
		if raw.String() == string(OwnerImmutable) {
			return Owner{Kind: OwnerImmutable}
		}
		return Owner{Kind: OwnerUnknown}
	}
	if v := raw.Get(string(OwnerAddress)); v.Type == gjson.String && v.String() != "" {
		return Owner{Kind: OwnerAddress, Address: v.String()}
	}
	if v := raw.Get(string(OwnerObject)); v.Type == gjson.String && v.String() != "" {
		return Owner{Kind: OwnerObject, Address: v.String()}
	}
	if raw.Get(string(OwnerShared)).Exists() {
		return Owner{Kind: OwnerShared}
	}
	return Owner{Kind: OwnerUnknown}
}

// ObjectOptions display options for sui_getObject
type ObjectOptions struct {
	ShowType    bool `json:"showType,omitempty"`
	ShowOwner   bool `json:"showOwner,omitempty"`
	ShowContent bool `json:"showContent,omitempty"`
}

// ObjectData object returned by sui_getObject
type ObjectData struct {
	ObjectId string
	Version  string
	Digest   string
	Type     string
	Owner    Owner
	// DataType of content, "moveObject" or "package"
	DataType string
	// Fields raw JSON of content.fields, empty when content was not requested
	Fields json.RawMessage
}

// HasFields reports whether the object carries move struct fields
func (o *ObjectData) HasFields() bool {
	return o != nil && len(o.Fields) > 0 && gjson.ParseBytes(o.Fields).IsObject()
}

// Field looks up a field path inside content.fields
func (o *ObjectData) Field(path string) gjson.Result {
	if o == nil || len(o.Fields) == 0 {
		return gjson.Result{}
	}
	return gjson.GetBytes(o.Fields, path)
}

// EpochInfo result of suix_getCurrentEpoch
type EpochInfo struct {
	Epoch               uint64
	FirstCheckpointId   uint64
	EpochStartTimestamp uint64
	ReferenceGasPrice   uint64
}

// SystemState subset of suix_getLatestSuiSystemState
type SystemState struct {
	Epoch                 uint64          `json:"epoch"`
	ProtocolVersion       uint64          `json:"protocolVersion"`
	ReferenceGasPrice     uint64          `json:"referenceGasPrice"`
	TotalStake            uint64          `json:"totalStake"`
	EpochStartTimestampMs uint64          `json:"epochStartTimestampMs"`
	EpochDurationMs       uint64          `json:"epochDurationMs"`
	ActiveValidators      int             `json:"activeValidators"`
	Raw                   json.RawMessage `json:"-"`
}

// NetworkMetrics result of suix_getNetworkMetrics
type NetworkMetrics struct {
	CurrentTps        float64 `json:"currentTps"`
	Tps30Days         float64 `json:"tps30Days"`
	CurrentCheckpoint uint64  `json:"currentCheckpoint"`
	CurrentEpoch      uint64  `json:"currentEpoch"`
	TotalAddresses    uint64  `json:"totalAddresses"`
	TotalObjects      uint64  `json:"totalObjects"`
	TotalPackages     uint64  `json:"totalPackages"`
}

// ProtocolConfig subset of sui_getProtocolConfig
type ProtocolConfig struct {
	MinSupportedProtocolVersion uint64          `json:"minSupportedProtocolVersion"`
	MaxSupportedProtocolVersion uint64          `json:"maxSupportedProtocolVersion"`
	ProtocolVersion             uint64          `json:"protocolVersion"`
	FeatureFlags                map[string]bool `json:"featureFlags"`
	Raw                         json.RawMessage `json:"-"`
}

// EventID cursor of an event
type EventID struct {
	TxDigest string `json:"txDigest"`
	EventSeq string `json:"eventSeq"`
}

// Event one move event
type Event struct {
	ID                EventID         `json:"id"`
	PackageId         string          `json:"packageId"`
	TransactionModule string          `json:"transactionModule"`
	Sender            string          `json:"sender"`
	Type              string          `json:"type"`
	ParsedJson        json.RawMessage `json:"parsedJson"`
	TimestampMs       string          `json:"timestampMs,omitempty"`
}

// EventPage one page of suix_queryEvents
type EventPage struct {
	Data        []Event  `json:"data"`
	NextCursor  *EventID `json:"nextCursor"`
	HasNextPage bool     `json:"hasNextPage"`
}

// EventFilter suix_queryEvents filter, exactly one field set
type EventFilter struct {
	MoveEventType string `json:"MoveEventType,omitempty"`
	Sender        string `json:"Sender,omitempty"`
	Transaction   string `json:"Transaction,omitempty"`
}

// TransactionFilter suix_queryTransactionBlocks filter, exactly one field set
type TransactionFilter struct {
	InputObject   string `json:"InputObject,omitempty"`
	ChangedObject string `json:"ChangedObject,omitempty"`
	FromAddress   string `json:"FromAddress,omitempty"`
}

// TransactionOptions response options for transaction queries
type TransactionOptions struct {
	ShowInput   bool `json:"showInput,omitempty"`
	ShowEffects bool `json:"showEffects,omitempty"`
	ShowEvents  bool `json:"showEvents,omitempty"`
}

// TransactionQuery first parameter of suix_queryTransactionBlocks
type TransactionQuery struct {
	Filter  TransactionFilter  `json:"filter"`
	Options TransactionOptions `json:"options"`
}

// TransactionBlock one transaction block response
type TransactionBlock struct {
	Digest      string          `json:"digest"`
	Events      []Event         `json:"events"`
	Effects     json.RawMessage `json:"effects,omitempty"`
	Checkpoint  string          `json:"checkpoint,omitempty"`
	TimestampMs string          `json:"timestampMs,omitempty"`
}

// CheckpointSeq parsed checkpoint, ok=false when absent
func (t TransactionBlock) CheckpointSeq() (uint64, bool) {
	if t.Checkpoint == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(t.Checkpoint, 10, 64)
	return v, err == nil
}

// Timestamp parsed timestamp in milliseconds, 0 when absent
func (t TransactionBlock) Timestamp() uint64 {
	v, _ := strconv.ParseUint(t.TimestampMs, 10, 64)
	return v
}

// TransactionPage one page of suix_queryTransactionBlocks
type TransactionPage struct {
	Data        []TransactionBlock `json:"data"`
	NextCursor  *string            `json:"nextCursor"`
	HasNextPage bool               `json:"hasNextPage"`
}

// SortNewestFirst orders blocks by checkpoint then timestamp, newest first.
// Blocks without a checkpoint keep their relative order after the others.
func SortNewestFirst(blocks []TransactionBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		ci, okI := blocks[i].CheckpointSeq()
		cj, okJ := blocks[j].CheckpointSeq()
		if okI != okJ {
			return okI
		}
		if !okI {
			return false
		}
		if ci != cj {
			return ci > cj
		}
		return blocks[i].Timestamp() > blocks[j].Timestamp()
	})
}

// StorageEvent walrus storage-related event carrying a blob's end epoch
type StorageEvent struct {
	BlobID          string
	StorageEndEpoch uint64
}

// TipEvent funding contract tip event
type TipEvent struct {
	BlobID string
	Amount uint64
}

// IsStorageEventType matches walrus storage-related event types
func IsStorageEventType(eventType string) bool {
	t := strings.ToLower(eventType)
	return strings.Contains(t, "walrus") && strings.Contains(t, "storage")
}

// ParseStorageEvent parse-or-reject of a storage event payload
func ParseStorageEvent(ev Event) (StorageEvent, bool) {
	if !IsStorageEventType(ev.Type) || !gjson.ValidBytes(ev.ParsedJson) {
		return StorageEvent{}, false
	}
	payload := gjson.ParseBytes(ev.ParsedJson)
	blobID := payload.Get("blob_id")
	end := payload.Get("storage_end_epoch")
	if !blobID.Exists() || !end.Exists() {
		return StorageEvent{}, false
	}
	epoch, ok := parseUint(end)
	if !ok {
		return StorageEvent{}, false
	}
	return StorageEvent{BlobID: blobID.String(), StorageEndEpoch: epoch}, true
}

// ParseTipEvent parse-or-reject of a tip event payload
func ParseTipEvent(ev Event) (TipEvent, bool) {
	if !gjson.ValidBytes(ev.ParsedJson) {
		return TipEvent{}, false
	}
	payload := gjson.ParseBytes(ev.ParsedJson)
	blobID := payload.Get("blob_id")
	if !blobID.Exists() {
		return TipEvent{}, false
	}
	amount := uint64(0)
	if a := payload.Get("amount"); a.Exists() {
		v, ok := parseUint(a)
		if !ok {
			return TipEvent{}, false
		}
		amount = v
	}
	return TipEvent{BlobID: blobID.String(), Amount: amount}, true
}

// parseUint accepts JSON numbers and decimal strings
func parseUint(r gjson.Result) (uint64, bool) {
	switch r.Type {
	case gjson.Number:
		if r.Num < 0 {
			return 0, false
		}
		if v, err := strconv.ParseUint(r.Raw, 10, 64); err == nil {
			return v, true
		}
		return uint64(r.Num), true
	case gjson.String:
		v, err := strconv.ParseUint(strings.TrimSpace(r.Str), 10, 64)
		return v, err == nil
	}
	return 0, false
}

// ParseUintField exported form of parseUint for callers decoding dynamic fields
func ParseUintField(r gjson.Result) (uint64, bool) {
	return parseUint(r)
}
