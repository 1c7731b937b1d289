package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// ErrObjectNotFound object does not exist or was deleted
var ErrObjectNotFound = errors.New("object not found")

// GetCoins lists one page of coins of coinType owned by owner
func (c *Client) GetCoins(ctx context.Context, owner, coinType string, cursor *string, limit int) (*CoinPage, error) {
	var page CoinPage
	var cur interface{}
	if cursor != nil {
		cur = *cursor
	}
	var lim interface{}
	if limit > 0 {
		lim = limit
	}
	if err := c.call(ctx, "suix_getCoins", &page, owner, coinType, cur, lim); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetAllCoins pages through GetCoins until the last page
func (c *Client) GetAllCoins(ctx context.Context, owner, coinType string) ([]Coin, error) {
	var coins []Coin
	var cursor *string
	for {
		page, err := c.GetCoins(ctx, owner, coinType, cursor, 50)
		if err != nil {
			return nil, err
		}
		coins = append(coins, page.Data...)
		if !page.HasNextPage || page.NextCursor == nil {
			return coins, nil
		}
		cursor = page.NextCursor
	}
}

// GetObject fetches an object with the requested display options
func (c *Client) GetObject(ctx context.Context, objectID string, opts ObjectOptions) (*ObjectData, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "sui_getObject", &raw, objectID, opts); err != nil {
		return nil, err
	}
	return parseObjectResponse(objectID, raw)
}

func parseObjectResponse(objectID string, raw []byte) (*ObjectData, error) {
	result := gjson.ParseBytes(raw)
	if errObj := result.Get("error"); errObj.Exists() {
		code := errObj.Get("code").String()
		if code == "notExists" || code == "deleted" {
			return nil, fmt.Errorf("%s: %w", objectID, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("get object %s: %s", objectID, errObj.Raw)
	}
	data := result.Get("data")
	if !data.IsObject() {
		return nil, fmt.Errorf("%s: %w", objectID, ErrObjectNotFound)
	}

	obj := &ObjectData{
		ObjectId: data.Get("objectId").String(),
		Version:  data.Get("version").String(),
		Digest:   data.Get("digest").String(),
		Type:     data.Get("type").String(),
		Owner:    ParseOwner(data.Get("owner")),
		DataType: data.Get("content.dataType").String(),
	}
	if fields := data.Get("content.fields"); fields.Exists() {
		obj.Fields = json.RawMessage(fields.Raw)
	}
	return obj, nil
}

// GetCurrentEpoch returns the current epoch summary
func (c *Client) GetCurrentEpoch(ctx context.Context) (*EpochInfo, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "suix_getCurrentEpoch", &raw); err != nil {
		return nil, err
	}
	result := gjson.ParseBytes(raw)
	epoch, ok := parseUint(result.Get("epoch"))
	if !ok {
		return nil, fmt.Errorf("suix_getCurrentEpoch: malformed epoch %q", result.Get("epoch").Raw)
	}
	info := &EpochInfo{Epoch: epoch}
	info.FirstCheckpointId, _ = parseUint(result.Get("firstCheckpointId"))
	info.EpochStartTimestamp, _ = parseUint(result.Get("epochStartTimestamp"))
	info.ReferenceGasPrice, _ = parseUint(result.Get("referenceGasPrice"))
	return info, nil
}

// GetLatestSystemState returns the latest Sui system state summary
func (c *Client) GetLatestSystemState(ctx context.Context) (*SystemState, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "suix_getLatestSuiSystemState", &raw); err != nil {
		return nil, err
	}
	result := gjson.ParseBytes(raw)
	epoch, ok := parseUint(result.Get("epoch"))
	if !ok {
		return nil, fmt.Errorf("suix_getLatestSuiSystemState: malformed epoch %q", result.Get("epoch").Raw)
	}
	state := &SystemState{
		Epoch:            epoch,
		ActiveValidators: int(result.Get("activeValidators.#").Int()),
		Raw:              raw,
	}
	state.ProtocolVersion, _ = parseUint(result.Get("protocolVersion"))
	state.ReferenceGasPrice, _ = parseUint(result.Get("referenceGasPrice"))
	state.TotalStake, _ = parseUint(result.Get("totalStake"))
	state.EpochStartTimestampMs, _ = parseUint(result.Get("epochStartTimestampMs"))
	state.EpochDurationMs, _ = parseUint(result.Get("epochDurationMs"))
	return state, nil
}

// QueryEvents lists one page of events matching filter
func (c *Client) QueryEvents(ctx context.Context, filter EventFilter, cursor *EventID, limit int, descending bool) (*EventPage, error) {
	var page EventPage
	var cur interface{}
	if cursor != nil {
		cur = cursor
	}
	if err := c.call(ctx, "suix_queryEvents", &page, filter, cur, limit, descending); err != nil {
		return nil, err
	}
	return &page, nil
}

// QueryTransactionBlocks lists one page of transaction blocks matching query
func (c *Client) QueryTransactionBlocks(ctx context.Context, query TransactionQuery, cursor *string, limit int, descending bool) (*TransactionPage, error) {
	var page TransactionPage
	var cur interface{}
	if cursor != nil {
		cur = *cursor
	}
	if err := c.call(ctx, "suix_queryTransactionBlocks", &page, query, cur, limit, descending); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetReferenceGasPrice returns the reference gas price of the current epoch
func (c *Client) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "suix_getReferenceGasPrice", &raw); err != nil {
		return 0, err
	}
	price, ok := parseUint(gjson.ParseBytes(raw))
	if !ok {
		return 0, fmt.Errorf("suix_getReferenceGasPrice: malformed price %s", string(raw))
	}
	return price, nil
}

// GetProtocolConfig returns the protocol config of the latest version
func (c *Client) GetProtocolConfig(ctx context.Context) (*ProtocolConfig, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "sui_getProtocolConfig", &raw); err != nil {
		return nil, err
	}
	result := gjson.ParseBytes(raw)
	cfg := &ProtocolConfig{
		FeatureFlags: map[string]bool{},
		Raw:          raw,
	}
	cfg.MinSupportedProtocolVersion, _ = parseUint(result.Get("minSupportedProtocolVersion"))
	cfg.MaxSupportedProtocolVersion, _ = parseUint(result.Get("maxSupportedProtocolVersion"))
	cfg.ProtocolVersion, _ = parseUint(result.Get("protocolVersion"))
	result.Get("featureFlags").ForEach(func(key, value gjson.Result) bool {
		cfg.FeatureFlags[key.String()] = value.Bool()
		return true
	})
	return cfg, nil
}

// GetNetworkMetrics returns network-wide throughput counters
func (c *Client) GetNetworkMetrics(ctx context.Context) (*NetworkMetrics, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "suix_getNetworkMetrics", &raw); err != nil {
		return nil, err
	}
	result := gjson.ParseBytes(raw)
	m := &NetworkMetrics{
		CurrentTps: result.Get("currentTps").Float(),
		Tps30Days:  result.Get("tps30Days").Float(),
	}
	m.CurrentCheckpoint, _ = parseUint(result.Get("currentCheckpoint"))
	m.CurrentEpoch, _ = parseUint(result.Get("currentEpoch"))
	m.TotalAddresses, _ = parseUint(result.Get("totalAddresses"))
	m.TotalObjects, _ = parseUint(result.Get("totalObjects"))
	m.TotalPackages, _ = parseUint(result.Get("totalPackages"))
	return m, nil
}

// IsTimeout reports whether err came from an expired RPC deadline
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "timeout")
}
