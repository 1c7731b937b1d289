package respond

import (
	"time"

	"walrus-extend/conf"
	"walrus-extend/model"
	"walrus-extend/service/dialog_service"
	"walrus-extend/service/tip_service"
)

// NetworkEntry one configured network
type NetworkEntry struct {
	Name          string `json:"name" example:"testnet"`
	RpcUrl        string `json:"rpcUrl" example:"https://fullnode.testnet.sui.io:443"`
	AggregatorUrl string `json:"aggregatorUrl" example:"https://aggregator.walrus-testnet.walrus.space"`
	ResolverReady bool   `json:"resolverReady" example:"true"`
	TipReady      bool   `json:"tipReady" example:"false"`
}

// NetworkResponse active network and the supported ones
type NetworkResponse struct {
	Current  string         `json:"current" example:"testnet"`
	Networks []NetworkEntry `json:"networks"`
}

// ToNetworkResponse builds the network listing in SupportedNetworks order
func ToNetworkResponse(current string, networks map[string]conf.NetworkConfig) NetworkResponse {
	resp := NetworkResponse{Current: current, Networks: make([]NetworkEntry, 0, len(networks))}
	for _, name := range conf.SupportedNetworks() {
		n, ok := networks[name]
		if !ok {
			continue
		}
		resp.Networks = append(resp.Networks, NetworkEntry{
			Name:          name,
			RpcUrl:        n.RpcUrl,
			AggregatorUrl: n.AggregatorUrl,
			ResolverReady: n.ResolverReady(),
			TipReady:      n.TipReady(),
		})
	}
	return resp
}

// SwitchNetworkRequest network switch body
type SwitchNetworkRequest struct {
	Network string `json:"network" binding:"required" example:"mainnet"`
}

// GasPriceResponse reference gas price in MIST
type GasPriceResponse struct {
	Network  string `json:"network" example:"testnet"`
	GasPrice uint64 `json:"gasPrice" example:"1000"`
}

// ConnectWalletRequest wallet connect body; address, publicKey or both
type ConnectWalletRequest struct {
	Wallet    string `json:"wallet" example:"Sui Wallet"`
	Address   string `json:"address" example:"0x7d20dcdb2bca4f508ea9613994683eb4e76e9c4ed371169677c1be02aaf0b58e"`
	PublicKey string `json:"publicKey,omitempty" example:"base64 public key"` // base64, without the scheme flag
	Scheme    string `json:"scheme,omitempty" example:"ed25519"`
}

// WalletResponse wallet session state
type WalletResponse struct {
	Connected   bool       `json:"connected" example:"true"`
	Wallet      string     `json:"wallet,omitempty" example:"Sui Wallet"`
	Address     string     `json:"address,omitempty" example:"0x7d20dcdb2bca4f508ea9613994683eb4e76e9c4ed371169677c1be02aaf0b58e"`
	ConnectedAt *time.Time `json:"connectedAt,omitempty" example:"2024-01-01T00:00:00Z"`
}

// SendTipRequest tip body; amounts in the smallest WAL unit, a preset wins over amount
type SendTipRequest struct {
	BlobId    string `json:"blobId" binding:"required" example:"Xq3vU0SPkGiAgYdTzr0EW3Y1d7sbcJYwhTm2E1SS4e4"`
	Amount    string `json:"amount" example:"100000"`
	Preset    uint64 `json:"preset,omitempty" example:"50000"`
	Recipient string `json:"recipient,omitempty" example:"0x7d20dcdb2bca4f508ea9613994683eb4e76e9c4ed371169677c1be02aaf0b58e"`
}

// SendTipResponse tip result and the dialog it left open
type SendTipResponse struct {
	Result *tip_service.TipResult  `json:"result"`
	Dialog dialog_service.Snapshot `json:"dialog"`
}

// TipRecordResponse one stored tip
type TipRecordResponse struct {
	Digest          string    `json:"digest" example:"8Vx1uG6nqKQ9..."`
	BlobId          string    `json:"blobId" example:"Xq3vU0SPkGiAgYdTzr0EW3Y1d7sbcJYwhTm2E1SS4e4"`
	Network         string    `json:"network" example:"testnet"`
	Sender          string    `json:"sender" example:"0x7d20..."`
	Recipient       string    `json:"recipient" example:"0x1a2b..."`
	RecipientSource string    `json:"recipientSource" example:"owner"`
	Amount          uint64    `json:"amount" example:"100000"`
	Status          string    `json:"status" example:"success"`
	CreatedAt       time.Time `json:"createdAt" example:"2024-01-01T00:00:00Z"`
}

// TipHistoryResponse cursor page of stored tips
type TipHistoryResponse struct {
	Records    []TipRecordResponse `json:"records"`
	NextCursor int64               `json:"nextCursor" example:"0"`
	HasMore    bool                `json:"hasMore" example:"false"`
}

// ToTipHistoryResponse convert a history page
func ToTipHistoryResponse(page *tip_service.HistoryPage) TipHistoryResponse {
	resp := TipHistoryResponse{
		Records:    make([]TipRecordResponse, 0, len(page.Records)),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
	for _, r := range page.Records {
		resp.Records = append(resp.Records, TipRecordResponse{
			Digest:          r.Digest,
			BlobId:          r.BlobID,
			Network:         r.Network,
			Sender:          r.Sender,
			Recipient:       r.Recipient,
			RecipientSource: string(r.RecipientSource),
			Amount:          r.Amount,
			Status:          string(r.Status),
			CreatedAt:       r.CreatedAt,
		})
	}
	return resp
}

// PreferencesResponse persisted preferences
type PreferencesResponse struct {
	CurrentNetwork       string    `json:"currentNetwork" example:"testnet"`
	LastConnectedWallet  string    `json:"lastConnectedWallet" example:"Sui Wallet"`
	LastConnectedAddress string    `json:"lastConnectedAddress" example:"0x7d20..."`
	AutoConnectEnabled   bool      `json:"autoConnectEnabled" example:"true"`
	UpdatedAt            time.Time `json:"updatedAt" example:"2024-01-01T00:00:00Z"`
}

// ToPreferencesResponse convert preferences
func ToPreferencesResponse(p *model.Preferences) PreferencesResponse {
	return PreferencesResponse{
		CurrentNetwork:       p.CurrentNetwork,
		LastConnectedWallet:  p.LastConnectedWallet,
		LastConnectedAddress: p.LastConnectedAddress,
		AutoConnectEnabled:   p.AutoConnectEnabled,
		UpdatedAt:            p.UpdatedAt,
	}
}

// UpdatePreferencesRequest preferences update body
type UpdatePreferencesRequest struct {
	AutoConnectEnabled *bool `json:"auto_connect_enabled" binding:"required" example:"true"`
}

// DialogResponse dialog and tip form state
type DialogResponse struct {
	Dialog  dialog_service.Snapshot  `json:"dialog"`
	Form    dialog_service.FormState `json:"form"`
	Presets []uint64                 `json:"presets"`
}

// InvalidateResponse number of cache entries dropped
type InvalidateResponse struct {
	Operation string `json:"operation" example:"blob-network-info"`
	Removed   int    `json:"removed" example:"2"`
}
