package tip_service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync/atomic"
	"time"

	"walrus-extend/chain"
	"walrus-extend/conf"
	"walrus-extend/model"
	"walrus-extend/service/network_service"
	"walrus-extend/service/query_service"
)

var (
	// ErrOwnerUnavailable blob owner could not be resolved and the sender fallback is disabled
	ErrOwnerUnavailable = errors.New("could not determine blob owner")
	ErrEmptyBlobID      = errors.New("blob id is required")
)

const (
	OwnerFallbackSender = "sender"
	OwnerFallbackFail   = "fail"
)

// TipRequest tip submission parameters
type TipRequest struct {
	BlobID    string `json:"blobId"`
	Amount    uint64 `json:"amount"`              // Smallest WAL unit
	Recipient string `json:"recipient,omitempty"` // Defaults to the blob owner
}

// TipResult outcome of a successful tip
type TipResult struct {
	Success         bool                  `json:"success"`
	TxHash          string                `json:"txHash"`
	TipAmount       uint64                `json:"tipAmount"`
	BlobID          string                `json:"blobId"`
	Recipient       string                `json:"recipient"`
	RecipientSource model.RecipientSource `json:"recipientSource"`
	Network         string                `json:"network"`
}

// AccountSource connected wallet account
type AccountSource interface {
	Current() (*network_service.WalletAccount, bool)
}

// GasPricer reference gas price with fallback
type GasPricer interface {
	ReferenceGasPrice(ctx context.Context) uint64
}

// TipStore persists submitted tips
type TipStore interface {
	Create(record *model.TipRecord) error
}

// Options tip builder settings
type Options struct {
	GasBudget     uint64
	OwnerFallback string // sender or fail
}

// OptionsFromConfig maps the tip config section
func OptionsFromConfig(c conf.TipConfig) Options {
	return Options{GasBudget: c.DefaultGasBudget, OwnerFallback: c.OwnerFallback}
}

// TipService assembles, submits and records tip transactions
type TipService struct {
	provider *network_service.Provider
	cache    *query_service.QueryCache
	session  AccountSource
	wallet   Wallet
	gas      GasPricer
	store    TipStore
	opts     Options
	sending  atomic.Bool
}

// NewTipService create tip service; gas and store may be nil
func NewTipService(provider *network_service.Provider, cache *query_service.QueryCache, session AccountSource, wallet Wallet, gas GasPricer, store TipStore, opts Options) *TipService {
	if opts.GasBudget == 0 {
		opts.GasBudget = conf.DefaultGasBudget
	}
	if opts.OwnerFallback == "" {
		opts.OwnerFallback = OwnerFallbackSender
	}
	return &TipService{
		provider: provider,
		cache:    cache,
		session:  session,
		wallet:   wallet,
		gas:      gas,
		store:    store,
		opts:     opts,
	}
}

// InProgress reports whether a tip is being submitted
func (s *TipService) InProgress() bool {
	return s.sending.Load()
}

// SendTip transfers amount WAL to the blob's recipient through the funding contract
func (s *TipService) SendTip(ctx context.Context, req TipRequest) (*TipResult, error) {
	account, ok := s.session.Current()
	if !ok {
		return nil, newTipError(KindWalletNotConnected, "", nil)
	}
	if req.Amount == 0 {
		return nil, newTipError(KindInvalidAmount, "", nil)
	}
	req.BlobID = strings.TrimSpace(req.BlobID)
	if req.BlobID == "" {
		return nil, ErrEmptyBlobID
	}

	clients := s.provider.Clients()
	if !clients.Config.TipReady() {
		return nil, newTipError(KindUnsupportedNetwork,
			fmt.Sprintf("Tipping not supported on %s network", clients.Network), nil)
	}

	if !s.sending.CompareAndSwap(false, true) {
		return nil, newTipError(KindTipInProgress, "", nil)
	}
	defer s.sending.Store(false)

	result, err := s.sendTip(ctx, clients, account, req)
	if err != nil {
		log.Printf("❌ Tip for blob %s failed: %v", req.BlobID, err)
		return nil, err
	}
	return result, nil
}

func (s *TipService) sendTip(ctx context.Context, clients network_service.Clients, account *network_service.WalletAccount, req TipRequest) (*TipResult, error) {
	// Reads are tied to the network generation; submission is not, so a
	// switch cannot abandon a transaction the wallet already received.
	readCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stop := context.AfterFunc(clients.Context(), func() { cancel(network_service.ErrNetworkSwitched) })
	defer stop()

	netCfg := clients.Config
	coins, err := CollectCoins(readCtx, clients.Chain, account.Address, netCfg.WalTokenType)
	if err != nil {
		return nil, classifyError(clients.SwitchedErr(fmt.Errorf("failed to get WAL coins: %w", err)))
	}
	if len(coins) == 0 {
		return nil, newTipError(KindNoTokensFound, "No WAL tokens found in wallet", nil)
	}

	total := SumBalances(coins)
	if total.Cmp(new(big.Int).SetUint64(req.Amount)) < 0 {
		return nil, newTipError(KindInsufficientBalance,
			fmt.Sprintf("Insufficient WAL balance. Required: %d, Available: %s", req.Amount, total.String()), nil)
	}

	plan := &TransactionPlan{
		Sender:    account.Address,
		GasBudget: s.opts.GasBudget,
		GasPrice:  network_service.FallbackGasPrice,
	}
	if s.gas != nil {
		plan.GasPrice = s.gas.ReferenceGasPrice(readCtx)
	}
	tipCoin := selectTipCoin(plan, coins, req.Amount)

	recipient, source, err := s.resolveRecipient(readCtx, clients, req, account.Address)
	if err != nil {
		return nil, err
	}

	plan.MoveCall(netCfg.TipTarget(),
		[]Argument{PureString(req.BlobID), tipCoin, PureAddress(recipient)},
		netCfg.WalTokenType,
	)

	if clients.Stale() {
		return nil, network_service.ErrNetworkSwitched
	}

	log.Printf("Executing WAL tip transaction: blob=%s amount=%d recipient=%s sender=%s",
		req.BlobID, req.Amount, recipient, account.Address)
	exec, err := s.wallet.SignAndExecute(ctx, plan)
	if err != nil {
		return nil, classifyError(err)
	}

	record := &model.TipRecord{
		Digest:          exec.Digest,
		BlobID:          req.BlobID,
		Network:         clients.Network.String(),
		Sender:          account.Address,
		Recipient:       recipient,
		RecipientSource: source,
		Amount:          req.Amount,
		Status:          model.StatusSuccess,
	}

	if !exec.Succeeded() {
		reason := exec.Error
		if reason == "" {
			reason = "Unknown error"
		}
		record.Status = model.StatusFailed
		s.persist(record)
		return nil, newTipError(KindTransactionFailed, "Transaction failed: "+reason, nil)
	}

	log.Printf("✅ WAL tip transaction successful: digest=%s", exec.Digest)
	s.invalidate(context.WithoutCancel(ctx), req.BlobID, account.Address)
	s.persist(record)

	return &TipResult{
		Success:         true,
		TxHash:          exec.Digest,
		TipAmount:       req.Amount,
		BlobID:          req.BlobID,
		Recipient:       recipient,
		RecipientSource: source,
		Network:         clients.Network.String(),
	}, nil
}

// resolveRecipient explicit recipient, else the blob's address owner, else the sender when allowed
func (s *TipService) resolveRecipient(ctx context.Context, clients network_service.Clients, req TipRequest, sender string) (string, model.RecipientSource, error) {
	if req.Recipient != "" {
		if !chain.IsValidAddress(req.Recipient) {
			return "", "", fmt.Errorf("%w: recipient %q", network_service.ErrInvalidAddress, req.Recipient)
		}
		return chain.NormalizeAddress(req.Recipient), model.RecipientFromRequest, nil
	}

	owner, err := lookupOwner(ctx, clients.Chain, req.BlobID)
	if err == nil {
		return owner, model.RecipientFromOwner, nil
	}
	if s.opts.OwnerFallback == OwnerFallbackFail {
		return "", "", fmt.Errorf("%w: %v", ErrOwnerUnavailable, err)
	}
	log.Printf("⚠️  could not fetch owner of blob %s, using sender as recipient: %v", req.BlobID, err)
	return sender, model.RecipientFromSender, nil
}

func lookupOwner(ctx context.Context, api network_service.ChainAPI, blobID string) (string, error) {
	obj, err := api.GetObject(ctx, blobID, chain.ObjectOptions{ShowOwner: true, ShowContent: true})
	if err != nil {
		return "", err
	}
	if obj.Owner.Kind != chain.OwnerAddress {
		return "", fmt.Errorf("blob is not address-owned (%s)", obj.Owner.Kind)
	}
	return chain.NormalizeAddress(obj.Owner.Address), nil
}

// invalidate drops every cached read a new tip makes stale
func (s *TipService) invalidate(ctx context.Context, blobID, sender string) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, query_service.OpBlobSearch, blobID)
	s.cache.Invalidate(ctx, query_service.OpBlobNetworkInfo, blobID)
	s.cache.Invalidate(ctx, query_service.OpNetworkStatus)
	s.cache.Invalidate(ctx, query_service.OpTipHistory)
	s.cache.Invalidate(ctx, query_service.OpWalBalance, sender)
}

func (s *TipService) persist(record *model.TipRecord) {
	if s.store == nil || record.Digest == "" {
		return
	}
	record.CreatedAt = time.Now()
	if err := s.store.Create(record); err != nil {
		log.Printf("⚠️  failed to save tip record %s: %v", record.Digest, err)
	}
}
