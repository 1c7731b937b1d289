package network_service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"walrus-extend/chain"
)

var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrNoStoredWallet = errors.New("no stored wallet to reconnect")
)

// WalletAccount connected wallet account
type WalletAccount struct {
	Wallet      string    `json:"wallet"`
	Address     string    `json:"address"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// WalletSession tracks the connected wallet and remembers it across restarts
type WalletSession struct {
	mu      sync.RWMutex
	prefs   PreferencesStore
	account *WalletAccount
	hooks   []func(account *WalletAccount)
}

// NewWalletSession create wallet session; prefs may be nil
func NewWalletSession(prefs PreferencesStore) *WalletSession {
	return &WalletSession{prefs: prefs}
}

// OnChange registers a hook called with the new account, nil on disconnect
func (s *WalletSession) OnChange(hook func(account *WalletAccount)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Connect marks an account as connected and persists it as the last wallet
func (s *WalletSession) Connect(wallet, address string) (*WalletAccount, error) {
	if !chain.IsValidAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		wallet = "external"
	}
	account := &WalletAccount{
		Wallet:      wallet,
		Address:     chain.NormalizeAddress(address),
		ConnectedAt: time.Now(),
	}

	s.mu.Lock()
	s.account = account
	hooks := append([]func(*WalletAccount){}, s.hooks...)
	s.mu.Unlock()

	if s.prefs != nil {
		if err := s.prefs.SetLastWallet(account.Wallet, account.Address); err != nil {
			log.Printf("⚠️  failed to persist last wallet: %v", err)
		}
	}
	for _, hook := range hooks {
		hook(account)
	}
	return account, nil
}

// ConnectPublicKey connects the account derived from a public key. A non-empty
// address must be that account.
func (s *WalletSession) ConnectPublicKey(wallet, address string, scheme byte, pubKey []byte) (*WalletAccount, error) {
	if len(pubKey) == 0 {
		return nil, fmt.Errorf("%w: empty public key", ErrInvalidAddress)
	}
	derived := chain.AddressFromPublicKey(scheme, pubKey)
	if strings.TrimSpace(address) != "" &&
		(!chain.IsValidAddress(address) || chain.NormalizeAddress(address) != derived) {
		return nil, fmt.Errorf("%w: %q is not the address of the public key", ErrInvalidAddress, address)
	}
	return s.Connect(wallet, derived)
}

// Disconnect forgets the connected account; auto-connect will not restore it
func (s *WalletSession) Disconnect() {
	s.mu.Lock()
	s.account = nil
	hooks := append([]func(*WalletAccount){}, s.hooks...)
	s.mu.Unlock()

	if s.prefs != nil {
		if err := s.prefs.SetLastWallet("", ""); err != nil {
			log.Printf("⚠️  failed to clear last wallet: %v", err)
		}
	}
	for _, hook := range hooks {
		hook(nil)
	}
}

// Current connected account
func (s *WalletSession) Current() (*WalletAccount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil, false
	}
	acc := *s.account
	return &acc, true
}

// AutoConnect reconnects the last wallet when auto-connect is enabled
func (s *WalletSession) AutoConnect() (*WalletAccount, error) {
	if s.prefs == nil {
		return nil, ErrNoStoredWallet
	}
	prefs, err := s.prefs.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	if !prefs.AutoConnectEnabled || prefs.LastConnectedAddress == "" {
		return nil, ErrNoStoredWallet
	}
	return s.Connect(prefs.LastConnectedWallet, prefs.LastConnectedAddress)
}
