package dialog_service

import (
	"errors"
	"fmt"
	"sync"
)

var ErrInvalidTransition = errors.New("invalid dialog transition")

// State dialog lifecycle state
type State string

const (
	StateClosed     State = "closed"
	StateOpen       State = "open"
	StateProcessing State = "processing"
)

// Kind which dialog is shown
type Kind string

const (
	KindTipSuccessful Kind = "tip-successful"
	KindTipSharedBlob Kind = "tip-shared-blob"
)

// Payload data shown by the dialog
type Payload struct {
	TransactionId string `json:"transactionId,omitempty"`
	AmountTipped  string `json:"amountTipped,omitempty"`
	NewTotalFunds string `json:"newTotalFunds,omitempty"`
	SharedBlobId  string `json:"sharedBlobId,omitempty"`
}

// merge copies the non-empty fields of p into dst
func (dst *Payload) merge(p Payload) {
	if p.TransactionId != "" {
		dst.TransactionId = p.TransactionId
	}
	if p.AmountTipped != "" {
		dst.AmountTipped = p.AmountTipped
	}
	if p.NewTotalFunds != "" {
		dst.NewTotalFunds = p.NewTotalFunds
	}
	if p.SharedBlobId != "" {
		dst.SharedBlobId = p.SharedBlobId
	}
}

// Snapshot copy of the dialog state
type Snapshot struct {
	State   State   `json:"state"`
	Kind    Kind    `json:"kind,omitempty"`
	Payload Payload `json:"payload"`
}

// Dialog closed -> open(kind, payload) -> processing -> closed
type Dialog struct {
	mu      sync.Mutex
	state   State
	kind    Kind
	payload Payload
}

// NewDialog closed dialog
func NewDialog() *Dialog {
	return &Dialog{state: StateClosed}
}

func (d *Dialog) invalid(action string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, action, d.state)
}

// Open shows a dialog of kind; only allowed while closed
func (d *Dialog) Open(kind Kind, payload Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if kind != KindTipSuccessful && kind != KindTipSharedBlob {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransition, kind)
	}
	if d.state != StateClosed {
		return d.invalid("open")
	}
	d.state = StateOpen
	d.kind = kind
	d.payload = payload
	return nil
}

// UpdatePayload merges non-empty fields while open
func (d *Dialog) UpdatePayload(payload Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateOpen {
		return d.invalid("update")
	}
	d.payload.merge(payload)
	return nil
}

// BeginProcessing marks the open dialog as submitting
func (d *Dialog) BeginProcessing() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateOpen {
		return d.invalid("process")
	}
	d.state = StateProcessing
	return nil
}

// Start replaces any open dialog with kind and enters processing in one step.
// It fails while another submission is processing.
func (d *Dialog) Start(kind Kind, payload Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if kind != KindTipSuccessful && kind != KindTipSharedBlob {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransition, kind)
	}
	if d.state == StateProcessing {
		return d.invalid("start")
	}
	d.state = StateProcessing
	d.kind = kind
	d.payload = payload
	return nil
}

// Close resets the dialog from any state
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = StateClosed
	d.kind = ""
	d.payload = Payload{}
}

// Snapshot current state
func (d *Dialog) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Snapshot{State: d.state, Kind: d.kind, Payload: d.payload}
}
