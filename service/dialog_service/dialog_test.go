package dialog_service

import (
	"errors"
	"sync"
	"testing"
)

func TestDialog_Lifecycle(t *testing.T) {
	d := NewDialog()
	if s := d.Snapshot(); s.State != StateClosed {
		t.Fatalf("Expected closed, got %s", s.State)
	}

	if err := d.Open(KindTipSuccessful, Payload{TransactionId: "tx1", AmountTipped: "0.1 WAL"}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := d.UpdatePayload(Payload{NewTotalFunds: "1.5 WAL"}); err != nil {
		t.Fatalf("UpdatePayload failed: %v", err)
	}

	s := d.Snapshot()
	if s.State != StateOpen || s.Kind != KindTipSuccessful {
		t.Errorf("Expected open tip-successful, got %s %s", s.State, s.Kind)
	}
	if s.Payload.TransactionId != "tx1" || s.Payload.AmountTipped != "0.1 WAL" || s.Payload.NewTotalFunds != "1.5 WAL" {
		t.Errorf("Expected merged payload, got %+v", s.Payload)
	}

	if err := d.BeginProcessing(); err != nil {
		t.Fatalf("BeginProcessing failed: %v", err)
	}
	if d.Snapshot().State != StateProcessing {
		t.Errorf("Expected processing, got %s", d.Snapshot().State)
	}

	d.Close()
	s = d.Snapshot()
	if s.State != StateClosed || s.Kind != "" || s.Payload != (Payload{}) {
		t.Errorf("Expected a reset dialog, got %+v", s)
	}
}

func TestDialog_InvalidTransitions(t *testing.T) {
	d := NewDialog()

	if err := d.UpdatePayload(Payload{TransactionId: "x"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition updating a closed dialog, got %v", err)
	}
	if err := d.BeginProcessing(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition processing a closed dialog, got %v", err)
	}
	if err := d.Open("confetti", Payload{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected unknown kind to be rejected, got %v", err)
	}

	if err := d.Open(KindTipSharedBlob, Payload{SharedBlobId: "b1"}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := d.Open(KindTipSuccessful, Payload{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected a second Open to fail, got %v", err)
	}

	_ = d.BeginProcessing()
	if err := d.UpdatePayload(Payload{TransactionId: "x"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected updates to stop while processing, got %v", err)
	}
	if got := d.Snapshot().Payload.SharedBlobId; got != "b1" {
		t.Errorf("Expected payload kept, got %q", got)
	}
}

func TestDialog_UpdateKeepsUnsetFields(t *testing.T) {
	d := NewDialog()
	_ = d.Open(KindTipSuccessful, Payload{TransactionId: "tx1", NewTotalFunds: "1 WAL"})
	_ = d.UpdatePayload(Payload{NewTotalFunds: ""})
	if got := d.Snapshot().Payload.NewTotalFunds; got != "1 WAL" {
		t.Errorf("Expected empty fields to be ignored, got %q", got)
	}
}

func TestDialog_Start(t *testing.T) {
	d := NewDialog()
	_ = d.Open(KindTipSuccessful, Payload{TransactionId: "old"})

	if err := d.Start(KindTipSharedBlob, Payload{SharedBlobId: "b1"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	snap := d.Snapshot()
	if snap.State != StateProcessing || snap.Kind != KindTipSharedBlob {
		t.Errorf("Expected processing tip-shared-blob, got %s %s", snap.State, snap.Kind)
	}
	if snap.Payload.TransactionId != "" {
		t.Errorf("Expected the previous payload to be replaced, got %+v", snap.Payload)
	}

	if err := d.Start(KindTipSharedBlob, Payload{SharedBlobId: "b2"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected Start to fail while processing, got %v", err)
	}
	if err := NewDialog().Start("confetti", Payload{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected unknown kind to be rejected, got %v", err)
	}

	d.Close()
	if err := d.Start(KindTipSharedBlob, Payload{}); err != nil {
		t.Errorf("Expected Start from closed to succeed, got %v", err)
	}
}

func TestDialog_StartIsExclusive(t *testing.T) {
	d := NewDialog()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.Start(KindTipSharedBlob, Payload{}) == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if started != 1 {
		t.Errorf("Expected exactly one Start to win, got %d", started)
	}
}
