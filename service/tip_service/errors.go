package tip_service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind category of a tip failure
type Kind string

const (
	KindWalletNotConnected  Kind = "WalletNotConnected"
	KindInvalidAmount       Kind = "InvalidAmount"
	KindUnsupportedNetwork  Kind = "UnsupportedNetwork"
	KindNoTokensFound       Kind = "NoTokensFound"
	KindInsufficientBalance Kind = "InsufficientBalance"
	KindRejectedByUser      Kind = "TransactionRejectedByUser"
	KindTimedOut            Kind = "TransactionTimedOut"
	KindTransactionFailed   Kind = "TransactionFailed"
	KindTipInProgress       Kind = "TipInProgress"
)

var (
	ErrWalletNotConnected  = errors.New("wallet not connected")
	ErrInvalidAmount       = errors.New("tip amount must be greater than 0")
	ErrUnsupportedNetwork  = errors.New("tipping not supported on this network")
	ErrNoTokensFound       = errors.New("no WAL tokens found in wallet")
	ErrInsufficientBalance = errors.New("insufficient WAL balance")
	ErrTransactionRejected = errors.New("transaction was rejected by user")
	ErrTransactionTimedOut = errors.New("transaction timed out")
	ErrTransactionFailed   = errors.New("transaction failed")
	ErrTipInProgress       = errors.New("a tip is already being submitted")
)

var kindSentinels = map[Kind]error{
	KindWalletNotConnected:  ErrWalletNotConnected,
	KindInvalidAmount:       ErrInvalidAmount,
	KindUnsupportedNetwork:  ErrUnsupportedNetwork,
	KindNoTokensFound:       ErrNoTokensFound,
	KindInsufficientBalance: ErrInsufficientBalance,
	KindRejectedByUser:      ErrTransactionRejected,
	KindTimedOut:            ErrTransactionTimedOut,
	KindTransactionFailed:   ErrTransactionFailed,
	KindTipInProgress:       ErrTipInProgress,
}

// TipError typed tip failure; errors.Is matches the sentinel of its Kind
type TipError struct {
	Kind   Kind
	Reason string
	Err    error
}

func newTipError(kind Kind, reason string, err error) *TipError {
	return &TipError{Kind: kind, Reason: reason, Err: err}
}

func (e *TipError) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = kindSentinels[e.Kind].Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TipError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf kind of a tip failure, empty for foreign errors
func KindOf(err error) Kind {
	var tipErr *TipError
	if errors.As(err, &tipErr) {
		return tipErr.Kind
	}
	return ""
}

// classifyError maps an untyped submission error onto a tip error kind by its
// message; unrecognised errors are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var tipErr *TipError
	if errors.As(err, &tipErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newTipError(KindTimedOut, "", err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "Insufficient"):
		return newTipError(KindInsufficientBalance, "Insufficient WAL balance to send tip", err)
	case strings.Contains(msg, "rejected"):
		return newTipError(KindRejectedByUser, "", err)
	case strings.Contains(msg, "timeout"):
		return newTipError(KindTimedOut, "", err)
	}
	return err
}
