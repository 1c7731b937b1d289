package tip_service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"walrus-extend/tool"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ExecutionResult outcome reported by the wallet after sign-and-execute
type ExecutionResult struct {
	Digest string `json:"digest"`
	Status string `json:"status"` // success or failure
	Error  string `json:"error,omitempty"`
}

// Succeeded reports whether effects.status was success
func (r *ExecutionResult) Succeeded() bool {
	return r != nil && r.Status == "success"
}

// Wallet signs and executes transaction plans for the connected account
type Wallet interface {
	SignAndExecute(ctx context.Context, plan *TransactionPlan) (*ExecutionResult, error)
}

// RemoteSigner wallet backed by an external signer over HTTP
type RemoteSigner struct {
	url     string
	timeout time.Duration
}

// NewRemoteSigner signer posting plans to signerURL/sign-and-execute
func NewRemoteSigner(signerURL string, timeout time.Duration) *RemoteSigner {
	return &RemoteSigner{url: strings.TrimRight(signerURL, "/"), timeout: timeout}
}

type signRequest struct {
	RequestId   string           `json:"requestId"`
	Transaction *TransactionPlan `json:"transaction"`
	Options     signOptions      `json:"options"`
}

type signOptions struct {
	ShowEffects       bool `json:"showEffects"`
	ShowEvents        bool `json:"showEvents"`
	ShowObjectChanges bool `json:"showObjectChanges"`
}

// SignAndExecute posts the plan and waits for the signer's execution result
func (s *RemoteSigner) SignAndExecute(ctx context.Context, plan *TransactionPlan) (*ExecutionResult, error) {
	if s.url == "" {
		return nil, errors.New("wallet signer url not configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	body := signRequest{
		RequestId:   uuid.NewString(),
		Transaction: plan,
		Options:     signOptions{ShowEffects: true, ShowEvents: true, ShowObjectChanges: true},
	}
	raw, err := tool.PostUrl(ctx, s.url+"/sign-and-execute", body, nil)
	if err != nil {
		var httpErr *tool.HTTPError
		if errors.As(err, &httpErr) {
			if msg := gjson.Get(httpErr.Body, "error").String(); msg != "" {
				return nil, fmt.Errorf("signer: %s", msg)
			}
		}
		return nil, fmt.Errorf("signer request failed: %w", err)
	}
	return parseExecutionResult(raw)
}

// parseExecutionResult reads digest and effects.status from a signer response
func parseExecutionResult(raw []byte) (*ExecutionResult, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("signer returned invalid json")
	}
	result := gjson.ParseBytes(raw)
	if msg := result.Get("error").String(); msg != "" && !result.Get("digest").Exists() {
		return nil, fmt.Errorf("signer: %s", msg)
	}
	return &ExecutionResult{
		Digest: result.Get("digest").String(),
		Status: result.Get("effects.status.status").String(),
		Error:  result.Get("effects.status.error").String(),
	}, nil
}
