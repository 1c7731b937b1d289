package tip_service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestRemoteSigner_SignAndExecute(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sign-and-execute" {
			t.Errorf("Expected path /sign-and-execute, got %s", r.URL.Path)
		}
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"digest":"9xYz","effects":{"status":{"status":"success"}}}`))
	}))
	defer srv.Close()

	plan := &TransactionPlan{Sender: testSender, GasBudget: 10_000_000, GasPrice: 1000}
	plan.MoveCall("0x1::tip::tip_blob", []Argument{PureString(testBlobID)})

	signer := NewRemoteSigner(srv.URL+"/", time.Second)
	result, err := signer.SignAndExecute(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "9xYz", result.Digest)
	assert.True(t, result.Succeeded())

	req := gjson.ParseBytes(body)
	assert.NotEmpty(t, req.Get("requestId").String())
	assert.Equal(t, testSender, req.Get("transaction.sender").String())
	assert.Equal(t, "MoveCall", req.Get("transaction.commands.0.kind").String())
	assert.True(t, req.Get("options.showEffects").Bool())
}

func TestRemoteSigner_FailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"digest":"bad1","effects":{"status":{"status":"failure","error":"InsufficientGas"}}}`))
	}))
	defer srv.Close()

	result, err := NewRemoteSigner(srv.URL, time.Second).SignAndExecute(context.Background(), &TransactionPlan{})
	require.NoError(t, err)
	assert.False(t, result.Succeeded())
	assert.Equal(t, "InsufficientGas", result.Error)
}

func TestRemoteSigner_ErrorBodyIsClassifiable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"User rejected the request"}`))
	}))
	defer srv.Close()

	_, err := NewRemoteSigner(srv.URL, time.Second).SignAndExecute(context.Background(), &TransactionPlan{})
	require.Error(t, err)
	assert.Equal(t, KindRejectedByUser, KindOf(classifyError(err)))
}

func TestRemoteSigner_NotConfigured(t *testing.T) {
	_, err := NewRemoteSigner("", time.Second).SignAndExecute(context.Background(), &TransactionPlan{})
	assert.Error(t, err)
}
