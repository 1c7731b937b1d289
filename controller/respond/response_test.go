package respond

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"walrus-extend/chain"
	"walrus-extend/database"
	"walrus-extend/service/blob_service"
	"walrus-extend/service/dialog_service"
	"walrus-extend/service/network_service"
	"walrus-extend/service/query_service"
	"walrus-extend/service/tip_service"
	"walrus-extend/walrus"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid amount", tip_service.ErrInvalidAmount, http.StatusBadRequest},
		{"empty blob", fmt.Errorf("send: %w", tip_service.ErrEmptyBlobID), http.StatusBadRequest},
		{"unknown preset", fmt.Errorf("%w: 7", dialog_service.ErrUnknownPreset), http.StatusBadRequest},
		{"short query", blob_service.ErrQueryTooShort, http.StatusBadRequest},
		{"bad address", network_service.ErrInvalidAddress, http.StatusBadRequest},
		{"not connected", &tip_service.TipError{Kind: tip_service.KindWalletNotConnected}, http.StatusUnauthorized},
		{"no stored wallet", network_service.ErrNoStoredWallet, http.StatusUnauthorized},
		{"blob missing", fmt.Errorf("x: %w", walrus.ErrBlobNotFound), http.StatusNotFound},
		{"object missing", chain.ErrObjectNotFound, http.StatusNotFound},
		{"record missing", database.ErrNotFound, http.StatusNotFound},
		{"tip in progress", tip_service.ErrTipInProgress, http.StatusConflict},
		{"bad transition", dialog_service.ErrInvalidTransition, http.StatusConflict},
		{"switched", network_service.ErrNetworkSwitched, http.StatusConflict},
		{"scope changed", query_service.ErrScopeChanged, http.StatusConflict},
		{"unsupported network", network_service.ErrUnsupportedNetwork, http.StatusUnprocessableEntity},
		{"no tokens", &tip_service.TipError{Kind: tip_service.KindNoTokensFound}, http.StatusUnprocessableEntity},
		{"insufficient", &tip_service.TipError{Kind: tip_service.KindInsufficientBalance, Reason: "low"}, http.StatusUnprocessableEntity},
		{"too many coins", fmt.Errorf("failed to get WAL coins: %w", tip_service.ErrTooManyCoins), http.StatusUnprocessableEntity},
		{"owner unavailable", tip_service.ErrOwnerUnavailable, http.StatusUnprocessableEntity},
		{"rejected", &tip_service.TipError{Kind: tip_service.KindRejectedByUser}, StatusClientClosedRequest},
		{"canceled", context.Canceled, StatusClientClosedRequest},
		{"timed out", &tip_service.TipError{Kind: tip_service.KindTimedOut, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"deadline", fmt.Errorf("rpc: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"tx failed", &tip_service.TipError{Kind: tip_service.KindTransactionFailed}, http.StatusBadGateway},
		{"epoch unavailable", blob_service.ErrEpochUnavailable, http.StatusBadGateway},
		{"rpc error", fmt.Errorf("call: %w", &chain.RPCError{Code: -32000, Message: "boom"}), http.StatusBadGateway},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.expected {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.expected, got)
		}
	}
}

func TestError_CarriesTipKind(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(startTimeKey, "not a time")
	Error(c, &tip_service.TipError{Kind: tip_service.KindInsufficientBalance, Reason: "Insufficient WAL balance to send tip"})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := gjson.ParseBytes(w.Body.Bytes())
	assert.Equal(t, int64(http.StatusUnprocessableEntity), body.Get("code").Int())
	assert.Equal(t, "Insufficient WAL balance to send tip", body.Get("message").String())
	assert.Equal(t, "InsufficientBalance", body.Get("data.kind").String())
	assert.Equal(t, int64(0), body.Get("processingTime").Int())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Error(c, errors.New("plain"))
	body = gjson.ParseBytes(w.Body.Bytes())
	if body.Get("data").Type != gjson.Null {
		t.Errorf("Expected null data for a foreign error, got %s", body.Get("data").Raw)
	}
}

func TestSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TimingMiddleware())
	r.GET("/ok", func(c *gin.Context) { Success(c, gin.H{"n": 3}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	body := gjson.ParseBytes(w.Body.Bytes())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), body.Get("code").Int())
	assert.Equal(t, "success", body.Get("message").String())
	assert.Equal(t, int64(3), body.Get("data.n").Int())
	assert.True(t, body.Get("processingTime").Exists())
}
