package blob_service

import (
	"context"
	"errors"
	"testing"
	"time"

	"walrus-extend/chain"
	"walrus-extend/service/network_service/nettest"
	"walrus-extend/walrus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlobService(t *testing.T, f *nettest.Fixture) *BlobService {
	t.Helper()
	r, provider, cache := newTestResolver(t, f)
	return NewBlobService(provider, cache, r, time.Minute, 1)
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		query   string
		want    string
		wantErr bool
	}{
		{"", "", true},
		{"0123456789", "", true},
		{"   0123456789   ", "", true},
		{"0123456789a", "0123456789a", false},
		{"  " + testBlobID + "\n", testBlobID, false},
	}
	for _, tt := range tests {
		got, err := NormalizeQuery(tt.query)
		if tt.wantErr {
			if !errors.Is(err, ErrQueryTooShort) {
				t.Errorf("Expected ErrQueryTooShort for %q, got %v", tt.query, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Expected %q, got %q (err %v)", tt.want, got, err)
		}
	}
}

func TestSearch_CombinesContentAndNetworkInfo(t *testing.T) {
	f := nettest.NewFixture()
	f.Blobs["testnet"].Data[testBlobID] = []byte(`{"hello":"walrus"}`)
	c := f.Chains["testnet"]
	c.Epoch = 10
	c.Transactions = []chain.TransactionBlock{
		{Checkpoint: "1", Events: []chain.Event{nettest.StorageEvent(testBlobID, 30)}},
	}
	c.Events = []chain.Event{nettest.TipEvent(testBlobID, 500000)}

	s := newTestBlobService(t, f)
	info, err := s.Search(context.Background(), testBlobID)
	require.NoError(t, err)

	assert.Equal(t, ContentTypeJSON, info.ContentType)
	assert.True(t, info.NetworkInfoAvailable)
	assert.Equal(t, uint64(20), info.EpochsLeft)
	assert.Equal(t, uint64(500000), info.TipBalance)
	assert.Equal(t, MinCostPerEpoch, info.CostPerEpoch)
	assert.Equal(t, "testnet", info.Network)
	assert.Equal(t, "http://aggregator.testnet/v1/blobs/"+testBlobID, info.URL)
	require.NotNil(t, info.CurrentEpoch)
	assert.Equal(t, uint64(10), *info.CurrentEpoch)
}

func TestSearch_TooShortMakesNoCalls(t *testing.T) {
	f := nettest.NewFixture()
	s := newTestBlobService(t, f)

	_, err := s.Search(context.Background(), "short")
	if !errors.Is(err, ErrQueryTooShort) {
		t.Fatalf("Expected ErrQueryTooShort, got %v", err)
	}
	assert.Equal(t, 0, f.Blobs["testnet"].Reads())
	assert.Equal(t, 0, f.Chains["testnet"].TotalCalls())
}

func TestSearch_NotFoundIsNotRetried(t *testing.T) {
	f := nettest.NewFixture()
	s := newTestBlobService(t, f)

	_, err := s.Search(context.Background(), testBlobID)
	if !errors.Is(err, walrus.ErrBlobNotFound) {
		t.Fatalf("Expected ErrBlobNotFound, got %v", err)
	}
	if f.Blobs["testnet"].Reads() != 1 {
		t.Errorf("Expected a single read, got %d", f.Blobs["testnet"].Reads())
	}
}

func TestSearch_ReadErrorsAreRetried(t *testing.T) {
	f := nettest.NewFixture()
	f.Blobs["testnet"].Err = errors.New("aggregator 503")
	s := newTestBlobService(t, f)

	_, err := s.Search(context.Background(), testBlobID)
	require.Error(t, err)
	// searchRetry 1: the first try plus one retry
	assert.Equal(t, 2, f.Blobs["testnet"].Reads())
}

func TestSearch_EstimatesWhenNetworkInfoFails(t *testing.T) {
	f := nettest.NewFixture()
	f.Blobs["testnet"].Data[testBlobID] = make([]byte, 4321)
	c := f.Chains["testnet"]
	c.EpochErr = errors.New("down")
	c.SystemStateErr = errors.New("down")

	s := newTestBlobService(t, f)
	info, err := s.Search(context.Background(), testBlobID)
	require.NoError(t, err)

	assert.False(t, info.NetworkInfoAvailable)
	assert.Equal(t, uint64(432), info.CostPerEpoch)
	assert.Equal(t, uint64(fallbackEpochsLeft), info.EpochsLeft)
	assert.Equal(t, uint64(0), info.TipBalance)
	assert.Nil(t, info.CurrentEpoch)
}

func TestContentAndView(t *testing.T) {
	f := nettest.NewFixture()
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}
	f.Blobs["testnet"].Data[testBlobID] = png
	s := newTestBlobService(t, f)

	data, info, err := s.Content(context.Background(), testBlobID)
	require.NoError(t, err)
	assert.Equal(t, png, data)
	assert.Equal(t, ContentTypePNG, info.ContentType)

	view, err := s.View(context.Background(), testBlobID)
	require.NoError(t, err)
	assert.Equal(t, ViewImage, view.Type)
	assert.Equal(t, "http://aggregator.testnet/v1/blobs/"+testBlobID, view.URL)
}

func TestForget_DropsBytesAndCachedResults(t *testing.T) {
	f := nettest.NewFixture()
	f.Blobs["testnet"].Data[testBlobID] = []byte("hello walrus")
	c := f.Chains["testnet"]
	c.Epoch = 10
	c.Transactions = []chain.TransactionBlock{
		{Checkpoint: "1", Events: []chain.Event{nettest.StorageEvent(testBlobID, 30)}},
	}
	s := newTestBlobService(t, f)
	ctx := context.Background()

	_, err := s.Search(ctx, testBlobID)
	require.NoError(t, err)
	_, err = s.Search(ctx, testBlobID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Blobs["testnet"].Reads())

	removed, err := s.Forget(ctx, "  "+testBlobID+" ")
	require.NoError(t, err)
	assert.Equal(t, 2, removed, "search result and network info")
	assert.Equal(t, []string{testBlobID}, f.Blobs["testnet"].Evicted)

	_, err = s.Search(ctx, testBlobID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Blobs["testnet"].Reads())

	_, err = s.Forget(ctx, " ")
	if !errors.Is(err, walrus.ErrBlobNotFound) {
		t.Errorf("Expected ErrBlobNotFound for an empty id, got %v", err)
	}
}
