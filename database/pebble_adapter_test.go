package database

import (
	"errors"
	"fmt"
	"testing"

	"walrus-extend/conf"
	"walrus-extend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPebble(t *testing.T, dir string) Database {
	t.Helper()
	db, err := NewDatabaseFromConfig(conf.DatabaseConfig{Type: "pebble", DataDir: dir})
	require.NoError(t, err)
	return db
}

func TestNewDatabaseFromConfig_Unsupported(t *testing.T) {
	_, err := NewDatabaseFromConfig(conf.DatabaseConfig{Type: "sqlite"})
	if !errors.Is(err, ErrUnsupportedDBType) {
		t.Errorf("Expected ErrUnsupportedDBType, got %v", err)
	}
	if _, err := NewPebbleDatabase("not a config"); err == nil {
		t.Error("Expected an error for a wrong config type")
	}
}

func TestPebble_Preferences(t *testing.T) {
	db := openTestPebble(t, t.TempDir())
	defer db.Close()

	_, err := db.GetPreferences("")
	assert.ErrorIs(t, err, ErrNotFound)

	prefs := model.NewDefaultPreferences("")
	prefs.CurrentNetwork = "testnet"
	prefs.LastConnectedAddress = "0xabc"
	require.NoError(t, db.SavePreferences(prefs))

	got, err := db.GetPreferences(model.DefaultProfile)
	require.NoError(t, err)
	assert.Equal(t, "testnet", got.CurrentNetwork)
	assert.Equal(t, "0xabc", got.LastConnectedAddress)
	assert.True(t, got.AutoConnectEnabled)
}

func TestPebble_TipRecordsPagination(t *testing.T) {
	db := openTestPebble(t, t.TempDir())
	defer db.Close()

	for i := 1; i <= 5; i++ {
		require.NoError(t, db.CreateTipRecord(&model.TipRecord{
			Digest: fmt.Sprintf("d%d", i),
			BlobID: "b1",
			Sender: "0xs1",
			Amount: uint64(i * 100),
		}))
	}
	// Similar prefix must not leak into b1
	require.NoError(t, db.CreateTipRecord(&model.TipRecord{Digest: "other", BlobID: "b10", Sender: "0xs2"}))

	page, next, err := db.ListTipRecordsByBlobID("b1", 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "d5", page[0].Digest)
	assert.Equal(t, "d4", page[1].Digest)
	assert.Equal(t, int64(4), next)

	page, next, err = db.ListTipRecordsByBlobID("b1", next, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"d3", "d2"}, digests(page))

	page, next, err = db.ListTipRecordsByBlobID("b1", next, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, digests(page))
	assert.Equal(t, int64(0), next)

	bySender, _, err := db.ListTipRecordsBySender("0xs2", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, digests(bySender))

	count, err := db.CountTipRecords()
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
}

func TestPebble_DuplicateDigest(t *testing.T) {
	db := openTestPebble(t, t.TempDir())
	defer db.Close()

	require.NoError(t, db.CreateTipRecord(&model.TipRecord{Digest: "d1", BlobID: "b1", Sender: "0xs"}))
	err := db.CreateTipRecord(&model.TipRecord{Digest: "d1", BlobID: "b1", Sender: "0xs"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = db.GetTipRecordByDigest("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPebble_CounterSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	db := openTestPebble(t, dir)
	first := &model.TipRecord{Digest: "d1", BlobID: "b1", Sender: "0xs"}
	require.NoError(t, db.CreateTipRecord(first))
	require.NoError(t, db.Close())

	db = openTestPebble(t, dir)
	defer db.Close()
	second := &model.TipRecord{Digest: "d2", BlobID: "b1", Sender: "0xs"}
	require.NoError(t, db.CreateTipRecord(second))
	assert.Greater(t, second.ID, first.ID)

	page, _, err := db.ListTipRecordsByBlobID("b1", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"d2", "d1"}, digests(page))
}

func TestClampPageSize(t *testing.T) {
	tests := map[int]int{-1: 20, 0: 20, 1: 1, 50: 50, 100: 100, 500: 100}
	for in, expected := range tests {
		if got := clampPageSize(in); got != expected {
			t.Errorf("clampPageSize(%d): expected %d, got %d", in, expected, got)
		}
	}
}

func digests(records []*model.TipRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Digest)
	}
	return out
}
