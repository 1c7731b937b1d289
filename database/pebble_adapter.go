package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"walrus-extend/model"

	"github.com/cockroachdb/pebble"
	"github.com/goccy/go-json"
)

// PebbleDatabase PebbleDB database implementation with multiple collections
type PebbleDatabase struct {
	collections map[string]*pebble.DB // Map of collection name to PebbleDB instance

	tipIDCounter atomic.Int64
	writeMu      sync.Mutex
}

// PebbleConfig PebbleDB configuration
type PebbleConfig struct {
	DataDir string
}

// Collection names and their key-value formats
const (
	collectionPreferences = "preferences" // key: {profile}, value: JSON(Preferences)
	collectionTipRecord   = "tip_record"  // key: {digest}, value: JSON(TipRecord)
	collectionTipBlob     = "tip_blob"    // key: {blob_id}:{id}, value: {digest}
	collectionTipSender   = "tip_sender"  // key: {sender}:{id}, value: {digest}
	collectionCounters    = "counters"    // key: tip, value: {max_id}
)

const keyTipCounter = "tip"

// NewPebbleDatabase create PebbleDB database instance with multiple collections
func NewPebbleDatabase(config interface{}) (Database, error) {
	cfg, ok := config.(*PebbleConfig)
	if !ok {
		return nil, fmt.Errorf("invalid PebbleDB config type")
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", cfg.DataDir, err)
	}

	collectionNames := []string{
		collectionPreferences,
		collectionTipRecord,
		collectionTipBlob,
		collectionTipSender,
		collectionCounters,
	}

	collections := make(map[string]*pebble.DB)
	for _, name := range collectionNames {
		collectionPath := filepath.Join(cfg.DataDir, "extend_db", name)
		db, err := pebble.Open(collectionPath, &pebble.Options{})
		if err != nil {
			for _, openedDB := range collections {
				openedDB.Close()
			}
			return nil, fmt.Errorf("failed to open collection %s at %s: %w", name, collectionPath, err)
		}
		collections[name] = db
	}

	pdb := &PebbleDatabase{
		collections: collections,
	}
	if err := pdb.loadCounters(); err != nil {
		pdb.Close()
		return nil, fmt.Errorf("failed to load counters: %w", err)
	}

	log.Printf("✅ PebbleDB opened at %s with %d collections", cfg.DataDir, len(collections))
	return pdb, nil
}

func (p *PebbleDatabase) loadCounters() error {
	val, closer, err := p.collections[collectionCounters].Get([]byte(keyTipCounter))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	defer closer.Close()

	count, err := strconv.ParseInt(string(val), 10, 64)
	if err != nil {
		return fmt.Errorf("corrupt tip counter %q: %w", string(val), err)
	}
	p.tipIDCounter.Store(count)
	return nil
}

// indexKey zero-padded so lexical order equals numeric order
func indexKey(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s:%020d", prefix, id))
}

func (p *PebbleDatabase) getJSON(collection, key string, dest interface{}) error {
	val, closer, err := p.collections[collection].Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	defer closer.Close()
	return json.Unmarshal(val, dest)
}

// SavePreferences upserts the preferences of a profile
func (p *PebbleDatabase) SavePreferences(prefs *model.Preferences) error {
	if prefs.Profile == "" {
		prefs.Profile = model.DefaultProfile
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return p.collections[collectionPreferences].Set([]byte(prefs.Profile), data, pebble.Sync)
}

// GetPreferences returns ErrNotFound for a profile never saved
func (p *PebbleDatabase) GetPreferences(profile string) (*model.Preferences, error) {
	if profile == "" {
		profile = model.DefaultProfile
	}
	var prefs model.Preferences
	if err := p.getJSON(collectionPreferences, profile, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// CreateTipRecord stores a record and its blob and sender indexes
func (p *PebbleDatabase) CreateTipRecord(record *model.TipRecord) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	recordDB := p.collections[collectionTipRecord]
	if _, closer, err := recordDB.Get([]byte(record.Digest)); err == nil {
		closer.Close()
		return ErrDuplicate
	} else if !errors.Is(err, pebble.ErrNotFound) {
		return err
	}

	id := p.tipIDCounter.Add(1)
	record.ID = id
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	if err := recordDB.Set([]byte(record.Digest), data, pebble.Sync); err != nil {
		return err
	}
	digest := []byte(record.Digest)
	if err := p.collections[collectionTipBlob].Set(indexKey(record.BlobID, id), digest, pebble.Sync); err != nil {
		return err
	}
	if err := p.collections[collectionTipSender].Set(indexKey(record.Sender, id), digest, pebble.Sync); err != nil {
		return err
	}
	return p.collections[collectionCounters].Set([]byte(keyTipCounter), []byte(strconv.FormatInt(id, 10)), pebble.Sync)
}

// GetTipRecordByDigest get tip record by transaction digest
func (p *PebbleDatabase) GetTipRecordByDigest(digest string) (*model.TipRecord, error) {
	var record model.TipRecord
	if err := p.getJSON(collectionTipRecord, digest, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListTipRecordsByBlobID tip records of one blob, newest first
func (p *PebbleDatabase) ListTipRecordsByBlobID(blobID string, cursor int64, size int) ([]*model.TipRecord, int64, error) {
	return p.listByIndex(collectionTipBlob, blobID, cursor, size)
}

// ListTipRecordsBySender tip records sent by one address, newest first
func (p *PebbleDatabase) ListTipRecordsBySender(sender string, cursor int64, size int) ([]*model.TipRecord, int64, error) {
	return p.listByIndex(collectionTipSender, sender, cursor, size)
}

// listByIndex walks {prefix}:{id} keys backwards starting below cursor
func (p *PebbleDatabase) listByIndex(collection, prefix string, cursor int64, size int) ([]*model.TipRecord, int64, error) {
	size = clampPageSize(size)
	upper := []byte(prefix + ":~")
	if cursor > 0 {
		upper = indexKey(prefix, cursor)
	}
	iter, err := p.collections[collection].NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix + ":"),
		UpperBound: upper,
	})
	if err != nil {
		return nil, 0, err
	}
	defer iter.Close()

	records := make([]*model.TipRecord, 0, size)
	for iter.Last(); iter.Valid() && len(records) < size; iter.Prev() {
		record, err := p.GetTipRecordByDigest(string(iter.Value()))
		if err != nil {
			log.Printf("⚠️  dangling tip index %s: %v", string(iter.Key()), err)
			continue
		}
		records = append(records, record)
	}
	if err := iter.Error(); err != nil {
		return nil, 0, err
	}

	var nextCursor int64
	if len(records) == size {
		nextCursor = records[len(records)-1].ID
	}
	return records, nextCursor, nil
}

// CountTipRecords number of stored tip records
func (p *PebbleDatabase) CountTipRecords() (int64, error) {
	iter, err := p.collections[collectionTipRecord].NewIter(nil)
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	var count int64
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}
	return count, iter.Error()
}

// Close closes every collection
func (p *PebbleDatabase) Close() error {
	var firstErr error
	for name, db := range p.collections {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close collection %s: %w", name, err)
		}
	}
	return firstErr
}
