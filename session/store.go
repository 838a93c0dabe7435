package session

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
)

// ErrStaleWrite means a newer version was already persisted for the key, so
// the write was dropped (concurrent tabs race via last-write-wins).
var ErrStaleWrite = errors.New("session write is older than the stored version")

// Store is the raw keyed persistence behind the repository. Save must reject
// data whose version is not newer than what is already held.
type Store interface {
	Load(key string) (data []byte, version int64, ok bool, err error)
	Save(key string, data []byte, version int64) error
	Delete(key string) error
}

// GormStore persists session blobs in the gateway database, one row per
// table code.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(key string) ([]byte, int64, bool, error) {
	var rec models.SessionRecord
	if err := s.db.Where("table_code = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}
	return rec.Payload, rec.Version, true, nil
}

func (s *GormStore) Save(key string, data []byte, version int64) error {
	var rec models.SessionRecord
	err := s.db.Where("table_code = ?", key).First(&rec).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		rec = models.SessionRecord{TableCode: key, Payload: data, Version: version}
		return s.db.Create(&rec).Error
	}
	if rec.Version >= version {
		return ErrStaleWrite
	}
	rec.Payload = data
	rec.Version = version
	rec.UpdatedAt = time.Now()
	return s.db.Save(&rec).Error
}

func (s *GormStore) Delete(key string) error {
	return s.db.Where("table_code = ?", key).Delete(&models.SessionRecord{}).Error
}

// MemoryStore is an in-process Store for tests and single-process use.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data    []byte
	version int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Load(key string) ([]byte, int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, 0, false, nil
	}
	return entry.data, entry.version, true, nil
}

func (s *MemoryStore) Save(key string, data []byte, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[key]; ok && existing.version >= version {
		return ErrStaleWrite
	}
	s.entries[key] = memoryEntry{data: data, version: version}
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
