package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sahilchouksey/shikshachain/database"
	"github.com/sahilchouksey/shikshachain/model"
	"github.com/sahilchouksey/shikshachain/utils/cache"
)

var errStoreDown = errors.New("connection refused")

// brokenStore fails every read and write
type brokenStore struct {
	database.Storage
}

func (brokenStore) InsertUniversity(context.Context, *model.University) error { return errStoreDown }
func (brokenStore) FindUniversity(context.Context, database.UniversityFilter) (*model.University, error) {
	return nil, errStoreDown
}
func (brokenStore) FindUniversities(context.Context) ([]model.University, error) {
	return nil, errStoreDown
}
func (brokenStore) FindStudent(context.Context, database.StudentFilter) (*model.Student, error) {
	return nil, errStoreDown
}
func (brokenStore) FindDegree(context.Context, database.DegreeFilter) (*model.Degree, error) {
	return nil, errStoreDown
}
func (brokenStore) FindDegrees(context.Context, database.DegreeFilter) ([]model.Degree, error) {
	return nil, errStoreDown
}

// racingStore hides existing records from the pre-check so the insert
// reaches the unique index
type racingStore struct {
	*database.InMemoryStore
}

func (racingStore) FindUniversity(context.Context, database.UniversityFilter) (*model.University, error) {
	return nil, database.ErrNotFound
}

func (racingStore) FindStudent(context.Context, database.StudentFilter) (*model.Student, error) {
	return nil, database.ErrNotFound
}

// flakyUniversityStore fails the next universityFailures university lookups
type flakyUniversityStore struct {
	*database.InMemoryStore
	mu                 sync.Mutex
	universityFailures int
}

func (s *flakyUniversityStore) FindUniversity(ctx context.Context, filter database.UniversityFilter) (*model.University, error) {
	s.mu.Lock()
	if s.universityFailures > 0 {
		s.universityFailures--
		s.mu.Unlock()
		return nil, errStoreDown
	}
	s.mu.Unlock()
	return s.InMemoryStore.FindUniversity(ctx, filter)
}

// memoryCache is a map-backed VerificationCache
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return errors.New("redis: connection pool timeout")
	}
	raw, ok := c.entries[key]
	if !ok {
		return cache.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	c.ttls[key] = ttl
	return nil
}

// fakeDocuments records uploads
type fakeDocuments struct {
	uploads map[string][]byte
	err     error
}

func (f *fakeDocuments) UploadDegreePDF(_ context.Context, degreeRecordID string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[degreeRecordID] = data
	return "https://cdn.example/degrees/" + degreeRecordID + ".pdf", nil
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
