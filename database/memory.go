package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sahilchouksey/shikshachain/model"
)

// InMemoryStore keeps records in insertion-ordered slices. It enforces the
// same unique keys as the SQL schemas so services behave identically on it:
// principal address, wallet and Aadhaar id. Caller-supplied ids may repeat.
type InMemoryStore struct {
	mu           sync.RWMutex
	universities []model.University
	students     []model.Student
	degrees      []model.Degree
	jobLogs      []model.CronJobLog
	nextJobLogID uint
	nextRowID    uint
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Init(_ context.Context) error { return nil }

func (s *InMemoryStore) Close() error { return nil }

func (s *InMemoryStore) HealthCheck(_ context.Context) error { return nil }

func (s *InMemoryStore) InsertUniversity(_ context.Context, university *model.University) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.universities {
		existing := &s.universities[i]
		if existing.PrincipalAddress == university.PrincipalAddress {
			return fmt.Errorf("insert university: %w", ErrDuplicate)
		}
	}
	s.nextRowID++
	university.RowID = s.nextRowID
	s.universities = append(s.universities, *university)
	return nil
}

func (s *InMemoryStore) FindUniversity(_ context.Context, filter UniversityFilter) (*model.University, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.universities {
		if filter.matches(&s.universities[i]) {
			university := s.universities[i]
			return &university, nil
		}
	}
	return nil, fmt.Errorf("find university: %w", ErrNotFound)
}

func (s *InMemoryStore) FindUniversities(_ context.Context) ([]model.University, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.University{}, s.universities...), nil
}

func (s *InMemoryStore) CountUniversities(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.universities)), nil
}

func (s *InMemoryStore) InsertStudent(_ context.Context, student *model.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.students {
		existing := &s.students[i]
		if existing.WalletAddress == student.WalletAddress || existing.AadhaarID == student.AadhaarID {
			return fmt.Errorf("insert student: %w", ErrDuplicate)
		}
	}
	s.nextRowID++
	student.RowID = s.nextRowID
	s.students = append(s.students, *student)
	return nil
}

func (s *InMemoryStore) FindStudent(_ context.Context, filter StudentFilter) (*model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.students {
		if filter.matches(&s.students[i]) {
			student := s.students[i]
			return &student, nil
		}
	}
	return nil, fmt.Errorf("find student: %w", ErrNotFound)
}

func (s *InMemoryStore) InsertDegree(_ context.Context, degree *model.Degree) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.degrees {
		if s.degrees[i].ID == degree.ID {
			return fmt.Errorf("insert degree: %w", ErrDuplicate)
		}
	}
	s.degrees = append(s.degrees, *degree)
	return nil
}

func (s *InMemoryStore) FindDegree(_ context.Context, filter DegreeFilter) (*model.Degree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.degrees {
		if filter.matches(&s.degrees[i]) {
			degree := s.degrees[i]
			return &degree, nil
		}
	}
	return nil, fmt.Errorf("find degree: %w", ErrNotFound)
}

func (s *InMemoryStore) FindDegrees(_ context.Context, filter DegreeFilter) ([]model.Degree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	degrees := []model.Degree{}
	for i := range s.degrees {
		if filter.matches(&s.degrees[i]) {
			degrees = append(degrees, s.degrees[i])
		}
	}
	return degrees, nil
}

func (s *InMemoryStore) CountDegrees(ctx context.Context, filter DegreeFilter) (int64, error) {
	degrees, err := s.FindDegrees(ctx, filter)
	return int64(len(degrees)), err
}

func (s *InMemoryStore) InsertJobLog(_ context.Context, entry *model.CronJobLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextJobLogID++
	entry.ID = s.nextJobLogID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.jobLogs = append(s.jobLogs, *entry)
	return nil
}

func (s *InMemoryStore) DeleteJobLogsBefore(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.jobLogs[:0]
	var removed int64
	for _, entry := range s.jobLogs {
		if entry.StartedAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	s.jobLogs = kept
	return removed, nil
}

// JobLogs returns a copy of the recorded cron runs
func (s *InMemoryStore) JobLogs() []model.CronJobLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.CronJobLog{}, s.jobLogs...)
}
