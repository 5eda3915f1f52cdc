package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/shikshachain/config"
	"github.com/sahilchouksey/shikshachain/model"
)

// Storage defines the interface that all record store implementations must satisfy.
// Single-record inserts and reads are atomic; nothing spans multiple records.
type Storage interface {
	// Lifecycle methods
	Init(ctx context.Context) error
	Close() error
	HealthCheck(ctx context.Context) error

	// Universities
	InsertUniversity(ctx context.Context, university *model.University) error
	FindUniversity(ctx context.Context, filter UniversityFilter) (*model.University, error)
	FindUniversities(ctx context.Context) ([]model.University, error)
	CountUniversities(ctx context.Context) (int64, error)

	// Students
	InsertStudent(ctx context.Context, student *model.Student) error
	FindStudent(ctx context.Context, filter StudentFilter) (*model.Student, error)

	// Degrees
	InsertDegree(ctx context.Context, degree *model.Degree) error
	FindDegree(ctx context.Context, filter DegreeFilter) (*model.Degree, error)
	FindDegrees(ctx context.Context, filter DegreeFilter) ([]model.Degree, error)
	CountDegrees(ctx context.Context, filter DegreeFilter) (int64, error)

	// Cron job logs
	InsertJobLog(ctx context.Context, entry *model.CronJobLog) error
	DeleteJobLogsBefore(ctx context.Context, before time.Time) (int64, error)
}

// UniversityFilter selects a university by any of its identity keys.
// Non-empty fields are OR-ed; an empty filter matches nothing.
type UniversityFilter struct {
	ID               string
	PrincipalAddress string
}

func (f UniversityFilter) empty() bool {
	return f.ID == "" && f.PrincipalAddress == ""
}

func (f UniversityFilter) matches(u *model.University) bool {
	return (f.ID != "" && u.ID == f.ID) ||
		(f.PrincipalAddress != "" && u.PrincipalAddress == f.PrincipalAddress)
}

// StudentFilter selects a student by any of its identity keys.
// Non-empty fields are OR-ed; an empty filter matches nothing.
type StudentFilter struct {
	ID            string
	WalletAddress string
	AadhaarID     string
}

func (f StudentFilter) empty() bool {
	return f.ID == "" && f.WalletAddress == "" && f.AadhaarID == ""
}

func (f StudentFilter) matches(s *model.Student) bool {
	return (f.ID != "" && s.ID == f.ID) ||
		(f.WalletAddress != "" && s.WalletAddress == f.WalletAddress) ||
		(f.AadhaarID != "" && s.AadhaarID == f.AadhaarID)
}

// DegreeFilter narrows degree scans. Set fields are AND-ed; the zero value
// matches every degree.
type DegreeFilter struct {
	DegreeID      *int64
	StudentID     string
	WalletAddress string
}

// ByTokenID returns a filter for a single NFT token id
func ByTokenID(degreeID int64) DegreeFilter {
	return DegreeFilter{DegreeID: &degreeID}
}

func (f DegreeFilter) matches(d *model.Degree) bool {
	if f.DegreeID != nil && d.DegreeID != *f.DegreeID {
		return false
	}
	if f.StudentID != "" && d.StudentID != f.StudentID {
		return false
	}
	if f.WalletAddress != "" && d.StudentWalletAddress != f.WalletAddress {
		return false
	}
	return true
}

// Open connects the store selected by DB_DRIVER
func Open(env *config.EnvironmentVariable) (Storage, error) {
	switch env.DBDriver {
	case config.DriverGORM:
		return StartGORM(env)
	case config.DriverPostgres:
		return Start(env)
	case config.DriverMemory:
		return NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", env.DBDriver)
	}
}

var (
	_ Storage = (*GORMStore)(nil)
	_ Storage = (*PostgreSQLStore)(nil)
	_ Storage = (*InMemoryStore)(nil)
)
