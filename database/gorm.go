package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sahilchouksey/shikshachain/config"
	"github.com/sahilchouksey/shikshachain/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM(env *config.EnvironmentVariable) (*GORMStore, error) {
	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if env.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	// Open GORM connection
	db, err := gorm.Open(postgres.Open(env.PostgresDSN()), &gorm.Config{
		Logger:         gormLogger,
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return NewGORMStore(db), nil
}

// NewGORMStore wraps an already opened GORM connection
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init(ctx context.Context) error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.WithContext(ctx).AutoMigrate(
		&model.University{},
		&model.Student{},
		&model.Degree{},
		&model.CronJobLog{},
	)
	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GORMStore) create(ctx context.Context, value interface{}, kind string) error {
	if err := s.db.WithContext(ctx).Create(value).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert %s: %w", kind, ErrDuplicate)
		}
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}

func notFound(err error, kind string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find %s: %w", kind, ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", kind, err)
}

// InsertUniversity stores a new university
func (s *GORMStore) InsertUniversity(ctx context.Context, university *model.University) error {
	return s.create(ctx, university, "university")
}

// FindUniversity returns the first university matching any filter key
func (s *GORMStore) FindUniversity(ctx context.Context, filter UniversityFilter) (*model.University, error) {
	if filter.empty() {
		return nil, fmt.Errorf("find university: %w", ErrNotFound)
	}

	query := s.db.WithContext(ctx).Model(&model.University{})
	query = orWhere(query,
		column{"id", filter.ID},
		column{"principal_address", filter.PrincipalAddress},
	)

	var university model.University
	if err := query.Order("created_at ASC").Take(&university).Error; err != nil {
		return nil, notFound(err, "university")
	}
	return &university, nil
}

// FindUniversities lists every university in insertion order
func (s *GORMStore) FindUniversities(ctx context.Context) ([]model.University, error) {
	universities := []model.University{}
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&universities).Error; err != nil {
		return nil, err
	}
	return universities, nil
}

// CountUniversities returns the number of registered universities
func (s *GORMStore) CountUniversities(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.University{}).Count(&total).Error
	return total, err
}

// InsertStudent stores a new student
func (s *GORMStore) InsertStudent(ctx context.Context, student *model.Student) error {
	return s.create(ctx, student, "student")
}

// FindStudent returns the first student matching any filter key
func (s *GORMStore) FindStudent(ctx context.Context, filter StudentFilter) (*model.Student, error) {
	if filter.empty() {
		return nil, fmt.Errorf("find student: %w", ErrNotFound)
	}

	query := s.db.WithContext(ctx).Model(&model.Student{})
	query = orWhere(query,
		column{"id", filter.ID},
		column{"wallet_address", filter.WalletAddress},
		column{"aadhaar_id", filter.AadhaarID},
	)

	var student model.Student
	if err := query.Order("created_at ASC").Take(&student).Error; err != nil {
		return nil, notFound(err, "student")
	}
	return &student, nil
}

// InsertDegree stores a newly minted degree
func (s *GORMStore) InsertDegree(ctx context.Context, degree *model.Degree) error {
	return s.create(ctx, degree, "degree")
}

// FindDegree returns the earliest degree matching the filter
func (s *GORMStore) FindDegree(ctx context.Context, filter DegreeFilter) (*model.Degree, error) {
	var degree model.Degree
	err := s.degreeQuery(ctx, filter).Order("created_at ASC").Take(&degree).Error
	if err != nil {
		return nil, notFound(err, "degree")
	}
	return &degree, nil
}

// FindDegrees lists degrees matching the filter in insertion order
func (s *GORMStore) FindDegrees(ctx context.Context, filter DegreeFilter) ([]model.Degree, error) {
	degrees := []model.Degree{}
	if err := s.degreeQuery(ctx, filter).Order("created_at ASC").Find(&degrees).Error; err != nil {
		return nil, err
	}
	return degrees, nil
}

// CountDegrees counts degrees matching the filter
func (s *GORMStore) CountDegrees(ctx context.Context, filter DegreeFilter) (int64, error) {
	var total int64
	err := s.degreeQuery(ctx, filter).Count(&total).Error
	return total, err
}

func (s *GORMStore) degreeQuery(ctx context.Context, filter DegreeFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&model.Degree{})
	if filter.DegreeID != nil {
		query = query.Where("degree_id = ?", *filter.DegreeID)
	}
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.WalletAddress != "" {
		query = query.Where("student_wallet_address = ?", filter.WalletAddress)
	}
	return query
}

// InsertJobLog records a finished cron run
func (s *GORMStore) InsertJobLog(ctx context.Context, entry *model.CronJobLog) error {
	return s.create(ctx, entry, "cron job log")
}

// DeleteJobLogsBefore removes cron logs that started before the cutoff
func (s *GORMStore) DeleteJobLogsBefore(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("started_at < ?", before).Delete(&model.CronJobLog{})
	return result.RowsAffected, result.Error
}

// column pairs a column name with the value it must equal
type column struct {
	name  string
	value string
}

// orWhere adds one grouped condition OR-ing every column with a non-empty value
func orWhere(query *gorm.DB, columns ...column) *gorm.DB {
	var (
		parts []string
		args  []interface{}
	)
	for _, c := range columns {
		if c.value == "" {
			continue
		}
		parts = append(parts, c.name+" = ?")
		args = append(args, c.value)
	}
	if len(parts) == 0 {
		return query
	}
	return query.Where("("+strings.Join(parts, " OR ")+")", args...)
}
