package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/sahilchouksey/shikshachain/config"
	"github.com/sahilchouksey/shikshachain/model"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	universityColumns = []string{"id", "name", "principal_address", "authorized", "created_at"}
	studentColumns    = []string{"id", "name", "wallet_address", "aadhaar_id", "created_at"}
	degreeColumns     = []string{
		"id", "degree_id", "student_id", "student_name", "student_wallet_address",
		"university_id", "university_name", "course", "graduation_year", "degree_hash",
		"tx_id", "pdf_data", "pdf_pages", "pdf_url", "qr_code", "verified", "created_at",
	}
)

// PostgreSQLStore is the lib/pq implementation of Storage, built on
// hand-written schema and squirrel queries instead of GORM.
type PostgreSQLStore struct {
	db *sql.DB
}

// Start opens a lib/pq connection using the configured DSN
func Start(env *config.EnvironmentVariable) (*PostgreSQLStore, error) {
	db, err := sql.Open("postgres", env.PostgresDSN())
	if err != nil {
		log.Println("Unable to Start PostgresSQL Database.")
		return nil, err
	}

	log.Println("Successfully connected to PostgresSQL Database.")
	return NewPostgreSQLStore(db), nil
}

// NewPostgreSQLStore wraps an already opened *sql.DB
func NewPostgreSQLStore(db *sql.DB) *PostgreSQLStore {
	return &PostgreSQLStore{db: db}
}

func (s *PostgreSQLStore) Init(ctx context.Context) error {
	log.Println("Initializing PostgresSQL Database.")
	return s.Initialize(ctx)
}

func (s *PostgreSQLStore) Close() error {
	log.Println("Closing PostgresSQL Database.")
	return s.db.Close()
}

// HealthCheck verifies the database connection is alive
func (s *PostgreSQLStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgreSQLStore) exec(ctx context.Context, builder sq.Sqlizer, kind string) (sql.Result, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", kind, err)
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert %s: %w", kind, ErrDuplicate)
		}
		return nil, fmt.Errorf("write %s: %w", kind, err)
	}
	return result, nil
}

func (s *PostgreSQLStore) query(ctx context.Context, builder sq.Sqlizer, kind string) (*sql.Rows, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", kind, err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	return rows, nil
}

func (s *PostgreSQLStore) count(ctx context.Context, builder sq.SelectBuilder, kind string) (int64, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s query: %w", kind, err)
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return total, nil
}

// InsertUniversity stores a new university
func (s *PostgreSQLStore) InsertUniversity(ctx context.Context, u *model.University) error {
	insert := psql.Insert("universities").
		Columns(universityColumns...).
		Values(u.ID, u.Name, u.PrincipalAddress, u.Authorized, u.CreatedAt)
	_, err := s.exec(ctx, insert, "university")
	return err
}

// FindUniversity returns the first university matching any filter key
func (s *PostgreSQLStore) FindUniversity(ctx context.Context, filter UniversityFilter) (*model.University, error) {
	if filter.empty() {
		return nil, fmt.Errorf("find university: %w", ErrNotFound)
	}

	where := sq.Or{}
	if filter.ID != "" {
		where = append(where, sq.Eq{"id": filter.ID})
	}
	if filter.PrincipalAddress != "" {
		where = append(where, sq.Eq{"principal_address": filter.PrincipalAddress})
	}

	universities, err := s.selectUniversities(ctx, psql.Select(universityColumns...).
		From("universities").
		Where(where).
		OrderBy("created_at ASC").
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(universities) == 0 {
		return nil, fmt.Errorf("find university: %w", ErrNotFound)
	}
	return &universities[0], nil
}

// FindUniversities lists every university in insertion order
func (s *PostgreSQLStore) FindUniversities(ctx context.Context) ([]model.University, error) {
	return s.selectUniversities(ctx, psql.Select(universityColumns...).
		From("universities").
		OrderBy("created_at ASC"))
}

func (s *PostgreSQLStore) selectUniversities(ctx context.Context, builder sq.SelectBuilder) ([]model.University, error) {
	rows, err := s.query(ctx, builder, "university")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	universities := []model.University{}
	for rows.Next() {
		var u model.University
		if err := rows.Scan(&u.ID, &u.Name, &u.PrincipalAddress, &u.Authorized, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan university: %w", err)
		}
		universities = append(universities, u)
	}
	return universities, rows.Err()
}

// CountUniversities returns the number of registered universities
func (s *PostgreSQLStore) CountUniversities(ctx context.Context) (int64, error) {
	return s.count(ctx, psql.Select("COUNT(*)").From("universities"), "universities")
}

// InsertStudent stores a new student
func (s *PostgreSQLStore) InsertStudent(ctx context.Context, st *model.Student) error {
	insert := psql.Insert("students").
		Columns(studentColumns...).
		Values(st.ID, st.Name, st.WalletAddress, st.AadhaarID, st.CreatedAt)
	_, err := s.exec(ctx, insert, "student")
	return err
}

// FindStudent returns the first student matching any filter key
func (s *PostgreSQLStore) FindStudent(ctx context.Context, filter StudentFilter) (*model.Student, error) {
	if filter.empty() {
		return nil, fmt.Errorf("find student: %w", ErrNotFound)
	}

	where := sq.Or{}
	if filter.ID != "" {
		where = append(where, sq.Eq{"id": filter.ID})
	}
	if filter.WalletAddress != "" {
		where = append(where, sq.Eq{"wallet_address": filter.WalletAddress})
	}
	if filter.AadhaarID != "" {
		where = append(where, sq.Eq{"aadhaar_id": filter.AadhaarID})
	}

	query, args, err := psql.Select(studentColumns...).
		From("students").
		Where(where).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build student query: %w", err)
	}

	var st model.Student
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&st.ID, &st.Name, &st.WalletAddress, &st.AadhaarID, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find student: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &st, nil
}

// InsertDegree stores a newly minted degree
func (s *PostgreSQLStore) InsertDegree(ctx context.Context, d *model.Degree) error {
	insert := psql.Insert("degrees").
		Columns(degreeColumns...).
		Values(
			d.ID, d.DegreeID, d.StudentID, d.StudentName, d.StudentWalletAddress,
			d.UniversityID, d.UniversityName, d.Course, d.GraduationYear, d.DegreeHash,
			d.TxID, d.PdfData, d.PdfPages, d.PdfURL, d.QRCode, d.Verified, d.CreatedAt,
		)
	_, err := s.exec(ctx, insert, "degree")
	return err
}

// FindDegree returns the earliest degree matching the filter
func (s *PostgreSQLStore) FindDegree(ctx context.Context, filter DegreeFilter) (*model.Degree, error) {
	degrees, err := s.selectDegrees(ctx, degreeSelect(filter).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(degrees) == 0 {
		return nil, fmt.Errorf("find degree: %w", ErrNotFound)
	}
	return &degrees[0], nil
}

// FindDegrees lists degrees matching the filter in insertion order
func (s *PostgreSQLStore) FindDegrees(ctx context.Context, filter DegreeFilter) ([]model.Degree, error) {
	return s.selectDegrees(ctx, degreeSelect(filter))
}

// CountDegrees counts degrees matching the filter
func (s *PostgreSQLStore) CountDegrees(ctx context.Context, filter DegreeFilter) (int64, error) {
	return s.count(ctx, psql.Select("COUNT(*)").From("degrees").Where(degreeWhere(filter)), "degrees")
}

func degreeWhere(filter DegreeFilter) sq.And {
	where := sq.And{}
	if filter.DegreeID != nil {
		where = append(where, sq.Eq{"degree_id": *filter.DegreeID})
	}
	if filter.StudentID != "" {
		where = append(where, sq.Eq{"student_id": filter.StudentID})
	}
	if filter.WalletAddress != "" {
		where = append(where, sq.Eq{"student_wallet_address": filter.WalletAddress})
	}
	return where
}

func degreeSelect(filter DegreeFilter) sq.SelectBuilder {
	return psql.Select(degreeColumns...).
		From("degrees").
		Where(degreeWhere(filter)).
		OrderBy("created_at ASC")
}

func (s *PostgreSQLStore) selectDegrees(ctx context.Context, builder sq.SelectBuilder) ([]model.Degree, error) {
	rows, err := s.query(ctx, builder, "degree")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	degrees := []model.Degree{}
	for rows.Next() {
		var d model.Degree
		if err := rows.Scan(
			&d.ID, &d.DegreeID, &d.StudentID, &d.StudentName, &d.StudentWalletAddress,
			&d.UniversityID, &d.UniversityName, &d.Course, &d.GraduationYear, &d.DegreeHash,
			&d.TxID, &d.PdfData, &d.PdfPages, &d.PdfURL, &d.QRCode, &d.Verified, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan degree: %w", err)
		}
		degrees = append(degrees, d)
	}
	return degrees, rows.Err()
}

// InsertJobLog records a finished cron run
func (s *PostgreSQLStore) InsertJobLog(ctx context.Context, entry *model.CronJobLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	var metadata interface{}
	if len(entry.Metadata) > 0 {
		metadata = string(entry.Metadata)
	}

	query, args, err := psql.Insert("cron_job_logs").
		Columns("job_name", "status", "started_at", "completed_at", "duration", "message", "error_msg", "metadata", "created_at").
		Values(entry.JobName, entry.Status, entry.StartedAt, entry.CompletedAt, entry.Duration, entry.Message, entry.ErrorMsg, metadata, entry.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build cron job log query: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&entry.ID); err != nil {
		return fmt.Errorf("insert cron job log: %w", err)
	}
	return nil
}

// DeleteJobLogsBefore removes cron logs that started before the cutoff
func (s *PostgreSQLStore) DeleteJobLogsBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.exec(ctx, psql.Delete("cron_job_logs").Where(sq.Lt{"started_at": before}), "cron job log")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
