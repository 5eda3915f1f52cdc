package database

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Initialize creates every table and index the lib/pq store needs.
// Column names match what GORM derives from the model package, so both
// stores can share one database.
func (s *PostgreSQLStore) Initialize(ctx context.Context) error {
	log.Println("Initializing PostgresSQL Database.", "Initializing Tables")
	if err := s.InitTables(ctx); err != nil {
		return err
	}
	log.Println("Initializing PostgresSQL Database.", "Printing Relationships")
	s.PrintAllRelationships()
	return nil
}

func (s *PostgreSQLStore) InitTables(ctx context.Context) error {
	// universities table; caller ids are not unique, row_id is the key
	universitiesTable := `
	CREATE TABLE IF NOT EXISTS universities (
		row_id BIGSERIAL PRIMARY KEY,
		id VARCHAR(100) NOT NULL,
		name VARCHAR(255) NOT NULL,
		principal_address VARCHAR(255) NOT NULL,
		authorized BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS idx_universities_id ON universities (id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_universities_principal_address ON universities (principal_address);
	`

	// students table
	studentsTable := `
	CREATE TABLE IF NOT EXISTS students (
		row_id BIGSERIAL PRIMARY KEY,
		id VARCHAR(100) NOT NULL,
		name VARCHAR(255) NOT NULL,
		wallet_address VARCHAR(255) NOT NULL,
		aadhaar_id VARCHAR(32) NOT NULL,
		created_at TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS idx_students_id ON students (id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_students_wallet_address ON students (wallet_address);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_students_aadhaar_id ON students (aadhaar_id);
	`

	// degrees table; degree_id is looked up often but deliberately not unique
	degreesTable := `
	CREATE TABLE IF NOT EXISTS degrees (
		id VARCHAR(100) PRIMARY KEY,
		degree_id BIGINT NOT NULL,
		student_id VARCHAR(100) NOT NULL,
		student_name VARCHAR(255) NOT NULL,
		student_wallet_address VARCHAR(255) NOT NULL,
		university_id VARCHAR(100) NOT NULL,
		university_name VARCHAR(255) NOT NULL,
		course VARCHAR(255) NOT NULL,
		graduation_year INTEGER NOT NULL,
		degree_hash TEXT NOT NULL,
		tx_id VARCHAR(100),
		pdf_data TEXT,
		pdf_pages BIGINT NOT NULL DEFAULT 0,
		pdf_url VARCHAR(512) NOT NULL DEFAULT '',
		qr_code TEXT NOT NULL DEFAULT '',
		verified BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS idx_degrees_degree_id ON degrees (degree_id);
	CREATE INDEX IF NOT EXISTS idx_degrees_student_id ON degrees (student_id);
	CREATE INDEX IF NOT EXISTS idx_degrees_student_wallet_address ON degrees (student_wallet_address);
	CREATE INDEX IF NOT EXISTS idx_degrees_university_id ON degrees (university_id);
	`

	// cron job logs table
	cronJobLogsTable := `
	CREATE TABLE IF NOT EXISTS cron_job_logs (
		id BIGSERIAL PRIMARY KEY,
		job_name VARCHAR(100) NOT NULL,
		status VARCHAR(20) NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		duration BIGINT,
		message TEXT,
		error_msg TEXT,
		metadata JSONB,
		created_at TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS idx_cron_job_logs_job_name ON cron_job_logs (job_name);
	`

	allTables := strings.Join([]string{universitiesTable, studentsTable, degreesTable, cronJobLogsTable}, "")

	_, err := s.db.ExecContext(ctx, allTables)
	return err
}

func (s *PostgreSQLStore) PrintAllRelationships() {
	relationships := map[string]string{
		"degrees": "student_id -> students(id) (not enforced), university_id -> universities(id) (checked at mint)",
	}

	for table, relationship := range relationships {
		fmt.Printf("Relationships for %s table:\n", table)
		fmt.Println(relationship)
		fmt.Println()
	}
}
