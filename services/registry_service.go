package services

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/shikshachain/database"
	"github.com/sahilchouksey/shikshachain/model"
	"github.com/sahilchouksey/shikshachain/utils/metrics"
)

const (
	msgUniversityExists   = "University with this principal address already exists"
	msgStudentExists      = "Student with this wallet address or Aadhaar ID already exists"
	msgUniversityNotFound = "University not found"
	msgStudentNotFound    = "Student not found"

	// returned when the unique index catches a write the pre-check missed
	msgUniversityConflict = "University already exists"
	msgStudentConflict    = "Student already exists"
)

// RegisterUniversityRequest holds the fields of a new university
type RegisterUniversityRequest struct {
	ID               string `json:"id" validate:"required"`
	Name             string `json:"name" validate:"required"`
	PrincipalAddress string `json:"principal_address" validate:"required"`
	Authorized       *bool  `json:"authorized"`
}

// RegisterStudentRequest holds the fields of a new student
type RegisterStudentRequest struct {
	ID            string `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	WalletAddress string `json:"wallet_address" validate:"required"`
	AadhaarID     string `json:"aadhaar_id" validate:"required"`
}

// RegistryService manages universities and students
type RegistryService struct {
	store   database.Storage
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewRegistryService creates a registry over store. m may be nil.
func NewRegistryService(store database.Storage, m *metrics.Metrics) *RegistryService {
	return &RegistryService{
		store:   store,
		metrics: m,
		now:     time.Now,
	}
}

// RegisterUniversity creates a university unless its principal address is taken
func (s *RegistryService) RegisterUniversity(ctx context.Context, req RegisterUniversityRequest) (*model.University, error) {
	_, err := s.store.FindUniversity(ctx, database.UniversityFilter{PrincipalAddress: req.PrincipalAddress})
	if err == nil {
		s.rejectDuplicate("university")
		return nil, duplicateEntity(msgUniversityExists)
	}
	if !isNotFound(err) {
		log.Errorf("Error creating university: %v", err)
		return nil, internal(err)
	}

	authorized := true
	if req.Authorized != nil {
		authorized = *req.Authorized
	}

	university := &model.University{
		ID:               req.ID,
		Name:             req.Name,
		PrincipalAddress: req.PrincipalAddress,
		Authorized:       authorized,
		CreatedAt:        s.now().UTC(),
	}

	if err := s.store.InsertUniversity(ctx, university); err != nil {
		if isDuplicate(err) {
			s.rejectDuplicate("university")
			return nil, duplicateEntity(msgUniversityConflict)
		}
		log.Errorf("Error creating university: %v", err)
		return nil, internal(err)
	}

	if s.metrics != nil {
		s.metrics.UniversitiesRegistered.Inc()
	}
	log.Infof("University created: %s", university.Name)
	return university, nil
}

// RegisterStudent creates a student unless the wallet or Aadhaar id is taken
func (s *RegistryService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*model.Student, error) {
	_, err := s.store.FindStudent(ctx, database.StudentFilter{
		WalletAddress: req.WalletAddress,
		AadhaarID:     req.AadhaarID,
	})
	if err == nil {
		s.rejectDuplicate("student")
		return nil, duplicateEntity(msgStudentExists)
	}
	if !isNotFound(err) {
		log.Errorf("Error creating student: %v", err)
		return nil, internal(err)
	}

	student := &model.Student{
		ID:            req.ID,
		Name:          req.Name,
		WalletAddress: req.WalletAddress,
		AadhaarID:     req.AadhaarID,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.store.InsertStudent(ctx, student); err != nil {
		if isDuplicate(err) {
			s.rejectDuplicate("student")
			return nil, duplicateEntity(msgStudentConflict)
		}
		log.Errorf("Error creating student: %v", err)
		return nil, internal(err)
	}

	if s.metrics != nil {
		s.metrics.StudentsRegistered.Inc()
	}
	log.Infof("Student created: %s", student.Name)
	return student, nil
}

// GetUniversity returns the university with the given id
func (s *RegistryService) GetUniversity(ctx context.Context, id string) (*model.University, error) {
	university, err := s.store.FindUniversity(ctx, database.UniversityFilter{ID: id})
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(msgUniversityNotFound)
		}
		log.Errorf("Error fetching university %s: %v", id, err)
		return nil, internal(err)
	}
	return university, nil
}

// ListUniversities returns every university in insertion order
func (s *RegistryService) ListUniversities(ctx context.Context) ([]model.University, error) {
	universities, err := s.store.FindUniversities(ctx)
	if err != nil {
		log.Errorf("Error fetching universities: %v", err)
		return nil, internal(err)
	}
	if universities == nil {
		universities = []model.University{}
	}
	return universities, nil
}

// GetStudent returns the student with the given id
func (s *RegistryService) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	return s.findStudent(ctx, database.StudentFilter{ID: id})
}

// GetStudentByWallet returns the student owning wallet
func (s *RegistryService) GetStudentByWallet(ctx context.Context, wallet string) (*model.Student, error) {
	return s.findStudent(ctx, database.StudentFilter{WalletAddress: wallet})
}

func (s *RegistryService) findStudent(ctx context.Context, filter database.StudentFilter) (*model.Student, error) {
	student, err := s.store.FindStudent(ctx, filter)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(msgStudentNotFound)
		}
		log.Errorf("Error fetching student: %v", err)
		return nil, internal(err)
	}
	return student, nil
}

func (s *RegistryService) rejectDuplicate(entity string) {
	if s.metrics != nil {
		s.metrics.DuplicateRejections.WithLabelValues(entity).Inc()
	}
}
