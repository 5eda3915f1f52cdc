package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/shikshachain/database"
	"github.com/sahilchouksey/shikshachain/model"
	"github.com/sahilchouksey/shikshachain/utils/cache"
	"github.com/sahilchouksey/shikshachain/utils/metrics"
)

const msgDegreeNotFound = "Degree not found"

// VerificationCache is the subset of the Redis cache used for verification views
type VerificationCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// VerificationService looks degrees up by token id and lists them
type VerificationService struct {
	store    database.Storage
	cache    VerificationCache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewVerificationService creates the service. cache and m may be nil.
func NewVerificationService(store database.Storage, c VerificationCache, cacheTTL time.Duration, m *metrics.Metrics) *VerificationService {
	return &VerificationService{
		store:    store,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  m,
	}
}

// VerificationCacheKey is the Redis key of a verification view
func VerificationCacheKey(degreeID int64) string {
	return fmt.Sprintf("verification:%d", degreeID)
}

// Verify returns the public view of the degree with token id degreeID.
// A missing university reads as not authorized instead of failing.
func (s *VerificationService) Verify(ctx context.Context, degreeID int64) (*model.VerificationView, error) {
	key := VerificationCacheKey(degreeID)
	if view, ok := s.cached(ctx, key); ok {
		s.countVerification(metrics.ResultFound)
		if s.metrics != nil {
			s.metrics.VerificationCacheHits.Inc()
		}
		return view, nil
	}

	degree, err := s.store.FindDegree(ctx, database.ByTokenID(degreeID))
	if err != nil {
		if isNotFound(err) {
			s.countVerification(metrics.ResultNotFound)
			return nil, notFound(msgDegreeNotFound)
		}
		log.Errorf("Error verifying degree %d: %v", degreeID, err)
		return nil, internal(err)
	}

	// views built on a failed university lookup are not cached
	authorized, cacheable := false, true
	university, err := s.store.FindUniversity(ctx, database.UniversityFilter{ID: degree.UniversityID})
	if err == nil {
		authorized = university.Authorized
	} else if !isNotFound(err) {
		log.Warnf("Degree %d: university lookup failed: %v", degreeID, err)
		cacheable = false
	}

	view := &model.VerificationView{
		DegreeID:             degree.DegreeID,
		StudentName:          degree.StudentName,
		Course:               degree.Course,
		University:           degree.UniversityName,
		GraduationYear:       degree.GraduationYear,
		IssueDate:            degree.CreatedAt,
		Verified:             degree.Verified,
		StudentWallet:        degree.StudentWalletAddress,
		UniversityAuthorized: authorized,
	}

	if s.cache != nil && cacheable {
		if err := s.cache.SetJSON(ctx, key, view, s.cacheTTL); err != nil {
			log.Warnf("Failed to cache verification %d: %v", degreeID, err)
		}
	}

	s.countVerification(metrics.ResultFound)
	return view, nil
}

// ListByStudent returns the degrees issued to a student id
func (s *VerificationService) ListByStudent(ctx context.Context, studentID string) ([]model.Degree, error) {
	return s.list(ctx, database.DegreeFilter{StudentID: studentID})
}

// ListByWallet returns the degrees issued to a wallet
func (s *VerificationService) ListByWallet(ctx context.Context, wallet string) ([]model.Degree, error) {
	return s.list(ctx, database.DegreeFilter{WalletAddress: wallet})
}

// ListAll returns every degree
func (s *VerificationService) ListAll(ctx context.Context) ([]model.Degree, error) {
	return s.list(ctx, database.DegreeFilter{})
}

func (s *VerificationService) list(ctx context.Context, filter database.DegreeFilter) ([]model.Degree, error) {
	degrees, err := s.store.FindDegrees(ctx, filter)
	if err != nil {
		log.Errorf("Error fetching degrees: %v", err)
		return nil, internal(err)
	}
	if degrees == nil {
		degrees = []model.Degree{}
	}
	return degrees, nil
}

func (s *VerificationService) cached(ctx context.Context, key string) (*model.VerificationView, bool) {
	if s.cache == nil {
		return nil, false
	}
	var view model.VerificationView
	if err := s.cache.GetJSON(ctx, key, &view); err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			log.Warnf("Verification cache read failed for %s: %v", key, err)
		}
		return nil, false
	}
	return &view, true
}

func (s *VerificationService) countVerification(result string) {
	if s.metrics != nil {
		s.metrics.Verifications.WithLabelValues(result).Inc()
	}
}
