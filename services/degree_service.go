package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/sahilchouksey/shikshachain/database"
	"github.com/sahilchouksey/shikshachain/model"
	"github.com/sahilchouksey/shikshachain/services/storage"
	"github.com/sahilchouksey/shikshachain/utils/metrics"
	"github.com/sahilchouksey/shikshachain/utils/pdfvalidation"
)

// tokenIDDigits is how many leading decimal digits of a random 128-bit value
// make up a token id. Collisions are possible and degree_id is not unique.
const tokenIDDigits = 8

// MintDegreeRequest holds the fields of a degree to mint
type MintDegreeRequest struct {
	StudentID            string  `json:"student_id" validate:"required"`
	StudentName          string  `json:"student_name" validate:"required"`
	StudentWalletAddress string  `json:"student_wallet_address" validate:"required"`
	Course               string  `json:"course" validate:"required"`
	GraduationYear       int     `json:"graduation_year" validate:"required"`
	UniversityID         string  `json:"university_id" validate:"required"`
	DegreePDFBase64      *string `json:"degree_pdf_base64"`
}

// MintResult is a persisted degree together with its QR payload
type MintResult struct {
	Degree  *model.Degree
	Payload model.VerificationPayload
}

// DegreeService mints degree NFTs
type DegreeService struct {
	store     database.Storage
	registry  *RegistryService
	documents storage.DocumentStorage
	metrics   *metrics.Metrics
	apiPrefix string
	now       func() time.Time
	newUUID   func() uuid.UUID
}

// DegreeServiceConfig configures a DegreeService. Documents and Metrics are optional.
type DegreeServiceConfig struct {
	Store     database.Storage
	Registry  *RegistryService
	Documents storage.DocumentStorage
	Metrics   *metrics.Metrics
	APIPrefix string
}

// NewDegreeService creates a degree service
func NewDegreeService(cfg DegreeServiceConfig) *DegreeService {
	return &DegreeService{
		store:     cfg.Store,
		registry:  cfg.Registry,
		documents: cfg.Documents,
		metrics:   cfg.Metrics,
		apiPrefix: strings.TrimSuffix(cfg.APIPrefix, "/"),
		now:       time.Now,
		newUUID:   uuid.New,
	}
}

// Mint issues a degree. Only the university reference is checked.
func (s *DegreeService) Mint(ctx context.Context, req MintDegreeRequest) (*MintResult, error) {
	university, err := s.registry.GetUniversity(ctx, req.UniversityID)
	if err != nil {
		if !IsKind(err, KindNotFound) {
			log.Errorf("Error minting degree: %v", err)
		}
		return nil, err
	}

	recordID := s.newUUID().String()
	tokenID := TokenIDFromUUID(s.newUUID())

	payload := model.VerificationPayload{
		DegreeID:        tokenID,
		StudentName:     req.StudentName,
		Course:          req.Course,
		University:      university.Name,
		GraduationYear:  req.GraduationYear,
		VerificationURL: VerificationURL(s.apiPrefix, tokenID),
	}

	degree := &model.Degree{
		ID:                   recordID,
		DegreeID:             tokenID,
		StudentID:            req.StudentID,
		StudentName:          req.StudentName,
		StudentWalletAddress: req.StudentWalletAddress,
		UniversityID:         university.ID,
		UniversityName:       university.Name,
		Course:               req.Course,
		GraduationYear:       req.GraduationYear,
		DegreeHash:           Fingerprint(req.StudentName, req.Course, req.GraduationYear),
		PdfData:              req.DegreePDFBase64,
		QRCode:               payload.String(),
		Verified:             true,
		CreatedAt:            s.now().UTC(),
	}

	if req.DegreePDFBase64 != nil && *req.DegreePDFBase64 != "" {
		s.attachDocument(ctx, degree, *req.DegreePDFBase64)
	}

	if err := s.store.InsertDegree(ctx, degree); err != nil {
		log.Errorf("Error minting degree: %v", err)
		return nil, internal(err)
	}

	if s.metrics != nil {
		s.metrics.DegreesMinted.Inc()
	}
	log.Infof("Minted degree NFT %d for student %s", degree.DegreeID, degree.StudentName)

	return &MintResult{Degree: degree, Payload: payload}, nil
}

// attachDocument records page count and upload URL of the certificate.
// Failures are logged and never block the mint.
func (s *DegreeService) attachDocument(ctx context.Context, degree *model.Degree, encoded string) {
	content, err := pdfvalidation.DecodeBase64(encoded)
	if err != nil {
		log.Warnf("Degree %s: pdf is not valid base64: %v", degree.ID, err)
		return
	}

	result, err := pdfvalidation.ValidatePDFBytes(content, pdfvalidation.DegreeLimits)
	if err != nil {
		log.Warnf("Degree %s: pdf inspection failed: %v", degree.ID, err)
	} else if !result.Valid {
		log.Warnf("Degree %s: %s", degree.ID, result.Error)
	} else {
		degree.PdfPages = result.PageCount
	}

	if s.documents == nil {
		return
	}
	url, err := s.documents.UploadDegreePDF(ctx, degree.ID, content)
	if err != nil {
		log.Warnf("Degree %s: pdf upload failed: %v", degree.ID, err)
		return
	}
	degree.PdfURL = url
}

// TokenIDFromUUID renders id as a 128-bit unsigned integer and keeps its
// leading eight decimal digits.
func TokenIDFromUUID(id uuid.UUID) int64 {
	digits := new(big.Int).SetBytes(id[:]).String()
	if len(digits) > tokenIDDigits {
		digits = digits[:tokenIDDigits]
	}
	tokenID, _ := strconv.ParseInt(digits, 10, 64)
	return tokenID
}

// Fingerprint is the reversible content fingerprint stored as degree_hash
func Fingerprint(studentName, course string, graduationYear int) string {
	raw := fmt.Sprintf("%s-%s-%d", studentName, course, graduationYear)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// VerificationURL is the public verify path for a token id
func VerificationURL(apiPrefix string, tokenID int64) string {
	return fmt.Sprintf("%s/degrees/verify/%d", apiPrefix, tokenID)
}
