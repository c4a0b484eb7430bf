package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greenverse/greenverse-go/internal/model"
	"github.com/greenverse/greenverse-go/internal/repository"
)

var (
	ErrImageURLRequired         = errors.New("imageUrl is required")
	ErrDehydrationLevelRequired = errors.New("dehydrationLevel is required")
	ErrConfidenceOutOfRange     = errors.New("confidenceScore must be between 0 and 100")
)

// AnalysisService handles saved plant analysis business logic.
type AnalysisService struct {
	repo repository.AnalysisRepository
	now  func() time.Time
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(repo repository.AnalysisRepository) *AnalysisService {
	return &AnalysisService{repo: repo, now: time.Now}
}

// Save stores an analysis result for a user. The request carries the
// confidence as a percentage; it is stored as a fraction.
func (s *AnalysisService) Save(ctx context.Context, userID string, req model.PlantAnalysisRequest) (*model.PlantAnalysis, error) {
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, ErrImageURLRequired
	}
	if strings.TrimSpace(req.DehydrationLevel) == "" {
		return nil, ErrDehydrationLevelRequired
	}
	if req.ConfidenceScore < 0 || req.ConfidenceScore > 100 {
		return nil, ErrConfidenceOutOfRange
	}

	recs := req.Recommendations
	if recs == nil {
		recs = []string{}
	}

	a := &model.PlantAnalysis{
		ID:                 uuid.NewString(),
		UserID:             userID,
		ImageURL:           strings.TrimSpace(req.ImageURL),
		PlantName:          req.PlantName,
		DehydrationLevel:   req.DehydrationLevel,
		ConfidenceScore:    req.ConfidenceScore / 100,
		StressLevel:        req.StressLevel,
		StressScore:        req.StressScore,
		SunlightExposure:   req.SunlightExposure,
		SunlightWarning:    req.SunlightWarning,
		OverallHealthScore: req.OverallHealthScore,
		Recommendations:    recs,
		WateringSchedule:   req.WateringSchedule,
		CreatedAt:          s.now().UTC(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns a user's analyses, newest first.
func (s *AnalysisService) List(ctx context.Context, userID string) ([]model.PlantAnalysis, error) {
	return s.repo.ListByUser(ctx, userID)
}
