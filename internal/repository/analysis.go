package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/greenverse/greenverse-go/internal/model"
)

const analysisColumns = `id, user_id, image_url, plant_name, dehydration_level, confidence_score,
	stress_level, stress_score, sunlight_exposure, sunlight_warning, overall_health_score,
	recommendations, watering_schedule, created_at`

// MySQLAnalysisRepository handles plant analysis persistence in MySQL.
type MySQLAnalysisRepository struct {
	db *sql.DB
}

// NewAnalysisRepository creates a MySQL-backed analysis repository.
func NewAnalysisRepository(db *sql.DB) *MySQLAnalysisRepository {
	return &MySQLAnalysisRepository{db: db}
}

// Create inserts a plant analysis. Recommendations are stored as a JSON array.
func (r *MySQLAnalysisRepository) Create(ctx context.Context, a *model.PlantAnalysis) error {
	recs := a.Recommendations
	if recs == nil {
		recs = []string{}
	}
	recsJSON, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO plant_analyses (`+analysisColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.ImageURL, nullString(a.PlantName), a.DehydrationLevel, a.ConfidenceScore,
		nullString(a.StressLevel), a.StressScore, nullString(a.SunlightExposure), nullString(a.SunlightWarning),
		a.OverallHealthScore, recsJSON, nullString(a.WateringSchedule), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert plant analysis: %w", err)
	}
	return nil
}

// ListByUser retrieves all analyses of a user, most recent first.
func (r *MySQLAnalysisRepository) ListByUser(ctx context.Context, userID string) ([]model.PlantAnalysis, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+analysisColumns+` FROM plant_analyses WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select plant analyses: %w", err)
	}
	defer rows.Close()

	analyses := []model.PlantAnalysis{}
	for rows.Next() {
		var a model.PlantAnalysis
		var plantName, stressLevel, exposure, warning, schedule sql.NullString
		var recsJSON []byte
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.ImageURL, &plantName, &a.DehydrationLevel, &a.ConfidenceScore,
			&stressLevel, &a.StressScore, &exposure, &warning, &a.OverallHealthScore,
			&recsJSON, &schedule, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan plant analysis: %w", err)
		}
		if err := json.Unmarshal(recsJSON, &a.Recommendations); err != nil {
			return nil, fmt.Errorf("decode recommendations of %s: %w", a.ID, err)
		}
		a.PlantName = plantName.String
		a.StressLevel = stressLevel.String
		a.SunlightExposure = exposure.String
		a.SunlightWarning = warning.String
		a.WateringSchedule = schedule.String
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}
