package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/greenverse/greenverse-go/internal/model"
)

func TestMySQLAnalysisCreate_EncodesRecommendations(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()
	repo := NewAnalysisRepository(db)

	created := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	a := &model.PlantAnalysis{
		ID: "a-1", UserID: "u-1", ImageURL: "https://img/1.jpg", DehydrationLevel: "moderate",
		ConfidenceScore: 0.87, OverallHealthScore: 72, CreatedAt: created,
	}

	mock.ExpectExec(`INSERT INTO plant_analyses`).
		WithArgs("a-1", "u-1", "https://img/1.jpg", nil, "moderate", 0.87,
			nil, 0.0, nil, nil, 72.0, []byte(`[]`), nil, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLAnalysisListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()
	repo := NewAnalysisRepository(db)

	newer := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	cols := []string{"id", "user_id", "image_url", "plant_name", "dehydration_level", "confidence_score",
		"stress_level", "stress_score", "sunlight_exposure", "sunlight_warning", "overall_health_score",
		"recommendations", "watering_schedule", "created_at"}
	rows := sqlmock.NewRows(cols).
		AddRow("a-2", "u-1", "https://img/2.jpg", "Fern", "severe", 0.9, "high", 80.0, "low", nil, 40.0,
			[]byte(`["water now","move to shade"]`), "daily", newer).
		AddRow("a-1", "u-1", "https://img/1.jpg", nil, "none", 0.5, nil, 10.0, nil, nil, 95.0, []byte(`[]`), nil, older)

	mock.ExpectQuery(`SELECT (.+) FROM plant_analyses WHERE user_id = \? ORDER BY created_at DESC`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByUser returned %d analyses, want 2", len(got))
	}
	if got[0].ID != "a-2" || got[0].PlantName != "Fern" || len(got[0].Recommendations) != 2 {
		t.Errorf("first analysis = %+v", got[0])
	}
	if got[1].PlantName != "" || len(got[1].Recommendations) != 0 {
		t.Errorf("second analysis = %+v", got[1])
	}
}
