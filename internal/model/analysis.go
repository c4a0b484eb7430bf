package model

import (
	"encoding/json"
	"time"
)

// PlantAnalysis is a stored result of a plant-health (dehydration) check.
type PlantAnalysis struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	ImageURL           string    `json:"image_url"`
	PlantName          string    `json:"plant_name,omitempty"`
	DehydrationLevel   string    `json:"dehydration_level"`
	ConfidenceScore    float64   `json:"confidence_score"` // fraction in [0, 1]
	StressLevel        string    `json:"stress_level,omitempty"`
	StressScore        float64   `json:"stress_score"`
	SunlightExposure   string    `json:"sunlight_exposure,omitempty"`
	SunlightWarning    string    `json:"sunlight_warning,omitempty"`
	OverallHealthScore float64   `json:"overall_health_score"`
	Recommendations    []string  `json:"recommendations"`
	WateringSchedule   string    `json:"watering_schedule,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// PlantAnalysisRequest is the body of a save-analysis request.
// ConfidenceScore is a percentage in [0, 100]. The image URL is sent as
// image_url by the web client; imageUrl is accepted as well.
type PlantAnalysisRequest struct {
	ImageURL           string   `json:"image_url"`
	PlantName          string   `json:"plantName"`
	DehydrationLevel   string   `json:"dehydrationLevel"`
	ConfidenceScore    float64  `json:"confidenceScore"`
	StressLevel        string   `json:"stressLevel"`
	StressScore        float64  `json:"stressScore"`
	SunlightExposure   string   `json:"sunlightExposure"`
	SunlightWarning    string   `json:"sunlightWarning"`
	OverallHealthScore float64  `json:"overallHealthScore"`
	Recommendations    []string `json:"recommendations"`
	WateringSchedule   string   `json:"wateringSchedule"`
}

func (r *PlantAnalysisRequest) UnmarshalJSON(data []byte) error {
	type plain PlantAnalysisRequest
	aux := struct {
		*plain
		CamelImageURL string `json:"imageUrl"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.ImageURL == "" {
		r.ImageURL = aux.CamelImageURL
	}
	return nil
}
