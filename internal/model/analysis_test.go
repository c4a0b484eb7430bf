package model

import (
	"encoding/json"
	"testing"
)

func TestPlantAnalysisRequest_ImageURLKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"snake case", `{"image_url":"https://x/a.jpg","dehydrationLevel":"low"}`, "https://x/a.jpg"},
		{"camel case", `{"imageUrl":"https://x/b.jpg","dehydrationLevel":"low"}`, "https://x/b.jpg"},
		{"both prefers snake", `{"image_url":"https://x/a.jpg","imageUrl":"https://x/b.jpg"}`, "https://x/a.jpg"},
		{"neither", `{"dehydrationLevel":"low"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req PlantAnalysisRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if req.ImageURL != tt.want {
				t.Errorf("ImageURL = %q, want %q", req.ImageURL, tt.want)
			}
		})
	}
}

func TestPlantAnalysisRequest_OtherFieldsDecode(t *testing.T) {
	var req PlantAnalysisRequest
	body := `{"image_url":"https://x/a.jpg","plantName":"Fern","confidenceScore":87,"recommendations":["Water"]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if req.PlantName != "Fern" || req.ConfidenceScore != 87 || len(req.Recommendations) != 1 {
		t.Errorf("unexpected request %+v", req)
	}
}
