package tools

import (
	"encoding/json"
	"testing"

	"github.com/localrivet/pagesummary/internal/settings"
)

func TestSummarizePageRequestFieldNames(t *testing.T) {
	var req SummarizePageRequest
	data := `{"content":"text","url":"https://example.com","summary_type":"bullets"}`
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		t.Fatalf("Failed to unmarshal SummarizePageRequest: %v", err)
	}

	if req.Content != "text" || req.URL != "https://example.com" || req.SummaryType != "bullets" {
		t.Errorf("Unexpected request %+v", req)
	}
}

func TestSummarizeResponseSuccessShape(t *testing.T) {
	resp := SummarizeResponse{
		Status: StatusSuccess,
		Data:   &SummaryData{Summary: "short", Provider: "openai", WordCount: 1},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal SummarizeResponse: %v", err)
	}

	var jsonMap map[string]interface{}
	if err := json.Unmarshal(data, &jsonMap); err != nil {
		t.Fatalf("Failed to unmarshal JSON into map: %v", err)
	}

	if jsonMap["status"] != "success" {
		t.Errorf("Expected status='success', got '%v'", jsonMap["status"])
	}
	if _, ok := jsonMap["message"]; ok {
		t.Errorf("Expected no message on success, got '%v'", jsonMap["message"])
	}
	payload, ok := jsonMap["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data object, got %v", jsonMap["data"])
	}
	if payload["summary"] != "short" {
		t.Errorf("Expected summary='short', got '%v'", payload["summary"])
	}
	if _, ok := payload["title"]; ok {
		t.Errorf("Expected title to be omitted when empty")
	}
}

func TestSummarizeResponseErrorShape(t *testing.T) {
	resp := SummarizeResponse{
		Status:  StatusError,
		Message: "OpenAI API key is not set. Please add it in the extension options.",
		Kind:    "missing_credential",
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal SummarizeResponse: %v", err)
	}

	var jsonMap map[string]interface{}
	if err := json.Unmarshal(data, &jsonMap); err != nil {
		t.Fatalf("Failed to unmarshal JSON into map: %v", err)
	}

	if _, ok := jsonMap["data"]; ok {
		t.Errorf("Expected data to be omitted on error")
	}
	if jsonMap["kind"] != "missing_credential" {
		t.Errorf("Expected kind='missing_credential', got '%v'", jsonMap["kind"])
	}
}

func TestSettingsResponseUsesStorageKeys(t *testing.T) {
	s := settings.Defaults().Masked()
	data, err := json.Marshal(SettingsResponse{Status: StatusSuccess, Data: &s})
	if err != nil {
		t.Fatalf("Failed to marshal SettingsResponse: %v", err)
	}

	var generic map[string]interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("Failed to unmarshal JSON into map: %v", err)
	}
	payload := generic["data"].(map[string]interface{})
	for _, key := range []string{"apiType", "openai", "gemini", "deepseek"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("Expected key %q in settings payload", key)
		}
	}
}
