package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConsultationPayload_PlainJSON(t *testing.T) {
	raw := `{"summary": "Follow-up for hypertension.", "medicines": [
		{"name": "Lisinopril", "dosage": "10mg", "purpose": "blood pressure", "usage_instructions": "once daily"}
	]}`

	res, err := parseConsultationPayload([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "Follow-up for hypertension.", res.Summary)
	require.Len(t, res.Medicines, 1)
	assert.Equal(t, "Lisinopril", res.Medicines[0].Name)
	assert.Equal(t, "once daily", res.Medicines[0].UsageInstructions)
}

func TestParseConsultationPayload_StripsCodeFences(t *testing.T) {
	raw := "```json\n{\"summary\": \"Routine check, no findings.\", \"medicines\": []}\n```"

	res, err := parseConsultationPayload([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Routine check, no findings.", res.Summary)
	assert.Empty(t, res.Medicines)
}

func TestParseConsultationPayload_MissingSummary(t *testing.T) {
	_, err := parseConsultationPayload([]byte(`{"medicines": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing summary")
}

func TestParseConsultationPayload_NotJSON(t *testing.T) {
	_, err := parseConsultationPayload([]byte("Sorry, I could not process that."))
	assert.Error(t, err)
}

func TestMedicine_ToPrescription(t *testing.T) {
	m := Medicine{
		Name:              "Amoxicillin",
		Dosage:            "500mg",
		Purpose:           "infection",
		UsageInstructions: "three times daily with food",
	}

	p := m.ToPrescription()
	assert.Equal(t, "Amoxicillin", p.Name)
	assert.Equal(t, "500mg", p.Dosage)
	assert.Equal(t, "infection", p.Purpose)
	assert.Equal(t, "three times daily with food", p.UsageInstructions)
}

func TestSummarize_ParsesModelReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "patient transcript here")

		reply := "```json\n" +
			`{"summary": "Patient has a sore throat.", "medicines": [{"name": "Ibuprofen", "dosage": "200mg", "purpose": "pain relief", "usage_instructions": "as needed"}]}` +
			"\n```"
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reply}}}},
			},
		})
	}))
	defer srv.Close()

	c := &Client{
		baseURL:    srv.URL,
		apiKey:     "test-key",
		model:      "test-model",
		httpClient: &http.Client{Timeout: time.Second},
	}

	res, err := c.Summarize(context.Background(), "patient transcript here")
	require.NoError(t, err)
	assert.Equal(t, "Patient has a sore throat.", res.Summary)
	require.Len(t, res.Medicines, 1)
	assert.Equal(t, "Ibuprofen", res.Medicines[0].Name)
}

func TestSummarize_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	c := &Client{
		baseURL:    srv.URL,
		apiKey:     "k",
		model:      "m",
		httpClient: &http.Client{Timeout: time.Second},
	}

	_, err := c.Summarize(context.Background(), "transcript")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
