package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJobCreate(t *testing.T) {
	tests := []struct {
		name      string
		payload   map[string]interface{}
		wantValid bool
	}{
		{
			name: "minimal valid",
			payload: map[string]interface{}{
				"company":  "Acme",
				"position": "Engineer",
				"status":   "applied",
			},
			wantValid: true,
		},
		{
			name: "full valid",
			payload: map[string]interface{}{
				"company":         "Acme",
				"position":        "Engineer",
				"status":          "wishlist",
				"job_url":         "https://acme.example/jobs/1",
				"location":        "Remote",
				"salary_range":    "100k-130k",
				"job_description": "Build things.",
				"notes":           "referred by J.",
				"deadline":        "2026-04-01",
				"applied_date":    "2026-03-01",
			},
			wantValid: true,
		},
		{
			name:      "missing required fields",
			payload:   map[string]interface{}{"company": "Acme"},
			wantValid: false,
		},
		{
			name: "unknown status",
			payload: map[string]interface{}{
				"company":  "Acme",
				"position": "Engineer",
				"status":   "ghosted",
			},
			wantValid: false,
		},
		{
			name: "bad deadline format",
			payload: map[string]interface{}{
				"company":  "Acme",
				"position": "Engineer",
				"status":   "applied",
				"deadline": "01/04/2026",
			},
			wantValid: false,
		},
		{
			name: "unexpected field rejected",
			payload: map[string]interface{}{
				"company":  "Acme",
				"position": "Engineer",
				"status":   "applied",
				"user_id":  "u1",
			},
			wantValid: false,
		},
		{
			name: "empty company rejected",
			payload: map[string]interface{}{
				"company":  "",
				"position": "Engineer",
				"status":   "applied",
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateJobCreate(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid, "errors: %v", result.GetErrorMessages())
		})
	}
}

func TestValidateJobUpdate(t *testing.T) {
	t.Run("partial update allowed", func(t *testing.T) {
		result, err := ValidateJobUpdate(map[string]interface{}{"status": "offer"})
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("null deadline clears it", func(t *testing.T) {
		result, err := ValidateJobUpdate(map[string]interface{}{"deadline": nil})
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		result, err := ValidateJobUpdate(map[string]interface{}{"status": "maybe"})
		require.NoError(t, err)
		assert.False(t, result.Valid)
	})
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("dev@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.co"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
}

func TestValidateURL(t *testing.T) {
	assert.True(t, ValidateURL("https://example.com/jobs/1"))
	assert.False(t, ValidateURL("example.com"))
}
