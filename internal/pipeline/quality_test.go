package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/shartnoma/internal/model"
)

func TestGibberishRatio(t *testing.T) {
	assert.Equal(t, 0.0, GibberishRatio(""))
	assert.Equal(t, 0.0, GibberishRatio("   \n"))
	assert.Equal(t, 0.0, GibberishRatio("Shartnoma 5, (2024)."))
	assert.InDelta(t, 0.75, GibberishRatio("a ■■■"), 1e-9)
	assert.InDelta(t, 0.5, GibberishRatio("ab��"), 1e-9)
}

func TestQualityIssue(t *testing.T) {
	cfg := model.DefaultConfig().OCR
	clean := "Ijrochi xizmat ko'rsatadi."

	_, ok := QualityIssue(clean, model.SourceInfo{Confidence: 0.9}, cfg)
	assert.False(t, ok)

	issue, ok := QualityIssue(clean, model.SourceInfo{Confidence: 0.4}, cfg)
	require.True(t, ok)
	assert.Equal(t, model.IssueStructural, issue.Type)
	assert.Equal(t, model.SeverityMedium, issue.Severity)
	assert.Equal(t, "Matn sifati past", issue.Title)
	assert.Contains(t, issue.Description, "40%")

	_, ok = QualityIssue("■■■■ ab", model.SourceInfo{Confidence: 1}, cfg)
	assert.True(t, ok)
}
