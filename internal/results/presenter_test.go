package results

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-checker/internal/common/errors"
	"resume-checker/internal/models"
	"resume-checker/internal/skills"
	"resume-checker/internal/workflow"
)

func scoredSnapshot() workflow.Snapshot {
	return workflow.Snapshot{
		ID:     "session-1",
		State:  workflow.Scored,
		Status: workflow.Scored.String(),
		Domain: "Data Science",
		Role:   "Junior Data Analyst",
		ParsedData: models.ParsedFields{
			Name:   "Jane Doe",
			Email:  "jane@example.com",
			Skills: []string{"Python", "SQL"},
		},
	}
}

func TestNewScore(t *testing.T) {
	tests := []struct {
		in        float64
		wantValue float64
		wantLabel string
	}{
		{72.456, 72.456, "72.46%"},
		{0, 0, "0.00%"},
		{100, 100, "100.00%"},
		{-3, 0, "0.00%"},
		{180, 100, "100.00%"},
		{math.NaN(), 0, "0.00%"},
	}

	for _, tt := range tests {
		got := NewScore(tt.in)
		assert.Equal(t, tt.wantValue, got.Value)
		assert.Equal(t, tt.wantLabel, got.Label)
	}
}

func TestPresent_Analysis(t *testing.T) {
	snap := scoredSnapshot()
	snap.Path = workflow.PathAnalysis
	snap.Analysis = &models.AnalysisResult{
		ATSScore:           64.5,
		CompatibilityScore: 71.256,
		ResumeSkills:       models.NewSkillSet([]string{"Python", "SQL"}, []string{"Teamwork"}),
		JobSkills:          models.NewSkillSet([]string{"Python", "AWS"}, nil),
		Recommendation:     "Good fit",
	}

	result, err := NewPresenter(nil).Present(snap)

	require.NoError(t, err)
	assert.Nil(t, result.Prediction)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, "64.50%", result.Analysis.ATSScore.Label)
	assert.Equal(t, "71.26%", result.Analysis.CompatibilityScore.Label)
	assert.Equal(t, "Good fit", result.Analysis.Recommendation)
	assert.Equal(t, []string{"Python"}, result.Analysis.Comparison.Matching)
	assert.Equal(t, []string{"AWS"}, result.Analysis.Comparison.Missing)
	assert.Equal(t, []string{"SQL"}, result.Analysis.Comparison.Extra)
	assert.Equal(t, []skills.Row{
		{Skill: "Python", InResume: true, InJobDescription: true},
		{Skill: "AWS", InResume: false, InJobDescription: true},
		{Skill: "SQL", InResume: true, InJobDescription: false},
	}, result.Analysis.Rows)
	assert.Equal(t, []string{"Teamwork"}, result.Analysis.ResumeSoftSkills)
}

func TestPresent_ExactMatching(t *testing.T) {
	snap := scoredSnapshot()
	snap.Path = workflow.PathAnalysis
	snap.Analysis = &models.AnalysisResult{
		ResumeSkills: models.NewSkillSet([]string{"python"}, nil),
		JobSkills:    models.NewSkillSet([]string{"Python"}, nil),
	}

	exact, err := NewPresenter(skills.NewComparator(skills.MatchExact)).Present(snap)
	require.NoError(t, err)
	assert.Empty(t, exact.Analysis.Comparison.Matching)

	normalized, err := NewPresenter(skills.NewComparator(skills.MatchNormalized)).Present(snap)
	require.NoError(t, err)
	assert.Len(t, normalized.Analysis.Comparison.Matching, 1)
}

func TestPresent_Prediction(t *testing.T) {
	snap := scoredSnapshot()
	snap.Path = workflow.PathPrediction
	snap.Prediction = &models.PredictionResult{
		GivenRole:      "Junior Data Analyst",
		Confidence:     42.123,
		SuggestedRoles: []models.RoleConfidence{{Role: "Data Engineer", Confidence: 88.8}},
	}

	result, err := NewPresenter(nil).Present(snap)

	require.NoError(t, err)
	assert.Nil(t, result.Analysis)
	require.NotNil(t, result.Prediction)
	assert.Equal(t, "42.12%", result.Prediction.Confidence.Label)
	assert.Equal(t, []SuggestedRole{{Role: "Data Engineer", Confidence: NewScore(88.8)}}, result.Prediction.SuggestedRoles)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"givenRole":"Junior Data Analyst"`)
	assert.NotContains(t, string(raw), `"analysis"`)
}

func TestPresent_RefusesUnscoredSessions(t *testing.T) {
	for _, state := range []workflow.State{workflow.Idle, workflow.RoleSelected, workflow.Submitting, workflow.Error} {
		snap := scoredSnapshot()
		snap.State = state

		result, err := NewPresenter(nil).Present(snap)

		assert.Nil(t, result)
		stdErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeInvalidTransition, stdErr.Code)
	}
}

func TestProfile(t *testing.T) {
	got := Profile(models.ParsedFields{
		Name:         "Jane Doe",
		MobileNumber: "+1 555 0100",
		Experience:   "Analyst 2019-2023",
	})

	assert.Equal(t, []ProfileField{
		{Label: "Name", Value: "Jane Doe"},
		{Label: "Phone", Value: "+1 555 0100"},
		{Label: "Skills", Value: "N/A"},
		{Label: "Experience", Value: "Analyst 2019-2023"},
		{Label: "Soft Skills", Value: "N/A"},
	}, got)

	got = Profile(models.ParsedFields{Skills: []string{"Go", "SQL"}, SoftSkills: []string{"Leadership"}})
	assert.Equal(t, "Go, SQL", got[0].Value)
	assert.Equal(t, "Leadership", got[1].Value)
}
