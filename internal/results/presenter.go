// Package results turns a scored workflow session into a display-ready
// result. It performs no I/O.
package results

import (
	"fmt"
	"math"
	"strings"

	"resume-checker/internal/common/errors"
	"resume-checker/internal/models"
	"resume-checker/internal/skills"
	"resume-checker/internal/workflow"
)

const notAvailable = "N/A"

// Score is a percentage clamped to [0, 100] with a two-decimal label.
type Score struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

func NewScore(v float64) Score {
	switch {
	case math.IsNaN(v) || v < 0:
		v = 0
	case v > 100:
		v = 100
	}
	return Score{Value: v, Label: fmt.Sprintf("%.2f%%", v)}
}

// ProfileField is one line of the candidate profile.
type ProfileField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type SuggestedRole struct {
	Role       string `json:"role"`
	Confidence Score  `json:"confidence"`
}

type PredictionView struct {
	GivenRole      string          `json:"givenRole"`
	Confidence     Score           `json:"confidence"`
	SuggestedRoles []SuggestedRole `json:"suggestedRoles"`
}

type AnalysisView struct {
	ATSScore           Score             `json:"atsScore"`
	CompatibilityScore Score             `json:"compatibilityScore"`
	Recommendation     string            `json:"recommendation"`
	Comparison         skills.Comparison `json:"comparison"`
	Rows               []skills.Row      `json:"rows"`
	ResumeSoftSkills   []string          `json:"resumeSoftSkills,omitempty"`
	JobSoftSkills      []string          `json:"jobSoftSkills,omitempty"`
}

// Result is everything a front end needs to render one finished run.
type Result struct {
	SessionID  string          `json:"sessionId"`
	Path       workflow.Path   `json:"path"`
	Domain     string          `json:"domain"`
	Role       string          `json:"role"`
	Candidate  []ProfileField  `json:"candidate"`
	Prediction *PredictionView `json:"prediction,omitempty"`
	Analysis   *AnalysisView   `json:"analysis,omitempty"`
}

type Presenter struct {
	comparator *skills.Comparator
}

// NewPresenter uses comparator for the skill table; nil means normalized matching.
func NewPresenter(comparator *skills.Comparator) *Presenter {
	if comparator == nil {
		comparator = skills.NewComparator(skills.MatchNormalized)
	}
	return &Presenter{comparator: comparator}
}

// Present refuses any session that has not reached Scored so partial results
// are never shown as complete.
func (p *Presenter) Present(snap workflow.Snapshot) (*Result, error) {
	if snap.State != workflow.Scored {
		return nil, errors.NewInvalidTransitionError("present", snap.State.String())
	}

	result := &Result{
		SessionID: snap.ID,
		Path:      snap.Path,
		Domain:    snap.Domain,
		Role:      snap.Role,
		Candidate: Profile(snap.ParsedData),
	}
	if snap.Prediction != nil {
		result.Prediction = presentPrediction(snap.Prediction)
	}
	if snap.Analysis != nil {
		result.Analysis = p.presentAnalysis(snap.Analysis)
	}
	return result, nil
}

func presentPrediction(pr *models.PredictionResult) *PredictionView {
	view := &PredictionView{
		GivenRole:      pr.GivenRole,
		Confidence:     NewScore(pr.Confidence),
		SuggestedRoles: make([]SuggestedRole, 0, len(pr.SuggestedRoles)),
	}
	for _, rc := range pr.SuggestedRoles {
		view.SuggestedRoles = append(view.SuggestedRoles, SuggestedRole{
			Role:       rc.Role,
			Confidence: NewScore(rc.Confidence),
		})
	}
	return view
}

func (p *Presenter) presentAnalysis(a *models.AnalysisResult) *AnalysisView {
	cmp := p.comparator.Compare(a.ResumeSkills.HardSkills, a.JobSkills.HardSkills)
	return &AnalysisView{
		ATSScore:           NewScore(a.ATSScore),
		CompatibilityScore: NewScore(a.CompatibilityScore),
		Recommendation:     a.Recommendation,
		Comparison:         cmp,
		Rows:               cmp.Rows(),
		ResumeSoftSkills:   a.ResumeSkills.SoftSkills,
		JobSoftSkills:      a.JobSkills.SoftSkills,
	}
}

// Profile lists the parsed fields that are present. Skills and soft skills are
// always listed and read "N/A" when empty.
func Profile(pf models.ParsedFields) []ProfileField {
	var out []ProfileField
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			out = append(out, ProfileField{Label: label, Value: value})
		}
	}

	add("Name", pf.Name)
	add("Email", pf.Email)
	add("Phone", pf.MobileNumber)
	out = append(out, ProfileField{Label: "Skills", Value: joinOrNA(pf.Skills)})
	add("Education", pf.Education)
	add("Experience", pf.Experience)
	add("Projects", pf.Projects)
	out = append(out, ProfileField{Label: "Soft Skills", Value: joinOrNA(pf.SoftSkills)})
	return out
}

func joinOrNA(values []string) string {
	if len(values) == 0 {
		return notAvailable
	}
	return strings.Join(values, ", ")
}
