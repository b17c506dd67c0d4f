package models

import "strings"

// ParsedFields are the structured fields the extraction service pulls out of
// a resume. Every field is optional.
type ParsedFields struct {
	Name         string   `json:"name,omitempty"`
	Email        string   `json:"email,omitempty"`
	MobileNumber string   `json:"mobile_number,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	Education    string   `json:"education,omitempty"`
	Experience   string   `json:"experience,omitempty"`
	Projects     string   `json:"projects,omitempty"`
	SoftSkills   []string `json:"soft_skills,omitempty"`
}

// Clone returns a deep copy so callers can't mutate session-owned slices.
func (p ParsedFields) Clone() ParsedFields {
	out := p
	out.Skills = append([]string(nil), p.Skills...)
	out.SoftSkills = append([]string(nil), p.SoftSkills...)
	return out
}

type ExtractionResult struct {
	RawText    string       `json:"extractedText"`
	ParsedData ParsedFields `json:"parsedData"`
}

type RoleConfidence struct {
	Role       string  `json:"role"`
	Confidence float64 `json:"confidence"`
}

type PredictionResult struct {
	GivenRole      string           `json:"given_role"`
	Confidence     float64          `json:"confidence"`
	SuggestedRoles []RoleConfidence `json:"suggested_roles"`
}

// SkillSet holds hard skills as an ordered set and optional soft skills.
type SkillSet struct {
	HardSkills []string `json:"hard_skills"`
	SoftSkills []string `json:"soft_skills,omitempty"`
}

func (s SkillSet) Clone() SkillSet {
	return SkillSet{
		HardSkills: cloneStrings(s.HardSkills),
		SoftSkills: cloneStrings(s.SoftSkills),
	}
}

// cloneStrings keeps nil as nil so omitempty and null encoding are unchanged.
func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}

// NewSkillSet drops blank entries and exact duplicates, keeping first
// occurrence order.
func NewSkillSet(hard, soft []string) SkillSet {
	return SkillSet{
		HardSkills: dedupe(hard),
		SoftSkills: dedupe(soft),
	}
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

type AnalysisResult struct {
	ATSScore           float64  `json:"ats_score"`
	CompatibilityScore float64  `json:"compatibility_score"`
	ResumeSkills       SkillSet `json:"skills_extracted_from_resume"`
	JobSkills          SkillSet `json:"skills_extracted_from_job_description"`
	Recommendation     string   `json:"recommendation"`
}

// Clone copies both skill sets.
func (a AnalysisResult) Clone() AnalysisResult {
	out := a
	out.ResumeSkills = a.ResumeSkills.Clone()
	out.JobSkills = a.JobSkills.Clone()
	return out
}
