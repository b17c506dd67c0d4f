package analysis

// GenericFailureMessage is shown when the service gives no reason.
const GenericFailureMessage = "An error occurred while analyzing"

type request struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	Role           string `json:"role"`
}

type skillGroups struct {
	HardSkills []string `json:"hard_skills"`
	SoftSkills []string `json:"soft_skills"`
}

type response struct {
	ATSScore           *float64     `json:"ats_score"`
	CompatibilityScore *float64     `json:"compatibility_score"`
	SemanticSimilarity *float64     `json:"semantic_similarity_score"`
	ResumeSkills       *skillGroups `json:"skills_extracted_from_resume"`
	JobSkills          *skillGroups `json:"skills_extracted_from_job_description"`
	Recommendation     string       `json:"recommendation"`
}

// compatibility prefers compatibility_score and falls back to the semantic
// similarity score older deployments send.
func (r response) compatibility() float64 {
	switch {
	case r.CompatibilityScore != nil:
		return *r.CompatibilityScore
	case r.SemanticSimilarity != nil:
		return *r.SemanticSimilarity
	default:
		return 0
	}
}

func (g *skillGroups) lists() ([]string, []string) {
	if g == nil {
		return nil, nil
	}
	return g.HardSkills, g.SoftSkills
}

const responseSchema = `{
	"type": "object",
	"definitions": {
		"skills": {
			"type": ["object", "null"],
			"properties": {
				"hard_skills": {"type": ["array", "null"], "items": {"type": "string"}},
				"soft_skills": {"type": ["array", "null"], "items": {"type": "string"}}
			}
		}
	},
	"properties": {
		"ats_score": {"type": ["number", "null"]},
		"compatibility_score": {"type": ["number", "null"]},
		"semantic_similarity_score": {"type": ["number", "null"]},
		"skills_extracted_from_resume": {"$ref": "#/definitions/skills"},
		"skills_extracted_from_job_description": {"$ref": "#/definitions/skills"},
		"recommendation": {"type": ["string", "null"]}
	}
}`
