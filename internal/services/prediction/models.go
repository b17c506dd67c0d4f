package prediction

import "resume-checker/internal/models"

// GenericFailureMessage is shown when the service gives no reason.
const GenericFailureMessage = "An error occurred"

type request struct {
	ResumeText string `json:"resume_text"`
	InputRole  string `json:"input_role"`
}

type response struct {
	GivenRole      string                  `json:"given_role"`
	Confidence     float64                 `json:"confidence"`
	SuggestedRoles []models.RoleConfidence `json:"suggested_roles"`
}

const responseSchema = `{
	"type": "object",
	"required": ["given_role", "confidence"],
	"properties": {
		"given_role": {"type": "string"},
		"confidence": {"type": "number"},
		"suggested_roles": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["role", "confidence"],
				"properties": {
					"role": {"type": "string"},
					"confidence": {"type": "number"}
				}
			}
		}
	}
}`
