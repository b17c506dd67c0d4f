package extraction

import "resume-checker/internal/models"

const (
	// FormField is the multipart field carrying the resume bytes.
	FormField = "resume"

	// GenericFailureMessage is shown when the service gives no reason.
	GenericFailureMessage = "Unknown error occurred."
)

type response struct {
	ExtractedText string              `json:"extractedText"`
	ParsedData    models.ParsedFields `json:"parsedData"`
}

const responseSchema = `{
	"type": "object",
	"required": ["extractedText"],
	"properties": {
		"extractedText": {"type": "string"},
		"parsedData": {
			"type": ["object", "null"],
			"properties": {
				"name": {"type": ["string", "null"]},
				"email": {"type": ["string", "null"]},
				"mobile_number": {"type": ["string", "null"]},
				"skills": {"type": ["array", "null"], "items": {"type": "string"}},
				"education": {"type": ["string", "null"]},
				"experience": {"type": ["string", "null"]},
				"projects": {"type": ["string", "null"]},
				"soft_skills": {"type": ["array", "null"], "items": {"type": "string"}}
			}
		}
	}
}`
