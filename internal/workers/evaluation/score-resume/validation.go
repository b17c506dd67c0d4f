package scoreresume

import "resume-checker/internal/common/validation"

var inputSchema = validation.MustCompile("score-resume-input", `{
	"type": "object",
	"required": ["resumeText", "domain", "role"],
	"properties": {
		"resumeText": {"type": "string", "minLength": 1},
		"domain": {"type": "string", "minLength": 1, "maxLength": 100},
		"role": {"type": "string", "minLength": 1, "maxLength": 100},
		"jobDescription": {"type": "string", "maxLength": 50000},
		"path": {"type": "string", "enum": ["prediction", "analysis"]},
		"parsedData": {
			"type": "object",
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
}`)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
