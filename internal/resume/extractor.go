package resume

import (
	"encoding/json"
	"errors"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

var ErrMalformedPayload = errors.New("malformed resume payload")

// Extract normalizes a vendor payload. It fails only when payload is not valid JSON.
func Extract(payload []byte) (*Record, error) {
	if !gjson.ValidBytes(payload) {
		return nil, ErrMalformedPayload
	}
	return FromJSON(gjson.ParseBytes(payload)), nil
}

// FromJSON normalizes an already parsed payload. Missing or misshapen fields become placeholders.
func FromJSON(root gjson.Result) *Record {
	experience := firstList(root, experienceLists...)
	education := firstList(root, educationLists...)

	record := &Record{
		ATSScore: Score(root),
		PersonalInfo: PersonalInfo{
			Name:     nameField.resolve(root),
			Email:    emailField.resolve(root),
			Phone:    phoneField.resolve(root),
			Address:  addressField.resolve(root),
			LinkedIn: linkedInField.resolve(root),
			Website:  websiteField.resolve(root),
		},
		Experience: lo.Map(experience, func(entry gjson.Result, _ int) Experience {
			return Experience{
				Company:     companyField.resolve(entry),
				Position:    positionField.resolve(entry),
				Duration:    durationField.resolve(entry),
				Description: descriptionField.resolve(entry),
			}
		}),
		Education: lo.Map(education, func(entry gjson.Result, _ int) Education {
			return Education{
				Institution: institutionField.resolve(entry),
				Degree:      degreeField.resolve(entry),
				Field:       studyField.resolve(entry),
				Year:        yearField.resolve(entry),
			}
		}),
		Skills:         extractSkills(root, experience, education),
		Achievements:   stringList(root, achievementLists...),
		Certifications: stringList(root, certificationLists...),
		Languages:      stringList(root, languageLists...),
		Projects:       stringList(root, projectLists...),
		Summary:        summaryField.resolve(root),
	}
	record.Analysis = analyze(record)

	if root.Raw != "" {
		record.RawData = json.RawMessage(root.Raw)
	}
	return record
}
