package resume

import "encoding/json"

const (
	NotProvided          = "Not provided"
	UnknownCompany       = "Unknown Company"
	UnknownPosition      = "Unknown Position"
	DurationNotSpecified = "Duration not specified"
	NoDescription        = "No description provided"
	UnknownInstitution   = "Unknown Institution"
	UnknownDegree        = "Unknown Degree"
	FieldNotSpecified    = "Field not specified"
	YearNotSpecified     = "Year not specified"
)

// Record is a resume normalized from a parsing vendor response.
type Record struct {
	ATSScore       int          `json:"atsScore"`
	PersonalInfo   PersonalInfo `json:"personalInfo"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Skills         []string     `json:"skills"`
	Achievements   []string     `json:"achievements"`
	Certifications []string     `json:"certifications"`
	Languages      []string     `json:"languages"`
	Projects       []string     `json:"projects"`
	Summary        string       `json:"summary"`
	Analysis       Analysis     `json:"analysis"`

	Source  string          `json:"source,omitempty"`
	RawData json.RawMessage `json:"rawData,omitempty"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Year        string `json:"year"`
}

type Analysis struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Overall      string   `json:"overall"`
}
