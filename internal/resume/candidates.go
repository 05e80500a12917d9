package resume

import (
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"strconv"
	"strings"
)

// transform turns the value found at a candidate path into text. entry is the
// object the path was resolved against, for candidates that combine fields.
type transform func(value, entry gjson.Result) string

// candidate is one alternative location of a field. An empty path means the entry itself.
type candidate struct {
	path      string
	transform transform
}

type field struct {
	candidates  []candidate
	placeholder string
}

func (f field) resolve(entry gjson.Result) string {
	if value := firstText(entry, f.candidates); value != "" {
		return value
	}
	return f.placeholder
}

func firstText(entry gjson.Result, candidates []candidate) string {
	for _, c := range candidates {
		value := entry
		if c.path != "" {
			value = entry.Get(c.path)
		}
		if !value.Exists() {
			continue
		}

		convert := c.transform
		if convert == nil {
			convert = plainText
		}
		if result := convert(value, entry); result != "" {
			return result
		}
	}
	return ""
}

func at(paths ...string) []candidate {
	return lo.Map(paths, func(path string, _ int) candidate {
		return candidate{path: path}
	})
}

// nested expands a field name under every object that vendors use to group contact details.
func nested(name string, parents ...string) []candidate {
	return lo.Map(parents, func(parent string, _ int) candidate {
		if parent == "" {
			return candidate{path: name}
		}
		return candidate{path: parent + "." + name}
	})
}

func join(groups ...[]candidate) []candidate {
	return lo.Flatten(groups)
}

func plainText(value, _ gjson.Result) string {
	return text(value)
}

func onlyString(value, _ gjson.Result) string {
	if value.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(value.Str)
}

// until renders "start - end", or "start - Present" when the end is missing.
func until(endPath string) transform {
	return func(start, entry gjson.Result) string {
		from := text(start)
		if from == "" {
			return ""
		}
		to := text(entry.Get(endPath))
		if to == "" {
			to = "Present"
		}
		return from + " - " + to
	}
}

// text renders a JSON value as trimmed text. Null, false, zero and empty
// strings, arrays and objects all render as "".
func text(value gjson.Result) string {
	switch value.Type {
	case gjson.String:
		return strings.TrimSpace(value.Str)
	case gjson.Number:
		if value.Num == 0 {
			return ""
		}
		if !strings.ContainsAny(value.Raw, ".eE") {
			return value.Raw
		}
		return strconv.FormatFloat(value.Num, 'f', -1, 64)
	case gjson.True:
		return "true"
	case gjson.JSON:
		var parts []string
		value.ForEach(func(_, item gjson.Result) bool {
			if part := text(item); part != "" {
				parts = append(parts, part)
			}
			return true
		})
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func nonEmpty(value gjson.Result) bool {
	if value.IsArray() {
		return len(value.Array()) > 0
	}
	return text(value) != ""
}

// firstList returns the entries of the first non-empty array among paths.
func firstList(root gjson.Result, paths ...string) []gjson.Result {
	for _, path := range paths {
		value := root.Get(path)
		if value.IsArray() {
			if entries := value.Array(); len(entries) > 0 {
				return entries
			}
		}
	}
	return nil
}

var contactParents = []string{"contact_info", "", "personal_info", "basic_info", "candidate", "contact"}

var (
	nameField = field{
		candidates: join(
			nested("name", "contact_info", "", "personal_info", "basic_info", "candidate"),
			at("full_name", "candidate_name", "personal_details.name", "profile.name", "personalInfo.name"),
		),
		placeholder: NotProvided,
	}
	emailField = field{
		candidates: join(
			nested("email", contactParents...),
			at("email_address", "contact_email", "personal_details.email", "profile.email", "personalInfo.email"),
		),
		placeholder: NotProvided,
	}
	phoneField = field{
		candidates: join(
			nested("phone", contactParents...),
			at("contact_info.mobile", "mobile", "phone_number", "contact_phone",
				"personal_details.phone", "profile.phone", "personalInfo.phone"),
		),
		placeholder: NotProvided,
	}
	addressField = field{
		candidates: join(
			nested("address", contactParents...),
			at("location", "full_address", "contact_address", "personal_details.address",
				"profile.address", "personalInfo.address"),
		),
		placeholder: NotProvided,
	}
	linkedInField = field{
		candidates: join(
			nested("linkedin", contactParents...),
			at("social_links.linkedin", "social_media.linkedin", "profile.linkedin",
				"personal_details.linkedin", "personalInfo.linkedin"),
		),
	}
	websiteField = field{
		candidates: join(
			nested("website", contactParents...),
			at("social_links.website", "social_media.website", "profile.website",
				"personal_details.website", "personalInfo.website"),
			[]candidate{{path: "portfolio", transform: onlyString}},
		),
	}
)

var (
	experienceLists = []string{
		"experience", "work_experience", "employment_history", "work_history", "jobs",
		"positions", "employment", "career_history", "professional_experience",
	}
	companyField = field{
		candidates: at("company", "organization", "employer", "company_name", "workplace",
			"employer_name", "organization_name", "work_place"),
		placeholder: UnknownCompany,
	}
	positionField = field{
		candidates: at("position", "title", "job_title", "role", "position_title", "job_role",
			"designation", "occupation"),
		placeholder: UnknownPosition,
	}
	durationField = field{
		candidates: join(
			at("duration", "dates", "period", "time_period", "employment_period", "work_period"),
			[]candidate{
				{path: "start_date", transform: until("end_date")},
				{path: "from_date", transform: until("to_date")},
			},
		),
		placeholder: DurationNotSpecified,
	}
	descriptionField = field{
		candidates: at("description", "responsibilities", "duties", "summary", "achievements",
			"key_achievements", "work_description", "job_description", "role_description",
			"responsibility", "duty"),
		placeholder: NoDescription,
	}
	// experienceText is the free text scanned for technology keywords.
	experienceText = at("description", "responsibilities", "duties")
)

var (
	educationLists = []string{
		"education", "educational_background", "academic_background", "qualifications",
		"academic_history", "schools", "education_history", "academic_qualifications",
	}
	institutionField = field{
		candidates: join(
			at("institution", "school", "name", "university", "college", "institute",
				"school_name", "organization", "establishment"),
			[]candidate{{transform: onlyString}},
		),
		placeholder: UnknownInstitution,
	}
	degreeField = field{
		candidates:  at("degree", "qualification", "certificate", "diploma", "program", "course", "study", "title", "level"),
		placeholder: UnknownDegree,
	}
	studyField = field{
		candidates: at("field", "major", "specialization", "subject", "discipline", "focus",
			"area", "stream", "branch", "department"),
		placeholder: FieldNotSpecified,
	}
	yearField = field{
		candidates: at("year", "graduation_year", "date", "end_date", "completion_date", "dates",
			"graduation_date", "passing_year", "end_year", "completion_year"),
		placeholder: YearNotSpecified,
	}
	educationFieldText  = at("field", "major", "specialization")
	educationDegreeText = at("degree", "qualification")
)

var (
	summaryField = field{
		candidates: join(
			at("summary", "objective", "professional_summary"),
			[]candidate{{path: "profile", transform: onlyString}},
		),
	}
	skillLists         = []string{"skills", "technical_skills", "competencies"}
	achievementLists   = []string{"achievements", "awards", "honors"}
	certificationLists = []string{"certifications", "certificates", "licenses"}
	languageLists      = []string{"languages", "language_skills"}
	projectLists       = []string{"projects", "portfolio"}
)
