package resume

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
	"os"
	"strings"
	"testing"
)

func loadVendorResult(t *testing.T) []byte {
	payload, err := os.ReadFile("testdata/vendor_result.json")
	if err != nil {
		t.Fatalf("could not read fixture: %v", err)
	}
	return payload
}

func Test_Extract_WhenEmptyObject_ShouldUsePlaceholders(t *testing.T) {

	assert := assert.New(t)

	record, err := Extract([]byte(`{}`))
	assert.NoError(err)

	assert.Equal(0, record.ATSScore)
	assert.Equal(PersonalInfo{
		Name:    NotProvided,
		Email:   NotProvided,
		Phone:   NotProvided,
		Address: NotProvided,
	}, record.PersonalInfo)
	assert.Empty(record.Experience)
	assert.Empty(record.Education)
	assert.Empty(record.Skills)
	assert.Empty(record.Achievements)
	assert.Empty(record.Certifications)
	assert.Empty(record.Languages)
	assert.Empty(record.Projects)
	assert.Equal("", record.Summary)
	assert.Equal([]string{"Resume has basic structure"}, record.Analysis.Strengths)
}

func Test_Extract_WhenEmptyObject_ShouldSerializeEmptyLists(t *testing.T) {

	record, err := Extract([]byte(`{}`))
	assert.NoError(t, err)

	out, err := json.Marshal(record)
	assert.NoError(t, err)

	parsed := gjson.ParseBytes(out)
	for _, list := range []string{"experience", "education", "skills", "achievements", "certifications", "languages", "projects"} {
		assert.True(t, parsed.Get(list).IsArray(), list)
	}
	assert.False(t, parsed.Get("personalInfo.linkedin").Exists())
}

func Test_Extract_WhenPayloadMalformed_ShouldFail(t *testing.T) {
	for _, payload := range []string{"", "{", `{"name": }`, "not json"} {
		_, err := Extract([]byte(payload))
		assert.ErrorIs(t, err, ErrMalformedPayload, payload)
	}
}

func Test_Extract_WhenFieldsMisshapen_ShouldNotFail(t *testing.T) {

	assert := assert.New(t)

	record, err := Extract([]byte(`{"experience": "ten years", "education": {"school": "MIT"}, "skills": null, "contact_info": 5}`))
	assert.NoError(err)

	assert.Empty(record.Experience)
	assert.Empty(record.Education)
	assert.Empty(record.Skills)
	assert.Equal(NotProvided, record.PersonalInfo.Email)
}

func Test_Extract_ShouldResolveAlternativeVendorFields(t *testing.T) {

	assert := assert.New(t)

	record, err := Extract(loadVendorResult(t))
	assert.NoError(err)

	assert.Equal(PersonalInfo{
		Name:     "Priya Sharma",
		Email:    "priya.sharma@example.com",
		Phone:    "+91 98765 43210",
		Address:  "Pune, India",
		LinkedIn: "https://linkedin.com/in/priyasharma",
	}, record.PersonalInfo)

	assert.Equal([]Experience{
		{
			Company:     "Acme Analytics",
			Position:    "Senior Software Engineer",
			Duration:    "Jan 2021 - Present",
			Description: "Developed Python and Docker based ingestion services on AWS, reduced latency by 40%.",
		},
		{
			Company:     "Globex",
			Position:    "Software Engineer",
			Duration:    "2018 - 2020",
			Description: "Maintained PostgreSQL schemas, Built React dashboards",
		},
		{
			Company:     UnknownCompany,
			Position:    UnknownPosition,
			Duration:    DurationNotSpecified,
			Description: NoDescription,
		},
	}, record.Experience)

	assert.Equal([]Education{
		{
			Institution: "University of Pune",
			Degree:      "Bachelor of Engineering",
			Field:       "Computer Science",
			Year:        "2018",
		},
		{
			Institution: "Kendriya Vidyalaya",
			Degree:      UnknownDegree,
			Field:       FieldNotSpecified,
			Year:        YearNotSpecified,
		},
	}, record.Education)

	assert.Equal("Backend engineer focused on Leadership and Agile delivery of data platforms.", record.Summary)
	assert.Equal([]string{"Employee of the Year", "Hackathon winner"}, record.Achievements)
	assert.Equal([]string{"AWS Certified Developer"}, record.Certifications)
	assert.Equal([]string{"English", "Hindi", "Marathi"}, record.Languages)
	assert.Equal([]string{"Inventory dashboard", "Open source CLI"}, record.Projects)
	assert.Equal("", record.PersonalInfo.Website)
}

func Test_Extract_SkillsShouldUnionListsAndVocabularies(t *testing.T) {

	assert := assert.New(t)

	record, err := Extract(loadVendorResult(t))
	assert.NoError(err)

	assert.Equal([]string{"Go", "Kubernetes", "python"}, record.Skills[:3])
	for _, expected := range []string{"Docker", "AWS", "PostgreSQL", "React", "Leadership", "Agile", "Computer Science", "Bachelor"} {
		assert.Contains(record.Skills, expected)
	}
	assert.NotContains(record.Skills, "Python")
	assert.NotContains(record.Skills, "")
}

func Test_Extract_WhenManyKeywordsInExperience_ShouldCapSkillsAt25(t *testing.T) {

	description := strings.Join(technologyVocabulary[:40], ", ")
	payload, _ := json.Marshal(map[string]any{
		"experience": []map[string]string{{"description": description}},
	})

	record, err := Extract(payload)
	assert.NoError(t, err)
	assert.Len(t, record.Skills, 25)
}

func Test_NormalizeSkills_ShouldDedupeCaseInsensitiveAndDropLongEntries(t *testing.T) {
	skills := normalizeSkills([]string{
		" Go ", "go", "GO", "",
		strings.Repeat("x", 50),
		strings.Repeat("y", 49),
		"Rust",
	})
	assert.Equal(t, []string{"Go", strings.Repeat("y", 49), "Rust"}, skills)
}

func Test_Extract_WhenFedOwnOutput_ShouldKeepValues(t *testing.T) {

	assert := assert.New(t)

	first, err := Extract(loadVendorResult(t))
	assert.NoError(err)

	first.RawData = nil
	normalized, err := json.Marshal(first)
	assert.NoError(err)

	second, err := Extract(normalized)
	assert.NoError(err)

	assert.Equal(first.PersonalInfo, second.PersonalInfo)
	assert.Equal(first.Experience, second.Experience)
	assert.Equal(first.Education, second.Education)
	assert.Equal(first.Skills, second.Skills)
	assert.Equal(first.Summary, second.Summary)
	assert.Equal(first.Achievements, second.Achievements)
	assert.Equal(first.Certifications, second.Certifications)
	assert.Equal(first.Languages, second.Languages)
	assert.Equal(first.Projects, second.Projects)
}

func Test_Extract_WhenPlaceholdersFedBack_ShouldNotDoublePlaceholder(t *testing.T) {

	first, err := Extract([]byte(`{"experience": [{}], "education": [{}]}`))
	assert.NoError(t, err)

	normalized, _ := json.Marshal(first)
	second, err := Extract(normalized)
	assert.NoError(t, err)

	assert.Equal(t, first.PersonalInfo, second.PersonalInfo)
	assert.Equal(t, first.Experience, second.Experience)
	assert.Equal(t, first.Education, second.Education)
}

func Test_Extract_WhenDescriptionMissingAndFedBack_ShouldKeepSkills(t *testing.T) {

	assert := assert.New(t)

	first, err := Extract([]byte(`{"experience": [{"company": "Acme"}], "education": [{"school": "MIT"}], "skills": ["Go"]}`))
	assert.NoError(err)
	assert.Equal([]string{"Go"}, first.Skills)
	assert.Equal(NoDescription, first.Experience[0].Description)

	first.RawData = nil
	normalized, err := json.Marshal(first)
	assert.NoError(err)

	second, err := Extract(normalized)
	assert.NoError(err)
	assert.Equal([]string{"Go"}, second.Skills)
}

func Test_Extract_WhenPhoneIsLargeNumber_ShouldKeepAllDigits(t *testing.T) {

	record, err := Extract([]byte(`{"phone_number": 12345678901234567}`))

	assert.NoError(t, err)
	assert.Equal(t, "12345678901234567", record.PersonalInfo.Phone)
	assert.Equal(t, "2.5", text(gjson.Parse(`2.50`)))
}
