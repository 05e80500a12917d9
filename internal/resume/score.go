package resume

import (
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"strings"
	"unicode/utf8"
)

const maxScore = 100

// Score computes the ATS compatibility score of a raw vendor payload.
func Score(root gjson.Result) int {
	score := contactScore(root)

	if nonEmpty(root.Get("summary")) || nonEmpty(root.Get("objective")) || nonEmpty(root.Get("professional_summary")) {
		score += 15
	}

	score += experienceScore(root.Get("experience"))
	score += educationScore(root.Get("education"))
	score += skillsScore(root.Get("skills"))

	if nonEmpty(root.Get("achievements")) {
		score += 5
	}
	if nonEmpty(root.Get("certifications")) {
		score += 5
	}

	score += keywordScore(root.Raw)

	return max(0, min(score, maxScore))
}

func contactScore(root gjson.Result) int {
	points := []struct {
		name   string
		points int
	}{
		{"email", 8},
		{"phone", 8},
		{"address", 4},
		{"linkedin", 3},
		{"website", 2},
	}

	score := 0
	for _, p := range points {
		if nonEmpty(root.Get("contact_info."+p.name)) || nonEmpty(root.Get(p.name)) {
			score += p.points
		}
	}
	return score
}

func experienceScore(experience gjson.Result) int {
	entries := experience.Array()
	if !experience.IsArray() || len(entries) == 0 {
		return 0
	}

	score := min(len(entries)*5, 20)
	detailed := lo.SomeBy(entries, func(entry gjson.Result) bool {
		return utf8.RuneCountInString(text(entry.Get("description"))) > 50
	})
	if detailed {
		score += 10
	}
	return score
}

func educationScore(education gjson.Result) int {
	entries := education.Array()
	if !education.IsArray() || len(entries) == 0 {
		return 0
	}

	score := min(len(entries)*5, 10)
	withDegree := lo.SomeBy(entries, func(entry gjson.Result) bool {
		return nonEmpty(entry.Get("degree")) && nonEmpty(entry.Get("institution"))
	})
	if withDegree {
		score += 5
	}
	return score
}

func skillsScore(skills gjson.Result) int {
	entries := skills.Array()
	if !skills.IsArray() || len(entries) == 0 {
		return 0
	}

	score := min(len(entries)*2, 15)
	technical := lo.SomeBy(entries, func(entry gjson.Result) bool {
		if entry.Type != gjson.String {
			return false
		}
		skill := strings.ToLower(entry.Str)
		return lo.SomeBy(technicalMarkers, func(marker string) bool {
			return strings.Contains(skill, marker)
		})
	})
	if technical {
		score += 5
	}
	return score
}

func keywordScore(raw string) int {
	lowered := strings.ToLower(raw)
	found := lo.CountBy(actionKeywords, func(keyword string) bool {
		return strings.Contains(lowered, keyword)
	})
	return min(found*2, 10)
}
