package resume

import (
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"strings"
	"unicode/utf8"
)

const (
	maxSkills      = 25
	maxSkillLength = 50
)

var entryLabels = at("name", "skill", "title", "label")

// placeholders are skipped by the vocabulary scan.
var placeholders = map[string]struct{}{
	NotProvided: {}, NoDescription: {}, UnknownDegree: {}, FieldNotSpecified: {},
}

func extractSkills(root gjson.Result, experience, education []gjson.Result) []string {
	var found []string

	for _, path := range skillLists {
		if list := root.Get(path); list.IsArray() {
			found = append(found, lo.Map(list.Array(), func(entry gjson.Result, _ int) string {
				return entryText(entry)
			})...)
		}
	}

	for _, entry := range experience {
		found = append(found, matchVocabulary(scanText(firstText(entry, experienceText)), technologyVocabulary)...)
	}

	found = append(found, matchVocabulary(scanText(summaryField.resolve(root)), summaryVocabulary)...)

	for _, entry := range education {
		studied := scanText(firstText(entry, educationFieldText)) + "\n" + scanText(firstText(entry, educationDegreeText))
		found = append(found, matchVocabulary(studied, educationVocabulary)...)
	}

	return normalizeSkills(found)
}

// entryText renders a list entry: strings as-is, objects by their first label field.
func entryText(entry gjson.Result) string {
	if entry.Type == gjson.String {
		return strings.TrimSpace(entry.Str)
	}
	if label := firstText(entry, entryLabels); label != "" {
		return label
	}
	if entry.IsObject() || entry.IsArray() {
		return strings.TrimSpace(entry.Raw)
	}
	return text(entry)
}

func scanText(value string) string {
	if _, ok := placeholders[value]; ok {
		return ""
	}
	return value
}

func matchVocabulary(source string, vocabulary []string) []string {
	source = strings.ToLower(source)
	if strings.TrimSpace(source) == "" {
		return nil
	}
	return lo.Filter(vocabulary, func(term string, _ int) bool {
		return strings.Contains(source, strings.ToLower(term))
	})
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, maxSkills)

	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" || utf8.RuneCountInString(skill) >= maxSkillLength {
			continue
		}

		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		result = append(result, skill)
		if len(result) == maxSkills {
			break
		}
	}
	return result
}

// stringList normalizes a free-form list into distinct non-empty strings.
func stringList(root gjson.Result, paths ...string) []string {
	values := lo.FilterMap(firstList(root, paths...), func(entry gjson.Result, _ int) (string, bool) {
		value := entryText(entry)
		return value, value != ""
	})
	if values == nil {
		return []string{}
	}
	return lo.Uniq(values)
}
