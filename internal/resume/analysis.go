package resume

import (
	"fmt"
	"strings"
)

const (
	excellentScore = 80
	goodScore      = 60
)

func analyze(r *Record) Analysis {
	return Analysis{
		Strengths:    strengths(r),
		Improvements: improvements(r),
		Overall:      overall(r),
	}
}

func strengths(r *Record) []string {
	var result []string

	if len(r.Experience) >= 2 {
		result = append(result, "Strong work experience with multiple positions")
	}
	if len(r.Education) > 0 {
		result = append(result, "Solid educational background")
	}
	if len(r.Skills) >= 5 {
		result = append(result, "Comprehensive skill set")
	}
	if len(r.Achievements) > 0 {
		result = append(result, "Demonstrated achievements and accomplishments")
	}
	if len(r.Certifications) > 0 {
		result = append(result, "Relevant certifications")
	}
	if r.PersonalInfo.Email != NotProvided && r.PersonalInfo.Phone != NotProvided {
		result = append(result, "Complete contact information")
	}

	if len(result) == 0 {
		return []string{"Resume has basic structure"}
	}
	return result
}

func improvements(r *Record) []string {
	var result []string

	if r.Summary == "" {
		result = append(result, "Add a professional summary or objective")
	}
	if len(r.Achievements) == 0 {
		result = append(result, "Include quantifiable achievements and metrics")
	}
	if len(r.Certifications) == 0 {
		result = append(result, "Add relevant certifications if available")
	}
	if len(r.Skills) < 5 {
		result = append(result, "Expand your skills section with more relevant skills")
	}
	if r.PersonalInfo.Address == NotProvided {
		result = append(result, "Include your location/address")
	}

	return append(result,
		"Use action verbs to describe your experience",
		"Ensure consistent formatting throughout",
	)
}

func overall(r *Record) string {
	var sb strings.Builder

	switch {
	case r.ATSScore >= excellentScore:
		fmt.Fprintf(&sb, "Excellent: this resume scores %d/100 and is well optimized for applicant tracking systems.", r.ATSScore)
	case r.ATSScore >= goodScore:
		fmt.Fprintf(&sb, "Good: this resume scores %d/100; a few targeted changes would make it stronger.", r.ATSScore)
	default:
		fmt.Fprintf(&sb, "Needs improvement: this resume scores %d/100 and key sections are missing or thin.", r.ATSScore)
	}

	experience := "limited"
	if len(r.Experience) > 0 {
		experience = "good"
	}
	fmt.Fprintf(&sb, " It shows %s work experience with %d listed skills.", experience, len(r.Skills))

	if r.Summary != "" {
		sb.WriteString(" The professional summary provides a good overview of your qualifications.")
	} else {
		sb.WriteString(" Consider adding a professional summary to highlight your key strengths.")
	}

	if len(r.Achievements) > 0 {
		sb.WriteString(" The resume includes specific achievements, which strengthens your candidacy.")
	}
	return sb.String()
}
