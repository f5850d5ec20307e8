// Package skill maps asset types to required skills and scores engineer coverage.
package skill

import "strings"

// Score constants for cases where there is not enough data to compare.
const (
	NeutralScore       = 0.5
	NoRequirementScore = 0.7
)

type rule struct {
	keywords []string
	skills   []string
}

// rules are checked in order; the first matching keyword wins.
var rules = []rule{
	{keywords: []string{"pump", "pressure"}, skills: []string{"HVAC", "Mechanical", "Plumbing"}},
	{keywords: []string{"boiler"}, skills: []string{"HVAC", "Mechanical", "Boiler Maintenance"}},
	{keywords: []string{"generator"}, skills: []string{"Electrical", "Generator Maintenance"}},
	{keywords: []string{"fire"}, skills: []string{"Fire Safety", "Electrical"}},
	{keywords: []string{"water"}, skills: []string{"Plumbing", "Water Treatment"}},
	{keywords: []string{"gas"}, skills: []string{"HVAC", "Boiler Maintenance", "Gas Safety"}},
}

var fallback = []string{"Mechanical"}

// RequiredSkills returns the skills needed to service an asset of the given type.
func RequiredSkills(assetType string) []string {
	label := strings.ToLower(assetType)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(label, kw) {
				return append([]string(nil), r.skills...)
			}
		}
	}
	return append([]string(nil), fallback...)
}

// Matches reports whether a required skill is covered by an engineer skill.
// Either string may contain the other, ignoring case.
func Matches(required, have string) bool {
	r := strings.ToLower(strings.TrimSpace(required))
	h := strings.ToLower(strings.TrimSpace(have))
	if r == "" || h == "" {
		return false
	}
	return strings.Contains(h, r) || strings.Contains(r, h)
}

// ScoreMatch returns the fraction of required skills the engineer covers, in [0,1].
// A task without an asset scores neutral. An asset with no type label falls
// through to the default requirement.
func ScoreMatch(hasAsset bool, assetType string, engineerSkills []string) float64 {
	if !hasAsset || len(engineerSkills) == 0 {
		return NeutralScore
	}
	return Coverage(RequiredSkills(assetType), engineerSkills)
}

// Coverage scores engineer skills against an explicit requirement set.
func Coverage(required, engineerSkills []string) float64 {
	if len(engineerSkills) == 0 {
		return NeutralScore
	}
	if len(required) == 0 {
		return NoRequirementScore
	}

	matched := 0
	for _, req := range required {
		for _, have := range engineerSkills {
			if Matches(req, have) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(required))
}

// Parse splits a comma-separated skill list, dropping blanks.
func Parse(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Join renders skills for storage.
func Join(skills []string) string {
	return strings.Join(skills, ",")
}
