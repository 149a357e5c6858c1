package stem

import (
	"strings"
	"unicode"
)

// youngAge is the age below which an adult must always be present.
const youngAge = 4

const baseGuideline = "Wash hands before and after the activity"

// safetyRule keywords match the start of a word, so plurals and
// derivations ("magnets", "magnetic") match but "wheat" does not match
// "heat".
type safetyRule struct {
	keywords    []string
	guideline   string
	risk        string
	supervision Supervision
}

var safetyRules = []safetyRule{
	{
		keywords:    []string{"water"},
		guideline:   "Keep towels nearby and wipe up spills right away",
		risk:        "Slipping on wet floors",
		supervision: SupervisionGuided,
	},
	{
		keywords:    []string{"paint"},
		guideline:   "Use washable, non-toxic paint and provide smocks",
		risk:        "Paint in eyes or mouth",
		supervision: SupervisionGuided,
	},
	{
		keywords:    []string{"magnet"},
		guideline:   "Use only large magnets and count them before and after",
		risk:        "Swallowed magnets can cause serious internal injury",
		supervision: SupervisionAdultRequired,
	},
	{
		keywords:    []string{"scissors", "sharp"},
		guideline:   "Use child-safe scissors and show how to carry them",
		risk:        "Cuts from sharp edges",
		supervision: SupervisionAdultRequired,
	},
	{
		keywords:    []string{"heat", "hot"},
		guideline:   "Only adults handle hot water or heat sources",
		risk:        "Burns",
		supervision: SupervisionAdultRequired,
	},
	{
		keywords:    []string{"bead", "button", "marble", "pebble", "seed", "coin"},
		guideline:   "Watch for small parts going into mouths",
		risk:        "Choking on small parts",
		supervision: SupervisionGuided,
	},
}

// SafetyGuidelines inspects materials for known risks and returns the
// guidance for a child of the given age. Supervision only escalates as
// risks are found; children under four always need an adult.
func SafetyGuidelines(materials []string, age int) Safety {
	words := materialWords(materials)

	out := Safety{
		Guidelines:       []string{baseGuideline},
		Risks:            []string{},
		SupervisionLevel: SupervisionIndependent,
	}
	for _, rule := range safetyRules {
		if !startsAnyWord(words, rule.keywords) {
			continue
		}
		out.Guidelines = append(out.Guidelines, rule.guideline)
		out.Risks = append(out.Risks, rule.risk)
		out.SupervisionLevel = out.SupervisionLevel.escalate(rule.supervision)
	}

	if age < youngAge {
		out.Guidelines = append(out.Guidelines, "Keep an adult within arm's reach for children under 4")
		out.SupervisionLevel = SupervisionAdultRequired
	}
	return out
}

func materialWords(materials []string) []string {
	var words []string
	for _, m := range materials {
		words = append(words, strings.FieldsFunc(strings.ToLower(m), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})...)
	}
	return words
}

func startsAnyWord(words, keywords []string) bool {
	for _, w := range words {
		for _, kw := range keywords {
			if strings.HasPrefix(w, kw) {
				return true
			}
		}
	}
	return false
}
