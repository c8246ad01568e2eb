package pattern

import "github.com/huangsam/ebb/schema"

// OtherHypothesis is the free-text escape option that ends every hypothesis list.
const OtherHypothesis = "Something else (write your own)"

type suggestionText struct {
	question   string
	hypotheses []string
}

var suggestionTable = map[schema.PatternType]suggestionText{
	schema.DayOfWeekPattern: {
		question: "Something about this day of the week may be related to your capacity. Want to try a small experiment?",
		hypotheses: []string{
			"Plan a lighter schedule on this day",
			"Add a recovery block the evening before",
			"Move one demanding task to another day",
			OtherHypothesis,
		},
	},
	schema.CategorySensoryPattern: {
		question: "Sensory-heavy moments show up alongside lower capacity. Want to try a small experiment?",
		hypotheses: []string{
			"Use noise-reducing headphones in busy places",
			"Take a short quiet break after sensory-heavy activities",
			"Lower lighting or screen brightness in the evening",
			OtherHypothesis,
		},
	},
	schema.CategoryDemandPattern: {
		question: "High-demand moments show up alongside lower capacity. Want to try a small experiment?",
		hypotheses: []string{
			"Break large tasks into smaller steps",
			"Schedule a buffer between demanding tasks",
			"Say no to one optional commitment",
			OtherHypothesis,
		},
	},
	schema.CategorySocialPattern: {
		question: "Social moments show up alongside lower capacity. Want to try a small experiment?",
		hypotheses: []string{
			"Plan quiet time after social events",
			"Keep social plans shorter",
			"Limit social events to one per day",
			OtherHypothesis,
		},
	},
	schema.ConsecutiveDepletionPattern: {
		question: "Low capacity has been showing up several days in a row. Want to try a small experiment?",
		hypotheses: []string{
			"Schedule a rest day after two low days",
			"Protect sleep and wind-down time",
			"Reduce commitments when capacity starts dropping",
			OtherHypothesis,
		},
	},
}

var genericSuggestion = suggestionText{
	question:   "A pattern showed up in your recent check-ins. Want to try a small experiment?",
	hypotheses: []string{OtherHypothesis},
}

// SuggestionFor returns the fixed question and hypotheses for a pattern type.
// Unknown types get a generic question; the same type always yields the same text.
func SuggestionFor(patternType schema.PatternType, description string) schema.PatternSuggestion {
	text, ok := suggestionTable[patternType]
	if !ok {
		text = genericSuggestion
	}
	return schema.PatternSuggestion{
		PatternType:        patternType,
		PatternDescription: description,
		Question:           text.question,
		Hypotheses:         append([]string(nil), text.hypotheses...),
	}
}

// SuggestionForPattern is SuggestionFor applied to a detected pattern.
func SuggestionForPattern(p schema.DetectedPattern) schema.PatternSuggestion {
	return SuggestionFor(p.Type, p.Description)
}
