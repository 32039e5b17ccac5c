package models

import "fmt"

// DefaultFocusAreas is the fixed focus-area vocabulary. New accounts start
// with it as their own list.
var DefaultFocusAreas = []string{
	"MERN / JavaScript",
	"Python / NLP",
	"DSA / Coding Practice",
	"Japanese (JLPT N3)",
	"Gym / Exercise",
	"Journaling / Mindfulness",
}

// FocusAreaMode selects which vocabulary entry focus areas are checked
// against.
type FocusAreaMode int

const (
	// FocusAreaModeFixed checks against DefaultFocusAreas.
	FocusAreaModeFixed FocusAreaMode = iota
	// FocusAreaModeAccount checks against the owner's own focus areas.
	FocusAreaModeAccount
)

func ParseFocusAreaMode(s string) (FocusAreaMode, error) {
	switch s {
	case "", "fixed":
		return FocusAreaModeFixed, nil
	case "account":
		return FocusAreaModeAccount, nil
	default:
		return 0, fmt.Errorf("unknown focus area mode %q, want fixed or account", s)
	}
}

func (m FocusAreaMode) String() string {
	if m == FocusAreaModeAccount {
		return "account"
	}
	return "fixed"
}

// Vocabulary is a closed set of focus-area labels.
type Vocabulary map[string]struct{}

func NewVocabulary(labels []string) Vocabulary {
	v := make(Vocabulary, len(labels))
	for _, l := range labels {
		v[l] = struct{}{}
	}
	return v
}

func (v Vocabulary) Contains(label string) bool {
	_, ok := v[label]
	return ok
}

// VocabularyFor returns the vocabulary that applies to owner under mode.
func VocabularyFor(mode FocusAreaMode, owner *Account) Vocabulary {
	if mode == FocusAreaModeAccount && owner != nil {
		return NewVocabulary(owner.FocusAreas)
	}
	return NewVocabulary(DefaultFocusAreas)
}
