package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
)

const (
	// GoalCount is the number of goal slots every entry carries.
	GoalCount = 3
	// MaxLearnings caps evening.learnings.
	MaxLearnings = 3
)

type Midday struct {
	Progress           string `json:"progress"`
	BiggestDistraction string `json:"biggestDistraction"`
}

type Evening struct {
	Wins         string   `json:"wins"`
	Improvements string   `json:"improvements"`
	Learnings    []string `json:"learnings"`
	Gratitude    string   `json:"gratitude"`
}

// Entry is one day of journal content owned by exactly one account.
type Entry struct {
	ID          string            `json:"id"`
	Owner       string            `json:"owner"`
	Date        Date              `json:"date"`
	Top3Goals   [GoalCount]string `json:"top3Goals"`
	FocusAreas  []string          `json:"focusAreas"`
	Intention   string            `json:"intention"`
	Midday      Midday            `json:"midday"`
	Evening     Evening           `json:"evening"`
	StuckToPlan StuckToPlan       `json:"stuckToPlan"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// EntryInput is the client-writable part of an entry as it arrives on the
// wire. Pointer and nil-able fields distinguish "absent" from "empty".
// Fields such as id, owner and timestamps are not part of it and are
// silently ignored when present in a request body.
type EntryInput struct {
	Date        *string  `json:"date"`
	Top3Goals   []string `json:"top3Goals"`
	FocusAreas  []string `json:"focusAreas"`
	Intention   string   `json:"intention"`
	Midday      Midday   `json:"midday"`
	Evening     Evening  `json:"evening"`
	StuckToPlan *string  `json:"stuckToPlan"`
}

// Normalize validates in against vocab and returns the entry it describes,
// without identity, owner or timestamps. All problems are collected into a
// single *common.ValidationError.
func (in *EntryInput) Normalize(vocab Vocabulary) (*Entry, error) {
	verr := common.NewValidationError()
	e := &Entry{
		Intention: in.Intention,
		Midday:    in.Midday,
		Evening:   in.Evening,
	}

	switch {
	case in.Date == nil || strings.TrimSpace(*in.Date) == "":
		verr.Add("date", "is required")
	default:
		d, err := ParseDate(strings.TrimSpace(*in.Date))
		if err != nil {
			verr.Add("date", "must be a date in YYYY-MM-DD format")
		}
		e.Date = d
	}

	switch {
	case in.Top3Goals == nil:
		verr.Add("top3Goals", "is required")
	case len(in.Top3Goals) > GoalCount:
		verr.Add("top3Goals", fmt.Sprintf("must contain at most %d goals", GoalCount))
	default:
		copy(e.Top3Goals[:], in.Top3Goals)
	}

	e.FocusAreas = NormalizeFocusAreas(in.FocusAreas)
	for _, fa := range e.FocusAreas {
		if !vocab.Contains(fa) {
			verr.Add("focusAreas", fmt.Sprintf("unknown focus area %q", fa))
		}
	}

	if len(in.Evening.Learnings) > MaxLearnings {
		verr.Add("evening.learnings", fmt.Sprintf("must contain at most %d items", MaxLearnings))
	}
	if e.Evening.Learnings == nil {
		e.Evening.Learnings = []string{}
	}

	if in.StuckToPlan != nil {
		s, err := ParseStuckToPlan(*in.StuckToPlan)
		if err != nil {
			verr.Add("stuckToPlan", "must be one of "+stuckToPlanChoices())
		}
		e.StuckToPlan = s
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

func stuckToPlanChoices() string {
	vals := StuckToPlanValues()
	labels := make([]string, len(vals))
	for i, v := range vals {
		labels[i] = fmt.Sprintf("%q", v.String())
	}
	return strings.Join(labels, ", ")
}
