// Package models defines the JSON shapes the CLI exchanges with the journal
// API. Validation lives on the server; these types only carry data.
package models

import "time"

type Account struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	FocusAreas  []string  `json:"focusAreas"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

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

// Entry is a journal entry as returned by the server.
type Entry struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Date        string    `json:"date"`
	Top3Goals   []string  `json:"top3Goals"`
	FocusAreas  []string  `json:"focusAreas"`
	Intention   string    `json:"intention"`
	Midday      Midday    `json:"midday"`
	Evening     Evening   `json:"evening"`
	StuckToPlan string    `json:"stuckToPlan"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EntryInput is the writable part of an entry.
type EntryInput struct {
	Date        string   `json:"date"`
	Top3Goals   []string `json:"top3Goals"`
	FocusAreas  []string `json:"focusAreas,omitempty"`
	Intention   string   `json:"intention,omitempty"`
	Midday      Midday   `json:"midday"`
	Evening     Evening  `json:"evening"`
	StuckToPlan string   `json:"stuckToPlan,omitempty"`
}

// Input returns a copy of the writable part of e, e.g. to edit and PUT it back.
func (e *Entry) Input() *EntryInput {
	ev := e.Evening
	ev.Learnings = append([]string(nil), e.Evening.Learnings...)

	return &EntryInput{
		Date:        e.Date,
		Top3Goals:   append([]string(nil), e.Top3Goals...),
		FocusAreas:  append([]string(nil), e.FocusAreas...),
		Intention:   e.Intention,
		Midday:      e.Midday,
		Evening:     ev,
		StuckToPlan: e.StuckToPlan,
	}
}

type AuthResult struct {
	Account Account `json:"account"`
	Token   string  `json:"token"`
}

type ImportResult struct {
	InsertedCount int      `json:"insertedCount"`
	InsertedIDs   []string `json:"insertedIds"`
}

type ArchiveResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
