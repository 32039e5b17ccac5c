package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StuckToPlan is the closed set of answers to "did you stick to the plan?".
// The zero value is the default answer.
type StuckToPlan int

const (
	StuckToPlanMostly StuckToPlan = iota
	StuckToPlanYes
	StuckToPlanNo
)

var stuckToPlanLabels = [...]string{
	StuckToPlanMostly: "Mostly, small distractions",
	StuckToPlanYes:    "Yes, full focus",
	StuckToPlanNo:     "No, but I’ll bounce back",
}

// StuckToPlanValues lists every answer in display order.
func StuckToPlanValues() []StuckToPlan {
	return []StuckToPlan{StuckToPlanYes, StuckToPlanMostly, StuckToPlanNo}
}

// ParseStuckToPlan maps a label onto its value. The empty string yields the
// default answer.
func ParseStuckToPlan(s string) (StuckToPlan, error) {
	if s == "" {
		return StuckToPlanMostly, nil
	}
	for v, label := range stuckToPlanLabels {
		if label == s {
			return StuckToPlan(v), nil
		}
	}
	return 0, fmt.Errorf("unknown value %q", s)
}

func (s StuckToPlan) String() string {
	if s < 0 || int(s) >= len(stuckToPlanLabels) {
		return fmt.Sprintf("StuckToPlan(%d)", int(s))
	}
	return stuckToPlanLabels[s]
}

func (s StuckToPlan) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *StuckToPlan) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return err
	}
	v, err := ParseStuckToPlan(label)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s StuckToPlan) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s *StuckToPlan) Scan(src any) error {
	var label string
	switch v := src.(type) {
	case string:
		label = v
	case []byte:
		label = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StuckToPlan", src)
	}
	parsed, err := ParseStuckToPlan(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
