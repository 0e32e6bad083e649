package domain

import "time"

// SkillLevel is the self-assessed proficiency for a skill.
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "Beginner"
	SkillLevelIntermediate SkillLevel = "Intermediate"
	SkillLevelAdvanced     SkillLevel = "Advanced"
	SkillLevelExpert       SkillLevel = "Expert"
)

// Valid reports whether l is a known level.
func (l SkillLevel) Valid() bool {
	switch l {
	case SkillLevelBeginner, SkillLevelIntermediate, SkillLevelAdvanced, SkillLevelExpert:
		return true
	}
	return false
}

// Skill is a technology listed on the portfolio, e.g. {React, Frontend, ⚛️, Expert}.
type Skill struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Icon      string     `json:"icon"`
	Level     SkillLevel `json:"level"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
