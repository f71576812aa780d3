package service

import (
	"math"
	"strings"
	"unicode/utf8"

	"mockprep/internal/model"
)

const (
	maxPositionLength    = 100
	minDescriptionLength = 10
)

// ValidateProfile trims the text fields of p in place and checks them
func ValidateProfile(p *model.InterviewProfile) error {
	p.Position = strings.TrimSpace(p.Position)
	p.Description = strings.TrimSpace(p.Description)
	p.TechStack = strings.TrimSpace(p.TechStack)

	switch n := utf8.RuneCountInString(p.Position); {
	case n == 0:
		return &ValidationError{Field: "position", Message: "Position is required."}
	case n > maxPositionLength:
		return &ValidationError{Field: "position", Message: "Position must be 100 characters or less."}
	}
	if utf8.RuneCountInString(p.Description) < minDescriptionLength {
		return &ValidationError{Field: "description", Message: "Description should be at least 10 characters."}
	}
	if p.Experience < 0 || math.IsNaN(p.Experience) || math.IsInf(p.Experience, 0) {
		return &ValidationError{Field: "experience", Message: "Experience cannot be empty or negative."}
	}
	if p.TechStack == "" {
		return &ValidationError{Field: "techStack", Message: "Tech stack must be at least a character."}
	}
	return nil
}
