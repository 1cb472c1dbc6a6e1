package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrValidation is matched by every *ValidationError
var ErrValidation = goerr.New("validation failed")

// Context keys for error values
const (
	LeadIDKey     = "lead_id"
	CampaignIDKey = "campaign_id"
	SequenceIDKey = "sequence_id"
	OutreachIDKey = "outreach_id"
	UserIDKey     = "user_id"
	EmailKey      = "email"
	CompanyKey    = "company"
	ChannelKey    = "channel"
)

// FieldProblem describes one invalid field
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed input to a store write
type ValidationError struct {
	Entity   string
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return "invalid " + e.Entity + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a single-problem ValidationError
func NewValidationError(entity, field, message string) *ValidationError {
	return &ValidationError{
		Entity:   entity,
		Problems: []FieldProblem{{Field: field, Message: message}},
	}
}

type validator struct {
	entity   string
	problems []FieldProblem
}

func newValidator(entity string) *validator {
	return &validator{entity: entity}
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		v.problems = append(v.problems, FieldProblem{Field: field, Message: message})
	}
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Entity: v.entity, Problems: v.problems}
}
