package guard

import (
	"context"
	"strings"
)

// Profile is the role-tagged domain profile. The evaluator switches
// exhaustively on the concrete type; there is no defensive field probing
// against untyped payloads.
type Profile interface {
	ProfileRole() Role
}

// Schedule is a manager working window.
type Schedule struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ConsumerProfile is the booking-side profile.
type ConsumerProfile struct {
	ID      string `json:"id,omitempty"`
	Address string `json:"address,omitempty"`
}

func (ConsumerProfile) ProfileRole() Role { return RoleConsumer }

// ManagerProfile is the worker-side profile.
type ManagerProfile struct {
	ID        string     `json:"id,omitempty"`
	Services  []string   `json:"services,omitempty"`
	Regions   []string   `json:"regions,omitempty"`
	Schedules []Schedule `json:"schedules,omitempty"`
}

func (ManagerProfile) ProfileRole() Role { return RoleManager }

// UnknownProfile covers unrecognized roles. Completeness falls back to
// the presence of any known identifier field.
type UnknownProfile struct {
	ID         string `json:"id,omitempty"`
	UserID     string `json:"userId,omitempty"`
	ManagerID  string `json:"managerId,omitempty"`
	ConsumerID string `json:"consumerId,omitempty"`
}

func (UnknownProfile) ProfileRole() Role { return "" }

// ProfileEvaluator applies role-specific completeness predicates over a
// fetched profile. A failing fetch is deliberately soft: profile
// incompleteness drives a setup redirect, never an authentication
// failure, so a transient backend error must not strand a legitimately
// authenticated user.
type ProfileEvaluator struct {
	service ProfileService
	logger  Logger
}

// ProfileEvaluatorOption customizes evaluator construction.
type ProfileEvaluatorOption func(*ProfileEvaluator)

// WithProfileLogger overrides the evaluator logger.
func WithProfileLogger(logger Logger) ProfileEvaluatorOption {
	return func(pe *ProfileEvaluator) {
		if logger != nil {
			pe.logger = logger
		}
	}
}

// NewProfileEvaluator wires the evaluator to a profile service.
func NewProfileEvaluator(service ProfileService, opts ...ProfileEvaluatorOption) *ProfileEvaluator {
	pe := &ProfileEvaluator{
		service: service,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(pe)
		}
	}

	return pe
}

// Complete applies the role-specific completeness predicate.
func Complete(profile Profile) bool {
	switch p := profile.(type) {
	case ConsumerProfile:
		return strings.TrimSpace(p.Address) != ""
	case *ConsumerProfile:
		return p != nil && strings.TrimSpace(p.Address) != ""
	case ManagerProfile:
		return managerComplete(p)
	case *ManagerProfile:
		return p != nil && managerComplete(*p)
	case UnknownProfile:
		return unknownComplete(p)
	case *UnknownProfile:
		return p != nil && unknownComplete(*p)
	default:
		return false
	}
}

// Partial completion counts as incomplete: a manager must have services,
// regions, and schedules before taking bookings.
func managerComplete(p ManagerProfile) bool {
	return len(p.Services) > 0 && len(p.Regions) > 0 && len(p.Schedules) > 0
}

func unknownComplete(p UnknownProfile) bool {
	return p.ID != "" || p.UserID != "" || p.ManagerID != "" || p.ConsumerID != ""
}

// Evaluate fetches the role-appropriate profile and reports completeness.
// On fetch failure it fails open: the check is reported as passed and the
// error is logged, never escalated and never shown to the user.
func (pe *ProfileEvaluator) Evaluate(ctx context.Context, role Role) (complete bool, fetched bool) {
	if pe.service == nil {
		return true, false
	}

	profile, err := pe.service.FetchProfile(ctx, role)
	if err != nil {
		pe.logger.Info("profile fetch failed, proceeding as passed", "role", role, "error", err)
		return true, false
	}

	if profile == nil {
		return false, true
	}

	return Complete(profile), true
}
