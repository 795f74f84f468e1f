// Package plan holds the immutable plan definition and its rule resolution.
// All functions here are pure - absence of a rule is a normal case with a
// well-defined default (deny for allow checks, nil for limits).
package plan

import (
	id "plangate/pkg/domain"
	strutil "plangate/pkg/platform/strings"
)

// Status marks whether a plan can be assigned and evaluated.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Period scopes a usage limit to a reset window.
type Period string

const (
	PeriodDaily    Period = "daily"
	PeriodWeekly   Period = "weekly"
	PeriodMonthly  Period = "monthly"
	PeriodYearly   Period = "yearly"
	PeriodLifetime Period = "lifetime"
)

// IsValid reports whether p is a known period.
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly, PeriodLifetime:
		return true
	}
	return false
}

// Scope narrows a usage limit to a module and/or feature.
// An empty field acts as a wildcard in plan-wide limits.
type Scope struct {
	Module  string `json:"module,omitempty"`
	Feature string `json:"feature,omitempty"`
}

// UsageLimit caps the number of uses of a scope within a period.
type UsageLimit struct {
	Scope  Scope  `json:"scope"`
	Limit  int    `json:"limit"`
	Period Period `json:"period"`
}

// FeatureRule allows or denies a single feature, optionally capped.
type FeatureRule struct {
	Module     string      `json:"module"`
	Feature    string      `json:"feature"`
	Allowed    bool        `json:"allowed"`
	UsageLimit *UsageLimit `json:"usageLimit,omitempty"`
}

// ModuleRule allows or denies a module, optionally with nested feature rules
// and a module-wide cap.
type ModuleRule struct {
	Module       string        `json:"module"`
	Allowed      bool          `json:"allowed"`
	FeatureRules []FeatureRule `json:"featureRules,omitempty"`
	UsageLimit   *UsageLimit   `json:"usageLimit,omitempty"`
}

// RoleMapping translates one plan role into the RBAC roles it grants.
type RoleMapping struct {
	PlanRole  string   `json:"planRole"`
	RBACRoles []string `json:"rbacRoles"`
}

// Plan is an immutable bundle of access rules and usage limits.
// Mutation means replacing the whole value, never editing in place.
type Plan struct {
	ID           id.PlanID     `json:"planId"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Status       Status        `json:"status"`
	RoleMappings []RoleMapping `json:"roleMappings"`
	ModuleRules  []ModuleRule  `json:"moduleRules"`
	FeatureRules []FeatureRule `json:"featureRules"`
	UsageLimits  []UsageLimit  `json:"usageLimits"`
}

// IsActive reports whether the plan may gate access.
func (p *Plan) IsActive() bool {
	return p.Status == StatusActive
}

// AllowsModule resolves the module allow flag. No matching rule means denied.
func (p *Plan) AllowsModule(module string) bool {
	rule := p.moduleRule(module)
	if rule == nil {
		return false
	}
	return rule.Allowed
}

// AllowsFeature resolves the feature allow flag. A feature rule nested under
// the matching module rule wins over a flat feature rule for the same pair;
// no rule at either level means denied.
func (p *Plan) AllowsFeature(module, feature string) bool {
	if moduleRule := p.moduleRule(module); moduleRule != nil {
		for i := range moduleRule.FeatureRules {
			if moduleRule.FeatureRules[i].Feature == feature {
				return moduleRule.FeatureRules[i].Allowed
			}
		}
	}

	if rule := p.featureRule(module, feature); rule != nil {
		return rule.Allowed
	}
	return false
}

// UsageLimitFor resolves the applicable usage limit for a scope, most
// specific first: nested feature rule, flat feature rule, module rule,
// then plan-wide limits where an unset scope field matches anything.
// Returns nil when no limit applies.
func (p *Plan) UsageLimitFor(scope Scope) *UsageLimit {
	if scope.Module != "" && scope.Feature != "" {
		if moduleRule := p.moduleRule(scope.Module); moduleRule != nil {
			for i := range moduleRule.FeatureRules {
				fr := &moduleRule.FeatureRules[i]
				if fr.Feature == scope.Feature && fr.UsageLimit != nil {
					return fr.UsageLimit
				}
			}
		}
		if rule := p.featureRule(scope.Module, scope.Feature); rule != nil && rule.UsageLimit != nil {
			return rule.UsageLimit
		}
	}

	if scope.Module != "" {
		if rule := p.moduleRule(scope.Module); rule != nil && rule.UsageLimit != nil {
			return rule.UsageLimit
		}
	}

	for i := range p.UsageLimits {
		limit := &p.UsageLimits[i]
		moduleMatch := limit.Scope.Module == "" || limit.Scope.Module == scope.Module
		featureMatch := limit.Scope.Feature == "" || limit.Scope.Feature == scope.Feature
		if moduleMatch && featureMatch {
			return limit
		}
	}
	return nil
}

// MappedRoles returns the deduplicated union of RBAC roles across all role
// mappings. Order is first-seen and not significant.
func (p *Plan) MappedRoles() []string {
	var roles []string
	for _, mapping := range p.RoleMappings {
		roles = append(roles, mapping.RBACRoles...)
	}
	return strutil.DedupeAndTrim(roles)
}

func (p *Plan) moduleRule(module string) *ModuleRule {
	for i := range p.ModuleRules {
		if p.ModuleRules[i].Module == module {
			return &p.ModuleRules[i]
		}
	}
	return nil
}

func (p *Plan) featureRule(module, feature string) *FeatureRule {
	for i := range p.FeatureRules {
		if p.FeatureRules[i].Module == module && p.FeatureRules[i].Feature == feature {
			return &p.FeatureRules[i]
		}
	}
	return nil
}
