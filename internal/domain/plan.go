package domain

import "time"

// PlanType enumerates the catalog tiers.
type PlanType string

const (
	PlanTypeFreemium     PlanType = "FREEMIUM"
	PlanTypeBasic        PlanType = "BASIC"
	PlanTypeProfessional PlanType = "PROFESSIONAL"
	PlanTypeEnterprise   PlanType = "ENTERPRISE"
)

// UnlimitedTickets is the sentinel meaning no monthly ticket quota.
const UnlimitedTickets = -1

// Plan is a purchasable catalog tier. Plans are never deleted, only
// deactivated.
type Plan struct {
	ID                 string
	Type               PlanType
	Name               string
	Price              float64
	Currency           string
	BillingCycleDays   int
	MonthlyTicketLimit int
	HasAPIAccess       bool
	HasPrioritySupport bool
	HasCustomBranding  bool
	DisplayOrder       int
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasPremiumFeatures reports whether any premium feature flag is set.
// Freemium plans must have a zero price and no premium features.
func (p *Plan) HasPremiumFeatures() bool {
	return p.HasAPIAccess || p.HasPrioritySupport || p.HasCustomBranding
}
