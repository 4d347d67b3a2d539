package types

// PlanInterval is the billing cadence of a Paystack plan.
type PlanInterval string

const (
	PlanIntervalHourly   PlanInterval = "hourly"
	PlanIntervalDaily    PlanInterval = "daily"
	PlanIntervalMonthly  PlanInterval = "monthly"
	PlanIntervalAnnually PlanInterval = "annually"
)

// TagRole names a Kit tag slot configured per publication.
type TagRole string

const (
	TagRoleActive      TagRole = "active"
	TagRoleNonRenewing TagRole = "non_renewing"
	TagRoleAttention   TagRole = "attention"
	TagRoleCompleted   TagRole = "completed"
	TagRoleCancelled   TagRole = "cancelled"
	TagRolePublication TagRole = "publication"
	TagRoleHourly      TagRole = "hourly"
	TagRoleDaily       TagRole = "daily"
	TagRoleMonthly     TagRole = "monthly"
	TagRoleAnnually    TagRole = "annually"
)

// StatusTagRoles are the roles that mirror a subscriber status.
var StatusTagRoles = []TagRole{
	TagRoleActive, TagRoleNonRenewing, TagRoleAttention, TagRoleCompleted, TagRoleCancelled,
}

// TagRole returns the interval tag role for i, or "" if the interval is unknown.
func (i PlanInterval) TagRole() TagRole {
	switch i {
	case PlanIntervalHourly:
		return TagRoleHourly
	case PlanIntervalDaily:
		return TagRoleDaily
	case PlanIntervalMonthly:
		return TagRoleMonthly
	case PlanIntervalAnnually:
		return TagRoleAnnually
	default:
		return ""
	}
}

// StatusTagRole returns the tag role mirroring status.
func StatusTagRole(status SubscriberStatus) TagRole {
	switch status {
	case SubscriberStatusActive:
		return TagRoleActive
	case SubscriberStatusNonRenewing:
		return TagRoleNonRenewing
	case SubscriberStatusAttention:
		return TagRoleAttention
	case SubscriberStatusCancelled:
		return TagRoleCancelled
	default:
		return ""
	}
}
