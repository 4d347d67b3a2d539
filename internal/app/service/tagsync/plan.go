package tagsync

import (
	"github.com/fatflowers/paylist/pkg/types"
)

// Plan lists the Kit changes for one lifecycle step. Roles without a
// configured tag id are dropped when the plan is applied.
type Plan struct {
	Remove      []types.TagRole
	Add         []types.TagRole
	Unsubscribe bool
}

func (p Plan) Empty() bool {
	return len(p.Remove) == 0 && len(p.Add) == 0 && !p.Unsubscribe
}

// ForCreate tags a new subscriber with its plan interval, active status and publication.
func ForCreate(interval types.PlanInterval) Plan {
	add := make([]types.TagRole, 0, 3)
	if role := interval.TagRole(); role != "" {
		add = append(add, role)
	}
	add = append(add, types.TagRoleActive, types.TagRolePublication)
	return Plan{Add: add}
}

// ForStatusChange swaps the status tag of from for the one of to. It is empty
// when the status does not change.
func ForStatusChange(from, to types.SubscriberStatus) Plan {
	if from == to {
		return Plan{}
	}
	p := Plan{}
	if role := types.StatusTagRole(from); role != "" {
		p.Remove = append(p.Remove, role)
	}
	if role := types.StatusTagRole(to); role != "" {
		p.Add = append(p.Add, role)
	}
	return p
}

// ForDisable clears every status tag, marks the subscription completed or
// cancelled and unsubscribes from the creator's list.
func ForDisable(completed bool) Plan {
	final := types.TagRoleCancelled
	if completed {
		final = types.TagRoleCompleted
	}
	p := Plan{Add: []types.TagRole{final}, Unsubscribe: true}
	for _, role := range types.StatusTagRoles {
		if role != final {
			p.Remove = append(p.Remove, role)
		}
	}
	return p
}

// ForResync rebuilds the full tag state for a subscriber in status. completed
// only matters for cancelled subscribers.
func ForResync(status types.SubscriberStatus, interval types.PlanInterval, completed bool) Plan {
	if status == types.SubscriberStatusCancelled {
		return ForDisable(completed)
	}
	current := types.StatusTagRole(status)
	p := Plan{}
	for _, role := range types.StatusTagRoles {
		if role != current {
			p.Remove = append(p.Remove, role)
		}
	}
	if role := interval.TagRole(); role != "" {
		p.Add = append(p.Add, role)
	}
	p.Add = append(p.Add, current, types.TagRolePublication)
	return p
}
