package workforce

import "github.com/shopspring/decimal"

const unassignedPosition = "Unassigned"

type Employees []Employee

// Partition splits employees into active and archived, preserving order.
func (es Employees) Partition() (active Employees, archived Employees) {
	for _, e := range es {
		if e.Archived() {
			archived = append(archived, e)
			continue
		}
		active = append(active, e)
	}
	return active, archived
}

func (es Employees) GroupByPosition() map[string]Employees {
	out := make(map[string]Employees)
	for _, e := range es {
		key := e.PositionName
		if key == "" {
			key = unassignedPosition
		}
		out[key] = append(out[key], e)
	}
	return out
}

func (es Employees) GroupByAccountStatus() map[AccountStatus]Employees {
	out := make(map[AccountStatus]Employees)
	for _, e := range es {
		out[e.AccountStatus] = append(out[e.AccountStatus], e)
	}
	return out
}

type Users []User

// Partition splits users into active and deactivated accounts.
func (us Users) Partition() (active Users, deactivated Users) {
	for _, u := range us {
		if u.Active() {
			active = append(active, u)
			continue
		}
		deactivated = append(deactivated, u)
	}
	return active, deactivated
}

// GroupByRole lists each user under every role they hold.
func (us Users) GroupByRole() map[string]Users {
	out := make(map[string]Users)
	for _, u := range us {
		for _, role := range u.Roles {
			out[role] = append(out[role], u)
		}
	}
	return out
}

type Trucks []Truck

func (ts Trucks) Partition() (active Trucks, archived Trucks) {
	for _, t := range ts {
		if t.ArchivedAt != nil {
			archived = append(archived, t)
			continue
		}
		active = append(active, t)
	}
	return active, archived
}

func (ts Trucks) TotalCapacity() decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		total = total.Add(t.CapacityTons)
	}
	return total
}
