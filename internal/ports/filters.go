package ports

import "jobdesk/internal/domain/workforce"

// Scope carries the caller for role-scoped listings. A nil Caller means an
// internal caller (CLI, scheduler) and is never narrowed.
type Scope struct {
	Caller          *workforce.Caller
	RestrictedRoles []string
}

// DateRange bounds are calendar days (YYYY-MM-DD); either side may be empty.
type DateRange struct {
	From string
	To   string
}

func (r DateRange) Empty() bool {
	return r.From == "" && r.To == ""
}

type Sort struct {
	Field string
	Desc  bool
}

type JobOrderFilter struct {
	Scope
	Search       string
	ServiceTypes []string
	Statuses     []string
	CreatorIDs   []uint64
	Created      DateRange
	Archived     DateRange
	OnlyArchived bool
	Sort         Sort
}

type CorrectionFilter struct {
	Scope
	Search      string
	Statuses    []string
	CreatorIDs  []uint64
	JobOrderIDs []uint64
	Created     DateRange
	// LatestOnly keeps the most recent correction per job order.
	LatestOnly bool
}

type EmployeeFilter struct {
	Search          string
	PositionIDs     []uint64
	AccountStatuses []string
	Created         DateRange
	Archived        DateRange
	OnlyArchived    bool
}

type UserFilter struct {
	Search          string
	Roles           []string
	Created         DateRange
	Deactivated     DateRange
	OnlyDeactivated bool
}

type TruckFilter struct {
	Search       string
	Archived     DateRange
	OnlyArchived bool
}

type IncidentFilter struct {
	Statuses         []string
	JobOrderIDs      []uint64
	HaulingRecordIDs []uint64
	Created          DateRange
	UnreadOnly       bool
}
