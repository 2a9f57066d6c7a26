package workforce

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountNone        AccountStatus = "no_account"
	AccountActive      AccountStatus = "active"
	AccountDeactivated AccountStatus = "deactivated"
)

func ParseAccountStatus(raw string) (AccountStatus, error) {
	switch v := AccountStatus(strings.ToLower(strings.TrimSpace(raw))); v {
	case AccountNone, AccountActive, AccountDeactivated:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAccountStatus, raw)
	}
}

const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
	RoleRequester  = "requester"
)

type Employee struct {
	ID            uint64
	UserID        *uint64
	PositionID    *uint64
	PositionName  string
	FirstName     string
	MiddleName    string
	LastName      string
	Email         string
	ContactNumber string
	AccountStatus AccountStatus
	CreatedAt     time.Time
	ArchivedAt    *time.Time
}

func (e Employee) FullName() string {
	return JoinName(e.FirstName, e.MiddleName, e.LastName)
}

func (e Employee) Archived() bool { return e.ArchivedAt != nil }

type User struct {
	ID            uint64
	Name          string
	Email         string
	Roles         []string
	EmployeeID    *uint64
	CreatedAt     time.Time
	DeactivatedAt *time.Time
}

func (u User) Active() bool { return u.DeactivatedAt == nil }

type Truck struct {
	ID           uint64
	PlateNumber  string
	Model        string
	CapacityTons decimal.Decimal
	CreatedAt    time.Time
	ArchivedAt   *time.Time
}

// Caller is the identity a request runs as. Authentication happens upstream.
type Caller struct {
	UserID     uint64
	EmployeeID uint64
	Roles      []string
}

func (c Caller) HasRole(role string) bool {
	role = strings.TrimSpace(role)
	for _, r := range c.Roles {
		if strings.EqualFold(strings.TrimSpace(r), role) {
			return true
		}
	}
	return false
}

func (c Caller) HasAnyRole(roles []string) bool {
	for _, role := range roles {
		if c.HasRole(role) {
			return true
		}
	}
	return false
}

// JoinName joins non-empty name parts with single spaces.
func JoinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
