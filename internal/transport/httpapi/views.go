package httpapi

import (
	"time"

	domainhauling "jobdesk/internal/domain/hauling"
	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/ports"
)

type pageView[T any] struct {
	Data []T      `json:"data"`
	Meta pageMeta `json:"meta"`
}

type pageMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
}

func newPageView[In any, Out any](res ports.PageResult[In], conv func(In) Out) pageView[Out] {
	page := res.Page.Normalize()
	data := make([]Out, 0, len(res.Items))
	for _, item := range res.Items {
		data = append(data, conv(item))
	}
	return pageView[Out]{
		Data: data,
		Meta: pageMeta{Total: res.Total, CurrentPage: page.Number, PerPage: page.Size, LastPage: res.LastPage()},
	}
}

type jobOrderView struct {
	ID           uint64     `json:"id"`
	TicketNumber string     `json:"ticket_number"`
	ServiceType  string     `json:"service_type"`
	Status       string     `json:"status"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	CreatedBy    uint64     `json:"created_by"`
	CreatorName  string     `json:"creator_name"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ArchivedAt   *time.Time `json:"archived_at"`
}

func jobOrderOut(j joborder.JobOrder) jobOrderView {
	return jobOrderView{
		ID:           j.ID,
		TicketNumber: j.TicketNumber,
		ServiceType:  string(j.ServiceType),
		Status:       string(j.Status),
		Description:  j.Description,
		Location:     j.Location,
		CreatedBy:    j.CreatedBy,
		CreatorName:  j.CreatorName,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		ArchivedAt:   j.ArchivedAt,
	}
}

type correctionView struct {
	ID           uint64    `json:"id"`
	JobOrderID   uint64    `json:"job_order_id"`
	TicketNumber string    `json:"ticket_number"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason"`
	CreatedBy    uint64    `json:"created_by"`
	CreatorName  string    `json:"creator_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func correctionOut(c joborder.Correction) correctionView {
	return correctionView{
		ID:           c.ID,
		JobOrderID:   c.JobOrderID,
		TicketNumber: c.TicketNumber,
		Status:       string(c.Status),
		Reason:       c.Reason,
		CreatedBy:    c.CreatedBy,
		CreatorName:  c.CreatorName,
		CreatedAt:    c.CreatedAt,
	}
}

type employeeView struct {
	ID            uint64     `json:"id"`
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	ContactNumber string     `json:"contact_number"`
	PositionID    *uint64    `json:"position_id"`
	Position      string     `json:"position"`
	UserID        *uint64    `json:"user_id"`
	AccountStatus string     `json:"account_status"`
	CreatedAt     time.Time  `json:"created_at"`
	ArchivedAt    *time.Time `json:"archived_at"`
}

func employeeOut(e workforce.Employee) employeeView {
	return employeeView{
		ID:            e.ID,
		FullName:      e.FullName(),
		Email:         e.Email,
		ContactNumber: e.ContactNumber,
		PositionID:    e.PositionID,
		Position:      e.PositionName,
		UserID:        e.UserID,
		AccountStatus: string(e.AccountStatus),
		CreatedAt:     e.CreatedAt,
		ArchivedAt:    e.ArchivedAt,
	}
}

type userView struct {
	ID            uint64     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Roles         []string   `json:"roles"`
	EmployeeID    *uint64    `json:"employee_id"`
	CreatedAt     time.Time  `json:"created_at"`
	DeactivatedAt *time.Time `json:"deactivated_at"`
}

func userOut(u workforce.User) userView {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userView{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Roles:         roles,
		EmployeeID:    u.EmployeeID,
		CreatedAt:     u.CreatedAt,
		DeactivatedAt: u.DeactivatedAt,
	}
}

type truckView struct {
	ID           uint64     `json:"id"`
	PlateNumber  string     `json:"plate_number"`
	Model        string     `json:"model"`
	CapacityTons string     `json:"capacity_tons"`
	ArchivedAt   *time.Time `json:"archived_at"`
}

func truckOut(t workforce.Truck) truckView {
	return truckView{
		ID:           t.ID,
		PlateNumber:  t.PlateNumber,
		Model:        t.Model,
		CapacityTons: t.CapacityTons.String(),
		ArchivedAt:   t.ArchivedAt,
	}
}

type haulingRecordView struct {
	ID         uint64  `json:"id"`
	Form3ID    uint64  `json:"form3_id"`
	Form4ID    uint64  `json:"form4_id"`
	JobOrderID uint64  `json:"job_order_id"`
	TruckID    *uint64 `json:"truck_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	WeightTons string  `json:"weight_tons"`
}

func haulingRecordOut(r domainhauling.Record) haulingRecordView {
	return haulingRecordView{
		ID:         r.ID,
		Form3ID:    r.Form3ID,
		Form4ID:    r.Form4ID,
		JobOrderID: r.JobOrderID,
		TruckID:    r.TruckID,
		Date:       r.Date,
		Status:     r.Status,
		WeightTons: r.WeightTons.String(),
	}
}

type incidentView struct {
	ID              uint64         `json:"id"`
	HaulingRecordID uint64         `json:"hauling_record_id"`
	JobOrderID      uint64         `json:"job_order_id"`
	Subject         string         `json:"subject"`
	Location        string         `json:"location"`
	InfractionType  string         `json:"infraction_type"`
	OccurredAt      time.Time      `json:"occurred_at"`
	Description     string         `json:"description"`
	Status          string         `json:"status"`
	IsRead          bool           `json:"is_read"`
	Context         map[string]any `json:"context"`
	CreatedAt       time.Time      `json:"created_at"`
}

func incidentOut(i domainhauling.Incident) incidentView {
	return incidentView{
		ID:              i.ID,
		HaulingRecordID: i.HaulingRecordID,
		JobOrderID:      i.JobOrderID,
		Subject:         i.Subject,
		Location:        i.Location,
		InfractionType:  i.InfractionType,
		OccurredAt:      i.OccurredAt,
		Description:     i.Description,
		Status:          i.Status,
		IsRead:          i.IsRead,
		Context:         i.Context,
		CreatedAt:       i.CreatedAt,
	}
}
