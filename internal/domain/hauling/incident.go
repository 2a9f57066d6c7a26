package hauling

import (
	"fmt"
	"time"
)

const (
	PendingLocation       = "To be determined"
	PendingInfractionType = "To be determined"
	DraftDescription      = "Auto-generated incident draft for a scheduled hauling. Complete the location, infraction type and narrative before submitting."
)

// DraftSubject embeds the hauling date so drafts are searchable by day.
func DraftSubject(date string) string {
	return fmt.Sprintf("Hauling Incident Report %s", date)
}

// NewDraftIncident builds the single incident that accompanies a newly created
// hauling record. The record must carry its resolved job order.
func NewDraftIncident(r Record, now time.Time) Incident {
	return Incident{
		HaulingRecordID: r.ID,
		JobOrderID:      r.JobOrderID,
		Subject:         DraftSubject(r.Date),
		Location:        PendingLocation,
		InfractionType:  PendingInfractionType,
		OccurredAt:      now,
		Description:     DraftDescription,
		Status:          IncidentDraft,
		IsRead:          false,
		Context: map[string]any{
			"hauling_date": r.Date,
			"form3_id":     r.Form3ID,
			"form4_id":     r.Form4ID,
		},
	}
}
