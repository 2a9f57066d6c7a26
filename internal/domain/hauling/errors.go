package hauling

import "errors"

var (
	ErrRecordNotFound   = errors.New("hauling record not found")
	ErrIncidentNotFound = errors.New("incident not found")
	ErrForm3NotFound    = errors.New("form3 not found")
	ErrInvalidDate      = errors.New("invalid hauling date")
	ErrUnknownStatus    = errors.New("unknown hauling status")

	ErrUnknownIncidentStatus = errors.New("unknown incident status")
)
