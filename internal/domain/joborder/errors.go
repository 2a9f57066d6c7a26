package joborder

import "errors"

var (
	ErrJobOrderNotFound        = errors.New("job order not found")
	ErrCorrectionNotFound      = errors.New("job order correction not found")
	ErrUnknownServiceType      = errors.New("unknown service type")
	ErrUnknownStatus           = errors.New("unknown job order status")
	ErrUnknownCorrectionStatus = errors.New("unknown correction status")
	ErrCorrectionResolved      = errors.New("correction request already resolved")
	ErrJobOrderArchived        = errors.New("job order is archived")
	ErrInvalidTicketNumber     = errors.New("invalid ticket number")
)
