package workforce

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrUnknownAccountStatus = errors.New("unknown account status")
)
