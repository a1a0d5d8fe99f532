package commission

import "errors"

var (
	ErrCommissionNotFound = errors.New("commission not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnknownStatus      = errors.New("unknown commission status")
	ErrInvalidSaleDate    = errors.New("invalid sale date")
	ErrInvalidPeriod      = errors.New("invalid period reference")
)
