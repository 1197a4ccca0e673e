package errors

import "errors"

var (
	ErrRoleNotFound     = errors.New("decision role not found")
	ErrRoleAlreadyBound = errors.New("role already bound to profile")
	ErrInvalidRole      = errors.New("invalid decision role")
	ErrInvalidProfileID = errors.New("invalid profile id")
	ErrForbidden        = errors.New("actor lacks the admin capability")
)
