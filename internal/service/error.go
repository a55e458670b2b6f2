package service

import "errors"

var (
	ErrRequestNotFound     = errors.New("REQUEST_NOT_FOUND")
	ErrCredentialsNotFound = errors.New("CREDENTIALS_NOT_FOUND")
	ErrInsufficientBalance = errors.New("INSUFFICIENT_BALANCE")
	ErrDatabase            = errors.New("DATABASE_ERROR")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
