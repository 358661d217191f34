package core

import "errors"

var (
	ErrInvalidPin        = errors.New("invalid pin")
	ErrPinNotConfigured  = errors.New("pin not configured as output")
	ErrPortRange         = errors.New("aux port out of range")
	ErrInsufficientPorts = errors.New("not enough aux output ports")
	ErrNVSAlloc          = errors.New("non-volatile storage exhausted")
	ErrNVSRange          = errors.New("non-volatile storage access out of range")
	ErrSettingUnknown    = errors.New("unknown setting")
	ErrSettingInvalid    = errors.New("invalid setting value")
	ErrUnknownCommand    = errors.New("unsupported command")
	ErrInvalidStatement  = errors.New("invalid statement")

	ErrExpectedCommandLetter = errors.New("expected command letter")
)
