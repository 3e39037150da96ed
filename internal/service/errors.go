package service

import "errors"

// 业务统一错误，handler 层通过 errors.Is 映射为响应码与文案。
var (
	ErrNotFound                  = errors.New("not found")
	ErrUnauthorized              = errors.New("unauthorized")
	ErrInvalidEmail              = errors.New("invalid email")
	ErrEmailExists               = errors.New("email already registered")
	ErrEmailInUse                = errors.New("email already in use")
	ErrWeakPassword              = errors.New("weak password")
	ErrIncorrectPassword         = errors.New("incorrect password")
	ErrInvalidVerifyStep         = errors.New("invalid verify step")
	ErrCodeNotFound              = errors.New("verify code not found")
	ErrCodeExpired               = errors.New("verify code expired")
	ErrCodeMismatch              = errors.New("verify code mismatch")
	ErrCodeAttemptsExceeded      = errors.New("verify code attempts exceeded")
	ErrCodeCooldown              = errors.New("verify code cooldown")
	ErrRequestNotFound           = errors.New("reset request not found")
	ErrAccountAlreadyActive      = errors.New("account already active")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
	ErrInvalidDate               = errors.New("invalid date")
	ErrUploadInvalidType         = errors.New("upload type not allowed")
	ErrUploadTooLarge            = errors.New("upload too large")
)
