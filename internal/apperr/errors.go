// Package apperr holds the typed errors returned by the transfer workflow.
// Every failure is a value carrying a Code; callers match with errors.Is
// against the exported sentinels and read details with errors.As.
package apperr

import (
	"errors"

	"github.com/cradoe/remitflow/internal/models"
)

type Category string

const (
	CategoryInput          Category = "input"
	CategoryResolution     Category = "resolution"
	CategoryLimit          Category = "limit"
	CategoryAuthorization  Category = "authorization"
	CategoryInfrastructure Category = "infrastructure"
	CategoryCommitRace     Category = "commit_race"
	CategoryState          Category = "state"
)

type Code string

const (
	CodeInvalidAmount         Code = "invalid_amount"
	CodeInvalidPurpose        Code = "invalid_purpose"
	CodeInvalidRemarks        Code = "invalid_remarks"
	CodeInvalidScheduleDate   Code = "invalid_schedule_date"
	CodeInvalidTransferType   Code = "invalid_transfer_type"
	CodeInvalidBeneficiary    Code = "invalid_beneficiary"
	CodeMalformedRoutingCode  Code = "malformed_routing_code"
	CodeInvalidIdentifier     Code = "invalid_identifier"
	CodeInvalidDestination    Code = "invalid_destination"
	CodeNotFound              Code = "not_found"
	CodeUnverified            Code = "unverified"
	CodeVerificationFailed    Code = "verification_failed"
	CodeInsufficientFunds     Code = "insufficient_funds"
	CodeDailyLimitExceeded    Code = "daily_limit_exceeded"
	CodeMonthlyLimitExceeded  Code = "monthly_limit_exceeded"
	CodePerTransactionCap     Code = "per_transaction_cap_exceeded"
	CodeInvalidCredential     Code = "invalid_credential"
	CodeCodeMismatch          Code = "code_mismatch"
	CodeExpired               Code = "expired"
	CodeAttemptsExceeded      Code = "attempts_exceeded"
	CodeChallengeNotFound     Code = "challenge_not_found"
	CodeAuthorizationInvalid  Code = "authorization_invalid"
	CodeTimeout               Code = "timeout"
	CodeLookupUnavailable     Code = "lookup_unavailable"
	CodeDeliveryFailed        Code = "delivery_failed"
	CodeStoreUnavailable      Code = "store_unavailable"
	CodeLimitExceededAtCommit Code = "limit_exceeded_at_commit"
	CodeInvalidTransition     Code = "invalid_transition"
	CodeSessionNotFound       Code = "session_not_found"
)

var categories = map[Code]Category{
	CodeInvalidAmount:         CategoryInput,
	CodeInvalidPurpose:        CategoryInput,
	CodeInvalidRemarks:        CategoryInput,
	CodeInvalidScheduleDate:   CategoryInput,
	CodeInvalidTransferType:   CategoryInput,
	CodeInvalidBeneficiary:    CategoryInput,
	CodeMalformedRoutingCode:  CategoryInput,
	CodeInvalidIdentifier:     CategoryInput,
	CodeInvalidDestination:    CategoryResolution,
	CodeNotFound:              CategoryResolution,
	CodeUnverified:            CategoryResolution,
	CodeVerificationFailed:    CategoryResolution,
	CodeInsufficientFunds:     CategoryLimit,
	CodeDailyLimitExceeded:    CategoryLimit,
	CodeMonthlyLimitExceeded:  CategoryLimit,
	CodePerTransactionCap:     CategoryLimit,
	CodeInvalidCredential:     CategoryAuthorization,
	CodeCodeMismatch:          CategoryAuthorization,
	CodeExpired:               CategoryAuthorization,
	CodeAttemptsExceeded:      CategoryAuthorization,
	CodeChallengeNotFound:     CategoryAuthorization,
	CodeAuthorizationInvalid:  CategoryAuthorization,
	CodeTimeout:               CategoryInfrastructure,
	CodeLookupUnavailable:     CategoryInfrastructure,
	CodeDeliveryFailed:        CategoryInfrastructure,
	CodeStoreUnavailable:      CategoryInfrastructure,
	CodeLimitExceededAtCommit: CategoryCommitRace,
	CodeInvalidTransition:     CategoryState,
	CodeSessionNotFound:       CategoryState,
}

// Error is the single error type surfaced by the workflow.
// Detail carries the shortfall, remaining headroom or cap where one applies.
type Error struct {
	Code    Code
	Message string
	Detail  *models.Amount
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code so that errors.Is(err, apperr.ErrExpired) works for any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) Category() Category {
	return categories[e.Code]
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func WithDetail(code Code, message string, detail models.Amount) *Error {
	return &Error{Code: code, Message: message, Detail: &detail}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the Code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category()
	}
	return CategoryInfrastructure
}

var (
	ErrInvalidAmount         = New(CodeInvalidAmount, "amount must be greater than zero")
	ErrInvalidPurpose        = New(CodeInvalidPurpose, "purpose of transfer is not recognised")
	ErrInvalidRemarks        = New(CodeInvalidRemarks, "remarks cannot exceed 50 characters")
	ErrInvalidScheduleDate   = New(CodeInvalidScheduleDate, "schedule date cannot be in the past")
	ErrInvalidTransferType   = New(CodeInvalidTransferType, "transfer type is not supported")
	ErrInvalidBeneficiary    = New(CodeInvalidBeneficiary, "beneficiary name and account number are required")
	ErrMalformedRoutingCode  = New(CodeMalformedRoutingCode, "routing code is malformed")
	ErrInvalidIdentifier     = New(CodeInvalidIdentifier, "payment identifier is invalid")
	ErrInvalidDestination    = New(CodeInvalidDestination, "destination account is not valid for this transfer")
	ErrNotFound              = New(CodeNotFound, "destination not found")
	ErrUnverified            = New(CodeUnverified, "beneficiary has not been verified")
	ErrVerificationFailed    = New(CodeVerificationFailed, "beneficiary account could not be verified")
	ErrInsufficientFunds     = New(CodeInsufficientFunds, "insufficient balance")
	ErrDailyLimitExceeded    = New(CodeDailyLimitExceeded, "daily limit exceeded")
	ErrMonthlyLimitExceeded  = New(CodeMonthlyLimitExceeded, "monthly limit exceeded")
	ErrPerTransactionCap     = New(CodePerTransactionCap, "per transaction limit exceeded")
	ErrInvalidCredential     = New(CodeInvalidCredential, "invalid transaction password")
	ErrCodeMismatch          = New(CodeCodeMismatch, "incorrect OTP")
	ErrExpired               = New(CodeExpired, "OTP has expired")
	ErrAttemptsExceeded      = New(CodeAttemptsExceeded, "too many incorrect OTP attempts")
	ErrChallengeNotFound     = New(CodeChallengeNotFound, "verification challenge not found")
	ErrAuthorizationInvalid  = New(CodeAuthorizationInvalid, "authorization is no longer valid")
	ErrTimeout               = New(CodeTimeout, "the request timed out")
	ErrLookupUnavailable     = New(CodeLookupUnavailable, "directory lookup is unavailable")
	ErrDeliveryFailed        = New(CodeDeliveryFailed, "OTP could not be delivered")
	ErrStoreUnavailable      = New(CodeStoreUnavailable, "transfer store is unavailable")
	ErrLimitExceededAtCommit = New(CodeLimitExceededAtCommit, "limits changed before the transfer could be committed")
	ErrInvalidTransition     = New(CodeInvalidTransition, "operation not allowed in the current state")
	ErrSessionNotFound       = New(CodeSessionNotFound, "transfer session not found")
)
