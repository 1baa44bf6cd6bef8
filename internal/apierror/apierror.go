// Package apierror provides standardized error values for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
// Every failure carries a machine-readable Code so clients can branch on the
// kind without parsing the human-readable detail.
package apierror

import "net/http"

// Code identifies the failure kind.
type Code string

const (
	CodeNotFound                 Code = "NOT_FOUND"
	CodeInactiveEntity           Code = "INACTIVE_ENTITY"
	CodeInsufficientStock        Code = "INSUFFICIENT_STOCK"
	CodeSessionNotOpen           Code = "SESSION_NOT_OPEN"
	CodeAlreadyClosed            Code = "ALREADY_CLOSED"
	CodeAlreadyOpen              Code = "ALREADY_OPEN"
	CodePermissionDenied         Code = "PERMISSION_DENIED"
	CodeDiscountExceedsAuthority Code = "DISCOUNT_EXCEEDS_AUTHORITY"
	CodeVoucherInvalid           Code = "VOUCHER_INVALID"
	CodeCreditNotEligible        Code = "CREDIT_NOT_ELIGIBLE"
	CodeCreditAuthFailed         Code = "CREDIT_AUTH_FAILED"
	CodeCreditLimitExceeded      Code = "CREDIT_LIMIT_EXCEEDED"
	CodeOverpaymentRejected      Code = "OVERPAYMENT_REJECTED"
	CodeAlreadyPaid              Code = "ALREADY_PAID"
	// CodeConflict marks a lost optimistic-concurrency race; the whole unit of
	// work was rolled back and the caller may simply retry.
	CodeConflict   Code = "CONFLICT"
	CodeValidation Code = "VALIDATION"
	CodeInternal   Code = "INTERNAL"
)

// Erro is the canonical error for all business failures, and doubles as the
// JSON envelope for 4xx/5xx HTTP responses.
type Erro struct {
	Code   Code   `json:"code"`
	Detail string `json:"detail"`
}

func (e *Erro) Error() string { return e.Detail }

func New(code Code, detail string) *Erro { return &Erro{Code: code, Detail: detail} }

func NotFound(detail string) *Erro            { return New(CodeNotFound, detail) }
func InactiveEntity(detail string) *Erro      { return New(CodeInactiveEntity, detail) }
func InsufficientStock(detail string) *Erro   { return New(CodeInsufficientStock, detail) }
func SessionNotOpen(detail string) *Erro      { return New(CodeSessionNotOpen, detail) }
func AlreadyClosed(detail string) *Erro       { return New(CodeAlreadyClosed, detail) }
func AlreadyOpen(detail string) *Erro         { return New(CodeAlreadyOpen, detail) }
func PermissionDenied(detail string) *Erro    { return New(CodePermissionDenied, detail) }
func VoucherInvalid(detail string) *Erro      { return New(CodeVoucherInvalid, detail) }
func CreditNotEligible(detail string) *Erro   { return New(CodeCreditNotEligible, detail) }
func CreditAuthFailed(detail string) *Erro    { return New(CodeCreditAuthFailed, detail) }
func CreditLimitExceeded(detail string) *Erro { return New(CodeCreditLimitExceeded, detail) }
func OverpaymentRejected(detail string) *Erro { return New(CodeOverpaymentRejected, detail) }
func AlreadyPaid(detail string) *Erro         { return New(CodeAlreadyPaid, detail) }
func Conflict(detail string) *Erro            { return New(CodeConflict, detail) }
func Internal(detail string) *Erro            { return New(CodeInternal, detail) }

func DiscountExceedsAuthority(detail string) *Erro {
	return New(CodeDiscountExceedsAuthority, detail)
}

// HTTPStatus maps a Code to the HTTP status the handler layer should write.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodePermissionDenied, CodeDiscountExceedsAuthority, CodeCreditAuthFailed:
		return http.StatusForbidden
	case CodeConflict, CodeAlreadyOpen, CodeAlreadyClosed, CodeAlreadyPaid:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// FromErr returns err as *Erro, wrapping unknown errors as CodeInternal so
// raw driver messages never reach a client.
func FromErr(err error) *Erro {
	if e, ok := err.(*Erro); ok {
		return e
	}
	return Internal("Erro interno do servidor")
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Code   Code              `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: CodeValidation, Detail: "Erro de validação", Fields: fields}
}
