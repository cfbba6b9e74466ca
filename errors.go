package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds       = "AUTH_INVALID_CREDENTIALS"
	TextCodeTokenExpired       = "AUTH_TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "AUTH_TOKEN_MALFORMED"
	TextCodeTokenBadSignature  = "AUTH_TOKEN_BAD_SIGNATURE"
	TextCodeTokenMissing       = "AUTH_TOKEN_MISSING"
	TextCodeSessionDecodeError = "AUTH_SESSION_DECODE_ERROR"
	TextCodeClaimsMappingError = "AUTH_CLAIMS_MAPPING_ERROR"
	TextCodeEmptyPassword      = "AUTH_EMPTY_PASSWORD"

	TextCodeInvalidEmail       = "REGISTRATION_INVALID_EMAIL"
	TextCodeInvalidUsername    = "REGISTRATION_INVALID_USERNAME"
	TextCodeWeakPassword       = "REGISTRATION_WEAK_PASSWORD"
	TextCodeInvalidDisplayName = "REGISTRATION_INVALID_DISPLAY_NAME"
	TextCodeInvalidBio         = "REGISTRATION_INVALID_BIO"
	TextCodeInvalidVisibility  = "REGISTRATION_INVALID_VISIBILITY"
	TextCodeInvalidUnits       = "REGISTRATION_INVALID_UNITS"
	TextCodeInvalidPhone       = "REGISTRATION_INVALID_PHONE"
	TextCodeEmailTaken         = "REGISTRATION_EMAIL_TAKEN"
	TextCodeUsernameTaken      = "REGISTRATION_USERNAME_TAKEN"

	TextCodeForbidden    = "PROFILE_FORBIDDEN"
	TextCodeUserNotFound = "USER_NOT_FOUND"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is returned when credential verification fails.
// Deliberately indistinguishable from an unknown identifier.
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a token's expiry is in the past.
var ErrTokenExpired = errors.New("expired token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be decoded into the
// expected structural shape.
var ErrTokenMalformed = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenBadSignature is returned when the recomputed signature does not
// match. Same outward message as ErrTokenMalformed so callers cannot use the
// error body as a signature oracle; the text code keeps diagnostics apart.
var ErrTokenBadSignature = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMissing is returned when a protected route receives no bearer
// credential at all.
var ErrTokenMissing = errors.New("missing token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMissing).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession unable to decode validated claims
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionDecodeError).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithTextCode(TextCodeClaimsMappingError).
	WithCode(errors.CodeUnauthorized)

// Registration pipeline failures. Messages are the contract: clients match on
// them, so they stay verbatim.
var (
	ErrInvalidEmailFormat = errors.New("Invalid email format", errors.CategoryValidation).
				WithTextCode(TextCodeInvalidEmail).
				WithCode(errors.CodeBadRequest)

	ErrInvalidUsernameLength = errors.New("Username must be between 3 and 50 characters", errors.CategoryValidation).
					WithTextCode(TextCodeInvalidUsername).
					WithCode(errors.CodeBadRequest)

	ErrWeakPassword = errors.New("Password must be at least 8 characters", errors.CategoryValidation).
			WithTextCode(TextCodeWeakPassword).
			WithCode(errors.CodeBadRequest)

	ErrInvalidDisplayName = errors.New("Display name must be 50 characters or less", errors.CategoryValidation).
				WithTextCode(TextCodeInvalidDisplayName).
				WithCode(errors.CodeBadRequest)

	ErrInvalidBio = errors.New("Bio must be 500 characters or less", errors.CategoryValidation).
			WithTextCode(TextCodeInvalidBio).
			WithCode(errors.CodeBadRequest)

	ErrInvalidProfileVisibility = errors.New("Invalid profile visibility setting", errors.CategoryValidation).
					WithTextCode(TextCodeInvalidVisibility).
					WithCode(errors.CodeBadRequest)

	ErrInvalidStatisticsVisibility = errors.New("Invalid statistics visibility setting", errors.CategoryValidation).
					WithTextCode(TextCodeInvalidVisibility).
					WithCode(errors.CodeBadRequest)

	ErrInvalidHistoryVisibility = errors.New("Invalid history visibility setting", errors.CategoryValidation).
					WithTextCode(TextCodeInvalidVisibility).
					WithCode(errors.CodeBadRequest)

	ErrInvalidUnits = errors.New("Preferred units must be 'metric' or 'imperial'", errors.CategoryValidation).
			WithTextCode(TextCodeInvalidUnits).
			WithCode(errors.CodeBadRequest)

	ErrInvalidPhoneNumber = errors.New("Invalid phone number", errors.CategoryValidation).
				WithTextCode(TextCodeInvalidPhone).
				WithCode(errors.CodeBadRequest)
)

// ErrEmailTaken is returned when the candidate email is already registered.
var ErrEmailTaken = errors.New("Email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrUsernameTaken is returned when the candidate username is already taken.
var ErrUsernameTaken = errors.New("Username already taken", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeConflict)

// ErrForbidden is returned when a caller tries to mutate a record they do
// not own.
var ErrForbidden = errors.New("Forbidden", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired") ||
		strings.Contains(err.Error(), "expired token")
}

// IsTokenMissingError will check for requests that carried no credential
func IsTokenMissingError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMissing {
		return true
	}
	return strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		switch richErr.TextCode {
		case TextCodeTokenMalformed, TextCodeTokenBadSignature:
			return true
		}
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsConflictError reports whether err is one of the uniqueness rejections.
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	return errors.As(err, &richErr) && richErr.Category == errors.CategoryConflict
}
