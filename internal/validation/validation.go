package validation

import (
	"regexp"
	"strings"

	"github.com/thiagoricci/Rewlio/internal/model"
)

// maxGeneralLength caps free-form replies so a rambling text cannot be
// stored as a collected value.
const maxGeneralLength = 500

const minAddressLength = 15

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitRegex    = regexp.MustCompile(`\d`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

type Result struct {
	Valid      bool
	Normalized string
	Error      string
}

// Validate classifies a free-text reply against the expected info type.
// It is pure: no storage, no network, deterministic.
func Validate(text string, infoType model.InfoType) Result {
	switch infoType {
	case model.InfoTypeEmail:
		return ValidateEmail(text)
	case model.InfoTypeAddress:
		return ValidateAddress(text)
	case model.InfoTypeAccountNumber:
		return ValidateAccountNumber(text)
	default:
		return ValidateGeneral(text)
	}
}

func ValidateEmail(text string) Result {
	trimmed := strings.TrimSpace(text)
	if !emailRegex.MatchString(trimmed) {
		return Result{Valid: false, Error: "Please use format: name@example.com"}
	}

	return Result{Valid: true, Normalized: strings.ToLower(trimmed)}
}

func ValidateAddress(text string) Result {
	trimmed := strings.TrimSpace(text)

	if !digitRegex.MatchString(trimmed) {
		return Result{Valid: false, Error: "Address must include a street number"}
	}

	if len(trimmed) < minAddressLength {
		return Result{Valid: false, Error: "Please include street number, city, state, and ZIP"}
	}

	return Result{Valid: true, Normalized: trimmed}
}

func ValidateAccountNumber(text string) Result {
	digits := nonDigitRegex.ReplaceAllString(text, "")

	if len(digits) < 5 {
		return Result{Valid: false, Error: "Account number must be at least 5 digits"}
	}

	if len(digits) > 20 {
		return Result{Valid: false, Error: "Account number must be no more than 20 digits"}
	}

	return Result{Valid: true, Normalized: digits}
}

// ValidateGeneral accepts any non-empty reply within the length cap.
func ValidateGeneral(text string) Result {
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		return Result{Valid: false, Error: "Reply cannot be empty"}
	}

	if len(trimmed) > maxGeneralLength {
		return Result{Valid: false, Error: "Reply is too long"}
	}

	return Result{Valid: true, Normalized: trimmed}
}
