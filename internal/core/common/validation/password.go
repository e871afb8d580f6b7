package validation

import (
	"strings"
	"unicode"

	errors "github.com/frahmantamala/geofence-security/internal"
)

const (
	MinPasswordLength  = 8
	maxSimilarityRatio = 0.7
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "admin123": {},
	"letmein1": {}, "trustno1": {}, "superman": {}, "starwars": {}, "passw0rd": {},
	"abc12345": {}, "11111111": {}, "00000000": {}, "monkey123": {}, "dragon123": {},
}

// PasswordProblems lists every strength rule the password breaks.
func PasswordProblems(password, username string) []string {
	var problems []string

	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, "This password is entirely numeric.")
	}
	if username != "" && similarity(strings.ToLower(password), strings.ToLower(username)) >= maxSimilarityRatio {
		problems = append(problems, "The password is too similar to the username.")
	}

	return problems
}

// Password attaches one field error per broken rule to field.
func (fv *FieldValidator) Password(username string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := stringValue(value)
		if !ok || v == "" {
			return nil
		}
		problems := PasswordProblems(v, username)
		if len(problems) == 0 {
			return nil
		}
		details := errors.ValidationErrors{}
		for _, p := range problems {
			details.Errors = append(details.Errors, errors.ValidationError{
				Field:   fv.FieldName,
				Message: p,
				Code:    string(errors.ErrCodeWeakPassword),
			})
		}
		return errors.NewValidationError("Validation failed", errors.ErrCodeWeakPassword).WithDetails(details)
	})
	return fv
}

// similarity is 2*M/T where M counts characters in matching blocks found by
// recursively taking the longest common substring.
func similarity(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return 2 * float64(matchingChars(a, b)) / float64(total)
}

func matchingChars(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	i, j, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingChars(a[:i], b[:j]) + matchingChars(a[i+size:], b[j+size:])
}

func longestCommonSubstring(a, b string) (int, int, int) {
	bestI, bestJ, best := 0, 0, 0
	prev := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
					bestI, bestJ = i-best, j-best
				}
			}
		}
		prev = cur
	}
	return bestI, bestJ, best
}
