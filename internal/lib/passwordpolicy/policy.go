package passwordpolicy

import (
	"fmt"
	"strings"
	"unicode"
)

// Rule — одно правило политики: предикат и сообщение об ошибке.
type Rule struct {
	Name    string
	Check   func(password string, user UserAttributes) bool
	Message string
}

// UserAttributes passed alongside the password so rules can reject
// passwords derived from the account identity.
type UserAttributes struct {
	Username string
	Email    string
}

type Policy struct {
	rules []Rule
}

func New(rules ...Rule) Policy {
	return Policy{rules: rules}
}

// Default mirrors the usual minimum-strength set: length, not all
// numeric, not a trivially common password, not containing the username.
func Default() Policy {
	return New(
		MinLength(8),
		NotNumeric(),
		NotCommon(),
		NotSimilarToUsername(),
	)
}

// Validate прогоняет ВСЕ правила и возвращает все нарушения разом;
// ни одно правило не прерывает проверку.
func (p Policy) Validate(password string, user UserAttributes) []string {
	var failures []string

	for _, rule := range p.rules {
		if !rule.Check(password, user) {
			failures = append(failures, rule.Message)
		}
	}

	return failures
}

func MinLength(n int) Rule {
	return Rule{
		Name: "min_length",
		Check: func(password string, _ UserAttributes) bool {
			return len(password) >= n
		},
		Message: fmt.Sprintf("password must contain at least %d characters", n),
	}
}

func NotNumeric() Rule {
	return Rule{
		Name: "not_numeric",
		Check: func(password string, _ UserAttributes) bool {
			for _, r := range password {
				if !unicode.IsDigit(r) {
					return true
				}
			}
			return len(password) == 0
		},
		Message: "password cannot be entirely numeric",
	}
}

var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwerty123": {},
	"iloveyou":  {},
	"letmein":   {},
	"admin123":  {},
}

func NotCommon() Rule {
	return Rule{
		Name: "not_common",
		Check: func(password string, _ UserAttributes) bool {
			_, common := commonPasswords[strings.ToLower(password)]
			return !common
		},
		Message: "password is too common",
	}
}

func NotSimilarToUsername() Rule {
	return Rule{
		Name: "not_similar",
		Check: func(password string, user UserAttributes) bool {
			if user.Username == "" {
				return true
			}
			return !strings.Contains(
				strings.ToLower(password),
				strings.ToLower(user.Username),
			)
		},
		Message: "password is too similar to the username",
	}
}
