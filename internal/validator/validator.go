package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	RgxEmail       = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
	RgxPhoneNumber = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
	RgxOtp         = regexp.MustCompile(`^\d{6}$`)
)

type Validator struct {
	Errors []string `json:",omitempty"`
}

func (v Validator) HasErrors() bool {
	return len(v.Errors) != 0
}

func (v *Validator) AddError(message string) {
	if v.Errors == nil {
		v.Errors = []string{}
	}

	v.Errors = append(v.Errors, message)
}

func (v *Validator) Check(ok bool, message string) {
	if !ok {
		v.AddError(message)
	}
}

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

func IsEmail(value string) bool {
	if len(value) > 254 {
		return false
	}
	return RgxEmail.MatchString(value)
}

// IsContact accepts an email address or an international phone number.
func IsContact(value string) bool {
	return IsEmail(value) || RgxPhoneNumber.MatchString(value)
}

// ExactlyOne reports whether exactly one of the flags is set.
func ExactlyOne(flags ...bool) bool {
	count := 0
	for _, f := range flags {
		if f {
			count++
		}
	}
	return count == 1
}
