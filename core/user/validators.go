package user

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/Hussainrokeriya/champweb-backend/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

// RegisterValidators registers user-specific validators on the shared validator instance.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(userStructValidation, NewUser{})

	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

// userStructValidation does struct level validation on the NewUser struct.
func userStructValidation(sl validator.StructLevel) {
	if nu, ok := sl.Current().Interface().(NewUser); ok {
		for _, failedTag := range checkPassword(nu.Password, nu.Name, nu.Email) {
			sl.ReportError(nu.Password, "password", "Password", failedTag, "")
		}
	}
}

// ValidatePassword applies the password policy outside of struct validation
// (password resets). attrs are user attributes the password may not resemble.
func ValidatePassword(pwd string, attrs ...string) error {
	failed := checkPassword(pwd, attrs...)
	if len(failed) == 0 {
		return nil
	}
	flds := make([]core.FieldError, 0, len(failed))
	for _, tag := range failed {
		flds = append(flds, core.FieldError{Field: "password", Error: pwdTagText(tag)})
	}
	return core.NewValidationError(nil, flds...)
}

func checkPassword(pwd string, attrs ...string) []string {
	var failed []string

	if len(pwd) < pwdMinLen {
		failed = append(failed, pwdMinLenTag)
	}
	if strings.IndexFunc(pwd, unicode.IsSpace) >= 0 {
		failed = append(failed, pwdNoSpaceTag)
	}
	if allNumeric(pwd) {
		failed = append(failed, pwdNotAllNumTag)
	}
	lowPwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		if similarity(lowPwd, strings.ToLower(attr)) > pwdMaxSim {
			failed = append(failed, pwdAttrSimTag)
			break
		}
	}
	return failed
}

func pwdTagText(tag string) string {
	switch tag {
	case pwdMinLenTag:
		return pwdMinLenText
	case pwdNoSpaceTag:
		return pwdNoSpaceText
	case pwdNotAllNumTag:
		return pwdNotAllNumText
	case pwdAttrSimTag:
		return pwdAttrSimText
	}
	return tag
}

func allNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
