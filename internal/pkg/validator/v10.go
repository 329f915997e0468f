package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/shandysiswandi/smartotp/internal/pkg/strcase"
)

var (
	reOTPCode   = regexp.MustCompile(`^\d{6,8}$`)
	reOTPSecret = regexp.MustCompile(`^[A-Za-z2-7]+=*$`)
)

// ErrTranslatorNotFound indicates the English translator is unavailable.
var ErrTranslatorNotFound = errors.New("validator: translator not found")

// V10ValidationError maps snake_case field names to messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(map[string]string(vs))
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// V10Validator implements Validator with go-playground/validator.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	enTrans, ok := ut.New(enLang, enLang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	rules := []struct {
		tag     string
		message string
		fn      validator.Func
	}{
		{"otpcode", "{0} must be 6 to 8 digits", matchString(reOTPCode)},
		{"otpsecret", "{0} must be a base32 string", matchString(reOTPSecret)},
	}
	for _, r := range rules {
		if err := validate.RegisterValidation(r.tag, r.fn); err != nil {
			return nil, err
		}
		if err := validate.RegisterTranslation(r.tag, enTrans, addTranslation(r.tag, r.message), translate); err != nil {
			return nil, err
		}
	}

	return &V10Validator{validate: validate, translator: enTrans}, nil
}

func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}

	return out
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && re.MatchString(s)
	}
}

func addTranslation(tag, message string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error {
		return t.Add(tag, message, false)
	}
}

func translate(t ut.Translator, fe validator.FieldError) string {
	msg, err := t.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return msg
}
