package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap/zapcore"
)

type validationRule struct {
	Rule func(v *validator.Validate)
}

// configValidator wraps the validator and turns field errors into readable messages.
type configValidator struct {
	validator *validator.Validate
	rules     []validationRule
}

func newValidator() *configValidator {
	return &configValidator{validator: validator.New()}
}

func (v *configValidator) Register(rules ...validationRule) {
	for _, r := range rules {
		r.Rule(v.validator)
	}
	v.rules = append(v.rules, rules...)
}

func (v *configValidator) Struct(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fmt.Sprintf("%s: failed on %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

func logLevelRule() validationRule {
	return validationRule{
		Rule: func(v *validator.Validate) {
			_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
				_, err := zapcore.ParseLevel(fl.Field().String())
				return err == nil
			})
		},
	}
}
