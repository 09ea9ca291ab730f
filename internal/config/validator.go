package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// validateStruct returns the validation errors of c joined in one error.
func validateStruct(c *Config) error {
	err := v.Struct(c)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", strings.ToLower(fe.Namespace()), fe.Tag(), fe.Value()))
	}

	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
