package providers

import (
	"strings"

	"github.com/gookit/validate"

	"punchd/internal/structures"
)

func init() {
	validate.AddValidator("unixPath", func(val string) bool {
		return strings.HasPrefix(val, "/") && !strings.ContainsRune(val, 0)
	})
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (v *CnfValidator) Validate() error {
	val := validate.Struct(v.conf)
	if val.Validate() {
		return nil
	}
	return val.Errors.OneError()
}
