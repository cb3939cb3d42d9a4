package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/hagglund/bokforing_backend/internal/core/domain"
)

// init registers the currencycode rule used by the DTO binding tags, so
// unsupported codes are rejected at bind time.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		return domain.CurrencyCode(fl.Field().String()).IsValid()
	})
}
