package utils

import (
	"time"

	"dencare/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs the custom binding rules used by the
// booking request DTOs: "timelabel" restricts a field to the fixed slot
// label enumeration, "apptdate" requires an ISO calendar date.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("timelabel", func(fl validator.FieldLevel) bool {
		return models.IsValidTimeLabel(fl.Field().String())
	})
	_ = v.RegisterValidation("apptdate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(models.DateFormat, fl.Field().String())
		return err == nil
	})
}
