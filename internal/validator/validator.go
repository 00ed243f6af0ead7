// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"gescom/internal/period"
)

// meseRegex matches zero-padded YYYY-MM competency months. The fixed
// width is what makes lexicographic month comparison valid everywhere else.
var meseRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("stato_commessa", validateStatoCommessa)
		_ = v.RegisterValidation("tipologia", validateTipologia)
		_ = v.RegisterValidation("tipo_budget", validateTipoBudget)
		_ = v.RegisterValidation("mese_competenza", validateMeseCompetenza)
		_ = v.RegisterValidation("periodo", validatePeriodo)
	}
}

func validateStatoCommessa(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Pianificazione", "Attivo", "Completato", "Sospeso":
		return true
	}
	return false
}

func validateTipologia(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "T&M", "Corpo", "Canone":
		return true
	}
	return false
}

func validateTipoBudget(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "detail", "total":
		return true
	}
	return false
}

func validateMeseCompetenza(fl validator.FieldLevel) bool {
	return meseRegex.MatchString(fl.Field().String())
}

func validatePeriodo(fl validator.FieldLevel) bool {
	return period.Token(fl.Field().String()).Valid()
}
