package games

import (
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/errors"
)

// Validates the posted box score and converts it, blank counters are zero.
func gameFromForm(form entity.CompletedGameForm) (entity.CompletedGame, error) {
	if _, valerr := govalidator.ValidateStruct(form); valerr != nil {
		if errs, ok := valerr.(govalidator.Errors); ok {
			return entity.CompletedGame{}, errors.GenerateValidationErrorResponse(errs.Errors())
		}
		return entity.CompletedGame{}, errors.GenerateValidationErrorResponse([]error{valerr})
	}
	counter := func(raw string) int {
		v, _ := strconv.Atoi(strings.TrimSpace(raw))
		return v
	}
	return entity.CompletedGame{
		Date:      strings.TrimSpace(form.Date),
		Opponent:  strings.TrimSpace(form.Opponent),
		Result:    form.Result,
		Points:    counter(form.Points),
		Rebounds:  counter(form.Rebounds),
		Assists:   counter(form.Assists),
		Steals:    counter(form.Steals),
		Blocks:    counter(form.Blocks),
		Turnovers: counter(form.Turnovers),
		Minutes:   counter(form.Minutes),
	}, nil
}
