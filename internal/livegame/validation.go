// Validation of the live game mutation requests.

package livegame

import (
	"github.com/asaskevich/govalidator"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/errors"
)

// Runs the govalidator tags of req and collects their failures.
func structErrors(req interface{}) []error {
	if _, valerr := govalidator.ValidateStruct(req); valerr != nil {
		if errs, ok := valerr.(govalidator.Errors); ok {
			return errs.Errors()
		}
		return []error{valerr}
	}
	return nil
}

// Integer fields are pointers so a missing field can be told apart from a zero.
func requireNonNegative(errs []error, field string, v *int) []error {
	if v == nil {
		return append(errs, errors.New(field+":"+field+" is required"))
	}
	if *v < 0 {
		return append(errs, errors.New(field+":"+field+" must not be negative"))
	}
	return errs
}

func validateStatUpdate(req *entity.StatUpdateRequest) error {
	errs := structErrors(req)
	errs = requireNonNegative(errs, "player_index", req.PlayerIndex)
	errs = requireNonNegative(errs, "value", req.Value)
	if len(errs) != 0 {
		return errors.GenerateValidationErrorResponse(errs)
	}
	return nil
}

func validateTeamNameUpdate(req *entity.TeamNameUpdateRequest) error {
	if errs := structErrors(req); len(errs) != 0 {
		return errors.GenerateValidationErrorResponse(errs)
	}
	return nil
}

func validatePlayerNameUpdate(req *entity.PlayerNameUpdateRequest) error {
	errs := structErrors(req)
	errs = requireNonNegative(errs, "player_index", req.PlayerIndex)
	if len(errs) != 0 {
		return errors.GenerateValidationErrorResponse(errs)
	}
	return nil
}
