// Validation of the buddy sign up form and search query.

package buddy

import (
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/errors"
)

func validate(req interface{}) error {
	if _, valerr := govalidator.ValidateStruct(req); valerr != nil {
		if errs, ok := valerr.(govalidator.Errors); ok {
			return errors.GenerateValidationErrorResponse(errs.Errors())
		}
		return errors.GenerateValidationErrorResponse([]error{valerr})
	}
	return nil
}

// Validates a sign up form and converts it into a Buddy.
func buddyFromForm(form entity.BuddyForm) (entity.Buddy, error) {
	if valerr := validate(form); valerr != nil {
		return entity.Buddy{}, valerr
	}
	age, _ := strconv.Atoi(strings.TrimSpace(form.Age))
	return entity.Buddy{
		Name:         strings.TrimSpace(form.Name),
		Age:          age,
		Sport:        strings.TrimSpace(form.Sport),
		Location:     strings.TrimSpace(form.Location),
		Availability: strings.TrimSpace(form.Availability),
		SkillLevel:   form.SkillLevel,
	}, nil
}

// Reads the "min-max" age range of a search, ok is false when none was asked for.
func ageBounds(filter entity.BuddyFilter) (lo, hi int, ok bool, err error) {
	raw := strings.TrimSpace(filter.AgeRange)
	if raw == "" {
		return 0, 0, false, nil
	}
	if valerr := validate(filter); valerr != nil {
		return 0, 0, false, valerr
	}
	bounds := strings.SplitN(raw, "-", 2)
	lo, _ = strconv.Atoi(strings.TrimSpace(bounds[0]))
	hi, _ = strconv.Atoi(strings.TrimSpace(bounds[1]))
	return lo, hi, true, nil
}
