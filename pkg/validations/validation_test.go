package validations

import (
	"testing"

	"github.com/asaskevich/govalidator"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `valid:"displayname~name must be printable"`
	Date  string `valid:"isodate~date must be YYYY-MM-DD"`
	Range string `valid:"agerange~age_range must look like 8-12"`
}

func TestCustomValidations(t *testing.T) {
	RegisterCustomValidations()
	RegisterCustomValidations()

	ok, err := govalidator.ValidateStruct(sample{Name: "Jack P", Date: "2024-01-15", Range: "8-12"})
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = govalidator.ValidateStruct(sample{Name: "   ", Date: "15/01/2024", Range: "eight"})
	assert.False(t, ok)
	assert.Len(t, govalidator.ErrorsByField(err), 3)
}

func TestOnlyDomainTagsRegistered(t *testing.T) {
	RegisterCustomValidations()
	for _, tag := range []string{"displayname", "isodate", "agerange"} {
		_, ok := govalidator.TagMap[tag]
		assert.True(t, ok, tag)
	}
	_, ok := govalidator.TagMap["nospace"]
	assert.False(t, ok)
}
