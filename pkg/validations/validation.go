// All global custom validations in JackStatz are defined here.
// These validations are allowed to be used anywhere in the application.

package validations

import (
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/asaskevich/govalidator"
)

var once sync.Once

var ageRange = regexp.MustCompile(`^\s*\d{1,3}\s*-\s*\d{1,3}\s*$`)

// Registers the custom govalidator tags, safe to call more than once.
func RegisterCustomValidations() {
	once.Do(func() {
		// Display names shown on the scoreboard, printable and not blank.
		govalidator.TagMap["displayname"] = govalidator.Validator(func(str string) bool {
			if strings.TrimSpace(str) == "" {
				return false
			}
			for _, r := range str {
				if !unicode.IsPrint(r) {
					return false
				}
			}
			return true
		})
		// Calendar date as YYYY-MM-DD.
		govalidator.TagMap["isodate"] = govalidator.Validator(func(str string) bool {
			_, err := time.Parse("2006-01-02", str)
			return err == nil
		})
		// Age filter written as min-max.
		govalidator.TagMap["agerange"] = govalidator.Validator(func(str string) bool {
			return ageRange.MatchString(str)
		})
	})
}
