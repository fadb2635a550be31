package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/jackpalacios/jackstatz/internal/entity"
)

// BuddyList is the roster page, with the search form and the sign up form.
func BuddyList(buddies []entity.Buddy, filter entity.BuddyFilter, readOnly bool, errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Sports Buddies</h1>`)
		readOnlyBanner(h, readOnly)
		errorBanner(h, errMsg)

		h.raw(`<form method="get" action="/search">`)
		searchField(h, "sport", "Sport", filter.Sport)
		searchField(h, "location", "Location", filter.Location)
		searchField(h, "age_range", "Age range (8-12)", filter.AgeRange)
		h.raw(`<button type="submit">Search</button></form>`)

		if len(buddies) == 0 {
			h.raw(`<p>No buddies found.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>Name</th><th>Age</th><th>Sport</th><th>Location</th>` +
				`<th>Availability</th><th>Skill</th><th>Joined</th></tr></thead><tbody>`)
			for _, b := range buddies {
				h.raw(`<tr>`)
				for _, cell := range []string{b.Name, strconv.Itoa(b.Age), b.Sport, b.Location, b.Availability, b.SkillLevel, b.CreatedAt} {
					h.raw(`<td>`)
					h.text(cell)
					h.raw(`</td>`)
				}
				h.raw(`</tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		h.raw(`<h2>Add a buddy</h2><form method="post" action="/add_buddy">`)
		for _, f := range [][2]string{{"name", "Name"}, {"age", "Age"}, {"sport", "Sport"}, {"location", "Location"}, {"availability", "Availability"}} {
			searchField(h, f[0], f[1], "")
		}
		h.raw(`<label>Skill <select name="skill_level"><option>beginner</option><option>intermediate</option><option>advanced</option></select></label>`)
		h.raw(`<button type="submit">Add</button></form>`)
		return h.err
	})
	return page("Buddies", body)
}

func searchField(h *html, name, label, value string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(` <input name="`)
	h.text(name)
	h.raw(`" value="`)
	h.text(value)
	h.raw(`"></label> `)
}
