// Structure of the Sports Buddy Model in JackStatz.

package entity

// Saved in DB as a row of sports_buddies.
type Buddy struct {
	ID           int64  `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Age          int    `json:"age" yaml:"age"`
	Sport        string `json:"sport" yaml:"sport"`
	Location     string `json:"location" yaml:"location"`
	Availability string `json:"availability" yaml:"availability"`
	SkillLevel   string `json:"skill_level" yaml:"skill_level"`
	CreatedAt    string `json:"created_at" yaml:"created_at"`
}

// Form posted to /add_buddy.
type BuddyForm struct {
	Name         string `form:"name" valid:"required~name:name is required,runelength(1|40)~name:name must be 1 to 40 characters,displayname~name:name must be printable"`
	Age          string `form:"age" valid:"required~age:age is required,int~age:age must be a number,range(1|120)~age:age must be between 1 and 120"`
	Sport        string `form:"sport" valid:"required~sport:sport is required,runelength(1|40)~sport:sport is too long"`
	Location     string `form:"location" valid:"required~location:location is required,runelength(1|80)~location:location is too long"`
	Availability string `form:"availability" valid:"runelength(0|80)~availability:availability is too long,optional"`
	SkillLevel   string `form:"skill_level" valid:"in(beginner|intermediate|advanced)~skill_level:skill_level must be beginner or intermediate or advanced,optional"`
}

// Query of /search, every field is optional.
type BuddyFilter struct {
	Sport    string `form:"sport" valid:"-"`
	Location string `form:"location" valid:"-"`
	AgeRange string `form:"age_range" valid:"agerange~age_range:age_range must look like 8-12,optional"`
}
