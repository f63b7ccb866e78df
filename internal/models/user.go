package models

// Registered account. PasswordHash is never serialized.
type User struct {
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	Profile      Profile `json:"profile"`
}

// Academic profile used to build advisor queries. Percentage is a
// pointer so "not set yet" is distinguishable from 0.
type Profile struct {
	Percentage       *float64          `json:"percentage,omitempty"`
	Interest         string            `json:"interest"`
	Extracurriculars []Extracurricular `json:"ecs"`
	ExtraInfo        string            `json:"extraInfo"`
}

type Extracurricular struct {
	Name  string `json:"name"`
	Hours int    `json:"hours"`
}
