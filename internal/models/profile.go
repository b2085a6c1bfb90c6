package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Social holds optional social links on a profile.
type Social struct {
	Youtube   string `json:"youtube,omitempty"   bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"   bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"  bson:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"  bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

// Experience is a work history entry embedded in a profile, newest first.
type Experience struct {
	ID          string     `json:"id"                    bson:"id"`
	Title       string     `json:"title"                 bson:"title"`
	Company     string     `json:"company"               bson:"company"`
	Location    string     `json:"location,omitempty"    bson:"location,omitempty"`
	From        string     `json:"from"                  bson:"from"`
	To          string     `json:"to,omitempty"          bson:"to,omitempty"`
	Current     bool       `json:"current"               bson:"current"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

// Education is a schooling entry embedded in a profile, newest first.
type Education struct {
	ID           string `json:"id"                    bson:"id"`
	School       string `json:"school"                bson:"school"`
	Degree       string `json:"degree"                bson:"degree"`
	FieldOfStudy string `json:"fieldofstudy"          bson:"fieldofstudy"`
	From         string `json:"from"                  bson:"from"`
	To           string `json:"to,omitempty"          bson:"to,omitempty"`
	Current      bool   `json:"current"               bson:"current"`
	Description  string `json:"description,omitempty" bson:"description,omitempty"`
}

// Profile is a user's profile document stored in MongoDB. There is at most
// one per user id.
type Profile struct {
	ID             primitive.ObjectID `json:"id"                       bson:"_id,omitempty"`
	UserID         string             `json:"user_id"                  bson:"user_id"`
	Company        string             `json:"company,omitempty"        bson:"company,omitempty"`
	Website        string             `json:"website,omitempty"        bson:"website,omitempty"`
	Location       string             `json:"location,omitempty"       bson:"location,omitempty"`
	Bio            string             `json:"bio,omitempty"            bson:"bio,omitempty"`
	Status         string             `json:"status"                   bson:"status"`
	GithubUsername string             `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Skills         []string           `json:"skills"                   bson:"skills"`
	Social         Social             `json:"social"                   bson:"social"`
	Experience     []Experience       `json:"experience"               bson:"experience"`
	Education      []Education        `json:"education"                bson:"education"`
	UpdatedAt      time.Time          `json:"updated_at"               bson:"updated_at"`

	// User is joined from the credential store when serving reads; it is
	// never persisted with the document.
	User *UserSummary `json:"user,omitempty" bson:"-"`
}

// ProfileInput is the JSON body for POST /api/profile. Optional fields are
// pointers so that an omitted field is left untouched on update rather than
// cleared.
type ProfileInput struct {
	Status         string  `json:"status"`
	Skills         string  `json:"skills"`
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	Youtube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Linkedin       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

// ExperienceInput is the JSON body for PUT /api/profile/experience.
type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationInput is the JSON body for PUT /api/profile/education.
type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}
