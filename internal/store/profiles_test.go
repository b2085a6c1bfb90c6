package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devlinkhq/devlink-backend/internal/models"
)

func strptr(s string) *string { return &s }

func TestBuildUpdateOmitsAbsentFields(t *testing.T) {
	in := &models.ProfileInput{
		Status: "Developer",
		Bio:    strptr("hello"),
	}
	set := BuildUpdate(in, []string{"go"})

	assert.Equal(t, "Developer", set["status"])
	assert.Equal(t, "hello", set["bio"])
	assert.Contains(t, set, "updated_at")

	// Omitted optional fields must not appear at all, so a $set merge
	// leaves their existing values alone.
	for _, absent := range []string{
		"company", "website", "location", "githubusername",
		"social.youtube", "social.twitter", "social.facebook",
		"social.linkedin", "social.instagram",
	} {
		assert.NotContains(t, set, absent)
	}
}

func TestBuildUpdateIncludesPresentFields(t *testing.T) {
	in := &models.ProfileInput{
		Status:  "Student",
		Company: strptr("ACME"),
		Twitter: strptr("https://twitter.com/jo"),
	}
	set := BuildUpdate(in, []string{"node", "react", "css"})

	assert.Equal(t, "ACME", set["company"])
	assert.Equal(t, "https://twitter.com/jo", set["social.twitter"])
	assert.Equal(t, []string{"node", "react", "css"}, set["skills"])
}

func TestBuildUpdateKeepsPresentEmptyString(t *testing.T) {
	// An explicit empty string clears the field; only a missing key skips it.
	in := &models.ProfileInput{Status: "Dev", Company: strptr("")}
	set := BuildUpdate(in, nil)
	assert.Equal(t, "", set["company"])
}
