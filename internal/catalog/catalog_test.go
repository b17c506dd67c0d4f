package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_Domains(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{
		"Data Science",
		"Artificial Intelligence",
		"Cloud Computing",
		"Full Stack",
	}, c.Domains())
	assert.True(t, c.HasDomain("Full Stack"))
	assert.False(t, c.HasDomain("Biology"))
}

func TestDefault_DuplicateRoleRemoved(t *testing.T) {
	roles := Default().RolesFor("Data Science")

	assert.Equal(t, []string{
		"Junior Data Analyst",
		"Data Science",
		"Machine Learning Engineer",
		"Junior Python Data Scientist",
		"Data Engineer",
	}, roles)
}

func TestIsValidRole_MatchesRolesFor(t *testing.T) {
	c := Default()

	for _, domain := range c.Domains() {
		for _, role := range c.RolesFor(domain) {
			assert.True(t, c.IsValidRole(domain, role), "%s/%s", domain, role)
		}
	}

	// A role shared between domains is valid in both.
	assert.True(t, c.IsValidRole("Cloud Computing", "Cloud Developer"))
	assert.True(t, c.IsValidRole("Full Stack", "Cloud Developer"))

	assert.False(t, c.IsValidRole("Cloud Computing", "Frontend Developer"))
	assert.False(t, c.IsValidRole("Biology", "DevOps"))
	assert.False(t, c.IsValidRole("Cloud Computing", "devops"))
	assert.False(t, c.IsValidRole("", ""))
}

func TestRolesFor_UnknownDomainIsEmpty(t *testing.T) {
	roles := Default().RolesFor("Biology")
	assert.NotNil(t, roles)
	assert.Empty(t, roles)
}

func TestRolesFor_ReturnsCopy(t *testing.T) {
	c := Default()
	roles := c.RolesFor("Cloud Computing")
	roles[0] = "Tampered"

	assert.Equal(t, "AWS Admin", c.RolesFor("Cloud Computing")[0])
}

func TestNew_MergesRepeatedDomains(t *testing.T) {
	c := New([]Entry{
		{Domain: "Ops", Roles: []string{"SRE", ""}},
		{Domain: "", Roles: []string{"Ghost"}},
		{Domain: "Ops", Roles: []string{"SRE", "DBA"}},
	})

	assert.Equal(t, []string{"Ops"}, c.Domains())
	assert.Equal(t, []string{"SRE", "DBA"}, c.RolesFor("Ops"))
	assert.Equal(t, []Entry{{Domain: "Ops", Roles: []string{"SRE", "DBA"}}}, c.Entries())
}
