package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace", Username: "ada"}).DisplayName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada", Username: "ada"}).DisplayName())
	assert.Equal(t, "ada", (&User{Username: "ada"}).DisplayName())
	assert.Equal(t, "ada", (&User{FirstName: "  ", LastName: " ", Username: "ada"}).DisplayName())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAgent))
	assert.True(t, ValidRole(RoleSupervisor))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("ROOT"))
	assert.False(t, ValidRole(""))
}

func TestValidStatusAndPriority(t *testing.T) {
	for _, s := range TicketStatuses {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("ARCHIVED"))

	assert.True(t, ValidPriority(TicketPriorityUrgent))
	assert.False(t, ValidPriority("WHENEVER"))
}
