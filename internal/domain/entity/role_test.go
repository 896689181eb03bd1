package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{in: "admin", want: RoleAdmin, wantOK: true},
		{in: "  User ", want: RoleUser, wantOK: true},
		{in: "ADMIN", want: RoleAdmin, wantOK: true},
		{in: "librarian", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestUserRoles(t *testing.T) {
	assert.Equal(t, []string{"user"}, (&User{}).Roles().ToStrings())
	assert.Equal(t, []string{"admin"}, (&User{Role: RoleAdmin}).Roles().ToStrings())
}
