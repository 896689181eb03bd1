package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	BookID string `json:"bookId" validate:"required,uuid"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
	Email  string `json:"email" validate:"omitempty,email"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		req      sampleRequest
		contains []string
	}{
		{
			name: "valid",
			req:  sampleRequest{BookID: "0b7f5a6e-7d38-4f2c-9d6f-3f3a2f0a9e11", Rating: 3},
		},
		{
			name:     "missing book id and low rating",
			req:      sampleRequest{Rating: 0},
			contains: []string{"BookID is required", "Rating must be at least 1"},
		},
		{
			name:     "bad email and high rating",
			req:      sampleRequest{BookID: "0b7f5a6e-7d38-4f2c-9d6f-3f3a2f0a9e11", Rating: 9, Email: "nope"},
			contains: []string{"Rating must be at most 5", "Email must be a valid email address"},
		},
		{
			name:     "malformed id",
			req:      sampleRequest{BookID: "42", Rating: 1},
			contains: []string{"BookID must be a valid id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if len(tt.contains) == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			for _, fragment := range tt.contains {
				assert.Contains(t, err.Error(), fragment)
			}
		})
	}
}
