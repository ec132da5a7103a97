package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateTodoRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateTodoRequest
		wantErr bool
	}{
		{name: "valid title", request: CreateTodoRequest{Title: "buy milk"}},
		{name: "title with surrounding spaces", request: CreateTodoRequest{Title: "  buy milk  "}},
		{name: "empty title", request: CreateTodoRequest{Title: ""}, wantErr: true},
		{name: "blank title", request: CreateTodoRequest{Title: " \t\n"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.EqualError(t, err, "Title is required")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateTodoRequest_ToInput(t *testing.T) {
	req := CreateTodoRequest{Title: "  buy milk  "}
	assert.Equal(t, "  buy milk  ", req.ToInput().Title)
}
