package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-catalog/internal/domain"
)

func TestAdminService_Authenticate(t *testing.T) {
	svc := NewAdminService(AdminServiceConfig{Username: "admin", Password: "s3cret"})
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{name: "valid pair", username: "admin", password: "s3cret"},
		{name: "wrong password", username: "admin", password: "nope", wantErr: true},
		{name: "wrong username", username: "root", password: "s3cret", wantErr: true},
		{name: "both wrong", username: "root", password: "nope", wantErr: true},
		{name: "empty pair", username: "", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsUnauthorized(err))

				return
			}

			require.NoError(t, err)
		})
	}
}
