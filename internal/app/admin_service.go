package app

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/jsamuelsen/quote-catalog/internal/domain"
	"github.com/jsamuelsen/quote-catalog/internal/platform/logging"
)

// AdminService checks the single operator credential pair. There are no
// accounts and no sessions; every admin request re-presents the credential.
type AdminService struct {
	username string
	password string
	logger   *slog.Logger
}

// AdminServiceConfig contains the configured credential pair.
type AdminServiceConfig struct {
	Username string
	Password string
	Logger   *slog.Logger
}

// NewAdminService creates an admin service with the provided credentials.
func NewAdminService(cfg AdminServiceConfig) *AdminService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AdminService{
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger.With(slog.String("component", "app.AdminService")),
	}
}

// Authenticate validates a submitted credential pair against the configured
// one. Comparison is constant time and both fields are always compared, so
// timing does not reveal which field was wrong.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1

	if !userOK || !passOK {
		logging.FromContext(ctx).WarnContext(ctx, "admin authentication rejected",
			slog.String("username", username),
		)

		return domain.NewUnauthorizedError("invalid credentials")
	}

	return nil
}
