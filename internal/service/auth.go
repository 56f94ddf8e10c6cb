package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/backend/internal/auth"
	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/event"
	"github.com/clinicore/backend/internal/federation"
	"github.com/clinicore/backend/internal/mail"
	"github.com/clinicore/backend/internal/repository"
	apperrors "github.com/clinicore/backend/pkg/errors"
)

const (
	bcryptCost             = 12
	verificationTokenTTL   = 24 * time.Hour
	googleProviderFallback = "https://accounts.google.com"
)

// GoogleTokenVerifier validates a Google ID token and returns its claims.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*federation.ClaimSet, error)
}

// AuthService implements the session lifecycle: credential login, token
// issuance and rotation, federated sign-in, email verification, and the
// password lifecycle.
type AuthService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	manager  *auth.Manager
	verifier GoogleTokenVerifier
	mailer   mail.Sender
	events   event.Publisher
	logger   *slog.Logger

	frontendURL string
}

// NewAuthService creates the authentication service.
func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	manager *auth.Manager,
	verifier GoogleTokenVerifier,
	mailer mail.Sender,
	events event.Publisher,
	logger *slog.Logger,
	frontendURL string,
) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		manager:     manager,
		verifier:    verifier,
		mailer:      mailer,
		events:      events,
		logger:      logger,
		frontendURL: frontendURL,
	}
}

// SessionResult is a freshly issued session: the token pair plus the trimmed
// user object the client renders.
type SessionResult struct {
	Tokens domain.TokenPair
	User   domain.UserSummary
}

// Login verifies the credentials and issues a new session. The refresh token
// is persisted to the ledger before the session is returned.
func (s *AuthService) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	cred, err := s.users.FindCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidInput("Invalid credentials (Email)")
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if !cred.EmailVerified {
		return nil, apperrors.InvalidInput("Email not verified. Please verify your email before logging in.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.InvalidInput("Invalid credentials (Password)")
	}

	pair, err := s.manager.Issue(cred.UserID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.manager.RefreshTTL())
	if err := s.tokens.Store(ctx, cred.UserID, pair.RefreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &SessionResult{
		Tokens: pair,
		User: domain.UserSummary{
			UserID:    cred.UserID,
			FirstName: cred.FirstName,
			LastName:  cred.LastName,
			Email:     cred.Email,
			Role:      cred.PrimaryRole(),
		},
	}, nil
}

// RegisterInput carries validated registration fields.
type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Mobile       *string
	Password     string
	Role         domain.Role
	ProfileImage *string
}

// RegisterResult reports the created account and whether the verification
// mail went out. Registration succeeds even when mail delivery fails; the
// caller is told so it can surface a resend hint.
type RegisterResult struct {
	UserID    int64
	EmailSent bool
}

// Register creates a local account and sends the verification mail.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.users.Register(ctx, domain.NewUser{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Mobile:       in.Mobile,
		PasswordHash: string(hash),
		ProfileImage: in.ProfileImage,
		Role:         in.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.InvalidInput("Email already exists")
		case errors.Is(err, repository.ErrInvalidRole):
			return nil, apperrors.InvalidInput("Role is Wrong...")
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.events.UserRegistered(ctx, event.UserRegisteredPayload{
		UserID: userID,
		Email:  in.Email,
		Role:   in.Role.String(),
	})

	emailSent := s.sendVerificationMail(ctx, userID, in.Email)

	return &RegisterResult{UserID: userID, EmailSent: emailSent}, nil
}

func (s *AuthService) sendVerificationMail(ctx context.Context, userID int64, email string) bool {
	token := uuid.New().String()
	expiresAt := time.Now().UTC().Add(verificationTokenTTL)

	if err := s.tokens.CreateEmailVerification(ctx, userID, token, expiresAt); err != nil {
		s.logger.ErrorContext(ctx, "failed to store verification token",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return false
	}

	subject, textBody, htmlBody := mail.VerificationEmail(s.frontendURL, token)
	if err := s.mailer.Send(ctx, email, subject, textBody, htmlBody); err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification mail",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// Refresh rotates a presented refresh token: the old token is revoked and a
// new pair issued in one atomic step, so each refresh token is usable exactly
// once. A replayed token is rejected; a token that fails signature or expiry
// checks is additionally revoked in the ledger.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*SessionResult, error) {
	if _, err := s.tokens.Get(ctx, presented); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid refresh token")
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	userID, err := s.manager.Verify(presented, auth.TokenRefresh)
	if err != nil {
		// The ledger row exists but the token itself does not verify. Revoke
		// the row so it cannot be presented again.
		if revokeErr := s.tokens.Revoke(ctx, presented); revokeErr != nil {
			s.logger.ErrorContext(ctx, "failed to revoke bad refresh token",
				slog.String("error", revokeErr.Error()),
			)
		}
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}

	pair, err := s.manager.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("issue rotated tokens: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.manager.RefreshTTL())
	if err := s.tokens.Rotate(ctx, presented, userID, pair.RefreshToken, expiresAt); err != nil {
		if errors.Is(err, repository.ErrTokenConsumed) {
			return nil, apperrors.Unauthorized("Invalid refresh token")
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("load user after rotation: %w", err)
	}

	return &SessionResult{
		Tokens: pair,
		User: domain.UserSummary{
			UserID:    profile.UserID,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Email:     profile.Email,
			Role:      profile.PrimaryRole(),
		},
	}, nil
}

// Logout revokes the presented refresh token. Revocation is best effort:
// logout always succeeds from the client's point of view.
func (s *AuthService) Logout(ctx context.Context, presented string) {
	if presented == "" {
		return
	}
	if err := s.tokens.Revoke(ctx, presented); err != nil {
		s.logger.WarnContext(ctx, "failed to revoke refresh token on logout",
			slog.String("error", err.Error()),
		)
	}
}

// GoogleLogin verifies a Google ID token, provisions an account on first
// sign-in, and issues a session.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*SessionResult, error) {
	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid Google token")
	}

	if claims.Email == "" || !claims.EmailVerified {
		return nil, apperrors.InvalidInput("Google account email not verified")
	}

	var userID int64
	cred, err := s.users.FindCredentialByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		userID = cred.UserID
	case errors.Is(err, repository.ErrNotFound):
		userID, err = s.provisionFederatedUser(ctx, claims)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("federated login lookup: %w", err)
	}

	pair, err := s.manager.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.manager.RefreshTTL())
	if err := s.tokens.Store(ctx, userID, pair.RefreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load federated user: %w", err)
	}

	return &SessionResult{
		Tokens: pair,
		User: domain.UserSummary{
			UserID:    profile.UserID,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Email:     profile.Email,
			Role:      profile.PrimaryRole(),
		},
	}, nil
}

func (s *AuthService) provisionFederatedUser(ctx context.Context, claims *federation.ClaimSet) (int64, error) {
	provider := claims.Issuer
	if provider == "" {
		provider = googleProviderFallback
	}
	providerUserID := claims.Subject
	if providerUserID == "" {
		providerUserID = claims.Email
	}

	var picture *string
	if claims.Picture != "" {
		picture = &claims.Picture
	}

	userID, err := s.users.RegisterFederated(ctx, domain.FederatedUser{
		FirstName:      claims.GivenName,
		LastName:       claims.FamilyName,
		Email:          claims.Email,
		ProfileImage:   picture,
		Role:           domain.DefaultFederatedRole,
		AuthProvider:   provider,
		ProviderUserID: providerUserID,
	})
	if err != nil {
		return 0, fmt.Errorf("provision federated user: %w", err)
	}

	s.events.UserRegistered(ctx, event.UserRegisteredPayload{
		UserID:   userID,
		Email:    claims.Email,
		Role:     domain.DefaultFederatedRole.String(),
		Provider: provider,
	})

	return userID, nil
}

// VerifyEmail consumes an email verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.InvalidInput("Token is required")
	}

	if err := s.tokens.VerifyEmail(ctx, token); err != nil {
		if errors.Is(err, repository.ErrVerificationInvalid) {
			return apperrors.InvalidInput("Invalid or expired token")
		}
		return fmt.Errorf("verify email: %w", err)
	}
	return nil
}

// ChangePassword replaces the user's password after checking the current one,
// then revokes every outstanding refresh token for the account so stolen
// sessions die with the old password.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == newPassword {
		return apperrors.InvalidInput("New Password must not same as Old Password")
	}

	currentHash, err := s.users.GetPasswordHash(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User not found")
		}
		return fmt.Errorf("load password hash: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(oldPassword)); err != nil {
		return apperrors.InvalidInput("Current password is incorrect")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.users.ChangePassword(ctx, userID, string(newHash)); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions after password change: %w", err)
	}

	s.events.PasswordChanged(ctx, event.PasswordChangedPayload{UserID: userID})
	return nil
}
