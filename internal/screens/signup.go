package screens

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/client"
)

// AuthFlow drives sign-up with its onboarding steps, sign-in and password recovery.
// Onboarding steps write the profile of the resolved session.
type AuthFlow struct {
	accounts Accounts
	session  *SessionResolver
	repo     Repository
	logger   *zap.Logger
}

func NewAuthFlow(accounts Accounts, session *SessionResolver, repo Repository, logger *zap.Logger) *AuthFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthFlow{accounts: accounts, session: session, repo: repo, logger: logger}
}

// SignUp creates the account and signs in.
func (f *AuthFlow) SignUp(ctx context.Context, in client.SignUpInput) (models.UserPublic, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Email == "" || in.Password == "" || in.FullName == "" {
		return models.UserPublic{}, fmt.Errorf("email, password and full name are required")
	}
	u, err := f.accounts.SignUp(ctx, in)
	if err != nil {
		f.logger.Error("sign up", zap.String("email", in.Email), zap.Error(err))
		return models.UserPublic{}, err
	}
	first, last, _ := strings.Cut(in.FullName, " ")
	if _, err := f.update(ctx, models.ProfilePatch{FirstName: &first, LastName: &last}); err != nil {
		f.logger.Warn("seed profile name", zap.Error(err))
	}
	return u, nil
}

// Login signs in and stores the token.
func (f *AuthFlow) Login(ctx context.Context, email, password string) (models.UserPublic, error) {
	return f.accounts.Login(ctx, strings.TrimSpace(email), password)
}

// ForgotPassword asks the server to email a reset link.
func (f *AuthFlow) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	return f.accounts.RequestPasswordReset(ctx, email)
}

// SetMajor records major and minor. An empty minor is stored as empty.
func (f *AuthFlow) SetMajor(ctx context.Context, major, minor string) (models.Profile, error) {
	major = strings.TrimSpace(major)
	minor = strings.TrimSpace(minor)
	if major == "" {
		return models.Profile{}, fmt.Errorf("major is required")
	}
	return f.update(ctx, models.ProfilePatch{Major: &major, Minor: &minor})
}

// SetGraduation records the graduation term, e.g. "Spring '26".
func (f *AuthFlow) SetGraduation(ctx context.Context, term string) (models.Profile, error) {
	if !models.Contains(models.DefaultGraduationTerms, term) {
		return models.Profile{}, fmt.Errorf("unknown graduation term %q", term)
	}
	return f.update(ctx, models.ProfilePatch{Graduation: &term})
}

// SetCommitment records the weekly time commitment.
func (f *AuthFlow) SetCommitment(ctx context.Context, option string) (models.Profile, error) {
	if !models.Contains(models.CommitmentOptions, option) {
		return models.Profile{}, fmt.Errorf("unknown commitment option %q", option)
	}
	return f.update(ctx, models.ProfilePatch{Commitment: &option})
}

// SetClubs records the club passions.
func (f *AuthFlow) SetClubs(ctx context.Context, clubs []string) (models.Profile, error) {
	for _, c := range clubs {
		if !models.Contains(models.ClubPassions, c) {
			return models.Profile{}, fmt.Errorf("unknown club passion %q", c)
		}
	}
	if clubs == nil {
		clubs = []string{}
	}
	return f.update(ctx, models.ProfilePatch{Clubs: clubs})
}

func (f *AuthFlow) update(ctx context.Context, patch models.ProfilePatch) (models.Profile, error) {
	s, err := f.session.Require(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	p, err := f.repo.UpdateProfile(ctx, patch)
	if err != nil {
		f.logger.Error("update profile", zap.String("user_id", s.UserID.String()), zap.Error(err))
		return models.Profile{}, err
	}
	return p, nil
}
