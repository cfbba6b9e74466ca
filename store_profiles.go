package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PublicUser is the projection returned for reads by anyone other than the
// owner; fields are dropped or masked according to the owner's privacy
// settings.
type PublicUser struct {
	ID          uuid.UUID         `json:"id"`
	Username    string            `json:"username,omitempty"`
	DisplayName string            `json:"display_name,omitempty"`
	Bio         string            `json:"bio,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	Location    string            `json:"location,omitempty"`
	Statistics  *PublicStatistics `json:"statistics,omitempty"`
}

// PublicStatistics mirrors Statistics for visible-statistics reads.
type PublicStatistics struct {
	TotalAttempts     int            `json:"total_attempts"`
	TotalAscents      int            `json:"total_ascents"`
	PersonalBestGrade string         `json:"personal_best_grade,omitempty"`
	GradeDistribution map[string]int `json:"grade_distribution,omitempty"`
}

// ProfileUpdate is a partial update applied to a user's own record. Nil
// fields are left untouched.
type ProfileUpdate struct {
	Email    *string  `json:"email,omitempty"`
	Username *string  `json:"username,omitempty"`
	Profile  *Profile `json:"profile,omitempty"`
}

// ProfileStore mediates profile reads and writes, enforcing ownership and
// per-field privacy.
type ProfileStore interface {
	GetOwn(ctx context.Context, requesterID uuid.UUID) (*User, error)
	GetPublic(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*PublicUser, error)
	Update(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, patch ProfileUpdate) (*User, error)
	Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error
}

type profileStore struct {
	repo   RepositoryManager
	logger Logger
}

var _ ProfileStore = (*profileStore)(nil)

func NewProfileStore(repo RepositoryManager, logger Logger) ProfileStore {
	if logger == nil {
		logger = defLogger{}
	}
	return &profileStore{
		repo:   repo,
		logger: logger,
	}
}

func (s *profileStore) GetOwn(ctx context.Context, requesterID uuid.UUID) (*User, error) {
	user, err := s.getUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *profileStore) GetPublic(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*PublicUser, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if requesterID == user.ID {
		return projectOwner(user), nil
	}

	return projectPublic(user), nil
}

func (s *profileStore) Update(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, patch ProfileUpdate) (*User, error) {
	if requesterID != id {
		return nil, ErrForbidden
	}

	current, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	email := current.Email
	if patch.Email != nil {
		email = *patch.Email
	}
	username := current.Username
	if patch.Username != nil {
		username = *patch.Username
	}

	identityChanged := email != current.Email || username != current.Username

	if identityChanged {
		probe := &RegistrationInput{Email: email, Username: username, Password: "placeholder-pw"}
		if err := checkEmailFormat(probe); err != nil {
			return nil, err
		}
		if err := checkUsernameLength(probe); err != nil {
			return nil, err
		}
	}

	profile := current.Profile
	if patch.Profile != nil {
		profile = *patch.Profile
		profile.PrivacySettings.Normalize()
		if err := ValidateProfilePatch(&profile); err != nil {
			return nil, err
		}
	}

	updated := &User{}
	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if identityChanged {
			if email != current.Email {
				taken, err := s.repo.Users().EmailExistsTx(ctx, tx, email)
				if err != nil {
					return goerrors.Wrap(err, goerrors.CategoryInternal, "email uniqueness check failed")
				}
				if taken {
					return ErrEmailTaken
				}
			}
			if username != current.Username {
				taken, err := s.repo.Users().UsernameExistsTx(ctx, tx, username)
				if err != nil {
					return goerrors.Wrap(err, goerrors.CategoryInternal, "username uniqueness check failed")
				}
				if taken {
					return ErrUsernameTaken
				}
			}
			if _, err := s.repo.Users().UpdateIdentityTx(ctx, tx, id, email, username); err != nil {
				return err
			}
		}

		record, err := s.repo.Users().UpdateProfileTx(ctx, tx, id, profile)
		if err != nil {
			return err
		}

		*updated = *record
		return nil
	})

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return updated.Sanitized(), nil
}

func (s *profileStore) Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	if requesterID != id {
		return ErrForbidden
	}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return s.repo.Users().DeleteHardTx(ctx, tx, id)
	})

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return err
	}

	s.logger.Info("user deleted id=%s", id)

	return nil
}

func (s *profileStore) getUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.Users().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return user, nil
}

func projectOwner(user *User) *PublicUser {
	out := &PublicUser{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.Profile.DisplayName,
		Bio:         user.Profile.Bio,
		AvatarURL:   user.Profile.AvatarURL,
		Location:    user.Profile.Location,
	}
	out.Statistics = publicStats(user)
	return out
}

// projectPublic applies the owner's privacy settings to a read by someone
// else. A fully private profile keeps only the id and a masked display
// name; the friends tier keeps username, display name, and avatar since no
// social graph is available to distinguish friends from strangers.
func projectPublic(user *User) *PublicUser {
	out := &PublicUser{ID: user.ID}

	switch user.Profile.PrivacySettings.ProfileVisibility {
	case VisibilityPrivate:
		out.DisplayName = PrivateDisplayName
		return out
	case VisibilityFriends:
		out.Username = user.Username
		out.DisplayName = user.Profile.DisplayName
		out.AvatarURL = user.Profile.AvatarURL
	default:
		out.Username = user.Username
		out.DisplayName = user.Profile.DisplayName
		out.Bio = user.Profile.Bio
		out.AvatarURL = user.Profile.AvatarURL
		out.Location = user.Profile.Location
	}

	if user.Profile.PrivacySettings.StatisticsVisibility == VisibilityPublic {
		out.Statistics = publicStats(user)
	}

	return out
}

func publicStats(user *User) *PublicStatistics {
	return &PublicStatistics{
		TotalAttempts:     user.Statistics.TotalAttempts,
		TotalAscents:      user.Statistics.TotalAscents,
		PersonalBestGrade: user.Statistics.PersonalBestGrade,
		GradeDistribution: user.Statistics.GradeDistribution,
	}
}
