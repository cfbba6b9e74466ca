package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Visibility is a privacy tier for a group of profile fields
type Visibility = string

const (
	// VisibilityPublic is visible to every caller
	VisibilityPublic Visibility = "public"
	// VisibilityFriends is restricted; without a social graph in scope it
	// collapses to owner-only except for display name and avatar
	VisibilityFriends Visibility = "friends"
	// VisibilityPrivate is visible only to the owner
	VisibilityPrivate Visibility = "private"
)

const (
	// UnitsMetric metric preferred units
	UnitsMetric = "metric"
	// UnitsImperial imperial preferred units
	UnitsImperial = "imperial"
)

// PrivateDisplayName masks identity on fully private profiles
const PrivateDisplayName = "Private User"

// PrivacySettings gates each field group independently
type PrivacySettings struct {
	ProfileVisibility    Visibility `json:"profile_visibility"`
	StatisticsVisibility Visibility `json:"statistics_visibility"`
	HistoryVisibility    Visibility `json:"history_visibility"`
}

// DefaultPrivacySettings returns the settings applied when a registration
// omits them
func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{
		ProfileVisibility:    VisibilityPublic,
		StatisticsVisibility: VisibilityPublic,
		HistoryVisibility:    VisibilityPublic,
	}
}

// Normalize fills any missing visibility field with its default
func (p *PrivacySettings) Normalize() {
	if p.ProfileVisibility == "" {
		p.ProfileVisibility = VisibilityPublic
	}
	if p.StatisticsVisibility == "" {
		p.StatisticsVisibility = VisibilityPublic
	}
	if p.HistoryVisibility == "" {
		p.HistoryVisibility = VisibilityPublic
	}
}

// ValidVisibility reports whether v is a known tier
func ValidVisibility(v Visibility) bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// Profile holds the user-editable profile fields stored as a JSON document
// on the user record
type Profile struct {
	DisplayName     string          `json:"display_name,omitempty"`
	FirstName       string          `json:"first_name,omitempty"`
	LastName        string          `json:"last_name,omitempty"`
	Bio             string          `json:"bio,omitempty"`
	AvatarURL       string          `json:"avatar_url,omitempty"`
	Location        string          `json:"location,omitempty"`
	Phone           string          `json:"phone_number,omitempty"`
	PreferredUnits  string          `json:"preferred_units,omitempty"`
	PrivacySettings PrivacySettings `json:"privacy_settings"`
}

// Statistics aggregates climbing activity for a user. Zero-valued at
// registration; mutated by the activity pipeline, not by this package.
type Statistics struct {
	TotalAttempts     int            `json:"total_attempts"`
	TotalAscents      int            `json:"total_ascents"`
	PersonalBestGrade string         `json:"personal_best_grade,omitempty"`
	GradeDistribution map[string]int `json:"grade_distribution,omitempty"`
}

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Profile       Profile    `bun:"profile,type:jsonb" json:"profile"`
	Statistics    Statistics `bun:"statistics,type:jsonb" json:"statistics"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Sanitized returns a copy safe to hand back to the owning caller: the
// credential hash never leaves the store.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// Identity adapts the record to the Identity interface.
func (u *User) Identity() Identity {
	return NewIdentityFromUser(u)
}
