package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// RegistrationInput is the normalized payload the validation pipeline and
// registration flow operate on.
type RegistrationInput struct {
	Email    string
	Username string
	Password string
	Profile  Profile
}

// ValidationStage checks a single aspect of a registration payload. A nil
// return means the stage passed.
type ValidationStage struct {
	Name  string
	Check func(in *RegistrationInput) error
}

// RegistrationStages is the ordered fast-fail pipeline. Order is load
// bearing: callers rely on the first failing stage being the one reported,
// so email always wins over username when both are bad.
var RegistrationStages = []ValidationStage{
	{Name: "email_format", Check: checkEmailFormat},
	{Name: "username_length", Check: checkUsernameLength},
	{Name: "password_strength", Check: checkPasswordStrength},
	{Name: "display_name_length", Check: checkDisplayName},
	{Name: "bio_length", Check: checkBio},
	{Name: "privacy_settings", Check: checkPrivacySettings},
	{Name: "preferred_units", Check: checkPreferredUnits},
	{Name: "phone_number", Check: checkPhoneNumber},
}

// ValidateRegistration runs the registration stages in order and returns
// the first failure, or nil when every stage passes.
func ValidateRegistration(in *RegistrationInput) error {
	for _, stage := range RegistrationStages {
		if err := stage.Check(in); err != nil {
			return err
		}
	}
	return nil
}

func checkEmailFormat(in *RegistrationInput) error {
	if err := validation.Validate(in.Email,
		validation.Required,
		is.Email,
	); err != nil {
		return ErrInvalidEmailFormat
	}
	return nil
}

func checkUsernameLength(in *RegistrationInput) error {
	if err := validation.Validate(in.Username,
		validation.Required,
		validation.Length(3, 50),
	); err != nil {
		return ErrInvalidUsernameLength
	}
	return nil
}

func checkPasswordStrength(in *RegistrationInput) error {
	if err := validation.Validate(in.Password,
		validation.Required,
		validation.Length(8, 0),
	); err != nil {
		return ErrWeakPassword
	}
	return nil
}

func checkDisplayName(in *RegistrationInput) error {
	if err := validation.Validate(in.Profile.DisplayName,
		validation.Length(0, 50),
	); err != nil {
		return ErrInvalidDisplayName
	}
	return nil
}

func checkBio(in *RegistrationInput) error {
	if err := validation.Validate(in.Profile.Bio,
		validation.Length(0, 500),
	); err != nil {
		return ErrInvalidBio
	}
	return nil
}

func checkPrivacySettings(in *RegistrationInput) error {
	ps := in.Profile.PrivacySettings
	if ps.ProfileVisibility != "" && !ValidVisibility(ps.ProfileVisibility) {
		return ErrInvalidProfileVisibility
	}
	if ps.StatisticsVisibility != "" && !ValidVisibility(ps.StatisticsVisibility) {
		return ErrInvalidStatisticsVisibility
	}
	if ps.HistoryVisibility != "" && !ValidVisibility(ps.HistoryVisibility) {
		return ErrInvalidHistoryVisibility
	}
	return nil
}

func checkPreferredUnits(in *RegistrationInput) error {
	units := in.Profile.PreferredUnits
	if units == "" || units == UnitsMetric || units == UnitsImperial {
		return nil
	}
	return ErrInvalidUnits
}

func checkPhoneNumber(in *RegistrationInput) error {
	raw := in.Profile.Phone
	if raw == "" {
		return nil
	}
	num, err := phonenumbers.Parse(raw, "US")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ErrInvalidPhoneNumber
	}
	return nil
}

// ValidateProfilePatch checks the profile-only fields of an update. Identity
// fields (email, username) go through the registration stages via the
// callers that change them.
func ValidateProfilePatch(p *Profile) error {
	probe := RegistrationInput{Profile: *p}
	stages := []func(in *RegistrationInput) error{
		checkDisplayName,
		checkBio,
		checkPrivacySettings,
		checkPreferredUnits,
		checkPhoneNumber,
	}
	for _, check := range stages {
		if err := check(&probe); err != nil {
			return err
		}
	}
	return nil
}
