package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/models"
)

// MinPasswordLength is the shortest password accepted at sign-up
const MinPasswordLength = 8

// Validator checks user input before anything is written locally or remotely.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(PasswordProblems(fl.Field().String())) == 0
	})
	return &Validator{v: v}
}

// NormalizeHabitInput trims the title and description and fills in the default frequency.
func NormalizeHabitInput(in models.HabitInput) models.HabitInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Frequency == "" {
		in.Frequency = constants.FrequencyDaily
	}
	return in
}

// NormalizeHabitPatch trims the title and description a patch sets.
func NormalizeHabitPatch(p models.HabitPatch) models.HabitPatch {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		p.Description = &desc
	}
	return p
}

// HabitInput validates a new habit. Whitespace-only titles are rejected.
func (v *Validator) HabitInput(in models.HabitInput) error {
	return v.check(NormalizeHabitInput(in))
}

// HabitPatch validates the fields a partial update sets.
func (v *Validator) HabitPatch(p models.HabitPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return apperrors.Invalid("title", "must not be empty")
	}
	if p.Frequency != nil && !ValidFrequency(*p.Frequency) {
		return apperrors.Invalid("frequency", "must be %q or %q", constants.FrequencyDaily, constants.FrequencyWeekly)
	}
	if p.StreakCount != nil && *p.StreakCount < 0 {
		return apperrors.Invalid("streak_count", "must not be negative")
	}
	return nil
}

// SignUp validates the fields needed to create an account.
func (v *Validator) SignUp(in models.SignUpInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := v.check(in); err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) && verr.Field == "password" {
			return apperrors.Invalid("password", "%s", strings.Join(PasswordProblems(in.Password), "; "))
		}
		return err
	}
	return nil
}

// SignIn validates credentials before a session is requested.
func (v *Validator) SignIn(in models.SignInInput) error {
	in.Email = strings.TrimSpace(in.Email)
	return v.check(in)
}

// Email reports whether s is a well-formed address.
func (v *Validator) Email(s string) error {
	if err := v.v.Var(strings.TrimSpace(s), "required,email"); err != nil {
		return apperrors.Invalid("email", "%q is not a valid email address", s)
	}
	return nil
}

// ValidFrequency reports whether f is a known frequency.
func ValidFrequency(f constants.Frequency) bool {
	return f == constants.FrequencyDaily || f == constants.FrequencyWeekly
}

// PasswordProblems lists every strength rule the password breaks.
func PasswordProblems(password string) []string {
	var problems []string
	if len(password) < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		problems = append(problems, "Password must contain at least one number")
	}
	return problems
}

// TruncateAvatar caps an avatar reference at the users collection's attribute size.
func TruncateAvatar(avatar string) string {
	if len(avatar) > constants.AvatarMaxLength {
		return avatar[:constants.AvatarMaxLength]
	}
	return avatar
}

func (v *Validator) check(s interface{}) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	fe := verrs[0]
	return apperrors.Invalid(fieldName(fe.Field()), "%s", describe(fe))
}

func fieldName(structField string) string {
	return strings.ToLower(structField)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "email":
		return fmt.Sprintf("%q is not a valid email address", fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "password":
		return "is too weak"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
