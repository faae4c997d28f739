package post_service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"pinstack-blog-service/internal/custom_errors"
	model "pinstack-blog-service/internal/domain/models"
)

const (
	MinTextLength     = 10
	MaxTextLength     = 10000
	MinUsernameLength = 2
	MaxUsernameLength = 50
)

var (
	textLengthTag     = fmt.Sprintf("min=%d,max=%d", MinTextLength, MaxTextLength)
	usernameLengthTag = fmt.Sprintf("min=%d,max=%d", MinUsernameLength, MaxUsernameLength)
)

var usernameCharset = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

type rule struct {
	value   string
	tag     string
	message string
}

// PostValidator checks every rule independently and reports all violations
// together.
type PostValidator struct {
	validate *validator.Validate
}

func NewPostValidator() *PostValidator {
	v := validator.New()
	mustRegister(v, "username_charset", func(fl validator.FieldLevel) bool {
		return usernameCharset.MatchString(fl.Field().String())
	})
	mustRegister(v, "png_suffix", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		if err != nil {
			return false
		}
		return strings.HasSuffix(strings.ToLower(u.Path), ".png")
	})
	return &PostValidator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate turns raw extracted fields into a ValidatedSubmission or a single
// aggregated validation error.
func (v *PostValidator) Validate(sub *model.Submission) (model.ValidatedSubmission, error) {
	var missing []string
	if sub.Text == nil {
		missing = append(missing, "Text is required")
	}
	if sub.Username == nil {
		missing = append(missing, "Username is required")
	}
	if len(missing) > 0 {
		return model.ValidatedSubmission{}, custom_errors.Validation(missing...)
	}

	var avatarURL string
	if sub.UserAvatarURL != nil {
		avatarURL = *sub.UserAvatarURL
	}

	if violations := v.Violations(*sub.Text, *sub.Username, avatarURL); len(violations) > 0 {
		return model.ValidatedSubmission{}, custom_errors.Validation(violations...)
	}

	return model.NewValidatedSubmission(*sub.Text, *sub.Username, avatarURL, sub.ImageData), nil
}

// Violations returns the message of every rule the fields break. An empty
// avatarURL means no avatar was supplied.
func (v *PostValidator) Violations(text, username, avatarURL string) []string {
	rules := []rule{
		{text, textLengthTag, "Text must be between 10 and 10,000 characters"},
		{username, usernameLengthTag, "Username must be between 2 and 50 characters"},
		{username, "username_charset", "Username contains invalid characters"},
	}
	if avatarURL != "" {
		rules = append(rules,
			rule{avatarURL, "http_url", "Avatar URL must be a valid URL"},
			rule{avatarURL, "png_suffix", "Avatar URL must point to a PNG image"},
		)
	}

	var violations []string
	for _, r := range rules {
		if err := v.validate.Var(r.value, r.tag); err != nil {
			violations = append(violations, r.message)
		}
	}
	return violations
}
