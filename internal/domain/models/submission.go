package model

// Submission holds the raw fields extracted from one create-post request.
// Nil means the field was absent.
type Submission struct {
	Text          *string
	Username      *string
	UserAvatarURL *string
	ImageData     []byte
}

// ValidatedSubmission is a Submission that passed every input rule.
// Build it only through the post validator.
type ValidatedSubmission struct {
	text          string
	username      string
	userAvatarURL string
	imageData     []byte
}

func NewValidatedSubmission(text, username, userAvatarURL string, imageData []byte) ValidatedSubmission {
	return ValidatedSubmission{
		text:          text,
		username:      username,
		userAvatarURL: userAvatarURL,
		imageData:     imageData,
	}
}

func (s ValidatedSubmission) Text() string          { return s.text }
func (s ValidatedSubmission) Username() string      { return s.username }
func (s ValidatedSubmission) UserAvatarURL() string { return s.userAvatarURL }
func (s ValidatedSubmission) ImageData() []byte     { return s.imageData }
func (s ValidatedSubmission) HasAvatar() bool       { return s.userAvatarURL != "" }
func (s ValidatedSubmission) HasImage() bool        { return len(s.imageData) > 0 }
