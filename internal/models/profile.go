package models

// ExternalProfile is the verified profile returned by the identity provider
// after the OAuth exchange. Only the fields the login flow needs are carried.
type ExternalProfile struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
}
