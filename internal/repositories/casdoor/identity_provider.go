package casdoor

import (
	"context"
	"fmt"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/PrepGrid-2025/testing-service/internal/models"
)

// CasdoorConfig holds the configuration for the Casdoor connection.
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// IdentityProvider exchanges an OAuth authorization code for a verified
// external profile. It is the only component that talks to Casdoor; the rest
// of the service sees models.ExternalProfile.
type IdentityProvider struct {
	client *casdoorsdk.Client
	config CasdoorConfig
}

func NewIdentityProvider(config CasdoorConfig) *IdentityProvider {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &IdentityProvider{
		client: client,
		config: config,
	}
}

// SigninURL returns the provider's login page URL for the given callback.
func (p *IdentityProvider) SigninURL(redirectURI string) string {
	return p.client.GetSigninUrl(redirectURI)
}

// Exchange trades the callback code for a token, validates it, and extracts
// the profile fields the login flow consumes.
func (p *IdentityProvider) Exchange(ctx context.Context, code, state string) (*models.ExternalProfile, error) {
	token, err := p.client.GetOAuthToken(code, state)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	claims, err := p.client.ParseJwtToken(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to parse provider token: %w", err)
	}

	if claims.User.Id == "" {
		return nil, fmt.Errorf("provider token carries no user id")
	}
	if claims.User.Email == "" {
		return nil, fmt.Errorf("provider token carries no email")
	}

	return &models.ExternalProfile{
		ID:          claims.User.Id,
		Email:       claims.User.Email,
		DisplayName: claims.User.DisplayName,
		AvatarURL:   claims.User.Avatar,
	}, nil
}
