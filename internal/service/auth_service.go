package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/maheshrc27/content-compass/configs"
	"github.com/maheshrc27/content-compass/internal/state"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type AuthService interface {
	AuthURL(state string) string
	LoginCallback(ctx context.Context, code, errorParam string) (state.Identity, error)
}

type authService struct {
	oauth2Config *oauth2.Config
}

func NewAuthService(cfg config.Config) AuthService {
	return &authService{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       []string{oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
	}
}

func (s *authService) AuthURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// LoginCallback exchanges the authorization code for the signed-in identity.
// A consent screen closed by the user is ErrAuthCancelled.
func (s *authService) LoginCallback(ctx context.Context, code, errorParam string) (state.Identity, error) {
	if errorParam == "access_denied" {
		slog.Info("sign-in cancelled by user")
		return state.Identity{}, ErrAuthCancelled
	}
	if errorParam != "" || code == "" {
		err := fmt.Errorf("%w: code is empty or provider returned %q", ErrAuthFailed, errorParam)
		slog.Info(err.Error())
		return state.Identity{}, err
	}

	if s.oauth2Config.ClientID == "" || s.oauth2Config.ClientSecret == "" || s.oauth2Config.RedirectURL == "" {
		err := fmt.Errorf("%w: OAuth2 configuration is incomplete", ErrAuthFailed)
		slog.Info(err.Error())
		return state.Identity{}, err
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return state.Identity{}, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	svc, err := oauth2api.NewService(ctx, option.WithHTTPClient(s.oauth2Config.Client(ctx, token)))
	if err != nil {
		slog.Info(err.Error())
		return state.Identity{}, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return state.Identity{}, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	if info.Id == "" {
		return state.Identity{}, fmt.Errorf("%w: %w", ErrAuthFailed, errors.New("identity has no subject"))
	}

	return state.Identity{
		UID:      info.Id,
		Email:    info.Email,
		Name:     info.Name,
		PhotoURL: info.Picture,
	}, nil
}
