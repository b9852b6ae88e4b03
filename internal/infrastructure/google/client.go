// Package google talks to Google identity, OAuth token and Tasks endpoints.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/idtoken"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	tasksapi "google.golang.org/api/tasks/v1"
)

const defaultTaskList = "@default"

// Options configures the client. Endpoint overrides are for tests; empty means Google's.
type Options struct {
	ClientID        string
	ClientSecret    string
	HTTPClient      *http.Client
	TokenURL        string
	APIEndpoint     string
	TasksEndpoint   string
	ValidateIDToken func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// Client implements ports.GoogleClient.
type Client struct {
	oauth    *oauth2.Config
	opts     Options
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewClient(opts Options) *Client {
	endpoint := googleoauth.Endpoint
	if opts.TokenURL != "" {
		endpoint.TokenURL = opts.TokenURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	validate := opts.ValidateIDToken
	if validate == nil {
		validate = idtoken.Validate
	}
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint:     endpoint,
		},
		opts:     opts,
		validate: validate,
	}
}

func (c *Client) VerifyIDToken(ctx context.Context, token string) (*ports.GoogleProfile, error) {
	payload, err := c.validate(ctx, token, c.oauth.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domerrors.ErrInvalidToken, err)
	}
	claim := func(name string) string {
		s, _ := payload.Claims[name].(string)
		return s
	}
	profile := &ports.GoogleProfile{
		Subject: payload.Subject,
		Email:   strings.ToLower(claim("email")),
		Name:    claim("name"),
		Picture: claim("picture"),
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: id token has no email", domerrors.ErrInvalidToken)
	}
	return profile, nil
}

func (c *Client) UserInfo(ctx context.Context, accessToken string) (*ports.GoogleProfile, error) {
	opts := c.serviceOptions(ctx, accessToken, c.opts.APIEndpoint)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		if isUnauthorized(err) {
			return nil, domerrors.ErrInvalidToken
		}
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: userinfo has no email", domerrors.ErrInvalidToken)
	}
	return &ports.GoogleProfile{
		Subject: info.Id,
		Email:   strings.ToLower(info.Email),
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// Refresh forces a token exchange by presenting an already-expired token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*ports.GoogleToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.opts.HTTPClient)
	stale := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Now().Add(-time.Minute)}
	tok, err := c.oauth.TokenSource(ctx, stale).Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && (re.ErrorCode == "invalid_grant" || (re.Response != nil && re.Response.StatusCode == http.StatusUnauthorized)) {
			return nil, domerrors.ErrGoogleReauth
		}
		return nil, err
	}
	out := &ports.GoogleToken{AccessToken: tok.AccessToken, Expiry: tok.Expiry}
	if tok.RefreshToken != refreshToken {
		out.RefreshToken = tok.RefreshToken
	}
	return out, nil
}

func (c *Client) ListTasks(ctx context.Context, accessToken string) ([]ports.GoogleTask, error) {
	opts := c.serviceOptions(ctx, accessToken, c.opts.TasksEndpoint)
	svc, err := tasksapi.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	res, err := svc.Tasks.List(defaultTaskList).Context(ctx).Do()
	if err != nil {
		if isUnauthorized(err) {
			return nil, domerrors.ErrInvalidToken
		}
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &domerrors.UpstreamError{Status: gerr.Code, Message: gerr.Message}
		}
		return nil, err
	}
	out := make([]ports.GoogleTask, 0, len(res.Items))
	for _, t := range res.Items {
		out = append(out, ports.GoogleTask{
			ID:      t.Id,
			Title:   t.Title,
			Status:  t.Status,
			Notes:   t.Notes,
			Due:     t.Due,
			Updated: t.Updated,
		})
	}
	return out, nil
}

func (c *Client) serviceOptions(ctx context.Context, accessToken, endpoint string) []option.ClientOption {
	base := context.WithValue(ctx, oauth2.HTTPClient, c.opts.HTTPClient)
	hc := oauth2.NewClient(base, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))
	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts
}

func isUnauthorized(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized
}

var _ ports.GoogleClient = (*Client)(nil)
