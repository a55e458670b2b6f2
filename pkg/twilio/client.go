package twilio

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thiagoricci/Rewlio/pkg/httpclient"
)

// Credentials is one tenant's Twilio account. Every send carries its own
// credentials; the client itself holds no tenant state.
type Credentials struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

type Response struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type Gateway interface {
	Send(ctx context.Context, creds Credentials, to string, body string) (Response, error)
}

type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Client struct {
	cfg    Config
	client httpclient.HTTPClient
}

func NewClient(cfg Config, client httpclient.HTTPClient) Gateway {
	return &Client{cfg: cfg, client: client}
}

func (c *Client) Send(ctx context.Context, creds Credentials, to string, body string) (Response, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.cfg.BaseURL, creds.AccountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", creds.PhoneNumber)
	form.Set("Body", body)

	headers := map[string]string{
		"Authorization": basicAuth(creds.AccountSID, creds.AuthToken),
		"Content-Type":  "application/x-www-form-urlencoded",
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.client.Post(sendCtx, endpoint, strings.NewReader(form.Encode()), headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Response{}, errors.New(ErrorCodeTimeout)
		}

		return Response{}, errors.New(ErrorCodeNetworkError)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch resp.StatusCode {
		case http.StatusBadRequest:
			return Response{}, errors.New(ErrorCodeInvalidNumber)
		case http.StatusUnauthorized, http.StatusForbidden:
			return Response{}, errors.New(ErrorCodeAuthFailed)
		default:
			return Response{}, errors.New(ErrorCodeServerError)
		}
	}

	var res Response
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Response{}, errors.New(ErrorCodeServerError)
	}

	return res, nil
}

func basicAuth(sid, token string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(sid+":"+token))
}
