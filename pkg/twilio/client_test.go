package twilio_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thiagoricci/Rewlio/pkg/httpclient"
	"github.com/thiagoricci/Rewlio/pkg/twilio"
)

var testCreds = twilio.Credentials{
	AccountSID:  "AC00000000000000000000000000000000",
	AuthToken:   "secret",
	PhoneNumber: "+15550001111",
}

func newClient(serverURL string) twilio.Gateway {
	cfg := twilio.Config{BaseURL: serverURL, Timeout: 2 * time.Second}
	return twilio.NewClient(cfg, httpclient.NewHTTPClient(2*time.Second))
}

func TestClient_Send(t *testing.T) {
	t.Run("posts form and returns message sid", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotForm map[string]string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, r.ParseForm())
			gotForm = map[string]string{
				"To":   r.PostForm.Get("To"),
				"From": r.PostForm.Get("From"),
				"Body": r.PostForm.Get("Body"),
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
		}))
		defer server.Close()

		resp, err := newClient(server.URL).Send(context.Background(), testCreds, "+15557772222", "hello")

		require.NoError(t, err)
		assert.Equal(t, "SM123", resp.SID)
		assert.Equal(t, "/2010-04-01/Accounts/"+testCreds.AccountSID+"/Messages.json", gotPath)
		assert.NotEmpty(t, gotAuth)
		assert.Equal(t, "+15557772222", gotForm["To"])
		assert.Equal(t, testCreds.PhoneNumber, gotForm["From"])
		assert.Equal(t, "hello", gotForm["Body"])
	})

	t.Run("maps 400 to invalid number", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		_, err := newClient(server.URL).Send(context.Background(), testCreds, "not-a-number", "hello")

		require.Error(t, err)
		assert.Equal(t, twilio.ErrorCodeInvalidNumber, err.Error())
	})

	t.Run("maps 401 to auth failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := newClient(server.URL).Send(context.Background(), testCreds, "+15557772222", "hello")

		require.Error(t, err)
		assert.Equal(t, twilio.ErrorCodeAuthFailed, err.Error())
	})

	t.Run("maps 5xx to server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newClient(server.URL).Send(context.Background(), testCreds, "+15557772222", "hello")

		require.Error(t, err)
		assert.Equal(t, twilio.ErrorCodeServerError, err.Error())
	})

	t.Run("unreachable host is a network error", func(t *testing.T) {
		_, err := newClient("http://127.0.0.1:1").Send(context.Background(), testCreds, "+15557772222", "hello")

		require.Error(t, err)
		assert.Equal(t, twilio.ErrorCodeNetworkError, err.Error())
	})
}
