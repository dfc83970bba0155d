package userservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OsagoQuoteService/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, time.Second, logger.NewNop())
}

func TestClient_GetMe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, mePath, r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id": 17, "email": "petrov@example.com", "fio": "Петров Пётр", "status": "ACTIVE"}`))
	})

	user, err := client.GetMe(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(17), user.ID)
	assert.Equal(t, "ACTIVE", user.Status)
}

func TestClient_ResolveUserID(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request must not be sent without token")
		})

		userID, err := client.ResolveUserIDWithGracefulDegradation(context.Background(), "")
		require.NoError(t, err)
		assert.Nil(t, userID)
	})

	t.Run("resolved", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": 5}`))
		})

		userID, err := client.ResolveUserIDWithGracefulDegradation(context.Background(), "abc")
		require.NoError(t, err)
		require.NotNil(t, userID)
		assert.Equal(t, int64(5), *userID)
	})

	t.Run("rejected token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.ResolveUserIDWithGracefulDegradation(context.Background(), "expired")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("service failure degrades to anonymous", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		userID, err := client.ResolveUserIDWithGracefulDegradation(context.Background(), "abc")
		require.NoError(t, err)
		assert.Nil(t, userID)
	})
}
