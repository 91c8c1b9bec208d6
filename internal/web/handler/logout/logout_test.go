package logout

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/web/handler/handlertest"
)

func TestLogout(t *testing.T) {
	env := handlertest.New(t)
	env.Init(t, &Service{})
	cookie := env.Login(t)

	_, err := env.Deps.Sessions.Read(cookie.Value)
	require.NoError(t, err)

	status, body := env.Do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success":true}`, string(body))

	_, err = env.Deps.Sessions.Read(cookie.Value)
	require.Error(t, err, "session removed from storage")

	status, _ = env.Do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, status, "logging out twice succeeds")
}
