package dashboard

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/controller/message"
	"github.com/folio-cms/folio/internal/web/handler/handlertest"
)

func TestStats(t *testing.T) {
	env := handlertest.New(t)
	env.Init(t, &Service{})

	status, _ := env.Do(t, http.MethodGet, "/api/admin/stats", nil, nil)
	require.Equal(t, http.StatusUnauthorized, status)

	cookie := env.Login(t)

	photos, ok := env.Deps.Content.Get(content.Photos)
	require.True(t, ok)

	for _, title := range []string{"Dunes", "Harbour"} {
		_, err := photos.Create(t.Context(),
			[]byte(`{"title":"`+title+`","category":"landscape","imageUrl":"/uploads/portfolio/a.jpg"}`))
		require.NoError(t, err)
	}

	msg, err := message.Create(t.Context(), env.Deps.DB, message.Input{Name: "Ann", Email: "ann@example.com", Message: "hi"})
	require.NoError(t, err)

	read := true
	_, err = message.SetFlags(t.Context(), env.Deps.DB, msg.ID, message.Flags{Read: &read})
	require.NoError(t, err)

	_, err = message.Create(t.Context(), env.Deps.DB, message.Input{Name: "Bo", Email: "bo@example.com", Message: "hello"})
	require.NoError(t, err)

	status, body := env.Do(t, http.MethodGet, "/api/admin/stats", nil, cookie)
	require.Equal(t, http.StatusOK, status, string(body))

	var stats Stats
	require.NoError(t, json.Unmarshal(body, &stats))

	assert.Len(t, stats.Collections, len(env.Deps.Content.All()))
	assert.Equal(t, int64(2), stats.Collections[content.Photos])
	assert.Equal(t, int64(0), stats.Collections[content.Blog])
	assert.Equal(t, int64(2), stats.Messages)
	assert.Equal(t, int64(1), stats.UnreadMessages)
}
