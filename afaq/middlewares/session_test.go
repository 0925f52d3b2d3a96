package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"afaq/afaq/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *SessionManager {
	return NewSessionManager(config.Config{SessionSecret: "secret", SessionMaxAge: 24 * time.Hour})
}

func TestSignAndParse(t *testing.T) {
	m := testManager()
	token, err := m.Sign("abc")
	require.NoError(t, err)

	id, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	other := NewSessionManager(config.Config{SessionSecret: "other", SessionMaxAge: time.Hour})
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseExpired(t *testing.T) {
	m := testManager()
	issued := time.Now().Add(-48 * time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.Sign("abc")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestMiddlewareAndEnsure(t *testing.T) {
	m := testManager()

	var seen string
	var minted string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SessionID(r.Context())
		id, err := m.Ensure(w, r)
		assert.NoError(t, err)
		minted = id
	}))

	// no cookie: a new session is minted
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, seen)
	require.NotEmpty(t, minted)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookies[0].MaxAge)

	// with the cookie: the same session is reused
	first := minted
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, first, seen)
	assert.Equal(t, first, minted)
}

func TestMiddlewareIgnoresForgedCookie(t *testing.T) {
	m := testManager()
	var ok bool
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = SessionID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "plain-uuid"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}
