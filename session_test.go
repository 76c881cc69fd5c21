package via

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ryanhamamura/viahooks/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteSessionManager_CreatesSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS sessions")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	sm, err := NewSQLiteSessionManager(db, 0)
	require.NoError(t, err)
	assert.NotNil(t, sm.Store)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLiteSessionManager_SchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)

	_, err = NewSQLiteSessionManager(db, 0)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewSQLiteSessionManager_NilDB(t *testing.T) {
	_, err := NewSQLiteSessionManager(nil, 0)
	assert.Error(t, err)
}

func TestSession_NoopWithoutRequest(t *testing.T) {
	s := &Session{}
	assert.Equal(t, 0, s.Incr("k", 1))
	assert.Equal(t, 0, s.GetInt("k"))
}

func TestSession_PersistsAcrossActions(t *testing.T) {
	var trigger *actionTrigger
	var clicks int
	v := newTestApp()
	v.Page("/", func(c *Context) {
		trigger = c.Action(func() { clicks = c.Session().Incr("clicks", 1) })
		c.View(func() h.H { return h.Div() })
	})
	handler := v.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	c := onlyCtx(t, v)

	var cookies []*http.Cookie
	for i := 0; i < 3; i++ {
		req := actionRequest(t, c, trigger.ID(), c.csrfToken, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		if got := w.Result().Cookies(); len(got) > 0 {
			cookies = got
		}
	}
	assert.Equal(t, 3, clicks)
}
