package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go4.org/netipx"

	actx "go.hackfix.me/curator/app/context"
	"go.hackfix.me/curator/db"
	"go.hackfix.me/curator/db/dbtest"
	"go.hackfix.me/curator/db/migrations"
	"go.hackfix.me/curator/db/models"
	"go.hackfix.me/curator/web/server/api/v1"
	"go.hackfix.me/curator/web/server/auth"
	"go.hackfix.me/curator/web/server/middleware"
	"go.hackfix.me/curator/web/server/types"
	"go.hackfix.me/curator/web/server/upload"
)

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

const (
	hotWindow = 30 * 24 * time.Hour
	newWindow = 7 * 24 * time.Hour
)

func TestAuth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	t.Run("ok/login", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/auth/login", jsonBody(`{"username":"admin","password":"s3cret"}`), "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data := decode[types.LoginResponseData](t, rec)
		assert.NotEmpty(t, data.Token)
		assert.True(t, dbtest.TimeNow.Add(time.Hour).Equal(data.ExpiresAt))
		assert.Equal(t, "admin", data.User.Username)
	})

	t.Run("err/login", func(t *testing.T) {
		testCases := []struct {
			body      string
			expStatus int
			expErr    string
		}{
			{`{"username":"admin","password":"wrong"}`, http.StatusUnauthorized, "invalid username or password"},
			{`{"username":"nobody","password":"s3cret"}`, http.StatusUnauthorized, "invalid username or password"},
			{`{"username":"admin"}`, http.StatusBadRequest, "username and password must not be empty"},
			{`{"username":`, http.StatusBadRequest, ""},
		}
		for _, tc := range testCases {
			rec := env.do(http.MethodPost, "/api/auth/login", jsonBody(tc.body), "")
			assert.Equal(t, tc.expStatus, rec.Code, tc.body)
			if tc.expErr != "" {
				assert.Equal(t, tc.expErr, errMessage(t, rec), tc.body)
			}
		}
	})

	t.Run("ok/check", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/auth/check", nil, env.token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data := decode[types.User](t, rec)
		assert.Equal(t, "admin", data.Username)
		require.NotNil(t, data.LastLogin)
		assert.True(t, dbtest.TimeNow.Equal(*data.LastLogin))
	})

	t.Run("err/check", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/auth/check", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "empty Authorization header", errMessage(t, rec))

		rec = env.do(http.MethodGet, "/api/auth/check", nil, env.token+"x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid token", errMessage(t, rec))
	})
}

func TestSites(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	now := dbtest.TimeNow

	rec := env.do(http.MethodPost, "/api/categories", jsonBody(`{"name":"AI","description":"Assistants"}`), env.token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cat := decode[types.Term](t, rec)
	rec = env.do(http.MethodPost, "/api/tags", jsonBody(`{"name":"free"}`), env.token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tag := decode[types.Term](t, rec)

	var first, second types.Site

	t.Run("ok/create", func(t *testing.T) {
		body, ct := newForm(t, map[string]string{
			"name": "Example", "url": "https://example.com", "description": "An example",
			"categories": cat.ID, "tags": tag.ID, "is_hot": "true",
		}, map[string][]byte{"screenshot": pngData, "icon": pngData})
		rec := env.doForm(http.MethodPost, "/api/sites", body, ct, env.token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		first = decode[types.Site](t, rec)
		assert.Equal(t, "Example", first.Name)
		assert.Equal(t, 0, first.DisplayOrder)
		assert.True(t, strings.HasPrefix(first.Screenshot, "/uploads/screenshots/"))
		assert.True(t, strings.HasPrefix(first.Icon, "/uploads/icons/"))
		assert.True(t, first.IsHot)
		require.NotNil(t, first.HotUntil)
		assert.True(t, now.Add(hotWindow).Equal(*first.HotUntil))
		assert.True(t, first.IsNew)
		require.NotNil(t, first.NewUntil)
		assert.True(t, now.Add(newWindow).Equal(*first.NewUntil))
		require.Len(t, first.Categories, 1)
		assert.Equal(t, "AI", first.Categories[0].Name)
		require.Len(t, first.Tags, 1)
		assert.Equal(t, "free", first.Tags[0].Name)

		rec = env.do(http.MethodGet, first.Screenshot, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, pngData, rec.Body.Bytes())
	})

	t.Run("ok/create_not_new", func(t *testing.T) {
		body, ct := newForm(t, map[string]string{
			"name": "Second", "url": "https://second.example.com", "is_new": "false",
		}, map[string][]byte{"screenshot": pngData})
		rec := env.doForm(http.MethodPost, "/api/sites", body, ct, env.token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		second = decode[types.Site](t, rec)
		assert.Equal(t, 1, second.DisplayOrder)
		assert.False(t, second.IsNew)
		assert.Nil(t, second.NewUntil)
		assert.False(t, second.IsHot)
		assert.Empty(t, second.Icon)
	})

	t.Run("err/create", func(t *testing.T) {
		testCases := []struct {
			name      string
			fields    map[string]string
			files     map[string][]byte
			token     string
			expStatus int
			expErr    string
		}{
			{
				name:   "missing_screenshot",
				fields: map[string]string{"name": "x", "url": "https://x.example.com"},
				token:  env.token, expStatus: http.StatusBadRequest, expErr: "a screenshot is required",
			},
			{
				name:   "invalid_url",
				fields: map[string]string{"name": "x", "url": "example.com"},
				files:  map[string][]byte{"screenshot": pngData},
				token:  env.token, expStatus: http.StatusBadRequest, expErr: "invalid site URL: 'example.com'",
			},
			{
				name:   "not_an_image",
				fields: map[string]string{"name": "x", "url": "https://x.example.com"},
				files:  map[string][]byte{"screenshot": []byte("just some text")},
				token:  env.token, expStatus: http.StatusBadRequest,
				expErr: "invalid screenshot file: detected content type 'text/plain' is not a supported image",
			},
			{
				name:   "unknown_category",
				fields: map[string]string{"name": "x", "url": "https://x.example.com", "categories": "nope"},
				files:  map[string][]byte{"screenshot": pngData},
				token:  env.token, expStatus: http.StatusBadRequest,
			},
			{
				name:   "invalid_flag",
				fields: map[string]string{"name": "x", "url": "https://x.example.com", "is_hot": "maybe"},
				files:  map[string][]byte{"screenshot": pngData},
				token:  env.token, expStatus: http.StatusBadRequest,
				expErr: "invalid boolean value for is_hot: 'maybe'",
			},
			{
				name:   "anonymous",
				fields: map[string]string{"name": "x", "url": "https://x.example.com"},
				files:  map[string][]byte{"screenshot": pngData},
				expStatus: http.StatusUnauthorized, expErr: "empty Authorization header",
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				body, ct := newForm(t, tc.fields, tc.files)
				rec := env.doForm(http.MethodPost, "/api/sites", body, ct, tc.token)
				assert.Equal(t, tc.expStatus, rec.Code, rec.Body.String())
				if tc.expErr != "" {
					assert.Equal(t, tc.expErr, errMessage(t, rec))
				}
			})
		}
	})

	t.Run("ok/list", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/sites", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"Example", "Second"}, siteNames(decode[[]types.Site](t, rec)))

		rec = env.do(http.MethodGet, "/api/sites?category="+cat.ID, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"Example"}, siteNames(decode[[]types.Site](t, rec)))

		rec = env.do(http.MethodGet, "/api/sites?category="+cat.ID+"&tag=nope", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Empty(t, decode[[]types.Site](t, rec))

		rec = env.do(http.MethodGet, "/api/categories", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		cats := decode[[]types.Term](t, rec)
		require.Len(t, cats, 1)
		assert.Equal(t, 1, cats[0].SiteCount)
	})

	t.Run("ok/reorder", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/sites/reorder",
			jsonBody(`{"ids":["`+second.ID+`","`+first.ID+`"]}`), env.token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = env.do(http.MethodGet, "/api/sites", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"Second", "Example"}, siteNames(decode[[]types.Site](t, rec)))

		rec = env.do(http.MethodPost, "/api/sites/reorder", jsonBody(`{"ids":["nope"]}`), env.token)
		assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

		rec = env.do(http.MethodPost, "/api/sites/reorder", jsonBody(`{"ids":[]}`), env.token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("ok/update", func(t *testing.T) {
		body, ct := newForm(t, map[string]string{
			"name": "Renamed", "url": "https://example.org", "is_hot": "false",
			"tutorial_url": "https://example.org/docs",
		}, nil)
		rec := env.doForm(http.MethodPut, "/api/sites/"+first.ID, body, ct, env.token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		site := decode[types.Site](t, rec)
		assert.Equal(t, "Renamed", site.Name)
		assert.Equal(t, "https://example.org/docs", site.TutorialURL)
		assert.Equal(t, first.Screenshot, site.Screenshot)
		assert.False(t, site.IsHot)
		assert.Nil(t, site.HotUntil)
		assert.True(t, site.IsNew)
		assert.Empty(t, site.Categories)

		body, ct = newForm(t, map[string]string{"name": "x", "url": "https://x.example.com"}, nil)
		rec = env.doForm(http.MethodPut, "/api/sites/nope", body, ct, env.token)
		assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	})

	t.Run("ok/replace_screenshot", func(t *testing.T) {
		body, ct := newForm(t, map[string]string{"name": "Second", "url": "https://second.example.com"},
			map[string][]byte{"screenshot": pngData})
		rec := env.doForm(http.MethodPut, "/api/sites/"+second.ID, body, ct, env.token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		site := decode[types.Site](t, rec)
		assert.NotEqual(t, second.Screenshot, site.Screenshot)
		assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, second.Screenshot, nil, "").Code)
		assert.Equal(t, http.StatusOK, env.do(http.MethodGet, site.Screenshot, nil, "").Code)
	})

	t.Run("ok/delete", func(t *testing.T) {
		rec := env.do(http.MethodDelete, "/api/sites/"+first.ID, nil, env.token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/sites/"+first.ID, nil, "").Code)
		assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, first.Screenshot, nil, "").Code)
		assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/sites/"+first.ID, nil, env.token).Code)
		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodDelete, "/api/sites/"+second.ID, nil, "").Code)
	})
}

func TestSiteFlagExpiry(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()
	now := dbtest.TimeNow
	site := &models.Site{
		Name: "Old news", URL: "https://old.example.com",
		IsHot: true, HotUntil: sql.Null[time.Time]{V: now.Add(-time.Hour), Valid: true},
		IsNew: true, NewUntil: sql.Null[time.Time]{V: now.Add(time.Hour), Valid: true},
	}
	require.NoError(t, site.Save(ctx, env.d, false))

	rec := env.do(http.MethodGet, "/api/sites/"+site.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode[types.Site](t, rec)
	assert.False(t, data.IsHot)
	require.NotNil(t, data.HotUntil)
	assert.True(t, data.IsNew)

	// Flagging an expired site as hot again starts a new window.
	body, ct := newForm(t, map[string]string{
		"name": site.Name, "url": site.URL, "is_hot": "true",
	}, nil)
	rec = env.doForm(http.MethodPut, "/api/sites/"+site.ID, body, ct, env.token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data = decode[types.Site](t, rec)
	assert.True(t, data.IsHot)
	require.NotNil(t, data.HotUntil)
	assert.True(t, now.Add(hotWindow).Equal(*data.HotUntil))
}

func TestTerms(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/tags", jsonBody(`{"name":" free "}`), env.token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tag := decode[types.Term](t, rec)
	assert.Equal(t, "free", tag.Name)

	rec = env.do(http.MethodPost, "/api/tags", jsonBody(`{"name":"free"}`), env.token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "tag with name 'free' already exists", errMessage(t, rec))

	rec = env.do(http.MethodPost, "/api/tags", jsonBody(`{"name":""}`), env.token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name must not be empty", errMessage(t, rec))

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/tags/"+tag.ID, nil, "").Code)
	rec = env.do(http.MethodGet, "/api/tags/"+tag.ID, nil, env.token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, tag, decode[types.Term](t, rec))

	rec = env.do(http.MethodPut, "/api/tags/"+tag.ID, jsonBody(`{"name":"gratis","description":"No cost"}`), env.token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "gratis", decode[types.Term](t, rec).Name)

	rec = env.do(http.MethodPut, "/api/tags/nope", jsonBody(`{"name":"x"}`), env.token)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/tags", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tags := decode[[]types.Term](t, rec)
	require.Len(t, tags, 1)
	assert.Equal(t, "No cost", tags[0].Description)

	rec = env.do(http.MethodDelete, "/api/tags/"+tag.ID, nil, env.token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/tags/"+tag.ID, nil, env.token).Code)
}

func TestCategoryInUse(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()
	cat := &models.Category{Name: "AI"}
	require.NoError(t, cat.Save(ctx, env.d, false))
	site := &models.Site{
		Name: "a", URL: "https://a.example.com", Categories: []*models.Category{{ID: cat.ID}},
	}
	require.NoError(t, site.Save(ctx, env.d, false))

	rec := env.do(http.MethodDelete, "/api/categories/"+cat.ID, nil, env.token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "category with ID "+cat.ID+" is used by 1 site(s)", errMessage(t, rec))
}

func TestSettings(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/settings", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	settings := decode[types.Settings](t, rec)
	assert.Equal(t, db.DefaultSettings.SiteName, settings.SiteName)
	assert.Equal(t, migrations.DefaultHeroTitle, settings.HeroTitle)
	assert.Equal(t, migrations.DefaultHeroSubtitle, settings.HeroSubtitle)

	body, ct := newForm(t, map[string]string{
		"site_name": "My links", "hero_title": "Hello", "github_url": "https://github.com/example",
	}, map[string][]byte{"contact_qrcode": pngData})
	rec = env.doForm(http.MethodPut, "/api/settings/"+settings.ID, body, ct, env.token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[types.Settings](t, rec)
	assert.Equal(t, "My links", updated.SiteName)
	assert.Equal(t, "Hello", updated.HeroTitle)
	assert.Empty(t, updated.HeroSubtitle)
	assert.True(t, strings.HasPrefix(updated.ContactQRCode, "/uploads/qrcodes/"))
	assert.Empty(t, updated.DonationQRCode)

	rec = env.do(http.MethodGet, "/api/settings", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, updated.ContactQRCode, decode[types.Settings](t, rec).ContactQRCode)

	testCases := []struct {
		name      string
		id        string
		fields    map[string]string
		token     string
		expStatus int
		expErr    string
	}{
		{"not_found", "nope", map[string]string{"site_name": "x"}, env.token, http.StatusNotFound, ""},
		{"empty_name", settings.ID, map[string]string{}, env.token, http.StatusBadRequest, "site name must not be empty"},
		{
			"invalid_url", settings.ID, map[string]string{"site_name": "x", "twitter_url": "nope"},
			env.token, http.StatusBadRequest, "invalid Twitter URL: 'nope'",
		},
		{"anonymous", settings.ID, map[string]string{"site_name": "x"}, "", http.StatusUnauthorized, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, ct := newForm(t, tc.fields, nil)
			rec := env.doForm(http.MethodPut, "/api/settings/"+tc.id, body, ct, tc.token)
			assert.Equal(t, tc.expStatus, rec.Code, rec.Body.String())
			if tc.expErr != "" {
				assert.Equal(t, tc.expErr, errMessage(t, rec))
			}
		})
	}
}

func TestAdminNetworks(t *testing.T) {
	t.Parallel()

	ipSet, err := middleware.NewIPSet(netip.MustParsePrefix("10.0.0.0/8"))
	require.NoError(t, err)
	env := newTestEnv(t, ipSet)

	login := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			jsonBody(`{"username":"admin","password":"s3cret"}`))
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		env.h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, login("10.1.1.1:4321"))
	assert.Equal(t, http.StatusForbidden, login("192.0.2.1:4321"))

	// Public endpoints are reachable from anywhere.
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/sites", nil, "").Code)
}

type testEnv struct {
	t     *testing.T
	h     http.Handler
	d     *db.DB
	token string
}

// newTestEnv returns the API handler backed by a new database, and an admin
// API token. Requests come from 10.0.0.1, unless the remote address is set.
func newTestEnv(t *testing.T, adminNets *netipx.IPSet) *testEnv {
	t.Helper()

	d := dbtest.Init(t)
	secret, err := auth.NewSecret()
	require.NoError(t, err)
	issuer, err := auth.NewIssuer(secret, time.Hour, dbtest.TimeNowFn)
	require.NoError(t, err)

	fs := memoryfs.New()
	appCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      fs,
		Logger:  dbtest.Logger(),
		TimeNow: dbtest.TimeNowFn,
		DB:      d,
		DataDir: "/data",
	}
	opts := api.Options{
		Issuer:        issuer,
		Uploads:       upload.NewStore(fs, "/data/uploads", 1<<20),
		AdminNetworks: adminNets,
		ErrorLevel:    types.ErrorLevelFull,
		HotWindow:     hotWindow,
		NewWindow:     newWindow,
	}

	env := &testEnv{t: t, h: api.SetupHandlers(appCtx, opts, dbtest.Logger()), d: d}

	rec := env.do(http.MethodPost, "/api/auth/login", jsonBody(`{"username":"admin","password":"s3cret"}`), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env.token = decode[types.LoginResponseData](t, rec).Token

	return env
}

func (e *testEnv) do(method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	return e.doForm(method, path, body, "application/json", token)
}

func (e *testEnv) doForm(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.RemoteAddr = "10.0.0.1:4321"
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)

	return rec
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func newForm(t *testing.T, fields map[string]string, files map[string][]byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, data := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+field+`.png"`)
		h.Set("Content-Type", "image/png")
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Data
}

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error *types.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.NotNil(t, resp.Error, rec.Body.String())
	return resp.Error.Message
}

func siteNames(sites []types.Site) []string {
	names := make([]string, 0, len(sites))
	for _, s := range sites {
		names = append(names, s.Name)
	}
	return names
}
