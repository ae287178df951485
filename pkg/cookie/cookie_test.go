package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/websession/pkg/cookie"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []cookie.Option
		wantErr error
	}{
		{name: "defaults", opts: nil, wantErr: nil},
		{name: "strict", opts: []cookie.Option{cookie.WithSameSite(http.SameSiteStrictMode)}, wantErr: nil},
		{name: "none refused", opts: []cookie.Option{cookie.WithSameSite(http.SameSiteNoneMode)}, wantErr: cookie.ErrInsecureSameSite},
		{name: "default mode refused", opts: []cookie.Option{cookie.WithSameSite(http.SameSiteDefaultMode)}, wantErr: cookie.ErrInvalidSameSite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := cookie.New(tt.opts...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransport_Set(t *testing.T) {
	t.Parallel()

	tr, err := cookie.New(cookie.WithDomain("example.com"), cookie.WithSecure(true))
	require.NoError(t, err)

	ins := tr.Set("sid", "token-value", 8*time.Hour)

	assert.Equal(t, "sid", ins.Name)
	assert.Equal(t, "token-value", ins.Value)
	assert.Equal(t, "/", ins.Path)
	assert.Equal(t, "example.com", ins.Domain)
	assert.Equal(t, 8*60*60, ins.MaxAge)
	assert.True(t, ins.Secure)
	assert.True(t, ins.HTTPOnly)
	assert.Equal(t, http.SameSiteLaxMode, ins.SameSite)
	assert.False(t, ins.IsClear())
}

func TestTransport_SetSubSecondTTL(t *testing.T) {
	t.Parallel()

	tr, err := cookie.New()
	require.NoError(t, err)

	ins := tr.Set("sid", "v", 300*time.Millisecond)
	assert.Equal(t, 1, ins.MaxAge, "sub-second ttl must not become a browser-session cookie")
}

func TestTransport_Clear(t *testing.T) {
	t.Parallel()

	tr, err := cookie.New(cookie.WithDomain("example.com"))
	require.NoError(t, err)

	ins := tr.Clear("sid")
	assert.True(t, ins.IsClear())
	assert.Empty(t, ins.Value)
	assert.Equal(t, "/", ins.Path)
	assert.Equal(t, "example.com", ins.Domain)
	assert.True(t, ins.HTTPOnly)

	assert.Equal(t, ins, tr.Clear("sid"), "clear instruction must be stable")
}

func TestTransport_WriteAndRead(t *testing.T) {
	t.Parallel()

	tr, err := cookie.New()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, tr.Write(cookie.ResponseHeaders(w), tr.Set("sid", "abc.def-ghi_jkl", time.Hour)))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, "abc.def-ghi_jkl", cookies[0].Value)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])

	value, err := tr.Read(cookie.RequestHeaders(r), "sid")
	require.NoError(t, err)
	assert.Equal(t, "abc.def-ghi_jkl", value)
}

func TestTransport_WriteAppends(t *testing.T) {
	t.Parallel()

	tr, err := cookie.New()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	w.Header().Add("Set-Cookie", "theme=dark")
	require.NoError(t, tr.Write(cookie.ResponseHeaders(w), tr.Set("sid", "v", time.Hour)))

	assert.Len(t, w.Header().Values("Set-Cookie"), 2, "existing Set-Cookie headers must be kept")
}

func TestTransport_WriteRejectsInvalidCookie(t *testing.T) {
	t.Parallel()

	tr, err := cookie.New()
	require.NoError(t, err)

	tests := []struct {
		name string
		ins  cookie.Instruction
	}{
		{name: "empty name", ins: tr.Set("", "v", time.Hour)},
		{name: "name with separator", ins: tr.Set("s;id", "v", time.Hour)},
		{name: "value with semicolon", ins: tr.Set("sid", "a;b", time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := cookie.Headers{}
			err := tr.Write(h, tt.ins)
			assert.ErrorIs(t, err, cookie.ErrInvalidCookie)
			_, ok := h.Header("Set-Cookie")
			assert.False(t, ok)
		})
	}
}

func TestTransport_Read(t *testing.T) {
	t.Parallel()

	tr, err := cookie.New()
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  []string
		want    string
		wantErr error
	}{
		{name: "no header", header: nil, wantErr: cookie.ErrCookieNotFound},
		{name: "single", header: []string{"sid=one"}, want: "one"},
		{name: "among others", header: []string{"theme=dark; sid=two; lang=en"}, want: "two"},
		{name: "exact name only", header: []string{"sid_old=x; xsid=y; SID=z"}, wantErr: cookie.ErrCookieNotFound},
		{name: "prefix is not a match", header: []string{"sidecar=1"}, wantErr: cookie.ErrCookieNotFound},
		{name: "split across lines", header: []string{"theme=dark", "sid=three"}, want: "three"},
		{name: "malformed neighbour", header: []string{"bad cookie; sid=four"}, want: "four"},
		{name: "empty value", header: []string{"sid="}, wantErr: cookie.ErrCookieNotFound},
		{name: "quoted value", header: []string{`sid="five"`}, want: "five"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := cookie.Headers{}
			for _, line := range tt.header {
				h.AddHeader("Cookie", line)
			}

			got, err := tr.Read(h, "sid")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		tr, err := cookie.NewFromConfig(cookie.DefaultConfig())
		require.NoError(t, err)

		d := tr.Defaults()
		assert.Equal(t, "/", d.Path)
		assert.False(t, d.Secure)
		assert.Equal(t, http.SameSiteLaxMode, d.SameSite)
	})

	t.Run("strict with domain", func(t *testing.T) {
		t.Parallel()

		tr, err := cookie.NewFromConfig(
			cookie.Config{Domain: "example.com", SameSite: "Strict"},
			cookie.WithSecure(true),
		)
		require.NoError(t, err)

		d := tr.Defaults()
		assert.Equal(t, "example.com", d.Domain)
		assert.True(t, d.Secure)
		assert.Equal(t, http.SameSiteStrictMode, d.SameSite)
	})

	t.Run("none refused", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.NewFromConfig(cookie.Config{SameSite: "none"})
		assert.ErrorIs(t, err, cookie.ErrInsecureSameSite)
	})

	t.Run("unknown mode", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.NewFromConfig(cookie.Config{SameSite: "sometimes"})
		assert.ErrorIs(t, err, cookie.ErrInvalidSameSite)
	})
}
