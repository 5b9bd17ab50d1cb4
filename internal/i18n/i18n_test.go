package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range messagesEN {
		_, ok := messagesZH[key]
		require.True(t, ok, "zh-CN missing %s", key)
	}
	for key := range messagesZH {
		_, ok := messagesEN[key]
		require.True(t, ok, "en-US missing %s", key)
	}
}

func TestTFallsBack(t *testing.T) {
	require.Equal(t, "Request Submitted!", T("fr-FR", "notice.request_submitted_title"))
	require.Equal(t, "missing.key", T(LocaleZH, "missing.key"))
	require.Equal(t, "Too many login attempts, please retry in 30 seconds", Sprintf(LocaleEN, "error.login_too_many", 30))
}

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"zh":    LocaleZH,
		"zh_cn": LocaleZH,
		"en-GB": LocaleEN,
		"fr":    "",
		"  ":    "",
	}
	for raw, want := range cases {
		require.Equal(t, want, NormalizeLocale(raw), raw)
	}
}

func TestResolveLocalePrecedence(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolve := func(target string, headers map[string]string) string {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return ResolveLocale(c)
	}

	require.Equal(t, DefaultLocale, resolve("/", nil))
	require.Equal(t, LocaleZH, resolve("/", map[string]string{"Accept-Language": "fr-FR;q=0.9, zh-TW;q=0.8"}))
	require.Equal(t, LocaleEN, resolve("/", map[string]string{"X-Locale": "en", "Accept-Language": "zh-CN"}))
	require.Equal(t, LocaleZH, resolve("/?lang=zh-CN", map[string]string{"X-Locale": "en"}))
}
