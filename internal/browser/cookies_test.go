package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	data := `[{"name":"CTK","value":"abc","domain":".indeed.com","path":"/","expires":1893456000,"httpOnly":true,"secure":true,"sameSite":"Lax"},
	{"name":"plain","value":"v","domain":"www.indeed.com"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	first := cookies[0]
	assert.Equal(t, "CTK", first.Name)
	assert.Equal(t, ".indeed.com", *first.Domain)
	assert.Equal(t, 1893456000.0, *first.Expires)
	assert.True(t, *first.HttpOnly)
	assert.True(t, *first.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, first.SameSite)

	second := cookies[1]
	assert.Equal(t, "/", *second.Path)
	assert.Nil(t, second.Expires)
	assert.Nil(t, second.SameSite)
}

func TestLoadCookies_EmptyPath(t *testing.T) {
	cookies, err := LoadCookies("")
	require.NoError(t, err)
	assert.Nil(t, cookies)
}

func TestLoadCookies_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := LoadCookies(path)
	assert.Error(t, err)
}
