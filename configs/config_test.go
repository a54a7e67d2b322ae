package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("API_BASE_URL", "https://api.nobleco.vn/")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.nobleco.vn", c.APIBaseURL)
	assert.Equal(t, "8090", c.Port)
	assert.Equal(t, "memory", c.SessionStore)
	assert.Equal(t, 168*time.Hour, c.SessionTTL)
	assert.Equal(t, 15*time.Second, c.APITimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, c.AllowedOrigins)
}

func TestLoadLists(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "https://admin.nobleco.vn,https://nobleco.vn")
	t.Setenv("TELEGRAM_CHAT_IDS", "101,-202")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://admin.nobleco.vn", "https://nobleco.vn"}, c.AllowedOrigins)
	assert.Equal(t, []int64{101, -202}, c.TelegramChatIDs)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	os.Unsetenv("JWT_SECRET_KEY")
	_, err := Load()
	assert.Error(t, err)
}
