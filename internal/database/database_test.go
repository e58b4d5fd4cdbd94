package database

import (
	"net/url"
	"testing"

	"github.com/citypulse/citypulse/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	cfg := config.Database{Host: "db", Port: 5433, User: "citypulse", Pass: "p@ss'word", Name: "citypulse", Schema: "events"}

	parsed, err := url.Parse(URL(cfg))

	require.NoError(t, err)
	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db:5433", parsed.Host)
	assert.Equal(t, "/citypulse", parsed.Path)
	password, _ := parsed.User.Password()
	assert.Equal(t, "p@ss'word", password)
	assert.Equal(t, "events", parsed.Query().Get("search_path"))
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
}

func TestFindMigrationsPath(t *testing.T) {
	path, err := findMigrationsPath()

	require.NoError(t, err)
	assert.DirExists(t, path)
}
