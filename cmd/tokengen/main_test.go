package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dutybadge/internal/server/auth"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-s", "k", "-u", "42", "-n", "alice", "-admin", "-ttl", time.Hour.String()}, &out))

	id, err := auth.ParseToken(strings.TrimSpace(out.String()), []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{UserID: "42", DisplayName: "alice", Admin: true}, id)
}

func TestRun_RequiresSecretAndUser(t *testing.T) {
	t.Setenv("DUTYBADGE_SECRET_KEY", "")
	var out bytes.Buffer
	assert.Error(t, run([]string{"-u", "42"}, &out))
	assert.Error(t, run([]string{"-s", "k"}, &out))
	assert.Error(t, run([]string{"-bogus"}, &out))
}
