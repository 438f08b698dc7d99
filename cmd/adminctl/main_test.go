package main

import (
	"bytes"
	"strings"
	"testing"

	"pickup-service/internal/auth/credentials"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"nope"}, {"hash-pass", "-bogus"}} {
		assert.ErrorIs(t, run(args, &bytes.Buffer{}), errUsage, args)
	}
}

func TestVAPIDKeys(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"vapid-keys"}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "WEB_PUSH_PUBLIC_KEY="))
	assert.True(t, strings.HasPrefix(lines[1], "WEB_PUSH_PRIVATE_KEY="))
	assert.Greater(t, len(lines[0]), len("WEB_PUSH_PUBLIC_KEY=")+40)
}

func TestHashPass(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"hash-pass", "-pass", "open sesame"}, &out))

	hash, ok := strings.CutPrefix(strings.TrimSpace(out.String()), "ADMIN_PASS_HASH=")
	require.True(t, ok)

	p, err := credentials.NewPassphrase("", hash)
	require.NoError(t, err)
	assert.NoError(t, p.Verify("open sesame"))
}

func TestHashPassRequiresValue(t *testing.T) {
	t.Setenv("ADMIN_PASS", "")
	assert.ErrorIs(t, run([]string{"hash-pass"}, &bytes.Buffer{}), errUsage)
}
