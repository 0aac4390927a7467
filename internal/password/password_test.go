package password_test

import (
	"crypto/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/file2html/internal/password"
)

func TestRandomProperties(t *testing.T) {
	t.Parallel()

	const draws = 10000

	seen := make(map[string]struct{}, draws)

	for range draws {
		value, err := password.Generate(password.Spec{Mode: password.Random}, time.Now, rand.Reader)
		require.NoError(t, err)

		require.Len(t, value, password.RandomLength)

		for _, r := range value {
			alnum := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
			require.Truef(t, alnum, "character %q outside [A-Za-z0-9] in %q", r, value)
		}

		seen[value] = struct{}{}
	}

	// 62^16 values: any collision in 10k draws indicates a broken source.
	assert.Len(t, seen, draws)
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	clock := func() time.Time {
		return time.Date(2024, 11, 5, 9, 7, 3, 0, time.Local)
	}

	value, err := password.Generate(password.Spec{Mode: password.Timestamp}, clock, rand.Reader)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d{14}$`), value)
	assert.Equal(t, "20241105090703", value)
}

func TestManual(t *testing.T) {
	t.Parallel()

	value, err := password.Generate(password.Spec{Mode: password.Manual, Value: "secret1"}, time.Now, rand.Reader)
	require.NoError(t, err)
	assert.Equal(t, "secret1", value)

	_, err = password.Generate(password.Spec{Mode: password.Manual}, time.Now, rand.Reader)
	require.ErrorIs(t, err, password.ErrEmpty)
}

func TestNone(t *testing.T) {
	t.Parallel()

	value, err := password.Generate(password.Spec{Mode: password.None}, time.Now, rand.Reader)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestModeFromString(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]password.Mode{
		"random":    password.Random,
		"manual":    password.Manual,
		"timestamp": password.Timestamp,
		"none":      password.None,
	} {
		mode, err := password.ModeFromString(name)
		require.NoError(t, err)
		assert.Equal(t, want, mode)
	}

	_, err := password.ModeFromString("pass" + strings.Repeat("!", 3))
	assert.Error(t, err)
}
