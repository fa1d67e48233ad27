package schema

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/attendance"
	"portal/internal/store"
	"portal/internal/user"
)

func TestApplyIsRepeatable(t *testing.T) {
	db, err := store.NewDB("sqlite", filepath.Join(t.TempDir(), "schema.db"), zerolog.New(io.Discard))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Apply(db.Client))
	require.NoError(t, Apply(db.Client))

	m := db.Client.Migrator()
	assert.True(t, m.HasTable(&user.User{}))
	assert.True(t, m.HasTable(&user.Profile{}))
	assert.True(t, m.HasTable("attendance"))
	assert.True(t, m.HasIndex(&attendance.Record{}, "idx_attendance_user_day"))
}
