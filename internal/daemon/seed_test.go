package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/config"
	"github.com/fitcircle/fitcircle/internal/db/dbtest"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

func TestSeedOnlyOnce(t *testing.T) {
	db := dbtest.New(t)

	require.NoError(t, seed(db))
	require.NoError(t, seed(db))

	var users, groups int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.FitnessGroup{}).Count(&groups).Error)

	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), groups)
}

func TestSessionStorageForSQLite(t *testing.T) {
	cfg := &config.Config{DB: config.DB{GormEngine: config.EngineSQLite}}
	assert.Nil(t, sessionStorage(cfg))
}

func TestNewWithoutConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
