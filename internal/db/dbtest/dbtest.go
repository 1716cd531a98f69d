// Package dbtest provides a migrated in-memory database and fixtures for tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fitcircle/fitcircle/internal/db/models"
)

// New returns an in-memory sqlite database with every table migrated.
// The pool is limited to one connection, each sqlite memory connection is its own database.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db), "failed to migrate test database")

	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// User inserts an active user with the given username.
func User(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	u := &models.User{Username: username, DisplayName: username, Active: true}
	require.NoError(t, db.Create(u).Error)

	return u
}

// Group inserts a group owned by owner with the owner as admin member.
func Group(t *testing.T, db *gorm.DB, owner *models.User, private bool) *models.FitnessGroup {
	t.Helper()

	g := &models.FitnessGroup{
		Name:         owner.Username + "'s group",
		Category:     "running",
		IsPrivate:    private,
		AdminID:      owner.ID,
		MembersCount: 1,
	}

	if private {
		g.InviteCode = "INVITE" + owner.Username
	}

	require.NoError(t, db.Create(g).Error)
	require.NoError(t, db.Create(&models.GroupMember{GroupID: g.ID, UserID: owner.ID, Role: models.RoleAdmin}).Error)

	return g
}

// Member adds u to g with role and bumps the member count.
func Member(t *testing.T, db *gorm.DB, g *models.FitnessGroup, u *models.User, role models.Role) *models.GroupMember {
	t.Helper()

	m := &models.GroupMember{GroupID: g.ID, UserID: u.ID, Role: role}
	require.NoError(t, db.Create(m).Error)
	require.NoError(t, db.Model(&models.FitnessGroup{}).Where("id = ?", g.ID).
		Update("members_count", gorm.Expr("members_count + 1")).Error)

	return m
}

// Post inserts a post by u in g.
func Post(t *testing.T, db *gorm.DB, g *models.FitnessGroup, u *models.User, content string) *models.FeedPost {
	t.Helper()

	p := &models.FeedPost{GroupID: g.ID, UserID: u.ID, Content: content}
	require.NoError(t, db.Create(p).Error)

	return p
}
