package services_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impactly/impactly-api/internal/config"
	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/models"
	"github.com/impactly/impactly-api/internal/services"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	cfg := &config.Config{
		DatabaseURL: "file:" + uuid.New().String() + "?mode=memory&cache=shared",
		Environment: "test",
	}
	require.NoError(t, database.Connect(cfg))
	require.NoError(t, database.Migrate())
}

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{150, 2},
		{199, 2},
		{200, 3},
		{1000, 11},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, models.LevelForPoints(tc.points), "points=%d", tc.points)
	}
}

func TestAwardPointsUpdatesLevel(t *testing.T) {
	setupTestDB(t)

	user := models.User{Email: "p@example.com", Name: "p", Role: models.RoleMember}
	require.NoError(t, database.DB.Create(&user).Error)

	require.NoError(t, services.AwardPoints(user.ID, 150))

	var got models.User
	require.NoError(t, database.DB.First(&got, user.ID).Error)
	assert.Equal(t, 150, got.Points)
	assert.Equal(t, 2, got.Level)

	require.NoError(t, services.AwardPoints(user.ID, 60))
	require.NoError(t, database.DB.First(&got, user.ID).Error)
	assert.Equal(t, 210, got.Points)
	assert.Equal(t, 3, got.Level)
}

func TestAwardPointsUnknownUser(t *testing.T) {
	setupTestDB(t)
	err := services.AwardPoints(uuid.New(), 50)
	assert.Error(t, err)
}

func TestConcurrentAwardsNeverLoseUpdates(t *testing.T) {
	setupTestDB(t)

	user := models.User{Email: "race@example.com", Name: "race", Role: models.RoleMember}
	require.NoError(t, database.DB.Create(&user).Error)

	awards := []int{100, 50}
	var wg sync.WaitGroup
	for _, points := range awards {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			assert.NoError(t, services.AwardPoints(user.ID, p))
		}(points)
	}
	wg.Wait()

	var got models.User
	require.NoError(t, database.DB.First(&got, user.ID).Error)
	assert.Equal(t, 150, got.Points)
	assert.Equal(t, 2, got.Level)
}

func TestHandleStatusChangeAwardRule(t *testing.T) {
	setupTestDB(t)

	assignee := models.User{Email: "a@example.com", Name: "a", Role: models.RoleMember}
	require.NoError(t, database.DB.Create(&assignee).Error)

	task := &models.Task{
		Title:        "rule",
		Status:       models.StatusDone,
		RewardPoints: 80,
		AssigneeID:   &assignee.ID,
	}

	// done -> done is not a completion.
	awarded, err := services.HandleStatusChange(task, models.StatusDone)
	require.NoError(t, err)
	assert.False(t, awarded)

	// review -> done pays out.
	awarded, err = services.HandleStatusChange(task, models.StatusReview)
	require.NoError(t, err)
	assert.True(t, awarded)

	var got models.User
	require.NoError(t, database.DB.First(&got, assignee.ID).Error)
	assert.Equal(t, 80, got.Points)

	// Leaving done awards nothing.
	task.Status = models.StatusInProgress
	awarded, err = services.HandleStatusChange(task, models.StatusDone)
	require.NoError(t, err)
	assert.False(t, awarded)

	// No assignee, no award.
	task.Status = models.StatusDone
	task.AssigneeID = nil
	awarded, err = services.HandleStatusChange(task, models.StatusTodo)
	require.NoError(t, err)
	assert.False(t, awarded)

	require.NoError(t, database.DB.First(&got, assignee.ID).Error)
	assert.Equal(t, 80, got.Points)
}

func TestLeaderboardOrderAndTies(t *testing.T) {
	setupTestDB(t)

	mk := func(email string, points int) models.User {
		u := models.User{Email: email, Name: email, Role: models.RoleMember}
		require.NoError(t, database.DB.Create(&u).Error)
		require.NoError(t, database.DB.Model(&u).Updates(map[string]interface{}{
			"points": points,
			"level":  models.LevelForPoints(points),
		}).Error)
		return u
	}

	mk("low@example.com", 10)
	high := mk("high@example.com", 300)
	tieA := mk("tie-a@example.com", 200)
	tieB := mk("tie-b@example.com", 200)

	users, err := services.Leaderboard(3)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, high.ID, users[0].ID)

	// Equal scores order by id ascending.
	first, second := tieA.ID, tieB.ID
	if second.String() < first.String() {
		first, second = second, first
	}
	assert.Equal(t, first, users[1].ID)
	assert.Equal(t, second, users[2].ID)
}
