package services

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/models"
)

// leaderboardCache holds the recent leaderboard projection. Entries are
// dropped on every point award so placements never lag a completion for
// longer than the TTL.
var leaderboardCache = gocache.New(30*time.Second, time.Minute)

// AwardPoints credits points to a user and recomputes the level
// (points/100 + 1) in one UPDATE statement. Both SET expressions read
// the pre-update points value, so concurrent awards to the same user
// serialize at the database instead of losing updates.
func AwardPoints(userID uuid.UUID, points int) error {
	if points == 0 {
		return nil
	}

	res := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"points": gorm.Expr("points + ?", points),
			"level":  gorm.Expr("(points + ?) / 100 + 1", points),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	leaderboardCache.Flush()

	logrus.WithFields(logrus.Fields{
		"userId": userID,
		"points": points,
	}).Info("points awarded")

	return nil
}

// HandleStatusChange applies the single gamification rule: when a task
// moves from any non-done status to done and has an assignee, the
// assignee earns the task's reward points exactly once. Both the generic
// task update and the dedicated transition endpoint funnel through here.
// Returns whether points were awarded.
func HandleStatusChange(task *models.Task, oldStatus string) (bool, error) {
	if oldStatus == models.StatusDone || task.Status != models.StatusDone {
		return false, nil
	}
	if task.AssigneeID == nil {
		return false, nil
	}

	if err := AwardPoints(*task.AssigneeID, task.RewardPoints); err != nil {
		return false, err
	}
	return true, nil
}

// Leaderboard returns the top users by points. Ties break on id
// ascending so equal scores order the same way on every run.
func Leaderboard(limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}

	key := leaderboardKey(limit)
	if cached, ok := leaderboardCache.Get(key); ok {
		return cached.([]models.User), nil
	}

	var users []models.User
	if err := database.DB.
		Order("points DESC, id ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	leaderboardCache.SetDefault(key, users)
	return users, nil
}

func leaderboardKey(limit int) string {
	return "top:" + strconv.Itoa(limit)
}
