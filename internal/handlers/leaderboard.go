package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/impactly/impactly-api/internal/services"
)

// GetLeaderboard returns the top users by points, default 10.
func GetLeaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, err := services.Leaderboard(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch leaderboard",
		})
	}

	type entry struct {
		Rank        int    `json:"rank"`
		ID          string `json:"id"`
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
		AvatarURL   string `json:"avatarUrl"`
		Points      int    `json:"points"`
		Level       int    `json:"level"`
	}

	entries := make([]entry, len(users))
	for i, u := range users {
		entries[i] = entry{
			Rank:        i + 1,
			ID:          u.ID.String(),
			Name:        u.Name,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			Points:      u.Points,
			Level:       u.Level,
		}
	}

	return c.JSON(entries)
}
