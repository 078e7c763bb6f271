package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/middleware"
	"github.com/impactly/impactly-api/internal/models"
)

// GetBadges lists active badges only. Deactivated badges stay in the
// table but disappear from this listing.
func GetBadges(c *fiber.Ctx) error {
	var badges []models.Badge
	if err := database.DB.
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&badges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch badges",
		})
	}

	return c.JSON(badges)
}

// CreateBadge creates a badge definition (admin only). Criteria is
// stored as opaque structured data; nothing evaluates it.
func CreateBadge(c *fiber.Ctx) error {
	var req models.CreateBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	badge := models.Badge{
		Name:           req.Name,
		Description:    req.Description,
		Icon:           req.Icon,
		Criteria:       req.Criteria,
		PointsRequired: req.PointsRequired,
		IsActive:       true,
	}

	if err := database.DB.Create(&badge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create badge",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(badge)
}

// UpdateBadge edits a badge definition (admin only).
func UpdateBadge(c *fiber.Ctx) error {
	badgeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid badge ID",
		})
	}

	var badge models.Badge
	if err := database.DB.First(&badge, badgeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Badge not found",
		})
	}

	var req models.UpdateBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		badge.Name = *req.Name
	}
	if req.Description != nil {
		badge.Description = *req.Description
	}
	if req.Icon != nil {
		badge.Icon = *req.Icon
	}
	if req.Criteria != nil {
		badge.Criteria = *req.Criteria
	}
	if req.PointsRequired != nil {
		badge.PointsRequired = req.PointsRequired
	}

	if err := database.DB.Save(&badge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update badge",
		})
	}

	return c.JSON(badge)
}

// DeactivateBadge is the badge "delete": it flips IsActive off and keeps
// the row and any earned UserBadge records.
func DeactivateBadge(c *fiber.Ctx) error {
	badgeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid badge ID",
		})
	}

	var badge models.Badge
	if err := database.DB.First(&badge, badgeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Badge not found",
		})
	}

	badge.IsActive = false
	if err := database.DB.Save(&badge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to deactivate badge",
		})
	}

	return c.JSON(badge)
}

// AwardBadge grants a badge to a user (admin only). Awards are explicit
// administrative actions; badge criteria never trigger this.
func AwardBadge(c *fiber.Ctx) error {
	actorID := middleware.GetUserID(c)
	badgeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid badge ID",
		})
	}

	var req models.AwardBadgeRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId is required",
		})
	}

	var badge models.Badge
	if err := database.DB.First(&badge, badgeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Badge not found",
		})
	}

	var user models.User
	if err := database.DB.First(&user, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User does not exist",
		})
	}

	var existing models.UserBadge
	if err := database.DB.Where("user_id = ? AND badge_id = ?", req.UserID, badgeID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User already has this badge",
		})
	}

	award := models.UserBadge{
		UserID:  req.UserID,
		BadgeID: badgeID,
	}
	if err := database.DB.Create(&award).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to award badge",
		})
	}

	LogActivity(req.UserID, models.EventBadgeEarned,
		"earned badge \""+badge.Name+"\"",
		models.BadgeEarnedMeta{BadgeID: badgeID, BadgeName: badge.Name, AwardedBy: actorID},
		nil, nil)

	CreateNotification(req.UserID, "badge_earned",
		"Badge earned!",
		"You earned the \""+badge.Name+"\" badge",
		map[string]interface{}{"badgeId": badgeID.String()},
	)

	return c.Status(fiber.StatusCreated).JSON(award)
}

// GetUserBadges lists the badges a user has earned, including awards for
// badges that were deactivated after the award.
func GetUserBadges(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var awards []models.UserBadge
	database.DB.Where("user_id = ?", userID).
		Preload("Badge").
		Order("earned_at DESC").
		Find(&awards)

	return c.JSON(awards)
}
