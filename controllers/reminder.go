package controllers

import (
	"net/http"

	"tailorpro-backend/config"
	"tailorpro-backend/models"
	"tailorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetReminderLogs retrieves a page of delivery-reminder log entries
func GetReminderLogs(c *gin.Context) {
	q := utils.ParseListQuery(c, "sent_at", "created_at")

	query := config.DB.Model(&models.DeliveryReminderLog{})
	if orderID := c.Query("order_id"); orderID != "" {
		orderUUID, err := uuid.Parse(orderID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid order_id format")
			return
		}
		query = query.Where("order_id = ?", orderUUID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count reminder logs")
		return
	}

	var logs []models.DeliveryReminderLog
	if err := query.Order(q.OrderClause()).
		Offset(q.Offset()).Limit(q.PageSize).
		Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminder logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       logs,
		"pagination": utils.Paginate(q, total),
	})
}
