// controllers/measurement.go
package controllers

import (
	"errors"
	"net/http"

	"tailorpro-backend/config"
	"tailorpro-backend/models"
	"tailorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeasurementInput defines the JSON structure for creating or replacing a
// measurement set. PUT replaces the whole row, so there is one input type.
type MeasurementInput struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	IsDefault  bool      `json:"isDefault"`
	Notes      string    `json:"notes"`

	Neck       *float64 `json:"neck" binding:"omitempty,min=0"`
	Shoulder   *float64 `json:"shoulder" binding:"omitempty,min=0"`
	Chest      *float64 `json:"chest" binding:"omitempty,min=0"`
	Waist      *float64 `json:"waist" binding:"omitempty,min=0"`
	Hip        *float64 `json:"hip" binding:"omitempty,min=0"`
	KameezLen  *float64 `json:"kameezLength" binding:"omitempty,min=0"`
	SleeveLen  *float64 `json:"sleeveLength" binding:"omitempty,min=0"`
	Cuff       *float64 `json:"cuff" binding:"omitempty,min=0"`
	Bicep      *float64 `json:"bicep" binding:"omitempty,min=0"`
	Wrist      *float64 `json:"wrist" binding:"omitempty,min=0"`
	Armhole    *float64 `json:"armhole" binding:"omitempty,min=0"`
	FrontWidth *float64 `json:"frontWidth" binding:"omitempty,min=0"`
	BackWidth  *float64 `json:"backWidth" binding:"omitempty,min=0"`
	Daman      *float64 `json:"daman" binding:"omitempty,min=0"`
	ShalwarLen *float64 `json:"shalwarLength" binding:"omitempty,min=0"`
	BottomWid  *float64 `json:"bottomWidth" binding:"omitempty,min=0"`
	TrouserLen *float64 `json:"trouserLength" binding:"omitempty,min=0"`
	Inseam     *float64 `json:"inseam" binding:"omitempty,min=0"`
	Thigh      *float64 `json:"thigh" binding:"omitempty,min=0"`
	Knee       *float64 `json:"knee" binding:"omitempty,min=0"`
}

func (in *MeasurementInput) apply(m *models.Measurement) {
	m.CustomerID = in.CustomerID
	m.Name = in.Name
	m.IsDefault = in.IsDefault
	m.Notes = in.Notes
	m.Neck = in.Neck
	m.Shoulder = in.Shoulder
	m.Chest = in.Chest
	m.Waist = in.Waist
	m.Hip = in.Hip
	m.KameezLen = in.KameezLen
	m.SleeveLen = in.SleeveLen
	m.Cuff = in.Cuff
	m.Bicep = in.Bicep
	m.Wrist = in.Wrist
	m.Armhole = in.Armhole
	m.FrontWidth = in.FrontWidth
	m.BackWidth = in.BackWidth
	m.Daman = in.Daman
	m.ShalwarLen = in.ShalwarLen
	m.BottomWid = in.BottomWid
	m.TrouserLen = in.TrouserLen
	m.Inseam = in.Inseam
	m.Thigh = in.Thigh
	m.Knee = in.Knee
}

// clearOtherDefaults unsets is_default on every other measurement of the
// customer. Runs inside the same transaction as the write that sets the
// new default, so the "at most one default" rule survives a crash.
func clearOtherDefaults(tx *gorm.DB, customerID, keepID uuid.UUID) error {
	return tx.Model(&models.Measurement{}).
		Where("customer_id = ? AND id <> ? AND is_default = ?", customerID, keepID, true).
		Update("is_default", false).Error
}

// CreateMeasurement creates a new measurement set for a customer
func CreateMeasurement(c *gin.Context) {
	var input MeasurementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("id = ?", input.CustomerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	measurement := models.Measurement{ID: uuid.New()}
	input.apply(&measurement)

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if measurement.IsDefault {
		if err := clearOtherDefaults(tx, measurement.CustomerID, measurement.ID); err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update default measurement")
			return
		}
	}

	if err := tx.Create(&measurement).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create measurement")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, measurement)
}

// GetMeasurements retrieves a page of measurements matching the query
func GetMeasurements(c *gin.Context) {
	q := utils.ParseListQuery(c, "name", "created_at")

	query := config.DB.Model(&models.Measurement{})
	if q.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+q.Search+"%")
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer_id format")
			return
		}
		query = query.Where("customer_id = ?", customerUUID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count measurements")
		return
	}

	var measurements []models.Measurement
	if err := query.Order(q.OrderClause()).
		Offset(q.Offset()).Limit(q.PageSize).
		Find(&measurements).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve measurements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       measurements,
		"pagination": utils.Paginate(q, total),
	})
}

// GetMeasurement retrieves a specific measurement by ID
func GetMeasurement(c *gin.Context) {
	measurementUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid measurement ID format")
		return
	}

	var measurement models.Measurement
	if err := config.DB.Where("id = ?", measurementUUID).First(&measurement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Measurement not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, measurement)
}

// UpdateMeasurement replaces a measurement set
func UpdateMeasurement(c *gin.Context) {
	measurementUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid measurement ID format")
		return
	}

	var input MeasurementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var measurement models.Measurement
	if err := config.DB.Where("id = ?", measurementUUID).First(&measurement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Measurement not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CustomerID != measurement.CustomerID {
		utils.RespondWithError(c, http.StatusBadRequest, "Measurement cannot be moved to another customer")
		return
	}

	input.apply(&measurement)

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if measurement.IsDefault {
		if err := clearOtherDefaults(tx, measurement.CustomerID, measurement.ID); err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update default measurement")
			return
		}
	}

	if err := tx.Save(&measurement).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update measurement")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, measurement)
}

// DeleteMeasurement soft deletes a measurement. Refused while an order
// still snapshots it.
func DeleteMeasurement(c *gin.Context) {
	measurementUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid measurement ID format")
		return
	}

	var orderCount int64
	if err := config.DB.Model(&models.Order{}).
		Where("measurement_id = ?", measurementUUID).
		Count(&orderCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if orderCount > 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Measurement is referenced by existing orders and cannot be deleted")
		return
	}

	result := config.DB.Where("id = ?", measurementUUID).Delete(&models.Measurement{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete measurement")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Measurement not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Measurement deleted successfully"})
}
