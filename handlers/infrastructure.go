package handlers

import (
	"fmt"
	"net/http"

	"seatsync-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InfrastructureHandler exposes blocks, floors, rooms and seats.
type InfrastructureHandler struct {
	DB *gorm.DB
}

func (h *InfrastructureHandler) GetBlocks(c *gin.Context) {
	var blocks []models.Block
	err := h.DB.
		Preload("Floors", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Preload("Floors.Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("code") }).
		Order("name").
		Find(&blocks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blocks"})
		return
	}
	c.JSON(http.StatusOK, blocks)
}

func (h *InfrastructureHandler) GetRooms(c *gin.Context) {
	floorID, filtered, ok := queryID(c, "floor_id")
	if !ok {
		return
	}

	query := h.DB.Order("floor_id, code")
	if filtered {
		query = query.Where("floor_id = ?", floorID)
	}

	var rooms []models.Room
	if err := query.Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *InfrastructureHandler) DeleteBlock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var floorCount int64
	if err := h.DB.Model(&models.Floor{}).Where("block_id = ?", id).Count(&floorCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check block dependencies"})
		return
	}
	if floorCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "Cannot delete block with floors",
			"message":     "Please remove its floors and rooms first",
			"floor_count": floorCount,
		})
		return
	}

	result := h.DB.Delete(&models.Block{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete block"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Block deleted successfully"})
}

// GenerateSeats lays out seats for a room from its seat_rows x seat_columns
// grid. Seats that already exist are kept; missing labels are added.
func (h *InfrastructureHandler) GenerateSeats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var room models.Room
	if err := h.DB.First(&room, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	if room.SeatRows <= 0 || room.SeatColumns <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room has no seat layout; set seat_rows and seat_columns first"})
		return
	}
	if room.SeatRows > models.MaxSeatGridSide || room.SeatColumns > models.MaxSeatGridSide {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Seat layout exceeds %dx%d", models.MaxSeatGridSide, models.MaxSeatGridSide)})
		return
	}

	var created int
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var existing []models.Seat
		if err := tx.Where("room_id = ?", room.ID).Find(&existing).Error; err != nil {
			return err
		}
		have := make(map[string]bool, len(existing))
		for _, s := range existing {
			have[s.Label] = true
		}

		var seats []models.Seat
		for r := 1; r <= room.SeatRows; r++ {
			for col := 1; col <= room.SeatColumns; col++ {
				label := models.SeatLabel(r, col)
				if have[label] {
					continue
				}
				seats = append(seats, models.Seat{RoomID: room.ID, Label: label, RowIndex: r, ColIndex: col})
			}
		}
		if len(seats) == 0 {
			return nil
		}
		created = len(seats)
		return tx.CreateInBatches(&seats, 200).Error
	})
	if err != nil {
		writeCreateError(c, err, "Seats were generated concurrently; please retry", "Failed to generate seats")
		return
	}

	var total int64
	h.DB.Model(&models.Seat{}).Where("room_id = ?", room.ID).Count(&total)
	c.JSON(http.StatusOK, gin.H{"room_id": room.ID, "created": created, "total": total})
}
