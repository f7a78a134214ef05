package models

import (
	"fmt"
	"time"
)

type Block struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Floors    []Floor   `gorm:"foreignKey:BlockID" json:"floors,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Floor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlockID   uint      `gorm:"not null;uniqueIndex:idx_floor_block_number" json:"block_id"`
	Number    int       `gorm:"not null;uniqueIndex:idx_floor_block_number" json:"number"`
	Rooms     []Room    `gorm:"foreignKey:FloorID" json:"rooms,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Room struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FloorID     uint      `gorm:"not null;uniqueIndex:idx_room_floor_code" json:"floor_id"`
	Code        string    `gorm:"not null;uniqueIndex:idx_room_floor_code" json:"code"`
	Capacity    int       `gorm:"not null;default:0" json:"capacity"`
	SeatRows    int       `gorm:"default:0" json:"seat_rows"`
	SeatColumns int       `gorm:"default:0" json:"seat_columns"`
	RoomType    string    `gorm:"default:classroom" json:"room_type"` // classroom, lab, hall
	Seats       []Seat    `gorm:"foreignKey:RoomID" json:"seats,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Seat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"not null;uniqueIndex:idx_seat_room_label" json:"room_id"`
	Label     string    `gorm:"not null;uniqueIndex:idx_seat_room_label" json:"label"`
	RowIndex  int       `json:"row_index"`
	ColIndex  int       `json:"col_index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaxSeatGridSide bounds seat_rows and seat_columns of a room layout.
const MaxSeatGridSide = 500

// SeatLabel is the label given to the seat at a 1-based row and column.
func SeatLabel(row, column int) string {
	return fmt.Sprintf("R%dC%d", row, column)
}
