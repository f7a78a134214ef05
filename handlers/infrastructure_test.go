package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"seatsync-backend/models"

	"gorm.io/gorm"
)

func seedRoom(db *gorm.DB, rows, cols int) models.Room {
	block := models.Block{Name: "A"}
	db.Create(&block)
	floor := models.Floor{BlockID: block.ID, Number: 1}
	db.Create(&floor)
	room := models.Room{FloorID: floor.ID, Code: "101", Capacity: rows * cols, SeatRows: rows, SeatColumns: cols}
	db.Create(&room)
	return room
}

func TestGetRoomsByFloor(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)
	_, token := seedTestUser(db, "admin@uni.edu", models.RoleExamAdmin)
	room := seedRoom(db, 2, 3)

	w := serve(router, authRequest("GET", fmt.Sprintf("/api/admin/rooms?floor_id=%d", room.FloorID), nil, token))
	if rooms := parseResponseArray(w); len(rooms) != 1 {
		t.Fatalf("expected 1 room, got %v", rooms)
	}

	w = serve(router, authRequest("GET", fmt.Sprintf("/api/admin/rooms?floor_id=%d", room.FloorID+100), nil, token))
	if rooms := parseResponseArray(w); len(rooms) != 0 {
		t.Errorf("expected no rooms on unknown floor, got %v", rooms)
	}

	w = serve(router, authRequest("GET", "/api/admin/rooms?floor_id=first", nil, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed floor_id, got %d", w.Code)
	}
}

func TestGenerateSeats(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)
	_, token := seedTestUser(db, "admin@uni.edu", models.RoleExamAdmin)
	room := seedRoom(db, 2, 3)

	url := fmt.Sprintf("/api/admin/rooms/%d/seats", room.ID)
	w := serve(router, authRequest("POST", url, nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := parseResponse(w); body["created"] != float64(6) || body["total"] != float64(6) {
		t.Errorf("unexpected result: %v", body)
	}

	var seat models.Seat
	db.Where("room_id = ? AND row_index = ? AND col_index = ?", room.ID, 2, 3).First(&seat)
	if seat.Label != "R2C3" {
		t.Errorf("expected label R2C3, got %q", seat.Label)
	}

	// Growing the layout only adds the missing seats.
	db.Model(&room).Update("seat_columns", 4)
	w = serve(router, authRequest("POST", url, nil, token))
	if body := parseResponse(w); body["created"] != float64(2) || body["total"] != float64(8) {
		t.Errorf("unexpected result after growing layout: %v", body)
	}
}

func TestGenerateSeatsWithoutLayout(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)
	_, token := seedTestUser(db, "admin@uni.edu", models.RoleExamAdmin)
	room := seedRoom(db, 0, 0)

	w := serve(router, authRequest("POST", fmt.Sprintf("/api/admin/rooms/%d/seats", room.ID), nil, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = serve(router, authRequest("POST", "/api/admin/rooms/9999/seats", nil, token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGenerateSeatsRejectsOversizedLayout(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)
	_, token := seedTestUser(db, "admin@uni.edu", models.RoleExamAdmin)
	room := seedRoom(db, models.MaxSeatGridSide+1, 2)

	w := serve(router, authRequest("POST", fmt.Sprintf("/api/admin/rooms/%d/seats", room.ID), nil, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var n int64
	db.Model(&models.Seat{}).Where("room_id = ?", room.ID).Count(&n)
	if n != 0 {
		t.Errorf("expected no seats, got %d", n)
	}
}

func TestDeleteBlock(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)
	_, token := seedTestUser(db, "admin@uni.edu", models.RoleExamAdmin)
	room := seedRoom(db, 1, 1)
	empty := models.Block{Name: "Annex"}
	db.Create(&empty)

	var floor models.Floor
	db.First(&floor, room.FloorID)

	w := serve(router, authRequest("DELETE", fmt.Sprintf("/api/admin/blocks/%d", floor.BlockID), nil, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 while floors exist, got %d", w.Code)
	}

	w = serve(router, authRequest("DELETE", fmt.Sprintf("/api/admin/blocks/%d", empty.ID), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
