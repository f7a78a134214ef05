package importer

import (
	"context"
	"strings"

	"seatsync-backend/models"
	"seatsync-backend/storage"
)

var structureSchema = Schema{
	Fields: []Field{
		{Name: "block", Required: true, Type: String, Rules: []Rule{MaxLen(100)}},
		{Name: "floor", Required: true, Type: Int, Rules: []Rule{Between(-5, 200)}},
		{Name: "room", Required: true, Type: String, Normalize: strings.ToUpper, Rules: []Rule{MaxLen(20)}},
		{Name: "capacity", Required: true, Type: Int, Rules: []Rule{NonNegative}},
		{Name: "seat_rows", Type: Int, Rules: []Rule{Between(0, models.MaxSeatGridSide)}},
		{Name: "seat_columns", Type: Int, Rules: []Rule{Between(0, models.MaxSeatGridSide)}},
		{Name: "room_type", Type: String, Normalize: strings.ToLower, Rules: []Rule{OneOf("classroom", "lab", "hall")}},
	},
	Checks: []CrossCheck{seatLayoutCoversCapacity},
}

func seatLayoutCoversCapacity(rec Record) (string, string) {
	if !rec.Has("seat_rows") || !rec.Has("seat_columns") {
		return "", ""
	}
	if rec.Int("seat_rows")*rec.Int("seat_columns") < rec.Int("capacity") {
		return "capacity", "capacity exceeds seat_rows x seat_columns"
	}
	return "", ""
}

// applyStructure resolves the block and floor of a row and upserts the room,
// keyed by room code within its floor.
func applyStructure(ctx context.Context, tx storage.Store, res *Resolver, rec Record) (bool, error) {
	blockID, err := res.Block(ctx, rec.String("block"))
	if err != nil {
		return false, err
	}
	floorID, err := res.Floor(ctx, blockID, rec.Int("floor"))
	if err != nil {
		return false, err
	}

	code := rec.String("room")
	return upsert(ctx, tx,
		func() *models.Room { return &models.Room{FloorID: floorID, Code: code, RoomType: "classroom"} },
		func(room *models.Room) {
			room.Capacity = rec.Int("capacity")
			if rec.Has("seat_rows") {
				room.SeatRows = rec.Int("seat_rows")
			}
			if rec.Has("seat_columns") {
				room.SeatColumns = rec.Int("seat_columns")
			}
			if rec.Has("room_type") {
				room.RoomType = rec.String("room_type")
			}
		},
		"floor_id = ? AND code = ?", floorID, code)
}
