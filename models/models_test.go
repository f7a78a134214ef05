package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&User{}, &Department{}, &Program{}, &Semester{}, &Student{},
		&Block{}, &Floor{}, &Room{}, &Seat{}, &ImportLog{})
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSeatLabel(t *testing.T) {
	if got := SeatLabel(3, 12); got != "R3C12" {
		t.Errorf("expected R3C12, got %s", got)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleExamAdmin, RoleInvigilator, RoleStudent} {
		if !ValidRole(role) {
			t.Errorf("expected %q to be valid", role)
		}
	}
	for _, role := range []string{"", "admin", "Student"} {
		if ValidRole(role) {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}

func TestImportLogGetsID(t *testing.T) {
	db := setupTestDB(t)

	entry := ImportLog{Kind: "structure", Status: ImportStatusCompleted}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatal(err)
	}
	if entry.ID == uuid.Nil {
		t.Fatal("expected an id to be assigned")
	}

	fixed := uuid.New()
	preset := ImportLog{ID: fixed, Kind: "students", Status: ImportStatusFailed}
	if err := db.Create(&preset).Error; err != nil {
		t.Fatal(err)
	}
	if preset.ID != fixed {
		t.Error("expected a preset id to be kept")
	}
}

func TestInfrastructurePreload(t *testing.T) {
	db := setupTestDB(t)

	block := Block{Name: "A", Floors: []Floor{
		{Number: 1, Rooms: []Room{{Code: "101", Capacity: 30}, {Code: "102", Capacity: 20}}},
	}}
	if err := db.Create(&block).Error; err != nil {
		t.Fatal(err)
	}

	var loaded Block
	if err := db.Preload("Floors.Rooms").First(&loaded, block.ID).Error; err != nil {
		t.Fatal(err)
	}
	if len(loaded.Floors) != 1 || len(loaded.Floors[0].Rooms) != 2 {
		t.Fatalf("unexpected tree: %+v", loaded)
	}
	if loaded.Floors[0].Rooms[0].RoomType != "classroom" {
		t.Errorf("expected default room type, got %q", loaded.Floors[0].Rooms[0].RoomType)
	}
}

func TestUniqueNaturalKeys(t *testing.T) {
	db := setupTestDB(t)

	block := Block{Name: "A"}
	db.Create(&block)
	floor := Floor{BlockID: block.ID, Number: 1}
	db.Create(&floor)

	if err := db.Create(&Floor{BlockID: block.ID, Number: 1}).Error; err == nil {
		t.Error("expected duplicate floor number within a block to fail")
	}
	if err := db.Create(&Room{FloorID: floor.ID, Code: "101"}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&Room{FloorID: floor.ID, Code: "101"}).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("expected gorm.ErrDuplicatedKey, got %v", err)
	}

	other := Floor{BlockID: block.ID, Number: 2}
	db.Create(&other)
	if err := db.Create(&Room{FloorID: other.ID, Code: "101"}).Error; err != nil {
		t.Errorf("same room code on another floor should be allowed: %v", err)
	}
}
