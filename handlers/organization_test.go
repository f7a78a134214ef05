package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"seatsync-backend/models"
)

func TestOrganizationChain(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)
	_, token := seedTestUser(db, "admin@uni.edu", models.RoleExamAdmin)

	w := serve(router, authRequest("POST", "/api/admin/departments", map[string]string{"code": " ee ", "name": "Electrical"}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	dept := parseResponse(w)
	if dept["code"] != "EE" {
		t.Errorf("expected normalized code, got %v", dept["code"])
	}
	deptID := uint(dept["id"].(float64))

	w = serve(router, authRequest("POST", "/api/admin/departments", map[string]string{"code": "EE", "name": "Again"}, token))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate code, got %d", w.Code)
	}

	w = serve(router, authRequest("POST", "/api/admin/programs", map[string]interface{}{"department_id": deptID, "code": "btech", "name": "B.Tech"}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	programID := uint(parseResponse(w)["id"].(float64))

	w = serve(router, authRequest("POST", "/api/admin/semesters", map[string]interface{}{"program_id": programID, "number": 3}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	semesterID := uint(parseResponse(w)["id"].(float64))

	w = serve(router, authRequest("POST", "/api/admin/semesters", map[string]interface{}{"program_id": programID, "number": 13}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for semester 13, got %d", w.Code)
	}

	w = serve(router, authRequest("POST", "/api/admin/subjects", map[string]interface{}{"semester_id": semesterID, "code": "ee301", "name": "Signals", "credits": 4}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = serve(router, authRequest("GET", fmt.Sprintf("/api/admin/programs?department_id=%d", deptID), nil, token))
	programs := parseResponseArray(w)
	if len(programs) != 1 {
		t.Fatalf("expected 1 program, got %d", len(programs))
	}
	semesters := programs[0].(map[string]interface{})["semesters"].([]interface{})
	if len(semesters) != 1 {
		t.Errorf("expected semesters preloaded, got %v", semesters)
	}

	w = serve(router, authRequest("GET", fmt.Sprintf("/api/admin/subjects?semester_id=%d", semesterID), nil, token))
	if subjects := parseResponseArray(w); len(subjects) != 1 || subjects[0].(map[string]interface{})["code"] != "EE301" {
		t.Errorf("unexpected subjects: %v", subjects)
	}
}

func TestCreateProgramUnknownDepartment(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)
	_, token := seedTestUser(db, "admin@uni.edu", models.RoleExamAdmin)

	w := serve(router, authRequest("POST", "/api/admin/programs", map[string]interface{}{"department_id": 999, "code": "X", "name": "X"}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDeleteDepartment(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)
	_, token := seedTestUser(db, "admin@uni.edu", models.RoleExamAdmin)

	busy := models.Department{Code: "CS", Name: "Computer Science"}
	db.Create(&busy)
	db.Create(&models.Program{DepartmentID: busy.ID, Code: "BTECH", Name: "B.Tech"})
	empty := models.Department{Code: "ME", Name: "Mechanical"}
	db.Create(&empty)

	w := serve(router, authRequest("DELETE", fmt.Sprintf("/api/admin/departments/%d", busy.ID), nil, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 while programs exist, got %d", w.Code)
	}
	if parseResponse(w)["program_count"] != float64(1) {
		t.Errorf("expected program_count 1, got %v", parseResponse(w))
	}

	w = serve(router, authRequest("DELETE", fmt.Sprintf("/api/admin/departments/%d", empty.ID), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = serve(router, authRequest("DELETE", fmt.Sprintf("/api/admin/departments/%d", empty.ID), nil, token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}

	w = serve(router, authRequest("DELETE", "/api/admin/departments/abc", nil, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}
}
