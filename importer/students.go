package importer

import (
	"context"
	"errors"
	"strings"

	"seatsync-backend/models"
	"seatsync-backend/storage"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost is lowered in tests; hashing at the default cost dominates
// large imports otherwise.
var passwordCost = bcrypt.DefaultCost

var studentSchema = Schema{
	Fields: []Field{
		{Name: "roll_number", Required: true, Type: String, Normalize: strings.ToUpper, Rules: []Rule{MaxLen(30)}},
		{Name: "name", Required: true, Type: String, Rules: []Rule{MaxLen(150)}},
		{Name: "email", Required: true, Type: Email},
		{Name: "department_code", Required: true, Type: String, Normalize: strings.ToUpper, Rules: []Rule{MaxLen(20)}},
		{Name: "department_name", Type: String, Rules: []Rule{MaxLen(150)}},
		{Name: "program_code", Required: true, Type: String, Normalize: strings.ToUpper, Rules: []Rule{MaxLen(20)}},
		{Name: "program_name", Type: String, Rules: []Rule{MaxLen(150)}},
		{Name: "semester", Required: true, Type: Int, Rules: []Rule{Between(1, 12)}},
		{Name: "phone", Type: String, Rules: []Rule{MaxLen(20)}},
	},
}

// applyStudent resolves department, program and semester, then upserts the
// student keyed by roll number together with its user account keyed by
// email. New accounts get the roll number as their initial password.
func applyStudent(ctx context.Context, tx storage.Store, res *Resolver, rec Record) (bool, error) {
	deptID, err := res.Department(ctx, rec.String("department_code"), rec.String("department_name"))
	if err != nil {
		return false, err
	}
	programID, err := res.Program(ctx, deptID, rec.String("program_code"), rec.String("program_name"))
	if err != nil {
		return false, err
	}
	semesterID, err := res.Semester(ctx, programID, rec.Int("semester"))
	if err != nil {
		return false, err
	}

	roll := rec.String("roll_number")
	email := rec.String("email")

	var student models.Student
	err = tx.First(ctx, &student, "roll_number = ?", roll)
	exists := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	user, err := accountFor(ctx, tx, email, student.UserID, exists)
	if err != nil {
		return false, err
	}

	user.Email = email
	user.Name = rec.String("name")
	if rec.Has("phone") {
		user.Phone = rec.String("phone")
	}
	if user.ID == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(roll), passwordCost)
		if err != nil {
			return false, err
		}
		user.Password = string(hash)
		user.Role = models.RoleStudent
		user.IsActive = true
		if err := tx.Create(ctx, user); err != nil {
			return false, err
		}
	} else if err := tx.Update(ctx, user); err != nil {
		return false, err
	}

	student.UserID = user.ID
	student.RollNumber = roll
	student.DepartmentID = deptID
	student.ProgramID = programID
	student.SemesterID = semesterID
	if exists {
		return false, tx.Update(ctx, &student)
	}
	return true, tx.Create(ctx, &student)
}

// accountFor finds the user account a student row should write to. An
// existing student keeps its own account; a new student may adopt a student
// account that has no student record yet. Emails owned by anyone else reject
// the row.
func accountFor(ctx context.Context, tx storage.Store, email string, currentUserID uint, studentExists bool) (*models.User, error) {
	var owner models.User
	err := tx.First(ctx, &owner, "LOWER(email) = ?", email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	found := err == nil

	if studentExists {
		if found && owner.ID != currentUserID {
			return nil, &RowError{Field: "email", Reason: "email already belongs to another account"}
		}
		var current models.User
		if err := tx.First(ctx, &current, "id = ?", currentUserID); err != nil {
			return nil, err
		}
		return &current, nil
	}

	if !found {
		return &models.User{}, nil
	}
	if owner.Role != models.RoleStudent {
		return nil, &RowError{Field: "email", Reason: "email already belongs to a non-student account"}
	}
	n, err := tx.Count(ctx, &models.Student{}, "user_id = ?", owner.ID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, &RowError{Field: "email", Reason: "email already belongs to another student"}
	}
	return &owner, nil
}
