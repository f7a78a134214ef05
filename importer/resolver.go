package importer

import (
	"context"
	"strconv"
	"strings"

	"seatsync-backend/models"
	"seatsync-backend/storage"
)

type refKey struct {
	kind   string
	parent uint
	key    string
}

// Resolver turns natural keys into surrogate ids, creating missing parents.
// It is scoped to one batch and one transaction; a key is looked up (or
// created) once and served from the cache afterwards.
type Resolver struct {
	tx      storage.Store
	cache   map[refKey]uint
	created int
	// pending holds keys created since the last begin.
	pending []refKey
}

func NewResolver(tx storage.Store) *Resolver {
	return &Resolver{tx: tx, cache: make(map[refKey]uint)}
}

// Created is the number of parent entities this resolver inserted.
func (r *Resolver) Created() int { return r.created }

// begin points the resolver at the savepoint of one row.
func (r *Resolver) begin(tx storage.Store) {
	r.tx = tx
	r.pending = r.pending[:0]
}

// discard forgets the parents created since begin after their savepoint was
// rolled back.
func (r *Resolver) discard() {
	for _, key := range r.pending {
		delete(r.cache, key)
	}
	r.created -= len(r.pending)
	r.pending = r.pending[:0]
}

func (r *Resolver) Block(ctx context.Context, name string) (uint, error) {
	key := refKey{kind: "block", key: strings.ToLower(name)}
	return resolve(ctx, r, key, "block", name,
		func() *models.Block { return &models.Block{Name: name} },
		func(b *models.Block) uint { return b.ID },
		"LOWER(name) = ?", key.key)
}

func (r *Resolver) Floor(ctx context.Context, blockID uint, number int) (uint, error) {
	key := refKey{kind: "floor", parent: blockID, key: strconv.Itoa(number)}
	return resolve(ctx, r, key, "floor", key.key,
		func() *models.Floor { return &models.Floor{BlockID: blockID, Number: number} },
		func(f *models.Floor) uint { return f.ID },
		"block_id = ? AND number = ?", blockID, number)
}

// Department resolves by code. name is only used when the department has to
// be created; it defaults to the code.
func (r *Resolver) Department(ctx context.Context, code, name string) (uint, error) {
	key := refKey{kind: "department", key: strings.ToUpper(code)}
	if name == "" {
		name = code
	}
	return resolve(ctx, r, key, "department_code", code,
		func() *models.Department { return &models.Department{Code: key.key, Name: name} },
		func(d *models.Department) uint { return d.ID },
		"UPPER(code) = ?", key.key)
}

func (r *Resolver) Program(ctx context.Context, departmentID uint, code, name string) (uint, error) {
	key := refKey{kind: "program", parent: departmentID, key: strings.ToUpper(code)}
	if name == "" {
		name = code
	}
	return resolve(ctx, r, key, "program_code", code,
		func() *models.Program { return &models.Program{DepartmentID: departmentID, Code: key.key, Name: name} },
		func(p *models.Program) uint { return p.ID },
		"department_id = ? AND UPPER(code) = ?", departmentID, key.key)
}

func (r *Resolver) Semester(ctx context.Context, programID uint, number int) (uint, error) {
	key := refKey{kind: "semester", parent: programID, key: strconv.Itoa(number)}
	return resolve(ctx, r, key, "semester", key.key,
		func() *models.Semester { return &models.Semester{ProgramID: programID, Number: number} },
		func(s *models.Semester) uint { return s.ID },
		"program_id = ? AND number = ?", programID, number)
}

func resolve[T any](
	ctx context.Context,
	r *Resolver,
	key refKey,
	field, display string,
	build func() *T,
	id func(*T) uint,
	where string, args ...any,
) (uint, error) {
	if cached, ok := r.cache[key]; ok {
		return cached, nil
	}

	var matches []T
	if err := r.tx.Find(ctx, &matches, where, args...); err != nil {
		return 0, err
	}

	switch len(matches) {
	case 0:
		rec := build()
		if err := r.tx.Create(ctx, rec); err != nil {
			return 0, err
		}
		r.created++
		r.pending = append(r.pending, key)
		r.cache[key] = id(rec)
	case 1:
		r.cache[key] = id(&matches[0])
	default:
		return 0, &ResolutionError{Kind: key.kind, Field: field, Key: display, Matches: len(matches)}
	}
	return r.cache[key], nil
}
