// Package memory is a process-local storage backend. It backs the test suite
// and `database.driver: memory`; it enforces the same unique keys as the SQL
// schema.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/iams/internal/app/repositories"
)

// table keeps rows by id and remembers insertion order
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) del(id string) {
	if _, ok := t.rows[id]; !ok {
		return
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
}

// find returns the first row matching fn in insertion order
func (t *table[T]) find(fn func(T) bool) (T, bool) {
	for _, id := range t.order {
		if v := t.rows[id]; fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) filter(fn func(T) bool) []T {
	out := make([]T, 0)
	for _, id := range t.order {
		if v := t.rows[id]; fn(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) clone() *table[T] {
	c := &table[T]{rows: make(map[string]T, len(t.rows)), order: append([]string(nil), t.order...)}
	for k, v := range t.rows {
		c.rows[k] = v
	}
	return c
}

type dataset struct {
	roles       *table[roleRow]
	users       *table[userRow]
	departments *table[departmentRow]
	programs    *table[programRow]
	semesters   *table[semesterRow]
	courses     *table[courseRow]
	offerings   *table[offeringRow]
	faculty     *table[facultyRow]
	students    *table[studentRow]
	enrollments *table[enrollmentRow]
	sessions    *table[sessionRow]
	records     *table[recordRow]
	exams       *table[examRow]
	results     *table[resultRow]
	admissions  *table[admissionRow]
}

func newDataset() *dataset {
	return &dataset{
		roles:       newTable[roleRow](),
		users:       newTable[userRow](),
		departments: newTable[departmentRow](),
		programs:    newTable[programRow](),
		semesters:   newTable[semesterRow](),
		courses:     newTable[courseRow](),
		offerings:   newTable[offeringRow](),
		faculty:     newTable[facultyRow](),
		students:    newTable[studentRow](),
		enrollments: newTable[enrollmentRow](),
		sessions:    newTable[sessionRow](),
		records:     newTable[recordRow](),
		exams:       newTable[examRow](),
		results:     newTable[resultRow](),
		admissions:  newTable[admissionRow](),
	}
}

func (d *dataset) clone() *dataset {
	return &dataset{
		roles:       d.roles.clone(),
		users:       d.users.clone(),
		departments: d.departments.clone(),
		programs:    d.programs.clone(),
		semesters:   d.semesters.clone(),
		courses:     d.courses.clone(),
		offerings:   d.offerings.clone(),
		faculty:     d.faculty.clone(),
		students:    d.students.clone(),
		enrollments: d.enrollments.clone(),
		sessions:    d.sessions.clone(),
		records:     d.records.clone(),
		exams:       d.exams.clone(),
		results:     d.results.clone(),
		admissions:  d.admissions.clone(),
	}
}

// Store implements repositories.Store in memory. One mutex serialises every
// operation; a transaction holds it for its whole duration.
type Store struct {
	mu   sync.Mutex
	data *dataset
	now  func() time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{data: newDataset(), now: func() time.Time { return time.Now().UTC() }}
}

// session is the handle every repository works through
type session struct {
	store *Store
	inTx  bool
}

// run executes fn under the store lock unless a transaction already holds it
func (s *session) run(fn func(d *dataset) error) error {
	if !s.inTx {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()
	}
	return fn(s.store.data)
}

func (s *session) now() time.Time {
	return s.store.now()
}

func (s *Store) bind(inTx bool) *repositories.Repositories {
	sess := &session{store: s, inTx: inTx}
	return &repositories.Repositories{
		Roles:       &roleRepo{sess},
		Users:       &userRepo{sess},
		Departments: &departmentRepo{sess},
		Programs:    &programRepo{sess},
		Semesters:   &semesterRepo{sess},
		Courses:     &courseRepo{sess},
		Offerings:   &offeringRepo{sess},
		Faculty:     &facultyRepo{sess},
		Students:    &studentRepo{sess},
		Enrollments: &enrollmentRepo{sess},
		Attendance:  &attendanceRepo{sess},
		Exams:       &examRepo{sess},
		Admissions:  &admissionRepo{sess},
	}
}

func (s *Store) Repositories() *repositories.Repositories {
	return s.bind(false)
}

// WithinTx runs fn with exclusive access and restores the previous state when
// fn fails or panics
func (s *Store) WithinTx(ctx context.Context, fn repositories.TxFn) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if r := recover(); r != nil {
			s.data = snapshot
			panic(r)
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	return fn(ctx, s.bind(true))
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}

// SetClock replaces the time source; used by tests
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func sortByTimeDesc[T any](rows []T, at func(T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool { return at(rows[i]).After(at(rows[j])) })
}
