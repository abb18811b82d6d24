package console

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/client"
	"github.com/noah-isme/college-admin-api/pkg/jobs"
)

// AllClasses selects the grouped view across every class.
const AllClasses = "all"

const (
	emptyMyClasses  = "No classes assigned to you yet"
	emptyAllClasses = "No classes found"
)

// Session identifies the signed-in faculty member.
type Session struct {
	FacultyID string
	Role      models.FacultyRole
}

// RosterGroup is one class and its filtered students.
type RosterGroup struct {
	Class    models.Class
	Label    string
	Students []models.Student
}

// RosterView is the render-ready state of the roster browser.
type RosterView struct {
	Empty        bool
	EmptyMessage string
	Grouped      bool
	Groups       []RosterGroup
	Total        int
}

// ClassRoster browses the students of the classes reachable through course allocations.
type ClassRoster struct {
	api    RosterAPI
	pool   *jobs.Pool
	notify Notifier
	logger *zap.Logger

	session       Session
	myClassesOnly bool
	selected      string
	search        string

	classes []models.Class
	rosters map[string][]models.Student
}

// NewClassRoster builds a roster view. A nil pool fetches rosters one class at a time.
func NewClassRoster(api RosterAPI, pool *jobs.Pool, notify Notifier, logger *zap.Logger) *ClassRoster {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notify == nil {
		notify = NewLogNotifier(logger)
	}
	if pool == nil {
		pool = jobs.NewPool("roster", jobs.PoolConfig{Workers: 1, Logger: logger})
	}
	return &ClassRoster{
		api:           api,
		pool:          pool,
		notify:        notify,
		logger:        logger,
		myClassesOnly: true,
		selected:      AllClasses,
		rosters:       map[string][]models.Student{},
	}
}

// Load fetches allocations for session, derives the distinct classes and then their rosters.
// When the allocation request fails the previously loaded state is kept.
func (r *ClassRoster) Load(ctx context.Context, session Session) error {
	r.session = session
	return r.reload(ctx)
}

// SetMyClassesOnly toggles the faculty filter and reloads.
func (r *ClassRoster) SetMyClassesOnly(ctx context.Context, on bool) error {
	r.myClassesOnly = on
	return r.reload(ctx)
}

// MyClassesOnly reports the faculty filter state.
func (r *ClassRoster) MyClassesOnly() bool {
	return r.myClassesOnly
}

// SelectClass switches between AllClasses and a single class id.
func (r *ClassRoster) SelectClass(id string) {
	if strings.TrimSpace(id) == "" {
		id = AllClasses
	}
	r.selected = id
}

// SetSearch sets the free-text student filter.
func (r *ClassRoster) SetSearch(text string) {
	r.search = text
}

// Classes returns the distinct classes in first-seen order.
func (r *ClassRoster) Classes() []models.Class {
	return r.classes
}

func (r *ClassRoster) reload(ctx context.Context) error {
	query := client.AllocationQuery{}
	if r.myClassesOnly && r.session.FacultyID != "" {
		query.FacultyID = r.session.FacultyID
	}

	allocations, err := r.api.GetCourseAllocations(ctx, query)
	if err != nil {
		r.logger.Error("fetch course allocations failed", zap.Error(err))
		r.notify.Error(client.MessageOf(err, "Failed to load classes"))
		return err
	}

	classes := distinctClasses(allocations)
	tasks := make([]jobs.Task[[]models.Student], len(classes))
	for i, class := range classes {
		classID := class.ID
		tasks[i] = func(ctx context.Context) ([]models.Student, error) {
			return r.api.GetClassStudents(ctx, classID)
		}
	}

	rosters := make(map[string][]models.Student, len(classes))
	for _, result := range jobs.Run(ctx, r.pool, tasks) {
		class := classes[result.Index]
		if result.Err != nil {
			r.logger.Warn("fetch class roster failed", zap.String("class_id", class.ID), zap.Error(result.Err))
			rosters[class.ID] = []models.Student{}
			continue
		}
		rosters[class.ID] = result.Value
	}

	r.classes = classes
	r.rosters = rosters
	return nil
}

// distinctClasses keeps resolved classes only, deduplicated by id. The position is that of the
// first occurrence and the value that of the last.
func distinctClasses(allocations []models.CourseAllocation) []models.Class {
	index := map[string]int{}
	classes := make([]models.Class, 0, len(allocations))
	for _, allocation := range allocations {
		if !allocation.Class.IsResolved() || allocation.Class.ID == "" {
			continue
		}
		class := *allocation.Class.Value
		class.ID = allocation.Class.ID
		if i, ok := index[class.ID]; ok {
			classes[i] = class
			continue
		}
		index[class.ID] = len(classes)
		classes = append(classes, class)
	}
	return classes
}

// View renders the current state.
func (r *ClassRoster) View() RosterView {
	if len(r.classes) == 0 {
		message := emptyAllClasses
		if r.myClassesOnly {
			message = emptyMyClasses
		}
		return RosterView{Empty: true, EmptyMessage: message}
	}

	if r.selected == AllClasses {
		view := RosterView{Grouped: true, Groups: make([]RosterGroup, 0, len(r.classes))}
		for _, class := range r.classes {
			students := r.filtered(class.ID)
			view.Total += len(students)
			view.Groups = append(view.Groups, RosterGroup{Class: class, Label: models.ClassLabel(class), Students: students})
		}
		return view
	}

	view := RosterView{}
	for _, class := range r.classes {
		if class.ID != r.selected {
			continue
		}
		students := r.filtered(class.ID)
		view.Total = len(students)
		view.Groups = []RosterGroup{{Class: class, Label: models.ClassLabel(class), Students: students}}
		break
	}
	return view
}

func (r *ClassRoster) filtered(classID string) []models.Student {
	roster := r.rosters[classID]
	needle := strings.ToLower(strings.TrimSpace(r.search))
	if needle == "" {
		return roster
	}
	matches := make([]models.Student, 0, len(roster))
	for _, student := range roster {
		if matchesStudent(student, needle) {
			matches = append(matches, student)
		}
	}
	return matches
}

func matchesStudent(student models.Student, needle string) bool {
	return strings.Contains(strings.ToLower(student.Name), needle) ||
		strings.Contains(strings.ToLower(student.RollNo), needle) ||
		strings.Contains(strings.ToLower(student.Email), needle)
}
