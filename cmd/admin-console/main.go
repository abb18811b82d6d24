package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/console"
	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/client"
	"github.com/noah-isme/college-admin-api/pkg/config"
	"github.com/noah-isme/college-admin-api/pkg/jobs"
	"github.com/noah-isme/college-admin-api/pkg/logger"
)

const usage = `usage: admin-console [flags] <command> [args]

commands:
  login <email> <password>   print an access token
  courses                    list the course catalog
  course-create              create a course from flags
  course-update <id>         update a course from flags after confirmation (code is locked)
  course-delete <id>         delete a course
  roster                     browse class rosters
`

func main() {
	var (
		baseURL     = flag.String("base-url", "", "API base URL (defaults to CONSOLE_API_BASE_URL)")
		token       = flag.String("token", "", "bearer token (defaults to CONSOLE_API_TOKEN)")
		yes         = flag.Bool("yes", false, "answer yes to confirmation prompts")
		facultyID   = flag.String("faculty", "", "faculty id used for my-classes filtering")
		allClasses  = flag.Bool("all", false, "show every class instead of only my classes")
		classID     = flag.String("class", console.AllClasses, "class id to show, or all")
		search      = flag.String("search", "", "filter students by name, roll number or email")
		code        = flag.String("code", "", "course code")
		title       = flag.String("title", "", "course title")
		credits     = flag.Int("credits", 3, "course credits")
		category    = flag.String("category", string(models.CourseCategoryCore), "course category")
		semester    = flag.Int("semester", 1, "course semester")
		description = flag.String("description", "", "course description")
		department  = flag.String("department", "", "department id")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if *baseURL == "" {
		*baseURL = cfg.Console.BaseURL
	}
	if *token == "" {
		*token = cfg.Console.Token
	}

	api := client.New(*baseURL, client.WithToken(*token), client.WithTimeout(cfg.Console.Timeout), client.WithLogger(logr))
	notifier := console.NewLogNotifier(logr)
	ctx := context.Background()

	form := console.CourseForm{
		Code:         *code,
		Title:        *title,
		Credits:      *credits,
		Category:     models.CourseCategory(*category),
		Description:  *description,
		Semester:     *semester,
		DepartmentID: *department,
	}

	args := flag.Args()
	switch args[0] {
	case "login":
		if len(args) != 3 {
			flag.Usage()
			os.Exit(2)
		}
		resp, err := api.Login(ctx, args[1], args[2])
		if err != nil {
			fail(logr, client.MessageOf(err, "Login failed"))
		}
		fmt.Println(resp.AccessToken)

	case "courses":
		manager := console.NewCourseManager(api, notifier, logr)
		if err := manager.Load(ctx); err != nil {
			os.Exit(1)
		}
		_ = console.RenderCourses(os.Stdout, manager.Rows())

	case "course-create":
		manager := console.NewCourseManager(api, notifier, logr)
		manager.OpenCreate()
		manager.SetForm(form)
		if err := manager.Submit(ctx); err != nil {
			os.Exit(1)
		}
		_ = console.RenderCourses(os.Stdout, manager.Rows())

	case "course-update", "course-delete":
		if len(args) != 2 {
			flag.Usage()
			os.Exit(2)
		}
		manager := console.NewCourseManager(api, notifier, logr)
		if err := manager.Load(ctx); err != nil {
			os.Exit(1)
		}
		course, ok := findCourse(manager.Courses(), args[1])
		if !ok {
			fail(logr, "course not found: "+args[1])
		}
		if args[0] == "course-delete" {
			if err := manager.Delete(ctx, course, prompter(*yes)); err != nil {
				os.Exit(1)
			}
		} else {
			manager.Edit(course)
			manager.SetForm(mergeForm(manager.Form(), form))
			if !prompter(*yes).Confirm(fmt.Sprintf("Save changes to %s?", course.Title)) {
				manager.CloseDialog()
				fmt.Fprintln(os.Stderr, "update cancelled")
				return
			}
			if err := manager.Submit(ctx); err != nil {
				os.Exit(1)
			}
		}
		_ = console.RenderCourses(os.Stdout, manager.Rows())

	case "roster":
		pool := jobs.NewPool("roster", jobs.PoolConfig{Workers: cfg.Console.RosterConcurrency, Logger: logr})
		roster := console.NewClassRoster(api, pool, notifier, logr)
		session := console.Session{FacultyID: *facultyID}
		if session.FacultyID == "" && *token != "" {
			if me, err := api.Me(ctx); err == nil {
				session = console.Session{FacultyID: me.ID, Role: me.Role}
			} else {
				logr.Warn("session lookup failed", zap.Error(err))
			}
		}
		if err := roster.Load(ctx, session); err != nil {
			os.Exit(1)
		}
		if *allClasses {
			if err := roster.SetMyClassesOnly(ctx, false); err != nil {
				os.Exit(1)
			}
		}
		roster.SelectClass(*classID)
		roster.SetSearch(*search)
		_ = console.RenderRoster(os.Stdout, roster.View())

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func findCourse(courses []models.Course, id string) (models.Course, bool) {
	for _, course := range courses {
		if course.ID == id || strings.EqualFold(course.Code, id) {
			return course, true
		}
	}
	return models.Course{}, false
}

// mergeForm overlays the flags that were set explicitly.
func mergeForm(current, flags console.CourseForm) console.CourseForm {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["title"] {
		current.Title = flags.Title
	}
	if set["credits"] {
		current.Credits = flags.Credits
	}
	if set["category"] {
		current.Category = flags.Category
	}
	if set["semester"] {
		current.Semester = flags.Semester
	}
	if set["description"] {
		current.Description = flags.Description
	}
	if set["department"] {
		current.DepartmentID = flags.DepartmentID
	}
	return current
}

func prompter(assumeYes bool) console.Confirmer {
	return console.ConfirmFunc(func(prompt string) bool {
		if assumeYes {
			return true
		}
		fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	})
}

func fail(logr *zap.Logger, message string) {
	logr.Error(message)
	fmt.Fprintln(os.Stderr, message)
	os.Exit(1)
}
