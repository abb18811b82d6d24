package console

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// RenderCourses writes the course table.
func RenderCourses(w io.Writer, rows []CourseRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tTITLE\tCATEGORY\tCREDITS\tSEMESTER\tDEPARTMENT")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", row.Code, row.Title, row.Category, row.Credits, row.Semester, row.Department)
	}
	return tw.Flush()
}

// RenderRoster writes the roster view, one block per class when grouped.
func RenderRoster(w io.Writer, view RosterView) error {
	if view.Empty {
		_, err := fmt.Fprintln(w, view.EmptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if !view.Grouped {
		fmt.Fprintf(tw, "Total students: %d\n", view.Total)
		if len(view.Groups) == 0 || len(view.Groups[0].Students) == 0 {
			fmt.Fprintln(tw, "No students found")
			return tw.Flush()
		}
		writeStudents(tw, view.Groups[0])
		return tw.Flush()
	}

	fmt.Fprintf(tw, "Total students: %d\n", view.Total)
	for _, group := range view.Groups {
		fmt.Fprintf(tw, "\n%s (%d)\n", group.Label, len(group.Students))
		if len(group.Students) == 0 {
			fmt.Fprintln(tw, "No students found in this class")
			continue
		}
		writeStudents(tw, group)
	}
	return tw.Flush()
}

func writeStudents(w io.Writer, group RosterGroup) {
	fmt.Fprintln(w, "ROLL NO\tNAME\tEMAIL\tGUARDIAN MOBILE")
	for _, student := range group.Students {
		mobile := "-"
		if student.GuardianMobile != nil && *student.GuardianMobile != "" {
			mobile = *student.GuardianMobile
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", student.RollNo, student.Name, student.Email, mobile)
	}
}
