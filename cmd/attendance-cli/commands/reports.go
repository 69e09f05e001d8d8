package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jgirmay/attendance/cmd/attendance-cli/output"
	"github.com/jgirmay/attendance/pkg/client"
)

func StatsCommand(args []string) error {
	fs, g := newFlagSet("stats")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.apply()

	return withSession(g, func(c *client.Client, sess *client.Session) error {
		if err := requireSignedIn(sess); err != nil {
			return err
		}
		stats, err := c.EmployeeStats(context.Background(), sess)
		if err != nil {
			return err
		}
		if g.json() {
			return output.PrintJSON(stats)
		}
		output.PrintKeyValue("Present", strconv.Itoa(stats.Present))
		output.PrintKeyValue("Late", strconv.Itoa(stats.Late))
		output.PrintKeyValue("Half day", strconv.Itoa(stats.HalfDay))
		output.PrintKeyValue("Absent", strconv.Itoa(stats.Absent))
		output.PrintKeyValue("Total hours", stats.TotalHours)
		return nil
	})
}

func TeamCommand(args []string) error {
	fs, g := newFlagSet("team")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.apply()

	return withSession(g, func(c *client.Client, sess *client.Session) error {
		if err := requireSignedIn(sess); err != nil {
			return err
		}
		stats, err := c.ManagerStats(context.Background(), sess)
		if err != nil {
			return err
		}
		if g.json() {
			return output.PrintJSON(stats)
		}
		output.PrintKeyValue("Employees", strconv.FormatInt(stats.TotalEmployees, 10))
		output.PrintKeyValue("Present today", strconv.Itoa(stats.PresentCount))
		output.PrintKeyValue("Late today", strconv.Itoa(stats.LateCount))
		output.PrintKeyValue("Absent today", strconv.Itoa(stats.AbsentCount))
		fmt.Fprintln(output.Out)

		rows := make([][]string, 0, len(stats.WeeklyStats))
		for _, d := range stats.WeeklyStats {
			rows = append(rows, []string{d.Name, d.Date, strconv.Itoa(d.Present), strconv.Itoa(d.Late), strconv.Itoa(d.Absent)})
		}
		output.PrintTable([]string{"DAY", "DATE", "PRESENT", "LATE", "ABSENT"}, rows)
		return nil
	})
}

func ExportCommand(args []string) error {
	fs, g := newFlagSet("export")
	start := fs.String("start", "", "First day (YYYY-MM-DD)")
	end := fs.String("end", "", "Last day (YYYY-MM-DD)")
	out := fs.String("out", "", "Write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.apply()

	return withSession(g, func(c *client.Client, sess *client.Session) error {
		if err := requireSignedIn(sess); err != nil {
			return err
		}
		data, err := c.ExportCSV(context.Background(), sess, *start, *end)
		if err != nil {
			return err
		}
		if *out == "" {
			_, err = output.Out.Write(data)
			return err
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			return err
		}
		output.PrintSuccess("Wrote " + *out)
		return nil
	})
}
