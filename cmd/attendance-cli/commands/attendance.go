package commands

import (
	"context"

	"github.com/jgirmay/attendance/cmd/attendance-cli/output"
	"github.com/jgirmay/attendance/pkg/client"
	"github.com/jgirmay/attendance/pkg/models"
)

func CheckInCommand(args []string) error {
	return transition("checkin", args, (*client.Client).CheckIn, "Checked in")
}

func CheckOutCommand(args []string) error {
	return transition("checkout", args, (*client.Client).CheckOut, "Checked out")
}

type transitionFunc func(*client.Client, context.Context, *client.Session) (*models.AttendanceRecord, error)

func transition(name string, args []string, call transitionFunc, banner string) error {
	fs, g := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.apply()

	return withSession(g, func(c *client.Client, sess *client.Session) error {
		if err := requireSignedIn(sess); err != nil {
			return err
		}
		rec, err := call(c, context.Background(), sess)
		if err != nil {
			return err
		}
		if g.json() {
			return output.PrintJSON(rec)
		}
		output.PrintSuccess(banner)
		printRecord(rec)
		return nil
	})
}

func TodayCommand(args []string) error {
	fs, g := newFlagSet("today")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.apply()

	return withSession(g, func(c *client.Client, sess *client.Session) error {
		if err := requireSignedIn(sess); err != nil {
			return err
		}
		rec, err := c.Today(context.Background(), sess)
		if err != nil {
			return err
		}
		if g.json() {
			return output.PrintJSON(rec)
		}
		if rec == nil {
			output.PrintInfo("Not checked in today")
			return nil
		}
		printRecord(rec)
		return nil
	})
}

func HistoryCommand(args []string) error {
	fs, g := newFlagSet("history")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.apply()

	return withSession(g, func(c *client.Client, sess *client.Session) error {
		if err := requireSignedIn(sess); err != nil {
			return err
		}
		records, err := c.History(context.Background(), sess)
		if err != nil {
			return err
		}
		if g.json() {
			return output.PrintJSON(records)
		}
		if len(records) == 0 {
			output.PrintInfo("No attendance recorded yet")
			return nil
		}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, output.RecordRow(r))
		}
		output.PrintTable(output.RecordHeaders, rows)
		return nil
	})
}

func printRecord(rec *models.AttendanceRecord) {
	row := output.RecordRow(*rec)
	output.PrintKeyValue("Date", row[0])
	output.PrintKeyValue("Status", row[1])
	output.PrintKeyValue("Check in", row[2])
	output.PrintKeyValue("Check out", row[3])
	output.PrintKeyValue("Hours", row[4])
}
