package main

import (
	"fmt"
	"os"

	"github.com/jgirmay/attendance/cmd/attendance-cli/commands"
	"github.com/jgirmay/attendance/cmd/attendance-cli/output"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		output.PrintError(err.Error())
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return nil
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "register":
		return commands.RegisterCommand(args)
	case "login":
		return commands.LoginCommand(args)
	case "logout":
		return commands.LogoutCommand(args)
	case "whoami":
		return commands.WhoAmICommand(args)
	case "checkin":
		return commands.CheckInCommand(args)
	case "checkout":
		return commands.CheckOutCommand(args)
	case "today":
		return commands.TodayCommand(args)
	case "history":
		return commands.HistoryCommand(args)
	case "stats":
		return commands.StatsCommand(args)
	case "team":
		return commands.TeamCommand(args)
	case "export":
		return commands.ExportCommand(args)
	case "version":
		fmt.Printf("attendance-cli version %s\n", version)
		return nil
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Print(`attendance-cli - Command-line client for the attendance tracker

Usage:
  attendance-cli <command> [flags]

Account:
  register    Create an account and sign in
  login       Sign in
  logout      Sign out
  whoami      Show the signed-in account

Attendance:
  checkin     Check in for today
  checkout    Check out for today
  today       Show today's record
  history     List your records
  stats       Show this month's summary

Managers:
  team        Today's totals and the last seven days
  export      Download records as CSV (--start, --end, --out)

Common flags:
  --server    API base URL (default $ATTENDANCE_URL or http://localhost:5000)
  --session   Session file (default ~/.attendance-session.json)
  --format    text or json
  --no-color  Disable colored output
`)
}
