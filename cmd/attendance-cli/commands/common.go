package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jgirmay/attendance/cmd/attendance-cli/output"
	"github.com/jgirmay/attendance/pkg/client"
)

const defaultServer = "http://localhost:5000"

// globalFlags are accepted by every command.
type globalFlags struct {
	server      *string
	sessionPath *string
	format      *string
	noColor     *bool
}

func newFlagSet(name string) (*flag.FlagSet, *globalFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	server := os.Getenv("ATTENDANCE_URL")
	if server == "" {
		server = defaultServer
	}
	g := &globalFlags{
		server:      fs.String("server", server, "API server base URL"),
		sessionPath: fs.String("session", defaultSessionPath(), "Session file"),
		format:      fs.String("format", "text", "Output format (text, json)"),
		noColor:     fs.Bool("no-color", false, "Disable colored output"),
	}
	return fs, g
}

func (g *globalFlags) apply() {
	output.NoColor = *g.noColor
}

func (g *globalFlags) client() *client.Client {
	return client.New(*g.server)
}

func (g *globalFlags) json() bool {
	return *g.format == "json"
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".attendance-session.json"
	}
	return filepath.Join(home, ".attendance-session.json")
}

// loadSession reads the session file. A missing file yields an empty
// session.
func loadSession(path string) (*client.Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return client.NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var saved client.SavedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", path, err)
	}
	return client.RestoreSession(saved), nil
}

// storeSession writes sess back, removing the file once it is signed out.
func storeSession(path string, sess *client.Session) error {
	if !sess.Authenticated() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	data, err := json.Marshal(sess.Save())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// withSession loads the session, runs fn, and persists whatever state fn
// left behind; a 401 inside fn signs the session out on disk too.
func withSession(g *globalFlags, fn func(c *client.Client, sess *client.Session) error) error {
	sess, err := loadSession(*g.sessionPath)
	if err != nil {
		return err
	}
	runErr := fn(g.client(), sess)
	if err := storeSession(*g.sessionPath, sess); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func requireSignedIn(sess *client.Session) error {
	if !sess.Authenticated() {
		return errors.New("not signed in; run `attendance-cli login` first")
	}
	return nil
}
