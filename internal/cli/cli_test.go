package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sprig-core/internal/api"
	"github.com/mcoot/sprig-core/internal/factory"
	"github.com/mcoot/sprig-core/internal/testutil"
)

type CLISuite struct {
	suite.Suite
	app       *factory.TestApp
	server    *httptest.Server
	tokenFile string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:     testutil.NopLogger(),
		Identity:   s.app.Identity,
		Sessions:   s.app.Sessions,
		LoginCodes: s.app.LoginCodes,
		Games:      s.app.Games,
		Snapshots:  s.app.Snapshots,
	}))
	s.tokenFile = filepath.Join(s.T().TempDir(), "token")
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
}

// run executes the CLI with JSON output and returns stdout
func (s *CLISuite) run(args ...string) (string, error) {
	s.T().Setenv("SPRIG_TOKEN", "")
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--server", s.server.URL,
		"--token-file", s.tokenFile,
		"--output", "json",
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (s *CLISuite) mustRun(result any, args ...string) {
	out, err := s.run(args...)
	s.Require().NoError(err, "output: %s", out)
	if result != nil {
		s.Require().NoError(json.Unmarshal([]byte(out), result), "output: %s", out)
	}
}

func (s *CLISuite) savedToken() string {
	data, err := os.ReadFile(s.tokenFile)
	s.Require().NoError(err)
	return string(data)
}

func (s *CLISuite) TestHealth() {
	var result HealthResult
	s.mustRun(&result, "health")
	s.Equal("ok", result.Status)
}

func (s *CLISuite) TestLoginEmailSavesToken() {
	var result SessionResult
	s.mustRun(&result, "login", "email", "--email", "ada@example.com", "--username", "ada")

	s.Equal("partial", result.Session.Tier)
	s.Equal("ada@example.com", result.User.Email)
	s.Require().NotNil(result.User.Username)
	s.Equal("ada", *result.User.Username)
	s.Equal(result.Session.ID, s.savedToken())

	var whoami SessionResult
	s.mustRun(&whoami, "whoami")
	s.Equal(result.Session.ID, whoami.Session.ID)
	s.Equal(result.User.ID, whoami.User.ID)
}

func (s *CLISuite) TestLoginCodeEscalatesSession() {
	var partial SessionResult
	s.mustRun(&partial, "login", "email", "--email", "ada@example.com")

	s.mustRun(nil, "login", "request-code")
	code := s.app.MockMailer.LastCode()
	s.Require().Len(code, 6)

	var full SessionResult
	s.mustRun(&full, "login", "code", code)
	s.Equal("full", full.Session.Tier)
	s.True(full.Session.Full)
	s.Equal(partial.Session.ID, full.Session.ID)

	// Codes are single use
	_, err := s.run("login", "code", code)
	s.Error(err)
}

func (s *CLISuite) TestWhoamiWithoutSession() {
	_, err := s.run("whoami")
	s.Require().Error(err)
	s.Contains(err.Error(), "UNAUTHORIZED")
}

func (s *CLISuite) TestGameLifecycle() {
	s.mustRun(nil, "login", "email", "--email", "ada@example.com", "--username", "ada")

	var game Game
	s.mustRun(&game, "game", "create", "--name", "garden", "--code", "draw()", "--unprotected")
	s.Equal("garden", game.Name)
	s.Equal("draw()", game.Code)
	s.True(game.Unprotected)
	s.Nil(game.TutorialName)

	var fetched Game
	s.mustRun(&fetched, "game", "get", game.ID)
	s.Equal(game.ID, fetched.ID)

	var updated Game
	s.mustRun(&updated, "game", "update", game.ID, "--name", "orchard")
	s.Equal("orchard", updated.Name)
	s.Equal("draw()", updated.Code)

	var snap Snapshot
	s.mustRun(&snap, "snapshot", "create", game.ID)
	s.Equal("orchard", snap.Name)
	s.Require().NotNil(snap.OwnerName)
	s.Equal("ada", *snap.OwnerName)

	var data SnapshotData
	s.mustRun(&data, "snapshot", "get", snap.ID)
	s.Equal("draw()", data.Code)

	s.mustRun(nil, "game", "delete", game.ID)
	_, err := s.run("game", "get", game.ID)
	s.Error(err)

	// Snapshot outlives the game and falls back to the frozen name
	s.mustRun(&data, "snapshot", "get", snap.ID)
	s.Equal("orchard", data.Name)
}

func (s *CLISuite) TestProtectedGameNeedsFullSession() {
	s.mustRun(nil, "login", "email", "--email", "ada@example.com")

	var game Game
	s.mustRun(&game, "game", "create", "--name", "garden")
	s.False(game.Unprotected)

	_, err := s.run("game", "update", game.ID, "--code", "x")
	s.Require().Error(err)
	s.Contains(err.Error(), "FORBIDDEN")
}

func (s *CLISuite) TestGameCreateFromCodeFile() {
	s.mustRun(nil, "login", "email", "--email", "ada@example.com")

	path := filepath.Join(s.T().TempDir(), "game.js")
	s.Require().NoError(os.WriteFile(path, []byte("setMap(level)"), 0600))

	var game Game
	s.mustRun(&game, "game", "create", "--code-file", path, "--tutorial-name", "intro", "--tutorial-index", "2")
	s.Equal("setMap(level)", game.Code)
	s.NotEmpty(game.Name)
	s.Require().NotNil(game.TutorialName)
	s.Equal("intro", *game.TutorialName)
	s.Require().NotNil(game.TutorialIndex)
	s.Equal(2, *game.TutorialIndex)
}

func (s *CLISuite) TestGameUpdateRequiresAField() {
	s.mustRun(nil, "login", "email", "--email", "ada@example.com")
	_, err := s.run("game", "update", "some-id")
	s.Error(err)
}

func TestOutputText(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput("text", &buf)
	name := "ada"

	out.Print(SnapshotData{ID: "s1", Name: "garden", OwnerName: &name, Code: "draw()"})
	text := buf.String()
	assert.Contains(t, text, "Snapshot: s1")
	assert.Contains(t, text, "Owner: ada")
	assert.True(t, strings.HasSuffix(text, "draw()\n"))

	buf.Reset()
	out.Print(Snapshot{ID: "s2", GameID: "g1", Name: "garden"})
	assert.Contains(t, buf.String(), "Owner: (none)")
}

func TestOutputJSONMessage(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("json", &buf).PrintMessage("Game deleted")

	var msg map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msg))
	assert.Equal(t, "Game deleted", msg["message"])
}

func TestConfigLoadTokenTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("abc\n"), 0600))

	c := &Config{TokenFile: path}
	require.NoError(t, c.LoadToken())
	assert.Equal(t, "abc", c.Token)

	missing := &Config{TokenFile: filepath.Join(t.TempDir(), "nope")}
	require.NoError(t, missing.LoadToken())
	assert.Empty(t, missing.Token)
}
