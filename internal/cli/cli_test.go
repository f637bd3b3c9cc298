package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Adda-Baaj/taskprobe/pkg/taskapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taskService records requests and answers like the real service.
type taskService struct {
	mu        sync.Mutex
	bodies    map[string][]map[string]any
	passwords map[string]string
}

func (s *taskService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body := map[string]any{}
	switch {
	case strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"):
		_ = json.NewDecoder(r.Body).Decode(&body)
	case strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"):
		_ = r.ParseMultipartForm(1 << 20)
		body["email"] = r.FormValue("email")
		body["files"] = len(r.MultipartForm.File)
	default:
		_ = r.ParseForm()
		body["email"] = r.PostForm.Get("email")
	}
	s.bodies[r.URL.Path] = append(s.bodies[r.URL.Path], body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	switch r.URL.Path {
	case taskapi.EndpointRegister:
		s.passwords[body["email"].(string)] = body["password"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{"name": body["name"], "email": body["email"]})
	case taskapi.EndpointLogin:
		if s.passwords[body["email"].(string)] != body["password"] {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"result":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":true,"token":"tok"}`))
	default:
		_, _ = w.Write([]byte(`{"type":"success"}`))
	}
}

func setupEnv(t *testing.T) *taskService {
	t.Helper()
	svc := &taskService{bodies: map[string][]map[string]any{}, passwords: map[string]string{}}
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("BASE_URL", srv.URL)
	t.Setenv("IDENTITY_SOURCE", "local")
	t.Setenv("LOG_FILE", filepath.Join(dir, "user_tests.log"))
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_TYPE", "bbolt")
	t.Setenv("BBOLT_PATH", filepath.Join(dir, "accounts.db"))
	return svc
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Execute(context.Background(), args, &out)
	return out.String(), err
}

func TestRegisterThenLoginWithSavedPassword(t *testing.T) {
	svc := setupEnv(t)

	out, err := run(t, "register", "--count", "3")
	require.NoError(t, err)

	var regs map[string]taskapi.Registration
	require.NoError(t, json.Unmarshal([]byte(out), &regs))
	assert.Len(t, regs, 3)
	for _, key := range []string{"0", "1", "2"} {
		assert.Contains(t, regs, key)
	}
	assert.Len(t, svc.bodies[taskapi.EndpointRegister], 3)

	out, err = run(t, "login", "--email", regs["1"].Email)
	require.NoError(t, err)
	assert.Contains(t, out, `"token": "tok"`)

	out, err = run(t, "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, regs["2"].Email)
}

func TestLoginFailsWithWrongPassword(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "login", "--email", "nobody@example.com", "--password", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCreateUserSendsOnlyGivenProfileFields(t *testing.T) {
	svc := setupEnv(t)

	_, err := run(t, "create-user", "--email", "u@example.com", "--name", "u",
		"--task", "1", "--task", "2", "--hobby", "chess", "--with-tasks")
	require.NoError(t, err)

	bodies := svc.bodies[taskapi.EndpointCreateUserWithTasks]
	require.Len(t, bodies, 1)
	assert.Equal(t, "chess", bodies[0]["hobby"])
	assert.Nil(t, bodies[0]["phone"])
	assert.Contains(t, bodies[0], "phone")
	assert.Equal(t, []any{float64(1), float64(2)}, bodies[0]["tasks"])
}

func TestCreateTaskAndCompany(t *testing.T) {
	svc := setupEnv(t)

	_, err := run(t, "create-task", "--title", "Report", "--assign", "a@example.com", "--owner", "b@example.com")
	require.NoError(t, err)
	_, err = run(t, "create-company", "--name", "Acme", "--type", "OOO", "--user", "a@example.com", "--user", "b@example.com")
	require.NoError(t, err)

	require.Len(t, svc.bodies[taskapi.EndpointCreateTask], 1)
	assert.Equal(t, "Report", svc.bodies[taskapi.EndpointCreateTask][0]["task_title"])
	require.Len(t, svc.bodies[taskapi.EndpointCreateCompany], 1)
	assert.Len(t, svc.bodies[taskapi.EndpointCreateCompany][0]["company_users"], 2)
}

func TestAvatarCommands(t *testing.T) {
	svc := setupEnv(t)
	img := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0o644))

	_, err := run(t, "add-avatar", "--email", "u@example.com", "--file", img)
	require.NoError(t, err)
	_, err = run(t, "delete-avatar", "--email", "u@example.com")
	require.NoError(t, err)

	require.Len(t, svc.bodies[taskapi.EndpointAddAvatar], 1)
	assert.Equal(t, 1, svc.bodies[taskapi.EndpointAddAvatar][0]["files"])
	require.Len(t, svc.bodies[taskapi.EndpointDeleteAvatar], 1)
	assert.Equal(t, "u@example.com", svc.bodies[taskapi.EndpointDeleteAvatar][0]["email"])
}

func TestSeedCommand(t *testing.T) {
	svc := setupEnv(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
companies:
  - company_name: Acme
users:
  - email: a@example.com
    name: a
tasks:
  - task_title: Report
    email_assign: a@example.com
`), 0o644))

	out, err := run(t, "seed", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"succeeded": 3`)
	assert.Len(t, svc.bodies[taskapi.EndpointCreateUser], 1)
}

func TestRegisterRejectsZeroCount(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "register", "--count", "0")
	require.Error(t, err)
}

func TestInvalidBaseURLFlag(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "--base-url", "not-a-url", "delete-avatar", "--email", "u@example.com")
	require.Error(t, err)

	_, err = run(t, "--base-url", "ftp://example.com", "delete-avatar", "--email", "u@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http(s)")
}

func TestHelpAndCompletionSkipSession(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "accounts.db")
	logPath := filepath.Join(dir, "user_tests.log")
	t.Setenv("BASE_URL", "not-a-url")
	t.Setenv("BBOLT_PATH", dbPath)
	t.Setenv("LOG_FILE", logPath)

	out, err := run(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "create-task")

	_, err = run(t, "completion", "bash")
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "help must not create the ledger")
	_, err = os.Stat(logPath)
	assert.True(t, os.IsNotExist(err), "help must not create the log file")

	_, err = run(t, "accounts")
	require.Error(t, err)
}
