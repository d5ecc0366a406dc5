package bootstrap

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/chatbot"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/config"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
)

func testConfig(t *testing.T, generatorURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	csv := "name_of_teacher,subject,semester\nSita Devi,Physics,5\nRam Bahadur,Mathematics,3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bit_data.csv"), []byte(csv), 0o644))

	cfg := config.DefaultConfig()
	cfg.Generator.BaseURL = generatorURL
	cfg.Dataset.DataDir = dir
	cfg.Dataset.Departments = map[string][]string{"BIT": {"bit_data.csv"}}
	cfg.History.SQLite.Path = filepath.Join(dir, "history.db")
	return cfg
}

func TestNewCache(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.Cache.Driver = "none"
	c, err := NewCache(cfg)
	require.NoError(t, err)
	assert.Nil(t, c)

	cfg.Cache.Driver = "memory"
	c, err = NewCache(cfg)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NoError(t, c.Ping(t.Context()))
	assert.NoError(t, c.Close())

	cfg.Cache.Driver = "memcached"
	_, err = NewCache(cfg)
	assert.Error(t, err)
}

func TestNew_EndToEnd(t *testing.T) {
	var (
		mu      sync.Mutex
		prompts []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prompt string `json:"prompt"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		prompts = append(prompts, body.Prompt)
		mu.Unlock()

		fmt.Fprintln(w, `{"response":"**Sita Devi** teaches ","done":false}`)
		fmt.Fprintln(w, `{"response":"Physics.","done":true}`)
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	app, err := New(t.Context(), cfg, observability.Nop())
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.DB)
	require.NotNil(t, app.Answers)
	assert.NoError(t, app.Ping(t.Context()))
	assert.Equal(t, []string{"BIT"}, app.Service.Departments())

	q := chatbot.Query{Message: "What does Sita Devi teach?", UserType: chatbot.UserTypeStudent, Department: "BIT", Role: "student"}
	first := app.Service.Answer(t.Context(), q)
	second := app.Service.Answer(t.Context(), q)

	assert.Equal(t, "Sita Devi teaches Physics.", first.Text)
	assert.True(t, second.Cached)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "- Teacher: Sita Devi, Subject: Physics, Semester: 5")

	recent, err := app.History.ListRecent(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestNew_HistoryDisabled(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.History.Enabled = false
	cfg.Cache.Driver = "none"

	app, err := New(t.Context(), cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.DB)
	assert.Nil(t, app.History)
	assert.Nil(t, app.Answers)
	assert.NoError(t, app.Ping(t.Context()))
	assert.Equal(t, chatbot.InvalidDepartment, app.Service.Respond(t.Context(), chatbot.Query{Message: "hi", UserType: "student", Department: "BBA"}))
}
