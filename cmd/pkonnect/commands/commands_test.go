package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect/ui"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/chatbot"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/config"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/dataset"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/retrieval"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/storage"
)

type fakeAnswerer struct {
	mu      sync.Mutex
	queries []chatbot.Query
}

func (f *fakeAnswerer) Answer(ctx context.Context, q chatbot.Query) chatbot.Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return chatbot.Answer{Text: "echo: " + q.Message, RequestID: "req-1", Phase: retrieval.PhaseKeyword, Matches: 2}
}

func setup(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg = config.DefaultConfig()
	logger = observability.Nop()

	var stdout, stderr bytes.Buffer
	ui.InitUI(true, false)
	ui.SetOutput(&stdout, &stderr)
	t.Cleanup(func() { ui.SetOutput(os.Stdout, os.Stderr) })
	return &stdout, &stderr
}

func TestChatLoop(t *testing.T) {
	stdout, _ := setup(t)
	svc := &fakeAnswerer{}
	input := strings.NewReader("hello there\n\nWho teaches Physics?\nQUIT\nnever read\n")

	base := chatbot.Query{UserType: chatbot.UserTypeStudent, Department: "BIT", Role: "student"}
	require.NoError(t, chatLoop(t.Context(), svc, ui.NewPrompter(input), base, false))

	require.Len(t, svc.queries, 2)
	assert.Equal(t, "hello there", svc.queries[0].Message)
	assert.Equal(t, "BIT", svc.queries[1].Department)
	assert.Equal(t, "student", svc.queries[1].Role)

	out := stdout.String()
	assert.Contains(t, out, "Bot: echo: Who teaches Physics?\n")
	assert.True(t, strings.HasSuffix(out, "Bot: Goodbye!\n"))
	assert.NotContains(t, out, "never read")
}

func TestChatLoop_EOF(t *testing.T) {
	stdout, _ := setup(t)
	svc := &fakeAnswerer{}

	require.NoError(t, chatLoop(t.Context(), svc, ui.NewPrompter(strings.NewReader("")), chatbot.Query{UserType: "guest"}, false))
	assert.Empty(t, svc.queries)
	assert.Contains(t, stdout.String(), "Bot: Goodbye!")
}

func TestChatLoop_Cancelled(t *testing.T) {
	setup(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	svc := &fakeAnswerer{}
	require.NoError(t, chatLoop(ctx, svc, ui.NewPrompter(strings.NewReader("question\n")), chatbot.Query{UserType: "guest"}, false))
	assert.Empty(t, svc.queries)
}

func TestAsk_JSON(t *testing.T) {
	setup(t)
	var buf bytes.Buffer

	err := ask(t.Context(), &fakeAnswerer{}, chatbot.Query{Message: "fees?", UserType: "guest"}, true, &buf)
	require.NoError(t, err)

	var out askOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "echo: fees?", out.Response)
	assert.Equal(t, "req-1", out.RequestID)
	assert.Equal(t, "keyword", out.Phase)
	assert.Equal(t, 2, out.Matches)
}

func TestCheckDatasets(t *testing.T) {
	stdout, _ := setup(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bit.csv"), []byte("name_of_teacher,subject\nSita,Physics\nRam,Maths\n"), 0o644))

	loader := dataset.NewLoader(dataset.Config{
		DataDir:     dir,
		Departments: map[string][]string{"BIT": {"bit.csv", "absent.xlsx"}},
	}, nil)

	require.NoError(t, checkDatasets(loader, nil))
	out := stdout.String()
	assert.Regexp(t, `BIT\s+bit\.csv\s+2\s+ok`, out)
	assert.Regexp(t, `BIT\s+absent\.xlsx\s+0\s+missing`, out)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "absent.xlsx"), []byte("not a zip"), 0o644))
	assert.Error(t, checkDatasets(loader, []string{"BIT"}))
	assert.Error(t, checkDatasets(loader, []string{"BBA"}))
}

func TestShowHistory(t *testing.T) {
	stdout, _ := setup(t)

	db, err := storage.Open(t.Context(), "sqlite3", ":memory:", 0)
	require.NoError(t, err)
	defer db.Close()
	repo := storage.NewExchangeRepository(db, storage.DialectSQLite)
	require.NoError(t, repo.EnsureSchema(t.Context()))

	require.NoError(t, showHistory(t.Context(), repo, 10))
	assert.Contains(t, stdout.String(), "No exchanges recorded yet")

	require.NoError(t, repo.Create(t.Context(), &storage.Exchange{
		RequestID:  "r1",
		UserType:   "student",
		Department: "BIT",
		Message:    "Who teaches Physics?",
		MatchPhase: "keyword",
		MatchCount: 3,
		Cached:     true,
		LatencyMs:  120,
		CreatedAt:  time.Now(),
	}))

	stdout.Reset()
	require.NoError(t, showHistory(t.Context(), repo, 10))
	out := stdout.String()
	assert.Contains(t, out, "Who teaches Physics?")
	assert.Contains(t, out, "120ms")
	assert.Regexp(t, `keyword: 1`, out)
}

func TestShowExchange(t *testing.T) {
	stdout, _ := setup(t)

	db, err := storage.Open(t.Context(), "sqlite3", ":memory:", 0)
	require.NoError(t, err)
	defer db.Close()
	repo := storage.NewExchangeRepository(db, storage.DialectSQLite)
	require.NoError(t, repo.EnsureSchema(t.Context()))

	ex := &storage.Exchange{
		RequestID:  "r7",
		UserType:   "student",
		Department: "BSC CSIT",
		Role:       "teacher",
		Message:    "Tell me about R. Sharma",
		MatchPhase: "name",
		MatchCount: 1,
		LatencyMs:  42,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(t.Context(), ex))

	require.NoError(t, showExchange(t.Context(), repo, ex.ID))
	out := stdout.String()
	assert.Contains(t, out, "Tell me about R. Sharma")
	assert.Contains(t, out, "name (1 matches)")
	assert.Contains(t, out, "Request: r7")

	err = showExchange(t.Context(), repo, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestVersionCommand(t *testing.T) {
	stdout, _ := setup(t)
	t.Setenv("LOG_LEVEL", "")
	SetVersion("1.2.3")

	rootCmd.SetArgs([]string{"version", "--no-color", "--env-file", ""})
	require.NoError(t, Execute())

	assert.Contains(t, stdout.String(), "pkonnect 1.2.3")
	assert.Contains(t, stdout.String(), "model: tinyllama:latest")
}
