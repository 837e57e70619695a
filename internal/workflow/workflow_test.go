package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ledgercast/ledgercast/internal/articles"
	"github.com/ledgercast/ledgercast/internal/pipeline"
	"github.com/ledgercast/ledgercast/internal/prompts"
	"github.com/ledgercast/ledgercast/internal/workflow"
	"github.com/ledgercast/ledgercast/pkg/lifecycle"
	"github.com/ledgercast/ledgercast/pkg/pagination"
	"github.com/ledgercast/ledgercast/pkg/schema"
)

type fakeScraper struct {
	article *articles.Article
	err     error
}

func (f *fakeScraper) Fetch(ctx context.Context, rawURL string) (*articles.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.article, nil
}

type fakePrompts struct {
	definition *prompts.Definition
	err        error
}

func (f *fakePrompts) Handler() *prompts.Handler { return nil }

func (f *fakePrompts) Get(ctx context.Context, promptKey string, version *int) (*prompts.Definition, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.definition, nil
}

func (f *fakePrompts) Details(ctx context.Context, promptKey string, version *int) (*prompts.Details, error) {
	return nil, prompts.ErrNotFound
}

func (f *fakePrompts) CreateVersion(ctx context.Context, promptKey string, cmd prompts.CreateCommand) (*prompts.Definition, error) {
	return nil, prompts.ErrNotFound
}

func (f *fakePrompts) SetActive(ctx context.Context, promptKey string, version int) (*prompts.Definition, error) {
	return nil, prompts.ErrNotFound
}

func (f *fakePrompts) DeleteKey(ctx context.Context, promptKey string) error {
	return prompts.ErrNotFound
}

func (f *fakePrompts) ListActive(
	ctx context.Context,
	page pagination.PageRequest,
	filters prompts.Filters,
) (*pagination.PageResult[prompts.Definition], error) {
	return nil, prompts.ErrNotFound
}

func (f *fakePrompts) ListVersions(ctx context.Context, promptKey string) ([]prompts.Definition, error) {
	return nil, prompts.ErrNotFound
}

type fakeModel struct {
	reply string
	err   error
}

func (f *fakeModel) Chat(ctx context.Context, messages []prompts.Message, temperature *float64, maxTokens *int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeSynth struct {
	err error
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(fmt.Sprintf("[%s]%s|", voice, text)), nil
}

type fakePipeline struct {
	duration  float64
	processID string
}

func (f *fakePipeline) Stitch(ctx context.Context, buffers [][]byte, processID string) ([]byte, error) {
	f.processID = processID
	var joined []byte
	for _, buffer := range buffers {
		joined = append(joined, buffer...)
	}
	if len(joined) == 0 {
		return nil, pipeline.ErrNoValidInput
	}
	return joined, nil
}

func (f *fakePipeline) Duration(ctx context.Context, buffer []byte) float64 {
	return f.duration
}

func (f *fakePipeline) EncodeBase64(buffer []byte) string {
	return "data:audio/mp3;base64,"
}

type fakeStorage struct {
	uploads map[string][]byte
}

func (f *fakeStorage) Start(lc *lifecycle.Coordinator) error { return nil }

func (f *fakeStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.uploads[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.uploads[key]
	return ok, nil
}

func scriptDefinition() *prompts.Definition {
	system := "You are a financial podcast scriptwriter."

	return &prompts.Definition{
		PromptKey: "script-gen",
		Version:   1,
		Template:  "Write a two-host script for:\n{{ articleText }}",
		InputSchema: &schema.Schema{
			Type: schema.KindObject,
			Properties: map[string]*schema.Schema{
				"articleText": {Type: schema.KindString},
			},
			Required: []string{"articleText"},
		},
		OutputSchema: &schema.Schema{
			Type: schema.KindObject,
			Properties: map[string]*schema.Schema{
				"title": {Type: schema.KindString},
				"lines": {
					Type: schema.KindArray,
					Items: &schema.Schema{
						Type: schema.KindObject,
						Properties: map[string]*schema.Schema{
							"speaker": {Type: schema.KindString},
							"line":    {Type: schema.KindString},
						},
						Required: []string{"speaker", "line"},
					},
				},
			},
			Required: []string{"lines"},
		},
		SystemInstructions: &system,
		Active:             true,
	}
}

func testRuntime(store *fakeStorage, model workflow.ChatModel) *workflow.Runtime {
	settings := workflow.Settings{
		PromptKey: "script-gen",
		Voices: map[string]string{
			"Alex": "voice-a",
			"Sam":  "voice-b",
		},
		DefaultVoice: "voice-a",
		SynthWorkers: 2,
	}

	return &workflow.Runtime{
		Prompts: &fakePrompts{definition: scriptDefinition()},
		Scraper: &fakeScraper{article: &articles.Article{
			URL:   "https://example.com/markets",
			Title: "Markets Rally",
			Text:  "Equity markets climbed sharply on Thursday.",
			HTML:  "<p>Equity markets climbed sharply on Thursday.</p>",
		}},
		Pipeline: &fakePipeline{duration: 42.5},
		Storage:  store,
		Model:    model,
		Synth:    &fakeSynth{},
		Settings: settings,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestExecute(t *testing.T) {
	reply := "Here is the script:\n```json\n" +
		`{"title":"Markets Rally","lines":[` +
		`{"speaker":"Alex","line":"Welcome back to the show."},` +
		`{"speaker":"Sam","line":"Markets rallied today."},` +
		`{"speaker":"Alex","line":"Let us dig into why."}]}` +
		"\n```"

	store := &fakeStorage{}
	rt := testRuntime(store, &fakeModel{reply: reply})

	pipe := &fakePipeline{duration: 42.5}
	rt.Pipeline = pipe

	episodeID := uuid.New()
	result, err := workflow.Execute(context.Background(), rt, episodeID, "https://example.com/markets")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if pipe.processID != episodeID.String() {
		t.Errorf("stitch process id = %q, want %q", pipe.processID, episodeID)
	}

	if result.Title != "Markets Rally" {
		t.Errorf("title = %q", result.Title)
	}
	if len(result.Script) != 3 {
		t.Fatalf("len(script) = %d, want 3", len(result.Script))
	}
	if result.Script[1].Speaker != "Sam" {
		t.Errorf("script[1].speaker = %q, want Sam", result.Script[1].Speaker)
	}
	if result.DurationSeconds != 42.5 {
		t.Errorf("duration = %v, want 42.5", result.DurationSeconds)
	}

	wantKey := fmt.Sprintf("episodes/%s.mp3", episodeID)
	if result.StorageKey != wantKey {
		t.Errorf("storageKey = %q, want %q", result.StorageKey, wantKey)
	}

	uploaded, ok := store.uploads[wantKey]
	if !ok {
		t.Fatalf("no upload at %s", wantKey)
	}

	// Stitched audio preserves script order and per-speaker voices.
	want := "[voice-a]Welcome back to the show.|" +
		"[voice-b]Markets rallied today.|" +
		"[voice-a]Let us dig into why.|"
	if string(uploaded) != want {
		t.Errorf("uploaded audio = %q, want %q", uploaded, want)
	}
}

func TestExecuteRejectsNonconformingReply(t *testing.T) {
	store := &fakeStorage{}
	rt := testRuntime(store, &fakeModel{reply: "sorry, no script today"})

	_, err := workflow.Execute(context.Background(), rt, uuid.New(), "https://example.com/markets")
	if !errors.Is(err, workflow.ErrScriptFailed) {
		t.Fatalf("execute error = %v, want ErrScriptFailed", err)
	}
	if len(store.uploads) != 0 {
		t.Errorf("uploads = %d, want 0", len(store.uploads))
	}
}

func TestExecuteSurfacesSynthesisFailure(t *testing.T) {
	reply := "```json\n" +
		`{"lines":[{"speaker":"Alex","line":"Hello."}]}` + "\n```"

	store := &fakeStorage{}
	rt := testRuntime(store, &fakeModel{reply: reply})
	rt.Synth = &fakeSynth{err: errors.New("tts unavailable")}

	_, err := workflow.Execute(context.Background(), rt, uuid.New(), "https://example.com/markets")
	if !errors.Is(err, workflow.ErrSynthesisFailed) {
		t.Fatalf("execute error = %v, want ErrSynthesisFailed", err)
	}

	if !strings.Contains(err.Error(), "tts unavailable") {
		t.Errorf("error %q does not carry the synthesis cause", err)
	}
}
