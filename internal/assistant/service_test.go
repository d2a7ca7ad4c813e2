package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/chatstore"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/testutil"
)

type fakeAnswerer struct {
	resp     *models.SearchResponse
	err      error
	gotTurns []models.Turn
}

func (f *fakeAnswerer) Answer(_ context.Context, query string, turns []models.Turn) (*models.SearchResponse, error) {
	f.gotTurns = turns
	if f.err != nil {
		return nil, f.err
	}
	r := *f.resp
	r.Query = query
	return &r, nil
}

type staticTitles struct{}

func (staticTitles) Title(context.Context, string) (string, error) { return "Test title", nil }

func testService(t *testing.T, orch Answerer) (*Service, *chatstore.Store) {
	t.Helper()
	store := chatstore.New(&testutil.MemSlot{}, staticTitles{}, nil)
	return NewService(orch, store), store
}

func TestAsk_RecordsExchangeOnSuccess(t *testing.T) {
	orch := &fakeAnswerer{resp: &models.SearchResponse{
		Answer:    "an answer [1]",
		Sources:   []models.Source{{Title: "S", URL: "https://s"}},
		Citations: []models.Citation{{Index: 1, URL: "https://s", Title: "S"}},
	}}
	svc, store := testService(t, orch)

	resp, err := svc.Ask(context.Background(), "a question", []models.Turn{})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Answer != "an answer [1]" {
		t.Errorf("Answer = %q", resp.Answer)
	}

	store.Wait()
	cur := store.CurrentChat()
	if cur == nil {
		t.Fatal("no current chat after successful Ask")
	}
	if len(cur.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(cur.Messages))
	}
	if cur.Messages[0].Query != "a question" {
		t.Errorf("recorded query = %q", cur.Messages[0].Query)
	}
	if store.Loading() {
		t.Error("loading flag still set after Ask returned")
	}
}

func TestAsk_DoesNotRecordOnError(t *testing.T) {
	orch := &fakeAnswerer{err: apperr.ErrUpstream}
	svc, store := testService(t, orch)

	if _, err := svc.Ask(context.Background(), "q", nil); !errors.Is(err, apperr.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if len(store.Chats()) != 0 {
		t.Error("failed exchange must not create a chat")
	}
	if store.Loading() {
		t.Error("loading flag still set after failed Ask")
	}
}

func TestAsk_DerivesTurnsFromCurrentChat(t *testing.T) {
	orch := &fakeAnswerer{resp: &models.SearchResponse{Answer: "second"}}
	svc, store := testService(t, orch)

	store.AddMessage("first q", models.SearchResponse{Query: "first q", Answer: "first a"})
	store.Wait()

	if _, err := svc.Ask(context.Background(), "follow-up", nil); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(orch.gotTurns) != 1 || orch.gotTurns[0].Query != "first q" {
		t.Errorf("derived turns = %+v, want the prior exchange", orch.gotTurns)
	}
}

func TestAsk_ExplicitTurnsOverrideStore(t *testing.T) {
	orch := &fakeAnswerer{resp: &models.SearchResponse{Answer: "a"}}
	svc, store := testService(t, orch)

	store.AddMessage("stored q", models.SearchResponse{Query: "stored q", Answer: "stored a"})
	store.Wait()

	explicit := []models.Turn{{Query: "caller q", Answer: "caller a"}}
	if _, err := svc.Ask(context.Background(), "q", explicit); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(orch.gotTurns) != 1 || orch.gotTurns[0].Query != "caller q" {
		t.Errorf("turns = %+v, want caller-supplied context", orch.gotTurns)
	}
}
