//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tourchat/tourchat-server/internal/catalog"
	"github.com/tourchat/tourchat-server/internal/llm"
	"github.com/tourchat/tourchat-server/internal/session"
)

// testOrchestrator wires an orchestrator from mocks. Callers override
// individual mocks before use.
func testOrchestrator(
	rewriteGen, answerGen, backupGen *mockGenerator,
	embedder *mockEmbedder,
	searcher *mockSearcher,
	interval time.Duration,
) *Orchestrator {
	return NewOrchestrator(OrchestratorConfig{
		Sessions:  session.NewStore(),
		Limiter:   session.NewRateLimiter(interval),
		Rewriter:  NewQueryRewriter(rewriteGen, 6, nil),
		Retriever: NewRetriever(embedder, searcher, 10, nil),
		Filter:    NewContextFilter(NewLocationExtractor(4), nil),
		Answerer:  NewAnswerGenerator(answerGen, backupGen, nil),
		MaxTours:  5,
	})
}

func TestOrchestrator_FirstTurn(t *testing.T) {
	rewriteGen := &mockGenerator{} // never called without history
	answerGen := stoppedGenerator("Dạ bên em có tour Nha Trang 3N2Đ ạ.")
	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, _ []float32, limit int) ([]catalog.Tour, error) {
			return []catalog.Tour{{Name: "Tour Nha Trang", Location: "Nha Trang"}}, nil
		},
	}

	orch := testOrchestrator(rewriteGen, answerGen, nil, &mockEmbedder{}, searcher, 0)

	result, err := orch.Chat(context.Background(), "Có tour Nha Trang không?", "s1")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if result.Query != "Có tour Nha Trang không?" {
		t.Errorf("unexpected query: %q", result.Query)
	}
	// First turn has no history, so no rewrite happens
	if result.RewrittenQuery != result.Query {
		t.Errorf("expected rewritten query to equal original, got %q", result.RewrittenQuery)
	}
	if result.Answer != "Dạ bên em có tour Nha Trang 3N2Đ ạ." {
		t.Errorf("unexpected answer: %q", result.Answer)
	}
	if len(result.Tours) != 1 {
		t.Errorf("expected 1 tour, got %d", len(result.Tours))
	}
	if len(result.History) != 2 {
		t.Fatalf("expected 2 turns persisted, got %d", len(result.History))
	}
	if result.History[0].Role != llm.RoleUser || result.History[1].Role != llm.RoleAssistant {
		t.Errorf("unexpected persisted roles: %+v", result.History)
	}
}

func TestOrchestrator_FollowUpUsesRewrittenQueryForRetrieval(t *testing.T) {
	var embeddedText string

	rewriteGen := stoppedGenerator("Tour Nha Trang 3 ngày 2 đêm giá bao nhiêu?")
	answerCalls := 0
	answerGen := &mockGenerator{
		generateFunc: func(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
			answerCalls++
			// The answer prompt must carry the original query, not the rewrite
			if answerCalls == 2 && !strings.Contains(req.Prompt, "**CÂU HỎI:** tour 3N2Đ giá sao?") {
				t.Errorf("answer prompt should use original query, got:\n%s", req.Prompt)
			}
			return &llm.GenerateResponse{Text: "Giá 2,500,000 VNĐ ạ.", Status: llm.FinishStop}, nil
		},
	}
	embedder := &mockEmbedder{
		embedFunc: func(_ context.Context, text string, _ llm.Task) ([]float32, error) {
			embeddedText = text
			return []float32{0.1}, nil
		},
	}
	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, _ []float32, _ int) ([]catalog.Tour, error) {
			return []catalog.Tour{{Name: "Tour Nha Trang", Location: "Nha Trang"}}, nil
		},
	}

	orch := testOrchestrator(rewriteGen, answerGen, nil, embedder, searcher, 0)

	// Seed history so the rewriter runs
	if _, err := orch.Chat(context.Background(), "Có tour Nha Trang không?", "s1"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	result, err := orch.Chat(context.Background(), "tour 3N2Đ giá sao?", "s1")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if result.RewrittenQuery != "Tour Nha Trang 3 ngày 2 đêm giá bao nhiêu?" {
		t.Errorf("unexpected rewritten query: %q", result.RewrittenQuery)
	}
	if embeddedText != result.RewrittenQuery {
		t.Errorf("retrieval should embed the rewritten query, embedded %q", embeddedText)
	}
	if len(result.History) != 4 {
		t.Errorf("expected 4 turns after two exchanges, got %d", len(result.History))
	}
}

func TestOrchestrator_FiltersAndCapsTours(t *testing.T) {
	manyTours := make([]catalog.Tour, 0, 10)
	for i := 0; i < 8; i++ {
		manyTours = append(manyTours, catalog.Tour{Name: "Tour Đà Lạt", Location: "Đà Lạt"})
	}
	manyTours = append(manyTours,
		catalog.Tour{Name: "Tour Huế", Location: "Huế"},
		catalog.Tour{Name: "Tour Sapa", Location: "Sapa"})

	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, _ []float32, _ int) ([]catalog.Tour, error) {
			return manyTours, nil
		},
	}

	orch := testOrchestrator(stoppedGenerator("rewritten ok"),
		stoppedGenerator("answer"), nil, &mockEmbedder{}, searcher, 0)

	// First turn establishes Đà Lạt as the conversation location
	if _, err := orch.Chat(context.Background(), "Tour Đà Lạt có không?", "s1"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	result, err := orch.Chat(context.Background(), "giá sao?", "s1")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if len(result.Tours) != 5 {
		t.Fatalf("expected 5 tours after filter and cap, got %d", len(result.Tours))
	}
	for _, tour := range result.Tours {
		if tour.Location != "Đà Lạt" {
			t.Errorf("expected only Đà Lạt tours, got %s", tour.Location)
		}
	}
}

func TestOrchestrator_RateLimitDelaysSameSession(t *testing.T) {
	orch := testOrchestrator(stoppedGenerator("rewritten ok"),
		stoppedGenerator("answer"), nil, &mockEmbedder{}, &mockSearcher{},
		50*time.Millisecond)

	if _, err := orch.Chat(context.Background(), "q1", "s1"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	start := time.Now()
	if _, err := orch.Chat(context.Background(), "q2", "s1"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("second request in a session should be throttled, took %v", elapsed)
	}

	// A different session is not delayed
	start = time.Now()
	if _, err := orch.Chat(context.Background(), "q", "s2"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("other sessions should not be throttled, took %v", elapsed)
	}
}

func TestOrchestrator_RetrievalErrorFailsRequest(t *testing.T) {
	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, _ []float32, _ int) ([]catalog.Tour, error) {
			return nil, errors.New("catalog unreachable")
		},
	}

	orch := testOrchestrator(&mockGenerator{}, stoppedGenerator("answer"), nil,
		&mockEmbedder{}, searcher, 0)

	if _, err := orch.Chat(context.Background(), "q", "s1"); err == nil {
		t.Fatal("expected error from failed retrieval")
	}

	// A failed request must not leave a half-written transcript
	if len(orch.History("s1")) != 0 {
		t.Error("failed request should not persist any turns")
	}
}

func TestOrchestrator_HistoryAndClear(t *testing.T) {
	orch := testOrchestrator(&mockGenerator{}, stoppedGenerator("answer"), nil,
		&mockEmbedder{}, &mockSearcher{}, 0)

	if _, err := orch.Chat(context.Background(), "q", "s1"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if len(orch.History("s1")) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(orch.History("s1")))
	}

	if !orch.Clear("s1") {
		t.Error("expected Clear to report an existing session")
	}
	if len(orch.History("s1")) != 0 {
		t.Error("expected empty history after clear")
	}
	if orch.Clear("s1") {
		t.Error("expected Clear to report false for an unknown session")
	}
}

func TestOrchestrator_EmptyRetrievalStillAnswers(t *testing.T) {
	answerGen := &mockGenerator{
		generateFunc: func(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
			if strings.Contains(req.Prompt, "THÔNG TIN TOURS") {
				t.Error("prompt for empty retrieval should not contain tour context")
			}
			return &llm.GenerateResponse{Text: "Anh/chị mô tả thêm nhu cầu giúp em ạ.", Status: llm.FinishStop}, nil
		},
	}

	orch := testOrchestrator(&mockGenerator{}, answerGen, nil,
		&mockEmbedder{}, &mockSearcher{}, 0)

	result, err := orch.Chat(context.Background(), "tour nào hay?", "s1")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if len(result.Tours) != 0 {
		t.Errorf("expected no tours, got %d", len(result.Tours))
	}
	if result.Answer == "" {
		t.Error("expected a generated answer despite empty retrieval")
	}
}
