package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"thinky/model"
	"thinky/provider/testutil"
)

func newTestSession(t *testing.T, p model.Provider) *Session {
	t.Helper()
	s := NewSession(p, DefaultOptions(), "gillian")
	t.Cleanup(s.Close)
	return s
}

func assertMirror(t *testing.T, s *Session) {
	t.Helper()
	msgs := s.Messages()
	hist := s.History()
	if len(msgs) != len(hist) {
		t.Fatalf("transcript/history length mismatch: %d vs %d", len(msgs), len(hist))
	}
	for i := range msgs {
		if msgs[i].Turn() != hist[i] {
			t.Errorf("entry %d out of sync: %+v vs %+v", i, msgs[i], hist[i])
		}
	}
}

func TestNewSessionSeedsWelcome(t *testing.T) {
	s := newTestSession(t, testutil.NewMockProvider("gpt-4o-mini"))

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages: got %d, want 1", len(msgs))
	}
	if msgs[0].Sender != model.SenderBot {
		t.Errorf("sender: got %q, want bot", msgs[0].Sender)
	}
	if !strings.Contains(msgs[0].Text, "gillian") {
		t.Errorf("welcome should greet the viewer, got %q", msgs[0].Text)
	}

	hist := s.History()
	if len(hist) != 1 || hist[0].Role != model.RoleAssistant {
		t.Errorf("history: got %+v", hist)
	}
	if s.Loading() {
		t.Error("should not be loading")
	}
}

func TestSendUserMessageSuccess(t *testing.T) {
	p := testutil.NewMockProvider("gpt-4o-mini")
	p.CompleteFunc = func(ctx context.Context, req model.CompletionRequest) (string, error) {
		return "Try the 4-7-8 breathing technique.", nil
	}
	s := newTestSession(t, p)

	if err := s.SendUserMessage(context.Background(), "  I can't sleep  "); err != nil {
		t.Fatalf("SendUserMessage: %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("messages: got %d, want 3", len(msgs))
	}
	if msgs[1].Sender != model.SenderUser || msgs[1].Text != "I can't sleep" {
		t.Errorf("user message should be trimmed, got %+v", msgs[1])
	}
	if msgs[2].Sender != model.SenderBot || msgs[2].Text != "Try the 4-7-8 breathing technique." {
		t.Errorf("bot message: got %+v", msgs[2])
	}
	assertMirror(t, s)

	reqs := p.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests: got %d, want 1", len(reqs))
	}
	req := reqs[0]
	if req.SystemPrompt == "" {
		t.Error("request should carry the system instruction")
	}
	if req.MaxTokens != 500 || req.Temperature != 0.5 {
		t.Errorf("max tokens=%d temperature=%v", req.MaxTokens, req.Temperature)
	}
	if len(req.History) != 2 {
		t.Fatalf("request history: got %d, want welcome + user", len(req.History))
	}
	if req.History[1] != (model.Turn{Role: model.RoleUser, Content: "I can't sleep"}) {
		t.Errorf("new user turn: got %+v", req.History[1])
	}
	if s.Loading() {
		t.Error("loading should be cleared")
	}
}

func TestBlankInputIsNoop(t *testing.T) {
	p := testutil.NewMockProvider("m")
	s := newTestSession(t, p)

	for _, text := range []string{"", "   ", "\n\t"} {
		if err := s.SendUserMessage(context.Background(), text); err != nil {
			t.Errorf("%q: unexpected error %v", text, err)
		}
	}

	if got := len(s.Messages()); got != 1 {
		t.Errorf("messages: got %d, want 1", got)
	}
	if got := len(s.History()); got != 1 {
		t.Errorf("history: got %d, want 1", got)
	}
	if s.Loading() {
		t.Error("loading changed")
	}
	if len(p.Requests()) != 0 {
		t.Error("no request should be sent for blank input")
	}
}

func TestFailureLeavesTranscript(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"network error", errors.New("dial tcp: connection refused")},
		{"empty reply", model.ErrEmptyReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.NewMockProvider("m")
			p.CompleteFunc = func(ctx context.Context, req model.CompletionRequest) (string, error) {
				return "", tt.err
			}
			s := newTestSession(t, p)

			err := s.SendUserMessage(context.Background(), "hello")
			if !errors.Is(err, tt.err) {
				t.Errorf("error: got %v, want %v", err, tt.err)
			}

			msgs := s.Messages()
			if len(msgs) != 2 {
				t.Fatalf("messages: got %d, want welcome + user", len(msgs))
			}
			if msgs[1].Sender != model.SenderUser {
				t.Errorf("no bot message should be added, got %+v", msgs[1])
			}
			assertMirror(t, s)
			if s.Loading() {
				t.Error("loading must be cleared after failure")
			}
		})
	}
}

func TestMirrorHoldsAcrossMixedOutcomes(t *testing.T) {
	p := testutil.NewMockProvider("m")
	calls := 0
	p.CompleteFunc = func(ctx context.Context, req model.CompletionRequest) (string, error) {
		calls++
		if calls%3 == 0 {
			return "", errors.New("boom")
		}
		return "reply", nil
	}
	s := newTestSession(t, p)

	for i := 0; i < 9; i++ {
		_ = s.SendUserMessage(context.Background(), "message")
		assertMirror(t, s)
	}

	// 9 user + 6 bot + welcome
	if got := len(s.Messages()); got != 16 {
		t.Errorf("messages: got %d, want 16", got)
	}
}

func TestInFlightWindow(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	p := testutil.NewMockProvider("m")
	p.CompleteFunc = func(ctx context.Context, req model.CompletionRequest) (string, error) {
		close(started)
		<-release
		return "done", nil
	}
	s := newTestSession(t, p)

	errc := make(chan error, 1)
	go func() { errc <- s.SendUserMessage(context.Background(), "first") }()
	<-started

	if !s.Loading() {
		t.Error("loading should be true while a request is in flight")
	}
	msgs := s.Messages()
	if len(msgs) != 2 || msgs[1].Sender != model.SenderUser {
		t.Errorf("user message should be visible immediately, got %+v", msgs)
	}

	if err := s.SendUserMessage(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent send: got %v, want ErrBusy", err)
	}
	if got := len(s.Messages()); got != 2 {
		t.Errorf("rejected send must not touch the transcript, got %d messages", got)
	}

	close(release)
	if err := <-errc; err != nil {
		t.Fatalf("first send: %v", err)
	}
	if s.Loading() {
		t.Error("loading should be cleared")
	}
	assertMirror(t, s)
}

func blockingProvider(started chan<- struct{}) *testutil.MockProvider {
	p := testutil.NewMockProvider("m")
	p.CompleteFunc = func(ctx context.Context, req model.CompletionRequest) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p
}

func TestResetCancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	s := newTestSession(t, blockingProvider(started))

	errc := make(chan error, 1)
	go func() { errc <- s.SendUserMessage(context.Background(), "hello") }()
	<-started

	s.ResetChat()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrDiscarded) {
			t.Errorf("got %v, want ErrDiscarded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight request was not cancelled by reset")
	}

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Sender != model.SenderBot {
		t.Errorf("reset should leave only the welcome, got %+v", msgs)
	}
	if s.Loading() {
		t.Error("loading should be cleared by reset")
	}
}

func TestCloseCancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	s := NewSession(blockingProvider(started), DefaultOptions(), "zabdy")

	errc := make(chan error, 1)
	go func() { errc <- s.SendUserMessage(context.Background(), "hello") }()
	<-started

	s.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrDiscarded) {
			t.Errorf("got %v, want ErrDiscarded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight request was not cancelled by Close")
	}

	if err := s.SendUserMessage(context.Background(), "again"); !errors.Is(err, ErrClosed) {
		t.Errorf("send after close: got %v, want ErrClosed", err)
	}
}

func TestResetChatLeavesSingleBotEntry(t *testing.T) {
	s := newTestSession(t, testutil.NewMockProvider("m"))

	for i := 0; i < 3; i++ {
		if err := s.SendUserMessage(context.Background(), "hi"); err != nil {
			t.Fatal(err)
		}
	}
	s.ResetChat()

	msgs := s.Messages()
	hist := s.History()
	if len(msgs) != 1 || len(hist) != 1 {
		t.Fatalf("got %d messages, %d history", len(msgs), len(hist))
	}
	if msgs[0].Sender != model.SenderBot || hist[0].Role != model.RoleAssistant {
		t.Errorf("reset entry must be bot/assistant, got %+v / %+v", msgs[0], hist[0])
	}
	if !strings.Contains(msgs[0].Text, "gillian") {
		t.Errorf("reset keeps the display name, got %q", msgs[0].Text)
	}
}

func TestInitializeWithNewName(t *testing.T) {
	s := newTestSession(t, testutil.NewMockProvider("m"))
	_ = s.SendUserMessage(context.Background(), "hi")

	s.Initialize("zabdy")

	msgs := s.Messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0].Text, "zabdy") {
		t.Errorf("got %+v", msgs)
	}
	if s.DisplayName() != "zabdy" {
		t.Errorf("display name: got %q", s.DisplayName())
	}
}

func TestMessageIDsAreUnique(t *testing.T) {
	s := newTestSession(t, testutil.NewMockProvider("m"))
	for i := 0; i < 20; i++ {
		_ = s.SendUserMessage(context.Background(), "quick")
	}

	seen := make(map[string]bool)
	for _, m := range s.Messages() {
		if seen[m.ID] {
			t.Fatalf("duplicate message id %q", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestRequestTimeout(t *testing.T) {
	started := make(chan struct{})
	opts := DefaultOptions()
	opts.Timeout = 20 * time.Millisecond
	s := NewSession(blockingProvider(started), opts, "")
	defer s.Close()

	err := s.SendUserMessage(context.Background(), "hello")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want deadline exceeded", err)
	}
	if s.Loading() {
		t.Error("loading should be cleared after timeout")
	}
	assertMirror(t, s)
}

func TestPing(t *testing.T) {
	p := testutil.NewMockProvider("gpt-4o-mini")
	s := newTestSession(t, p)

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	refused := errors.New("connection refused")
	p.PingFunc = func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("ping should run under a deadline")
		}
		return refused
	}
	err := s.Ping(context.Background())
	if !errors.Is(err, refused) {
		t.Errorf("got %v, want wrapped %v", err, refused)
	}
	if !strings.Contains(err.Error(), "gpt-4o-mini") {
		t.Errorf("error should name the model: %v", err)
	}
	if len(s.Messages()) != 1 || s.Loading() {
		t.Error("ping must not touch the transcript")
	}
}

func TestModel(t *testing.T) {
	s := newTestSession(t, testutil.NewMockProvider("llama3.1"))
	if got := s.Model(); got != "llama3.1" {
		t.Errorf("got %q", got)
	}
}
