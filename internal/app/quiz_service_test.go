package app_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tebak-kode-bot/internal/domain"
	"tebak-kode-bot/internal/infra/memory"
)

func TestFollowRegistersNewUser(t *testing.T) {
	f := newFixture(t)
	f.messenger.profiles["u1"] = domain.Profile{UserID: "u1", DisplayName: "Budi"}

	f.dispatcher.Dispatch(context.Background(), []domain.Event{{
		Type:       domain.EventTypeFollow,
		UserID:     "u1",
		ReplyToken: "rt-1",
	}})

	want := []sentReply{{
		Token: "rt-1",
		Messages: []domain.Message{
			domain.TextMessage{Text: "Salam kenal, Budi!\nSilakan kirim pesan \"MULAI\" untuk memulai kuis Tebak Kode."},
			domain.StickerMessage{PackageID: "1", StickerID: "3"},
		},
	}}
	if diff := cmp.Diff(want, f.messenger.sent()); diff != "" {
		t.Fatalf("welcome reply mismatch (-want +got):\n%s", diff)
	}

	user := f.user(t, "u1")
	if user.DisplayName != "Budi" || user.Number != 0 || user.Score != 0 {
		t.Fatalf("unexpected registered user: %+v", user)
	}
}

func TestFirstContactByMessageIsTreatedAsFollow(t *testing.T) {
	f := newFixture(t)

	f.text("u1", "halo")

	if got := len(f.messenger.sent()); got != 1 {
		t.Fatalf("expected one welcome reply, got %d", got)
	}
	if f.user(t, "u1").Started() {
		t.Fatalf("new user must not be in a quiz")
	}
}

func TestFollowDroppedWhenProfileFails(t *testing.T) {
	f := newFixture(t)
	f.messenger.profileErr = errProfileUnavailable

	f.dispatcher.Dispatch(context.Background(), []domain.Event{{Type: domain.EventTypeFollow, UserID: "u1", ReplyToken: "rt"}})

	if got := len(f.messenger.sent()); got != 0 {
		t.Fatalf("expected no reply, got %d", got)
	}
	if _, err := f.users.FindUser(context.Background(), "u1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected no user persisted, got %v", err)
	}
	if got := counterValue(t, f, "tebakkode_follows_dropped_total", nil); got != 1 {
		t.Fatalf("expected one dropped follow, got %v", got)
	}
}

func TestReminderWhenNotStarted(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1", "Budi")

	f.text("u1", "apa ini?")

	want := []domain.Message{domain.TextMessage{Text: "Silakan kirim pesan \"MULAI\" untuk memulai kuis."}}
	if diff := cmp.Diff(want, f.messenger.last(t).Messages); diff != "" {
		t.Fatalf("reminder mismatch (-want +got):\n%s", diff)
	}
	if user := f.user(t, "u1"); user.Number != 0 || user.Score != 0 {
		t.Fatalf("reminder must not change state: %+v", user)
	}
}

func TestStartTriggerSendsFirstQuestion(t *testing.T) {
	for _, trigger := range []string{"MULAI", "mulai", "MuLaI"} {
		t.Run(trigger, func(t *testing.T) {
			f := newFixture(t)
			f.register(t, "u1", "Budi")
			_ = f.users.SetScore(context.Background(), "u1", 6)

			f.text("u1", trigger)

			want := []domain.Message{domain.ButtonsMessage{
				AltText: "Gunakan mobile app untuk melihat soal",
				Title:   "1/10",
				Text:    "Bahasa apa yang memakai keyword func dan package?",
				Actions: []domain.Action{
					{Label: "Go", Text: "Go"},
					{Label: "Python", Text: "Python"},
					{Label: "Java", Text: "Java"},
					{Label: "Ruby", Text: "Ruby"},
				},
			}}
			if diff := cmp.Diff(want, f.messenger.last(t).Messages); diff != "" {
				t.Fatalf("question mismatch (-want +got):\n%s", diff)
			}
			if user := f.user(t, "u1"); user.Number != 1 || user.Score != 0 {
				t.Fatalf("expected progress 1 score 0, got %+v", user)
			}
		})
	}
}

func TestTriggerIsNotTrimmed(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1", "Budi")

	f.text("u1", " MULAI ")

	if f.user(t, "u1").Started() {
		t.Fatalf("padded trigger must not start the quiz")
	}
}

func TestAnswerAdvancesProgress(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1", "Budi")
	f.text("u1", "MULAI")

	f.text("u1", "Go")
	if user := f.user(t, "u1"); user.Number != 2 || user.Score != 1 {
		t.Fatalf("expected progress 2 score 1 after correct answer, got %+v", user)
	}

	f.text("u1", "6")
	if user := f.user(t, "u1"); user.Number != 3 || user.Score != 1 {
		t.Fatalf("expected progress 3 score 1 after wrong answer, got %+v", user)
	}

	buttons, ok := f.messenger.last(t).Messages[0].(domain.ButtonsMessage)
	if !ok || buttons.Title != "3/10" {
		t.Fatalf("expected question 3 to be sent, got %+v", f.messenger.last(t).Messages)
	}
}

func TestTriggerDuringQuizIsAnAnswer(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1", "Budi")
	f.text("u1", "MULAI")
	f.text("u1", "Go")

	f.text("u1", "MULAI")

	if user := f.user(t, "u1"); user.Number != 3 || user.Score != 1 {
		t.Fatalf("expected MULAI to be scored as answer 2, got %+v", user)
	}
}

func TestThreeOptionQuestionHasThreeButtons(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1", "Budi")
	_ = f.users.SetProgress(context.Background(), "u1", 7)

	f.text("u1", "SQL")

	buttons := f.messenger.last(t).Messages[0].(domain.ButtonsMessage)
	if buttons.Title != "8/10" || len(buttons.Actions) != 3 {
		t.Fatalf("expected question 8 with three actions, got %+v", buttons)
	}
}

func TestStickerNudgesWithoutStateChange(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1", "Budi")
	_ = f.users.SetProgress(context.Background(), "u1", 4)
	_ = f.users.SetScore(context.Background(), "u1", 2)

	f.dispatcher.Dispatch(context.Background(), []domain.Event{messageEvent("u1", domain.MessageTypeSticker)})

	want := []domain.Message{
		domain.StickerMessage{PackageID: "1", StickerID: "106"},
		domain.TextMessage{Text: "Silakan kirim pesan \"MULAI\" untuk memulai kuis."},
	}
	if diff := cmp.Diff(want, f.messenger.last(t).Messages); diff != "" {
		t.Fatalf("nudge mismatch (-want +got):\n%s", diff)
	}
	if user := f.user(t, "u1"); user.Number != 4 || user.Score != 2 {
		t.Fatalf("sticker must not change state: %+v", user)
	}
}

func TestFinalScoreBranches(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		sticker string
		closing string
	}{
		{name: "perfect", correct: 10, sticker: "114", closing: "Great! Mantap bro! Ketik \"MULAI\" untuk bermain lagi!"},
		{name: "pass boundary", correct: 8, sticker: "114", closing: "Great! Mantap bro! Ketik \"MULAI\" untuk bermain lagi!"},
		{name: "just below", correct: 7, sticker: "100", closing: "Wkwkwk! Nyerah? Ketik \"MULAI\" untuk bermain lagi!"},
		{name: "zero", correct: 0, sticker: "100", closing: "Wkwkwk! Nyerah? Ketik \"MULAI\" untuk bermain lagi!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.register(t, "u1", "Budi")
			playQuiz(f, "u1", tt.correct)

			want := []domain.Message{
				domain.TextMessage{Text: "Skormu " + strconv.Itoa(tt.correct)},
				domain.StickerMessage{PackageID: "1", StickerID: tt.sticker},
				domain.TextMessage{Text: tt.closing},
			}
			if diff := cmp.Diff(want, f.messenger.last(t).Messages); diff != "" {
				t.Fatalf("final reply mismatch (-want +got):\n%s", diff)
			}
			user := f.user(t, "u1")
			if user.Number != 0 || user.Score != tt.correct {
				t.Fatalf("expected reset progress and score %d, got %+v", tt.correct, user)
			}
		})
	}
}

func TestCompletionPublishesResult(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1", "Budi")
	ch, cancel := f.feed.Subscribe()
	defer cancel()

	playQuiz(f, "u1", 9)

	result := <-ch
	if result.UserID != "u1" || result.DisplayName != "Budi" || result.Score != 9 || result.Total != 10 || !result.Passed {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.CompletedAt.IsZero() {
		t.Fatalf("expected completion time")
	}
}

func TestRestartAfterCompletionResetsScore(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1", "Budi")
	playQuiz(f, "u1", 5)

	f.text("u1", "mulai")

	if user := f.user(t, "u1"); user.Number != 1 || user.Score != 0 {
		t.Fatalf("expected fresh quiz, got %+v", user)
	}
}

func TestMissingNextQuestionKeepsProgress(t *testing.T) {
	loader := memory.NewStaticQuestionLoader(map[int]domain.Question{
		1: {Number: 1, Text: "Q1", OptionA: "a", OptionB: "b", Answer: "a"},
	})
	f := newFixtureWithQuestions(t, loader)
	f.register(t, "u1", "Budi")
	f.text("u1", "MULAI")
	before := len(f.messenger.sent())

	f.text("u1", "a")

	if user := f.user(t, "u1"); user.Number != 1 || user.Score != 0 {
		t.Fatalf("state must not change when the next question is missing, got %+v", user)
	}
	if got := len(f.messenger.sent()); got != before {
		t.Fatalf("expected no reply for missing question, got %d new", got-before)
	}
}

func TestStartWithoutFirstQuestionFails(t *testing.T) {
	f := newFixtureWithQuestions(t, memory.NewStaticQuestionLoader(map[int]domain.Question{}))
	f.register(t, "u1", "Budi")

	err := f.service.Start(context.Background(), f.user(t, "u1"), "rt")
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
	if f.user(t, "u1").Started() {
		t.Fatalf("user must stay not started")
	}
}

// playQuiz starts a quiz and answers the first `correct` questions right and the rest wrong.
func playQuiz(f *fixture, userID string, correct int) {
	f.text(userID, "MULAI")
	for i := 0; i < domain.TotalQuestions; i++ {
		answer := "wrong"
		if i < correct {
			answer = answers[i]
		}
		f.text(userID, answer)
	}
}
