package domain

import (
	"testing"
	"time"
)

func TestNewSessionDefaults(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	sess := NewSession("u1", now)

	if sess.Plan != PlanFree {
		t.Fatalf("Plan = %s, want free", sess.Plan)
	}
	if sess.Level != LevelUniversity {
		t.Fatalf("Level = %s, want university", sess.Level)
	}
	if sess.Style != StyleFormal {
		t.Fatalf("Style = %s, want formal", sess.Style)
	}
	if sess.Language != LanguageSpanish {
		t.Fatalf("Language = %s, want es", sess.Language)
	}
	if sess.Mode != ModeUnset {
		t.Fatalf("Mode = %q, want unset", sess.Mode)
	}
	if sess.Usage.MessagesUsed != 0 || sess.Usage.TokensUsed != 0 {
		t.Fatalf("counters not zeroed: %+v", sess.Usage)
	}
	if !sess.Usage.LastReset.Equal(now) {
		t.Fatalf("LastReset = %v, want %v", sess.Usage.LastReset, now)
	}
}

func TestRolloverUsageAcrossDayBoundary(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 0, 5, 0, 0, time.UTC)

	sess := NewSession("u1", day1)
	sess.Usage.MessagesUsed = 20
	sess.Usage.TokensUsed = 500

	if !sess.RolloverUsage(day2) {
		t.Fatalf("expected rollover on new day")
	}
	if sess.Usage.MessagesUsed != 0 || sess.Usage.TokensUsed != 0 {
		t.Fatalf("counters not reset: %+v", sess.Usage)
	}
	if !sameDay(sess.Usage.LastReset, day2) {
		t.Fatalf("LastReset not advanced: %v", sess.Usage.LastReset)
	}
}

func TestRolloverUsageIdempotentWithinDay(t *testing.T) {
	now := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	sess := NewSession("u1", now)
	sess.Usage.MessagesUsed = 3
	sess.Usage.TokensUsed = 300

	for i := 0; i < 5; i++ {
		if sess.RolloverUsage(now.Add(time.Duration(i) * time.Hour)) {
			t.Fatalf("unexpected rollover on pass %d", i)
		}
	}
	if sess.Usage.MessagesUsed != 3 || sess.Usage.TokensUsed != 300 {
		t.Fatalf("counters changed within the same day: %+v", sess.Usage)
	}
}

func TestResetUsageKeepsLastReset(t *testing.T) {
	now := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	sess := NewSession("u1", now)
	sess.Usage.MessagesUsed = 7
	sess.Usage.TokensUsed = 700

	sess.ResetUsage()
	if sess.Usage.MessagesUsed != 0 || sess.Usage.TokensUsed != 0 {
		t.Fatalf("counters not zeroed: %+v", sess.Usage)
	}
	if !sess.Usage.LastReset.Equal(now) {
		t.Fatalf("LastReset moved by manual reset: %v", sess.Usage.LastReset)
	}

	// A natural rollover the next day must still fire on its own.
	nextDay := now.Add(24 * time.Hour)
	if !sess.RolloverUsage(nextDay) {
		t.Fatalf("natural rollover did not fire after manual reset")
	}
}

func TestParseOptionEnums(t *testing.T) {
	if _, err := ParseEducationLevel("secondary"); err != nil {
		t.Fatalf("ParseEducationLevel(secondary): %v", err)
	}
	if _, err := ParseEducationLevel("kindergarten"); err != ErrInvalidOption {
		t.Fatalf("ParseEducationLevel(kindergarten) = %v, want ErrInvalidOption", err)
	}
	if _, err := ParseResponseStyle("detailed"); err != nil {
		t.Fatalf("ParseResponseStyle(detailed): %v", err)
	}
	if _, err := ParseResponseStyle("sarcastic"); err != ErrInvalidOption {
		t.Fatalf("ParseResponseStyle(sarcastic) = %v, want ErrInvalidOption", err)
	}
	if _, err := ParseReplyLanguage("pt"); err != nil {
		t.Fatalf("ParseReplyLanguage(pt): %v", err)
	}
	if _, err := ParseReplyLanguage("fr"); err != ErrInvalidOption {
		t.Fatalf("ParseReplyLanguage(fr) = %v, want ErrInvalidOption", err)
	}
	if _, err := ParseMode("homework_help"); err != nil {
		t.Fatalf("ParseMode(homework_help): %v", err)
	}
	if _, err := ParseMode(""); err != ErrInvalidOption {
		t.Fatalf("ParseMode(empty) = %v, want ErrInvalidOption", err)
	}
}
