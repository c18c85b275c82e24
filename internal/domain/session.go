package domain

import "time"

// EducationLevel enumerates the audience levels a reply can target.
type EducationLevel string

const (
	LevelPrimary    EducationLevel = "primary"
	LevelSecondary  EducationLevel = "secondary"
	LevelUniversity EducationLevel = "university"
)

// ResponseStyle enumerates reply registers.
type ResponseStyle string

const (
	StyleFormal     ResponseStyle = "formal"
	StyleInformal   ResponseStyle = "informal"
	StyleSummarized ResponseStyle = "summarized"
	StyleDetailed   ResponseStyle = "detailed"
)

// ReplyLanguage enumerates supported reply languages.
type ReplyLanguage string

const (
	LanguageSpanish    ReplyLanguage = "es"
	LanguageEnglish    ReplyLanguage = "en"
	LanguagePortuguese ReplyLanguage = "pt"
)

// Mode enumerates conversation modes selected from the menu.
type Mode string

const (
	ModeUnset    Mode = ""
	ModeQuestion Mode = "question"
	ModeExplain  Mode = "explain_topic"
	ModeHomework Mode = "homework_help"
)

// ParseEducationLevel validates a raw level value.
func ParseEducationLevel(raw string) (EducationLevel, error) {
	switch EducationLevel(raw) {
	case LevelPrimary, LevelSecondary, LevelUniversity:
		return EducationLevel(raw), nil
	}
	return "", ErrInvalidOption
}

// ParseResponseStyle validates a raw style value.
func ParseResponseStyle(raw string) (ResponseStyle, error) {
	switch ResponseStyle(raw) {
	case StyleFormal, StyleInformal, StyleSummarized, StyleDetailed:
		return ResponseStyle(raw), nil
	}
	return "", ErrInvalidOption
}

// ParseReplyLanguage validates a raw language value.
func ParseReplyLanguage(raw string) (ReplyLanguage, error) {
	switch ReplyLanguage(raw) {
	case LanguageSpanish, LanguageEnglish, LanguagePortuguese:
		return ReplyLanguage(raw), nil
	}
	return "", ErrInvalidOption
}

// ParseMode validates a raw mode value. The unset mode is not a valid
// selection; it only exists as the initial state.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeQuestion, ModeExplain, ModeHomework:
		return Mode(raw), nil
	}
	return "", ErrInvalidOption
}

// Usage tracks daily consumption against the session's plan.
type Usage struct {
	MessagesUsed int       `json:"messages_used"`
	TokensUsed   int       `json:"tokens_used"`
	LastReset    time.Time `json:"last_reset"`
}

// Session is the per-user state owned by the session store.
type Session struct {
	UserID    string         `json:"user_id"`
	Username  string         `json:"username,omitempty"`
	Plan      PlanID         `json:"plan"`
	Usage     Usage          `json:"usage"`
	Level     EducationLevel `json:"education_level"`
	Style     ResponseStyle  `json:"response_style"`
	Language  ReplyLanguage  `json:"reply_language"`
	Mode      Mode           `json:"mode"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewSession returns a session with first-contact defaults.
func NewSession(userID string, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		Plan:      PlanFree,
		Usage:     Usage{LastReset: now.UTC()},
		Level:     LevelUniversity,
		Style:     StyleFormal,
		Language:  LanguageSpanish,
		Mode:      ModeUnset,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// RolloverUsage zeroes the counters when the UTC calendar date has moved past
// LastReset. It is idempotent within a day and reports whether a reset
// happened.
func (s *Session) RolloverUsage(now time.Time) bool {
	if sameDay(s.Usage.LastReset, now) {
		return false
	}
	s.Usage.MessagesUsed = 0
	s.Usage.TokensUsed = 0
	s.Usage.LastReset = now.UTC()
	return true
}

// ResetUsage zeroes the counters without touching LastReset, so a later
// natural day rollover still fires on its own.
func (s *Session) ResetUsage() {
	s.Usage.MessagesUsed = 0
	s.Usage.TokensUsed = 0
}

// Clone returns a deep copy so store callers never share mutable state.
func (s *Session) Clone() *Session {
	cp := *s
	return &cp
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
