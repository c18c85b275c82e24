package tutor

import (
	"strings"
	"testing"

	"tutorbot/internal/domain"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name     string
		mode     domain.Mode
		level    domain.EducationLevel
		style    domain.ResponseStyle
		language domain.ReplyLanguage
		text     string
		want     string
	}{
		{
			name:     "question mode",
			mode:     domain.ModeQuestion,
			level:    domain.LevelUniversity,
			style:    domain.StyleFormal,
			language: domain.LanguageSpanish,
			text:     "What is entropy?",
			want:     "Answer the following question in a formal style, in Spanish, for a university-level student: What is entropy?",
		},
		{
			name:     "explain mode",
			mode:     domain.ModeExplain,
			level:    domain.LevelPrimary,
			style:    domain.StyleSummarized,
			language: domain.LanguageEnglish,
			text:     "photosynthesis",
			want:     "Explain the following topic in a summarized style, in English, for a primary school-level student: photosynthesis",
		},
		{
			name:     "homework mode",
			mode:     domain.ModeHomework,
			level:    domain.LevelSecondary,
			style:    domain.StyleDetailed,
			language: domain.LanguagePortuguese,
			text:     "solve x^2 = 9",
			want:     "Help with this homework. Provide the best explanation in a detailed style, in Portuguese, for a secondary school-level student: solve x^2 = 9",
		},
		{
			name:     "unset mode passes text through",
			mode:     domain.ModeUnset,
			level:    domain.LevelUniversity,
			style:    domain.StyleFormal,
			language: domain.LanguageSpanish,
			text:     "hola",
			want:     "hola",
		},
		{
			name:     "text is trimmed",
			mode:     domain.ModeUnset,
			level:    domain.LevelUniversity,
			style:    domain.StyleFormal,
			language: domain.LanguageSpanish,
			text:     "  padded  ",
			want:     "padded",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildPrompt(tc.mode, tc.level, tc.style, tc.language, tc.text)
			if got != tc.want {
				t.Fatalf("BuildPrompt = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestQuotaNotice(t *testing.T) {
	if got := QuotaNotice(domain.LanguageEnglish, domain.ErrTokenLimitExceeded); got != "You have reached your daily token limit." {
		t.Fatalf("token notice = %q", got)
	}
	if got := QuotaNotice(domain.LanguageSpanish, domain.ErrMessageLimitExceeded); got != "Has alcanzado tu límite diario de mensajes." {
		t.Fatalf("message notice = %q", got)
	}
	// Unknown languages fall back to Spanish.
	if got := FailureNotice(domain.ReplyLanguage("fr")); got != notices[domain.LanguageSpanish].failure {
		t.Fatalf("fallback notice = %q", got)
	}
}

func TestPlanOverviewListsEveryTier(t *testing.T) {
	out := PlanOverview(domain.DefaultCatalog())
	for _, want := range []string{"Free: $0", "Basic: $4.99/month", "Pro: $9.99/month", "Unlimited: $19.99/month", "unlimited messages/day"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestPlanDetailPaymentInstructions(t *testing.T) {
	catalog := domain.DefaultCatalog()

	pro, err := catalog.ByID(domain.PlanPro)
	if err != nil {
		t.Fatalf("ByID(pro): %v", err)
	}
	detail := PlanDetail(pro, "pay@example.com")
	if !strings.Contains(detail, "send the payment to pay@example.com via PayPal") {
		t.Fatalf("paid detail missing payment line: %q", detail)
	}

	free, err := catalog.ByID(domain.PlanFree)
	if err != nil {
		t.Fatalf("ByID(free): %v", err)
	}
	if detail := PlanDetail(free, "pay@example.com"); strings.Contains(detail, "PayPal") {
		t.Fatalf("free detail should not carry payment line: %q", detail)
	}
}
