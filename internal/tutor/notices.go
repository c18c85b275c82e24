package tutor

import (
	"errors"
	"fmt"
	"strings"

	"tutorbot/internal/domain"
)

type noticeSet struct {
	messageLimit string
	tokenLimit   string
	failure      string
	greeting     string
}

// Notice wording is presentation, but the transport needs something to
// render; it gets one line per condition in the session's reply language.
var notices = map[domain.ReplyLanguage]noticeSet{
	domain.LanguageSpanish: {
		messageLimit: "Has alcanzado tu límite diario de mensajes.",
		tokenLimit:   "Has alcanzado tu límite diario de tokens.",
		failure:      "Error al procesar la solicitud. Inténtalo de nuevo más tarde.",
		greeting:     "¡Hola %s! Tu plan actual es %s. Elige una opción para comenzar.",
	},
	domain.LanguageEnglish: {
		messageLimit: "You have reached your daily message limit.",
		tokenLimit:   "You have reached your daily token limit.",
		failure:      "Something went wrong processing your request. Please try again later.",
		greeting:     "Hello %s! Your current plan is %s. Pick an option to get started.",
	},
	domain.LanguagePortuguese: {
		messageLimit: "Você atingiu seu limite diário de mensagens.",
		tokenLimit:   "Você atingiu seu limite diário de tokens.",
		failure:      "Ocorreu um erro ao processar sua solicitação. Tente novamente mais tarde.",
		greeting:     "Olá %s! Seu plano atual é %s. Escolha uma opção para começar.",
	},
}

func noticesFor(lang domain.ReplyLanguage) noticeSet {
	if set, ok := notices[lang]; ok {
		return set
	}
	return notices[domain.LanguageSpanish]
}

// QuotaNotice renders the denial reason in the session's reply language.
func QuotaNotice(lang domain.ReplyLanguage, err error) string {
	set := noticesFor(lang)
	if errors.Is(err, domain.ErrTokenLimitExceeded) {
		return set.tokenLimit
	}
	return set.messageLimit
}

// FailureNotice renders the generic completion-failure message.
func FailureNotice(lang domain.ReplyLanguage) string {
	return noticesFor(lang).failure
}

// StartSummary renders the first-contact greeting naming the current plan.
func StartSummary(sess *domain.Session, plan domain.Plan) string {
	name := sess.Username
	if name == "" {
		name = sess.UserID
	}
	return fmt.Sprintf(noticesFor(sess.Language).greeting, name, plan.DisplayName())
}

func formatPrice(cents int) string {
	if cents == 0 {
		return "$0"
	}
	return fmt.Sprintf("$%d.%02d/month", cents/100, cents%100)
}

func formatMessages(p domain.Plan) string {
	if p.Unmetered() {
		return "unlimited messages/day"
	}
	return fmt.Sprintf("%d messages/day", p.DailyMessageLimit)
}

// PlanOverview renders every catalog tier with its price and limits.
func PlanOverview(catalog *domain.Catalog) string {
	var b strings.Builder
	b.WriteString("Available plans:\n")
	for _, p := range catalog.All() {
		fmt.Fprintf(&b, "%s: %s, %s, %d tokens/day\n",
			p.DisplayName(), formatPrice(p.PriceCents), formatMessages(p), p.DailyTokenLimit)
	}
	return strings.TrimRight(b.String(), "\n")
}

// PlanDetail renders a single tier, including payment instructions for paid
// tiers. Payment itself happens out of band.
func PlanDetail(p domain.Plan, paypalEmail string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s plan: %s, %s, %d tokens/day.",
		p.DisplayName(), formatPrice(p.PriceCents), formatMessages(p), p.DailyTokenLimit)
	if p.PriceCents > 0 && paypalEmail != "" {
		fmt.Fprintf(&b, " To activate it, send the payment to %s via PayPal and reply with the receipt.", paypalEmail)
	}
	return b.String()
}
