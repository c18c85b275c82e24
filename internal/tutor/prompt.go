package tutor

import (
	"fmt"
	"strings"

	"tutorbot/internal/domain"
)

var levelWords = map[domain.EducationLevel]string{
	domain.LevelPrimary:    "primary school",
	domain.LevelSecondary:  "secondary school",
	domain.LevelUniversity: "university",
}

var styleWords = map[domain.ResponseStyle]string{
	domain.StyleFormal:     "formal",
	domain.StyleInformal:   "informal",
	domain.StyleSummarized: "summarized",
	domain.StyleDetailed:   "detailed",
}

var languageWords = map[domain.ReplyLanguage]string{
	domain.LanguageSpanish:    "Spanish",
	domain.LanguageEnglish:    "English",
	domain.LanguagePortuguese: "Portuguese",
}

// BuildPrompt maps the active mode and preferences onto an instruction for
// the completion service. An unset or unknown mode passes the text through
// untouched.
func BuildPrompt(mode domain.Mode, level domain.EducationLevel, style domain.ResponseStyle, language domain.ReplyLanguage, text string) string {
	text = strings.TrimSpace(text)
	styleWord := styleWords[style]
	langWord := languageWords[language]
	levelWord := levelWords[level]

	switch mode {
	case domain.ModeQuestion:
		return fmt.Sprintf("Answer the following question in a %s style, in %s, for a %s-level student: %s",
			styleWord, langWord, levelWord, text)
	case domain.ModeExplain:
		return fmt.Sprintf("Explain the following topic in a %s style, in %s, for a %s-level student: %s",
			styleWord, langWord, levelWord, text)
	case domain.ModeHomework:
		return fmt.Sprintf("Help with this homework. Provide the best explanation in a %s style, in %s, for a %s-level student: %s",
			styleWord, langWord, levelWord, text)
	}
	return text
}
