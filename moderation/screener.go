package moderation

import (
	"align/domain"
	"log/slog"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

// DefaultCrisisKeywords are matched against every incoming turn.
var DefaultCrisisKeywords = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"want to die",
	"hurt myself",
	"self harm",
	"going to hurt him",
	"going to hurt her",
	"kill him",
	"kill her",
}

// minLanguageRunes avoids guessing a language from a couple of words.
const minLanguageRunes = 24

// minLanguageConfidence is the lowest whatlanggo confidence accepted as a reply-language hint.
// whatlanggo's own reliability threshold rejects most turn-length messages.
const minLanguageConfidence = 0.3

// supportedLanguages restricts detection to languages the reply prompt is expected to handle.
var supportedLanguages = whatlanggo.Options{Whitelist: map[whatlanggo.Lang]bool{
	whatlanggo.Eng: true, whatlanggo.Spa: true, whatlanggo.Fra: true, whatlanggo.Deu: true,
	whatlanggo.Ita: true, whatlanggo.Por: true, whatlanggo.Nld: true, whatlanggo.Pol: true,
	whatlanggo.Tur: true, whatlanggo.Rus: true, whatlanggo.Ukr: true, whatlanggo.Arb: true,
	whatlanggo.Hin: true, whatlanggo.Cmn: true, whatlanggo.Jpn: true, whatlanggo.Kor: true,
}}

// Screener computes prompt signals from an incoming message. Safe for concurrent use.
type Screener struct {
	matcher *goahocorasick.Machine
	log     *slog.Logger
}

// NewScreener builds the Aho-Corasick automaton from a normalized keyword list.
// Keywords that normalize to nothing are skipped.
func NewScreener(keywords []string, log *slog.Logger) (*Screener, error) {
	var patterns [][]rune
	for _, word := range keywords {
		if p := normalizeRunes([]rune(word)); len(p) > 0 {
			patterns = append(patterns, p)
		}
	}

	s := &Screener{log: log}
	if len(patterns) == 0 {
		return s, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	s.matcher = m
	return s, nil
}

// Screen returns the language and crisis signals of a message.
func (s *Screener) Screen(text string) domain.Signals {
	signals := domain.Signals{Language: s.language(text)}

	if words := s.Match(text); len(words) > 0 {
		signals.Crisis = true
		s.log.Warn("Crisis keywords detected in turn", "count", len(words))
	}
	return signals
}

// Match returns the keywords found in text, in order of appearance.
// A keyword only matches whole words: "want to diet" does not contain "want to die".
func (s *Screener) Match(text string) []string {
	if s.matcher == nil {
		return nil
	}
	normalized := normalizeRunes([]rune(text))
	if len(normalized) == 0 {
		return nil
	}

	var words []string
	for _, term := range s.matcher.MultiPatternSearch(normalized, false) {
		if isWordBoundary(normalized, term.Pos-1) && isWordBoundary(normalized, term.Pos+len(term.Word)) {
			words = append(words, string(term.Word))
		}
	}
	return words
}

func (s *Screener) language(text string) string {
	if len([]rune(text)) < minLanguageRunes {
		return ""
	}
	info := whatlanggo.DetectWithOptions(text, supportedLanguages)
	if info.Lang < 0 || info.Confidence < minLanguageConfidence {
		return ""
	}
	return info.Lang.String()
}

// normalizeRunes lower-cases text, folds leet speak inside words and reduces every
// run of spaces, punctuation and symbols to a single space.
// Leet characters trailing a word are punctuation ("life!"), leading ones are letters ("$elf").
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, word := range strings.FieldsFunc(string(input), unicode.IsSpace) {
		runes := []rune(strings.TrimRightFunc(word, isNoise))
		var token []rune
		for _, r := range runes {
			clean := simplifyRune(r)
			if clean == r && isNoise(r) {
				token = appendToken(&out, token)
				continue
			}
			token = append(token, unicode.ToLower(clean))
		}
		appendToken(&out, token)
	}
	return out
}

// appendToken flushes a non-empty token into out, space separated, and returns an empty token.
func appendToken(out *[]rune, token []rune) []rune {
	if len(token) == 0 {
		return token
	}
	if len(*out) > 0 {
		*out = append(*out, ' ')
	}
	*out = append(*out, token...)
	return token[:0]
}

func isWordBoundary(text []rune, i int) bool {
	return i < 0 || i >= len(text) || text[i] == ' '
}

// simplifyRune maps common Leet speak characters back to their standard alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

// isNoise identifies characters that separate words during the pattern matching phase.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
