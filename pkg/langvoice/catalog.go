package langvoice

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Known voice IDs, mirroring the documented LangVoice catalogue. The live
// catalogue is authoritative — use [Client.ListVoices] for the current set.
var (
	// AmericanVoices are the American-English voice IDs.
	AmericanVoices = []string{
		"heart", "bella", "nicole", "sarah", "nova", "sky", "jessica",
		"river", "michael", "fenrir", "eric", "liam", "onyx", "adam",
	}

	// BritishVoices are the British-English voice IDs.
	BritishVoices = []string{
		"emma", "isabella", "alice", "lily", "george", "fable", "lewis", "daniel",
	}

	// Languages are the supported language codes.
	Languages = []string{
		"american_english", "british_english", "spanish", "french",
		"hindi", "italian", "japanese", "brazilian_portuguese", "mandarin_chinese",
	}
)

// AllVoices returns the full documented voice catalogue, American voices first.
func AllVoices() []string {
	out := make([]string, 0, len(AmericanVoices)+len(BritishVoices))
	out = append(out, AmericanVoices...)
	out = append(out, BritishVoices...)
	return out
}

// resolveThreshold is the minimum Jaro-Winkler similarity for a fuzzy voice
// match to be accepted.
const resolveThreshold = 0.85

// ResolveVoice maps name onto a documented voice ID. Exact matches (case
// insensitive) are returned as-is; otherwise the closest catalogue entry by
// Jaro-Winkler similarity is returned, provided it scores at least 0.85.
//
// This is intended for agent-supplied voice names, which tend to arrive with
// typos or casing variations ("Hearts", "MICHAEL"). The second return value
// reports whether a match was found.
func ResolveVoice(name string) (string, bool) {
	return resolveID(name, AllVoices())
}

// ResolveLanguage maps name onto a documented language code, with the same
// fuzzy-matching rules as [ResolveVoice].
func ResolveLanguage(name string) (string, bool) {
	return resolveID(name, Languages)
}

func resolveID(name string, catalog []string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}

	best := ""
	bestScore := 0.0
	for _, id := range catalog {
		if needle == id {
			return id, true
		}
		if s := matchr.JaroWinkler(needle, id, false); s > bestScore {
			best, bestScore = id, s
		}
	}
	if bestScore >= resolveThreshold {
		return best, true
	}
	return "", false
}
