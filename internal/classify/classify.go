// Package classify decides which auxiliary school documents a chat message
// needs, extracts the targeted grade level and detects the response language.
// All of it is keyword heuristics; the matching strategy stays behind this
// package so callers never depend on it.
package classify

import (
	"strings"

	"lmg-backend/internal/textmatch"
	"lmg-backend/pkg/api"
)

type Classification struct {
	NeedsModules          bool
	NeedsSchoolInfo       bool
	NeedsCurriculum       bool
	IsExplicitModuleQuery bool
}

// followUpWindow is how many trailing history entries are considered when
// deciding whether a message is a follow-up to an earlier module question.
const followUpWindow = 4

var moduleKeywords = []string{
	"modul", "module", "modulübersicht",
	"pflichtmodul", "wahlmodul", "vertiefungsmodul", "interessenmodul",
	"halbjahr", "jahrgangsstufe", "klasse",
	"unterrichtseinheit", "lerneinheit",
	"sozialform", "abgabe", "fach",
	// praktische Philosophie runs most of the module program, so its subject
	// names count as module vocabulary; " pp " is padded to match the
	// abbreviation only as a standalone word
	"philo", "philosophie", " pp ",
}

var schoolInfoKeywords = []string{
	"schule", "sekretariat", "adresse", "telefon", "kontakt",
	"anmeldung", "öffnungszeiten", "ferien", "termine",
	"schulleitung", "ansprechpartner", "ganztag",
}

var curriculumKeywords = []string{
	"lehrplan", "curriculum", "unterrichtsinhalte",
	"stoffverteilung", "kompetenzen", "themenübersicht",
}

// followUpCues are anaphoric or temporal markers ("dazu", "wie lange", ...)
// that tie a short question to the previous turns.
var followUpCues = []string{
	"das", "dazu", "dafür", "davon", "darüber",
	"wie lange", "wie viele", "wann", "welche davon", "und dann",
}

func Classify(message string, history []api.ChatMessage) Classification {
	lower := strings.ToLower(message)

	explicit := strings.Contains(lower, "modul")

	needsModules := matchesModuleKeywords(lower)
	if !needsModules && isModuleFollowUp(lower, history) {
		needsModules = true
	}

	// An explicit module question about "Klasse 7" would otherwise also pull
	// in the school-info document via the overlapping "klasse" keyword.
	needsSchoolInfo := !explicit && textmatch.ContainsAny(lower, schoolInfoKeywords)

	return Classification{
		NeedsModules:          needsModules,
		NeedsSchoolInfo:       needsSchoolInfo,
		NeedsCurriculum:       textmatch.ContainsAny(lower, curriculumKeywords),
		IsExplicitModuleQuery: explicit,
	}
}

func matchesModuleKeywords(lower string) bool {
	// Exact substring pass first, fuzzy only if nothing hit.
	if textmatch.ContainsAny(lower, moduleKeywords) {
		return true
	}
	for _, kw := range moduleKeywords {
		if textmatch.MatchesKeyword(lower, kw) {
			return true
		}
	}
	return false
}

func isModuleFollowUp(lower string, history []api.ChatMessage) bool {
	if !textmatch.ContainsAny(lower, followUpCues) {
		return false
	}
	start := len(history) - followUpWindow
	if start < 0 {
		start = 0
	}
	for _, msg := range history[start:] {
		if matchesModuleKeywords(strings.ToLower(msg.Content)) {
			return true
		}
	}
	return false
}
