package colloquy

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// FilenamePattern selects which naming convention a file is checked against.
type FilenamePattern int

const (
	// PatternNone disables filename validation.
	PatternNone FilenamePattern = iota

	// PatternBilingual expects
	// <conversationId>-<lang>-user-<userId>-agent-<agentId>.wav, with
	// SPONTANEOUS_<n> allowed as the conversation ID for unscripted takes.
	PatternBilingual

	// PatternScript expects <scriptName>_<speakerId>.wav where scriptName
	// is a member of an externally supplied list.
	PatternScript
)

// ContributorPair is a valid user/agent recording pairing.
type ContributorPair struct {
	UserID  string
	AgentID string
}

// FilenameOptions configures filename validation. Scripts and SpeakerID
// only apply to PatternScript; ValidPairs only to PatternBilingual.
type FilenameOptions struct {
	Pattern    FilenamePattern
	ValidPairs []ContributorPair
	Scripts    []string
	SpeakerID  string
}

// FilenameResult is the verdict of a filename check. Warning means the
// check could not run in the current context (e.g. no script list was
// supplied), rather than asserting pass or fail.
type FilenameResult struct {
	Name   string
	Status Status
	Issue  string
}

// Filename layout is lowercase throughout except the SPONTANEOUS marker.
var (
	bilingualPattern = regexp.MustCompile(
		`^(?:[a-z0-9]+|SPONTANEOUS_[0-9]+)-([a-z]{2,3})-user-([a-z0-9]+)-agent-([a-z0-9]+)\.wav$`,
	)
	bilingualShapePattern = regexp.MustCompile(
		`(?i)^(?:[a-z0-9]+|SPONTANEOUS_[0-9]+)-([a-z]{2,3})-user-([a-z0-9]+)-agent-([a-z0-9]+)\.wav$`,
	)
)

// languageCodes is the recognized set for the bilingual pattern.
var languageCodes = []string{
	"ar", "de", "en", "es", "fr", "hi", "it", "ja", "ko",
	"nl", "pl", "pt", "ru", "sv", "tr", "zh",
}

// ValidateFilename checks a filename against the configured pattern.
// Returns nil when no pattern is configured.
func ValidateFilename(name string, opts FilenameOptions) *FilenameResult {
	switch opts.Pattern {
	case PatternBilingual:
		return validateBilingual(name, opts.ValidPairs)
	case PatternScript:
		return validateScriptMatch(name, opts.Scripts, opts.SpeakerID)
	case PatternNone:
	}

	return nil
}

func validateBilingual(name string, pairs []ContributorPair) *FilenameResult {
	match := bilingualPattern.FindStringSubmatch(name)
	if match == nil {
		if bilingualShapePattern.MatchString(name) {
			return &FilenameResult{
				Name:   name,
				Status: StatusFail,
				Issue:  "wrong letter case: filename must be lowercase, with the SPONTANEOUS marker uppercase",
			}
		}

		return &FilenameResult{
			Name:   name,
			Status: StatusFail,
			Issue:  "filename does not match <conversationId>-<lang>-user-<userId>-agent-<agentId>.wav",
		}
	}

	lang, userID, agentID := match[1], match[2], match[3]

	if !slices.Contains(languageCodes, lang) {
		return &FilenameResult{
			Name:   name,
			Status: StatusFail,
			Issue:  fmt.Sprintf("unrecognized language code %q", lang),
		}
	}

	if len(pairs) == 0 {
		return &FilenameResult{
			Name:   name,
			Status: StatusWarning,
			Issue:  "no contributor pairs configured; pairing not verified",
		}
	}

	pair := ContributorPair{UserID: userID, AgentID: agentID}
	if !slices.Contains(pairs, pair) {
		return &FilenameResult{
			Name:   name,
			Status: StatusFail,
			Issue:  fmt.Sprintf("user %q and agent %q are not a valid contributor pair", userID, agentID),
		}
	}

	return &FilenameResult{Name: name, Status: StatusPass}
}

func validateScriptMatch(name string, scripts []string, speakerID string) *FilenameResult {
	if len(scripts) == 0 {
		return &FilenameResult{
			Name:   name,
			Status: StatusWarning,
			Issue:  "script list unavailable; script match not verified",
		}
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))

	idx := strings.LastIndex(base, "_")
	if idx <= 0 {
		return &FilenameResult{
			Name:   name,
			Status: StatusFail,
			Issue:  "filename is missing the _<speakerId> suffix",
		}
	}

	script, speaker := base[:idx], base[idx+1:]

	if speaker != speakerID {
		return &FilenameResult{
			Name:   name,
			Status: StatusFail,
			Issue:  fmt.Sprintf("speaker ID %q does not match configured %q", speaker, speakerID),
		}
	}

	if !slices.Contains(scripts, script) {
		return &FilenameResult{
			Name:   name,
			Status: StatusFail,
			Issue:  fmt.Sprintf("%q is not in the script list", script),
		}
	}

	return &FilenameResult{Name: name, Status: StatusPass}
}
