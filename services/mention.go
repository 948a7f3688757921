package services

import (
	"strings"

	"legalis-project/microservices/tasks-service/models"
)

// MentionState describes an in-progress @mention while a comment is being
// composed. Start is the byte offset of the '@' in the text; Query is the
// fragment typed after it, lower-cased.
type MentionState struct {
	Start int    `json:"start"`
	Query string `json:"query"`
}

// ActiveMention inspects the text before the caret for an open @mention.
// The mention closes as soon as the fragment after the '@' contains a
// space or newline. Caret is a byte offset into text.
func ActiveMention(text string, caret int) (MentionState, bool) {
	if caret < 0 || caret > len(text) {
		return MentionState{}, false
	}
	before := text[:caret]
	at := strings.LastIndex(before, "@")
	if at == -1 {
		return MentionState{}, false
	}
	fragment := before[at+1:]
	if strings.ContainsAny(fragment, " \n") {
		return MentionState{}, false
	}
	return MentionState{Start: at, Query: strings.ToLower(fragment)}, true
}

// SuggestMembers filters the task force down to members whose display name
// contains the query as a case-insensitive substring. An empty query
// matches everyone.
func SuggestMembers(force []models.Member, query string) []models.Member {
	query = strings.ToLower(query)
	suggestions := []models.Member{}
	for _, m := range force {
		if strings.Contains(strings.ToLower(m.Name), query) {
			suggestions = append(suggestions, m)
		}
	}
	return suggestions
}

// ApplyMention replaces the span [state.Start, caret) with "@<name> " and
// returns the new text plus the caret position just after the inserted
// space.
func ApplyMention(text string, caret int, state MentionState, member models.Member) (string, int) {
	if caret < 0 || caret > len(text) || state.Start < 0 || state.Start > caret {
		return text, caret
	}
	inserted := "@" + member.Name + " "
	newText := text[:state.Start] + inserted + text[caret:]
	return newText, state.Start + len(inserted)
}

// CompleteMention recomputes the active mention from the text and caret
// and applies the selected member to it. The span to replace is never
// taken from the caller; a caret with no open mention is rejected.
func CompleteMention(text string, caret int, member models.Member) (string, int, error) {
	state, active := ActiveMention(text, caret)
	if !active {
		return "", 0, models.Validation("caret", "no active mention at the caret position")
	}
	newText, newCaret := ApplyMention(text, caret, state, member)
	return newText, newCaret, nil
}

// ExtractMentions resolves the literal @Name tokens in a stored comment
// against the current task force, best effort. Members who left the force
// or were renamed after the comment was written are simply not matched.
func ExtractMentions(text string, force []models.Member) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range force {
		if m.Name == "" || seen[m.Name] {
			continue
		}
		if strings.Contains(text, "@"+m.Name) {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	}
	return names
}
