package services

import (
	"testing"

	"legalis-project/microservices/tasks-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mentionForce = []models.Member{
	{ID: "u-1", Name: "Jane Doe"},
	{ID: "u-2", Name: "Mark"},
}

func TestActiveMentionDetectsOpenFragment(t *testing.T) {
	text := "Hello @Ja"
	state, active := ActiveMention(text, len(text))

	require.True(t, active)
	assert.Equal(t, 6, state.Start)
	assert.Equal(t, "ja", state.Query)

	suggestions := SuggestMembers(mentionForce, state.Query)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Jane Doe", suggestions[0].Name)
}

func TestActiveMentionClosesOnSpace(t *testing.T) {
	text := "Hello @Jane "
	_, active := ActiveMention(text, len(text))
	assert.False(t, active)
}

func TestActiveMentionClosesOnNewline(t *testing.T) {
	text := "Hello @Jane\nmore"
	_, active := ActiveMention(text, len(text))
	assert.False(t, active)
}

func TestActiveMentionNoAtSign(t *testing.T) {
	text := "Hello there"
	_, active := ActiveMention(text, len(text))
	assert.False(t, active)
}

func TestActiveMentionUsesTextBeforeCaretOnly(t *testing.T) {
	// The '@' after the caret must not open a mention.
	text := "Hello world @Jane"
	_, active := ActiveMention(text, 5)
	assert.False(t, active)
}

func TestActiveMentionEmptyQueryMatchesAll(t *testing.T) {
	text := "Ping @"
	state, active := ActiveMention(text, len(text))

	require.True(t, active)
	assert.Equal(t, "", state.Query)
	assert.Len(t, SuggestMembers(mentionForce, state.Query), 2)
}

func TestApplyMentionReplacesSpanAndMovesCaret(t *testing.T) {
	text := "Hello @Ja"
	caret := len(text)
	state, active := ActiveMention(text, caret)
	require.True(t, active)

	newText, newCaret := ApplyMention(text, caret, state, mentionForce[0])
	assert.Equal(t, "Hello @Jane Doe ", newText)
	assert.Equal(t, len("Hello @Jane Doe "), newCaret)
}

func TestApplyMentionKeepsTrailingText(t *testing.T) {
	text := "Ask @Ma about filing"
	caret := len("Ask @Ma")
	state, active := ActiveMention(text, caret)
	require.True(t, active)

	newText, newCaret := ApplyMention(text, caret, state, mentionForce[1])
	assert.Equal(t, "Ask @Mark  about filing", newText)
	assert.Equal(t, len("Ask @Mark "), newCaret)
}

func TestCompleteMentionRecomputesSpanFromText(t *testing.T) {
	text := "Hello @Ja"
	newText, newCaret, err := CompleteMention(text, len(text), mentionForce[0])

	require.NoError(t, err)
	assert.Equal(t, "Hello @Jane Doe ", newText)
	assert.Equal(t, len("Hello @Jane Doe "), newCaret)
}

func TestCompleteMentionRejectsClosedMention(t *testing.T) {
	text := "Hello @Jane "
	_, _, err := CompleteMention(text, len(text), mentionForce[0])

	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestCompleteMentionRejectsCaretWithoutMention(t *testing.T) {
	// A caret that never saw an '@' must not splice anything.
	text := "Hello world"
	_, _, err := CompleteMention(text, 5, mentionForce[0])

	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestExtractMentionsResolvesAgainstForce(t *testing.T) {
	text := "Please see @Jane Doe and @Mark, also @Nobody"
	names := ExtractMentions(text, mentionForce)
	assert.Equal(t, []string{"Jane Doe", "Mark"}, names)
}

func TestExtractMentionsNoTokens(t *testing.T) {
	assert.Empty(t, ExtractMentions("no mentions here", mentionForce))
}
