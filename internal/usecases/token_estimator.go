package usecases

import (
	"unicode"

	"chat-embed.backend/internal/domain/entities"
)

const (
	// completionRatio approximates completion size as a share of the
	// prompt; used for pre-call accounting estimates, not billing truth.
	completionRatio = 0.2
	completionFloor = 100

	// subwordSize is the run length one token covers inside a word
	subwordSize = 4
)

// EstimateMessage approximates the token count of one message. The
// message is formatted as "role: content" and tokenized with a
// deterministic subword rule: every punctuation rune is a token, and
// every word contributes one token per started 4-rune chunk.
func EstimateMessage(msg entities.CanonicalMessage) int {
	return estimateText(string(msg.Role) + ": " + msg.Content)
}

// EstimateConversation sums the estimated tokens over all messages
func EstimateConversation(messages []entities.CanonicalMessage) int {
	total := 0
	for _, msg := range messages {
		total += EstimateMessage(msg)
	}
	return total
}

// EstimateCompletion approximates completion tokens from the prompt
// size: max(100, ceil(promptTokens * 0.2)).
func EstimateCompletion(promptTokens int) int {
	estimated := promptTokens * 20
	tokens := estimated / 100
	if estimated%100 != 0 {
		tokens++
	}
	if tokens < completionFloor {
		return completionFloor
	}
	return tokens
}

func estimateText(text string) int {
	tokens := 0
	wordLen := 0

	flush := func() {
		if wordLen == 0 {
			return
		}
		tokens += (wordLen + subwordSize - 1) / subwordSize
		wordLen = 0
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			wordLen++
		default:
			flush()
			tokens++
		}
	}
	flush()

	return tokens
}
