package service

import (
	"html"
	"strings"
	"unicode/utf8"
)

// EchoResult is the outcome of a deterministic echo transformation.
type EchoResult struct {
	Echoed         string
	OriginalLength int
}

// EchoMessage HTML-escapes the message, repeats it the requested number of
// times separated by single spaces, and optionally uppercases the result.
// The reported length is the rune count of the original message.
func EchoMessage(message string, repeat int, uppercase bool) EchoResult {
	sanitized := html.EscapeString(message)
	echoed := strings.TrimSpace(strings.Repeat(sanitized+" ", repeat))
	if uppercase {
		echoed = strings.ToUpper(echoed)
	}
	return EchoResult{Echoed: echoed, OriginalLength: utf8.RuneCountInString(message)}
}

// InspectResult describes simple textual characteristics of a message.
type InspectResult struct {
	Message       string
	Mirrored      string
	Length        int
	IsPalindrome  bool
	CaseSensitive bool
}

// InspectMessage mirrors the message and reports whether it reads the same in
// both directions. When caseSensitive is false the palindrome check ignores
// character casing; the mirrored string always preserves the original casing.
func InspectMessage(message string, caseSensitive bool) InspectResult {
	normalized := message
	if !caseSensitive {
		normalized = strings.ToLower(message)
	}
	return InspectResult{
		Message:       message,
		Mirrored:      reverse(message),
		Length:        utf8.RuneCountInString(message),
		IsPalindrome:  normalized == reverse(normalized),
		CaseSensitive: caseSensitive,
	}
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
