// Package extract turns pieces of a parsed Scribble Hub page into typed
// field values. Coercion helpers are pure; extractors take a subtree and a
// Path and fail fast with a *FieldError.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// OwnText returns the text of the first node in sel, excluding the text of
// its child elements. Whitespace runs are collapsed.
func OwnText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}

	var b strings.Builder
	for c := sel.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	}
	return NormalizeSpace(b.String())
}

// NormalizeSpace collapses every whitespace run into one space and trims the
// ends.
func NormalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// CleanAbbreviated keeps digits, '.', 'k' and 'm'. View and word counts are
// published abbreviated ("1.2k") and stay strings.
func CleanAbbreviated(text string) string {
	return keep(text, func(r rune) bool {
		return isDigit(r) || r == '.' || r == 'k' || r == 'm'
	})
}

// Digits removes every character that is not an ASCII digit.
func Digits(text string) string {
	return keep(text, isDigit)
}

// ParseInt strips every non-digit from text and parses the rest.
func ParseInt(text string) (int, error) {
	digits := Digits(text)
	if digits == "" {
		return 0, fmt.Errorf("%w: no digits in %q", ErrMalformedNumber, text)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedNumber, text, err)
	}
	return n, nil
}

// ParseInt64 is ParseInt for counts that outgrow int32 on the site (words,
// views, favorites).
func ParseInt64(text string) (int64, error) {
	digits := Digits(text)
	if digits == "" {
		return 0, fmt.Errorf("%w: no digits in %q", ErrMalformedNumber, text)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedNumber, text, err)
	}
	return n, nil
}

// ParseFloat strips everything but digits and '.' and parses the rest. More
// than one decimal point is malformed.
func ParseFloat(text string) (float64, error) {
	cleaned := keep(text, func(r rune) bool { return isDigit(r) || r == '.' })
	if Digits(cleaned) == "" || strings.Count(cleaned, ".") > 1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, text)
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedNumber, text, err)
	}
	return f, nil
}

func keep(text string, ok func(rune) bool) string {
	var b strings.Builder
	for _, r := range text {
		if ok(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
