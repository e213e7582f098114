// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package picon resolves the channel-logo URL a receiver serves for the
// channel currently playing.
package picon

import (
	"strings"
	"unicode/utf8"

	unorm "golang.org/x/text/unicode/norm"
)

// excluded lists the characters a picon file name never contains.
const excluded = "/\\'\"`? ():<>|.\n"

var symbolWords = strings.NewReplacer("&", "and", "+", "plus", "*", "star")

// Key converts a channel display name into the file name stem the receiver
// uses for its picon: accents folded to ASCII, punctuation dropped,
// & + * spelled out, lowercased. The result may be empty.
func Key(name string) string {
	decomposed := unorm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r >= utf8.RuneSelf {
			continue
		}
		if strings.ContainsRune(excluded, r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.ToLower(symbolWords.Replace(b.String()))
}
