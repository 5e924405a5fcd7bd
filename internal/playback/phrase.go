package playback

// phrases splits text into speakable spans, breaking after word-final
// sentence punctuation. Offsets are byte offsets into text so the UI can
// highlight the exact span being vocalized.
func phrases(text string) []Range {
	var spans []Range
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			spans = append(spans, Range{Offset: start, Length: end - start})
		}
		start = -1
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if isSpace(c) {
			continue
		}
		if start < 0 {
			start = i
		}
		// punctuation inside a word ("3.14") does not end a phrase
		if isPhraseEnd(c) && (i+1 == len(text) || isSpace(text[i+1])) {
			flush(i + 1)
		}
	}
	flush(len(text))

	return spans
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isPhraseEnd(c byte) bool {
	switch c {
	case '.', '!', '?', ';', ':':
		return true
	}
	return false
}
