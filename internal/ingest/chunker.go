package ingest

// DefaultChunkSize is the chunk length in characters used when none is
// configured.
const DefaultChunkSize = 500

// SplitText cuts text into fixed-size rune chunks.
func SplitText(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultChunkSize
	}

	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += maxChunkSize {
		end := start + maxChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
