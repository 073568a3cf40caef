// Package reassemble reconstructs linear document text from the paginated
// JSON shards the OCR engine writes for each page batch.
package reassemble

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// These structs mirror the slice of the OCR engine's output schema the
// reassembler cares about. Everything else in a shard is ignored.
type annotateFileResponse struct {
	Responses []annotateImageResponse `json:"responses"`
}

type annotateImageResponse struct {
	FullTextAnnotation *textAnnotation `json:"fullTextAnnotation"`
}

type textAnnotation struct {
	Text  string `json:"text"`
	Pages []page `json:"pages"`
}

type page struct {
	Blocks []block `json:"blocks"`
}

type block struct {
	Paragraphs []paragraph `json:"paragraphs"`
}

type paragraph struct {
	Words []word `json:"words"`
}

type word struct {
	Symbols []symbol `json:"symbols"`
}

type symbol struct {
	Text string `json:"text"`
}

// Assemble concatenates the text content of all shards, blank-line
// separated, in the order given. Shard order is the caller's discovery
// order; it is not guaranteed to match page order. A shard that cannot be
// parsed contributes nothing and is skipped, so one corrupt shard never
// takes down the whole document.
func Assemble(shards [][]byte) string {
	var parts []string
	for i, shard := range shards {
		text, err := shardText(shard)
		if err != nil {
			slog.Warn("Skipping unparseable OCR shard.", "shardIndex", i, "error", err)
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// shardText extracts the text of a single shard. The flattened full-text
// field is the common case; some engine output schemas omit it, in which
// case the text is rebuilt from the page structure.
func shardText(raw []byte) (string, error) {
	var resp annotateFileResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}

	var texts []string
	for _, r := range resp.Responses {
		if r.FullTextAnnotation != nil && r.FullTextAnnotation.Text != "" {
			texts = append(texts, r.FullTextAnnotation.Text)
		}
	}
	if len(texts) > 0 {
		return strings.TrimSpace(strings.Join(texts, "\n\n")), nil
	}

	var b strings.Builder
	for _, r := range resp.Responses {
		if r.FullTextAnnotation == nil {
			continue
		}
		for _, p := range r.FullTextAnnotation.Pages {
			writePage(&b, p)
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// writePage walks page -> block -> paragraph -> word -> symbol, with a space
// after each word, a newline after each paragraph, and the caller adding the
// blank line after each page.
func writePage(b *strings.Builder, p page) {
	for _, blk := range p.Blocks {
		for _, par := range blk.Paragraphs {
			for _, w := range par.Words {
				for _, s := range w.Symbols {
					b.WriteString(s.Text)
				}
				b.WriteString(" ")
			}
			b.WriteString("\n")
		}
	}
}
