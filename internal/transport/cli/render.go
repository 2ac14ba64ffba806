package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/sportspulse/internal/transport/dto"
)

func renderJSON(w io.Writer, resp *dto.AskResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

func renderText(w io.Writer, resp *dto.AskResponse, st styles) {
	var b strings.Builder

	b.WriteString(st.Answer.Render(resp.Answer))
	b.WriteString("\n")
	if !resp.Found {
		writeSummary(&b, resp, st)
		_, _ = io.WriteString(w, b.String())
		return
	}

	fmt.Fprintf(&b, "%s %s   %s %s\n",
		st.Label.Render("Confidence:"), st.confidence(resp.Score).Render(fmt.Sprintf("%.2f", resp.Score)),
		st.Label.Render("Source:"), st.Source.Render(sourceLabel(resp.Source)),
	)

	if ref := reference(resp.Meta["title"], resp.Meta["url"]); ref != "" {
		fmt.Fprintf(&b, "%s %s\n", st.Label.Render("From:"), st.Muted.Render(ref))
	}

	if len(resp.Answers) > 1 {
		b.WriteString("\n")
		b.WriteString(st.Label.Render("All answers"))
		b.WriteString("\n")
		for _, a := range resp.Answers {
			fmt.Fprintf(&b, "%d. %s %s %s\n", a.Rank,
				st.confidence(a.Score).Render(fmt.Sprintf("[%.2f]", a.Score)),
				a.Answer,
				st.Muted.Render("("+sourceLabel(a.Source)+")"),
			)
			if ref := reference(a.Title, a.URL); ref != "" {
				fmt.Fprintf(&b, "   %s\n", st.Muted.Render(ref))
			}
		}
	}

	writeSummary(&b, resp, st)
	_, _ = io.WriteString(w, b.String())
}

func writeSummary(b *strings.Builder, resp *dto.AskResponse, st styles) {
	sum := resp.SourceSummary
	if sum.Degraded {
		msg := "Web search unavailable"
		if sum.WebSearch.Reason != "" {
			msg += " (" + sum.WebSearch.Reason + ")"
		}
		b.WriteString("\n")
		b.WriteString(st.Warning.Render(msg + "; answered from the knowledge base only."))
		b.WriteString("\n")
	}
}

// reference joins the title and url of an answer's source document.
func reference(title, url string) string {
	switch {
	case title != "" && url != "":
		return title + " - " + url
	case url != "":
		return url
	default:
		return title
	}
}
