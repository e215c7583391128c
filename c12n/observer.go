package c12n

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Observer is notified of every classified case.
type Observer interface {
	CaseClassified(c Case)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(c Case)

func (f ObserverFunc) CaseClassified(c Case) {
	f(c)
}

// GlyphObserver prints a green "*" for each correct case and a red "_"
// for each miss. With ShowRanked, misses are followed by the candidates
// from best down to the true class.
type GlyphObserver struct {
	W          io.Writer
	ShowRanked bool
	NoColor    bool
}

func (g *GlyphObserver) CaseClassified(c Case) {
	glyph := g.glyph(c.Correct)
	fmt.Fprint(g.W, glyph)

	if !g.ShowRanked || c.Correct {
		return
	}

	if c.Header != nil {
		fmt.Fprintln(g.W, c.Header())
	} else {
		fmt.Fprintln(g.W)
	}
	fmt.Fprint(g.W, FormatRanking(c))
	fmt.Fprintln(g.W)
}

func (g *GlyphObserver) glyph(correct bool) string {
	switch {
	case correct && g.NoColor:
		return "*"
	case correct:
		return text.FgGreen.Sprint("*")
	case g.NoColor:
		return "_"
	default:
		return text.FgRed.Sprint("_")
	}
}

// FormatRanking renders the ranked candidates of c from best down to (and
// including) the true class, one line each.
func FormatRanking(c Case) string {
	var sb strings.Builder
	numModels := len(c.Ranking)
	for index, cand := range c.Ranking {
		mark := ""
		if cand.ModelID == c.ClassID {
			mark = "*"
		}
		name := ""
		if cand.ModelID < len(c.ClassNames) {
			name = c.ClassNames[cand.ModelID]
		}

		fmt.Fprintf(&sb, "  [%2d] %1s model: <%2d>  %e  : '%s'  r=%d\n",
			index, mark, cand.ModelID, cand.Score, name, numModels-1-index)

		if cand.ModelID == c.ClassID {
			break
		}
	}
	return sb.String()
}
