package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/revelaction/interlin/align"
	"github.com/revelaction/interlin/dep"
	"github.com/revelaction/interlin/igt"
)

const Defaultformat = "igt"

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"

	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
)

func SupportedFormats() []string {
	return []string{"igt", "align", "dep", "all"}
}

// Item is one instance to render, with the document it belongs to.
type Item struct {
	DocID    int
	DocTitle string
	Instance *igt.Instance

	// Error is the processing error of the instance, if any.
	Error string
}

// Printer renders a list of items.
type Printer interface {
	Render(items []Item)
}

type Renderer struct {
	Out io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines what is printed for every instance
	//
	// igt: the three lines in columns, with gloss tags
	// align: the translation to gloss alignments
	// dep: the projected language dependency structure
	// all: everything above
	Format string
}

var _ Printer = (*Renderer)(nil)

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{Out: out, Format: Defaultformat}
}

func (r *Renderer) Render(items []Item) {
	for _, it := range items {
		r.Item(it)
	}
}

// Item prints one instance in the current format, followed by a blank line.
func (r *Renderer) Item(it Item) {
	if r.HasPrefix {
		fmt.Fprintln(r.Out, r.prefix(it))
	}

	if it.Error != "" {
		fmt.Fprintln(r.Out, r.color(Red, "error: "+it.Error))
	}

	inst := it.Instance
	if inst == nil {
		fmt.Fprintln(r.Out)
		return
	}

	var blocks []string
	switch r.Format {
	case "align":
		blocks = append(blocks, r.Alignments(inst))
	case "dep":
		blocks = append(blocks, r.Structure(inst))
	case "all":
		blocks = append(blocks, r.Interlinear(inst), r.Alignments(inst), r.Structure(inst))
	default:
		blocks = append(blocks, r.Interlinear(inst))
	}

	for _, b := range blocks {
		if b != "" {
			fmt.Fprint(r.Out, b)
		}
	}
	fmt.Fprintln(r.Out)
}

// Interlinear lays the language and gloss words out in columns, adds a row of
// gloss word tags when any is set, and ends with the translation line.
func (r *Renderer) Interlinear(inst *igt.Instance) string {
	var lang, gloss []string
	if inst.Lang != nil {
		lang = hyphenated(inst.Lang)
	}
	if inst.Gloss != nil {
		gloss = hyphenated(inst.Gloss)
	}

	n := max(len(lang), len(gloss))
	var tags []string
	hasTags := false
	if inst.Gloss != nil {
		for _, w := range inst.Gloss.Words {
			tags = append(tags, w.Tag())
			if w.Tag() != "" {
				hasTags = true
			}
		}
	}

	widths := make([]int, n)
	for i := range n {
		widths[i] = max(runeLen(at(lang, i)), runeLen(at(gloss, i)))
		if hasTags {
			widths[i] = max(widths[i], runeLen(at(tags, i)))
		}
	}

	var str strings.Builder
	str.WriteString(r.row(lang, widths, ""))
	str.WriteString(r.row(gloss, widths, Teal))
	if hasTags {
		str.WriteString(r.row(tags, widths, Yellow256))
	}
	if inst.Trans != nil {
		str.WriteString(r.color(Grey256, "'"+inst.Trans.String()+"'"))
		str.WriteString("\n")
	}
	return str.String()
}

func (r *Renderer) row(cells []string, widths []int, color string) string {
	var str strings.Builder
	for i, w := range widths {
		cell := at(cells, i)
		pad := strings.Repeat(" ", w-runeLen(cell))
		if color != "" {
			cell = r.color(color, cell)
		}
		str.WriteString(cell)
		if i < len(widths)-1 {
			str.WriteString(pad + "  ")
		}
	}
	return strings.TrimRight(str.String(), " ") + "\n"
}

// Alignments lists every translation word with the gloss tokens it is
// aligned to, as "word(i) -> sub(word.sub) ...". Unaligned words are not
// listed.
func (r *Renderer) Alignments(inst *igt.Instance) string {
	if inst.Trans == nil || inst.Gloss == nil {
		return ""
	}

	byTrans := map[int][]string{}
	for _, p := range align.Pairs(inst) {
		tok := inst.Gloss.At(p.Gloss)
		if tok == nil {
			continue
		}
		byTrans[p.Trans] = append(byTrans[p.Trans], fmt.Sprintf("%s(%s)", r.color(Teal, tok.Text()), p.Gloss))
	}

	var str strings.Builder
	for _, tw := range inst.Trans.Words {
		targets, ok := byTrans[tw.Index()]
		if !ok {
			continue
		}
		fmt.Fprintf(&str, "%s(%d) -> %s\n", r.color(Green256, tw.Text()), tw.Index(), strings.Join(targets, " "))
	}
	return str.String()
}

// Structure lists the links of the language dependency structure as
// "child --type--> parent".
func (r *Renderer) Structure(inst *igt.Instance) string {
	if inst.Lang == nil || inst.Lang.DS == nil {
		return ""
	}

	var str strings.Builder
	for _, l := range inst.Lang.DS.Links() {
		fmt.Fprintf(&str, "%s --%s--> %s\n", r.color(White, nodeText(l.Child)), l.Type, parentText(l))
	}
	return str.String()
}

func (r *Renderer) prefix(it Item) string {
	id := ""
	if it.Instance != nil {
		id = it.Instance.ID
	}
	return fmt.Sprintf("[%s %2d] %s", r.color(Grey256, title(it.DocTitle)), it.DocID, r.color(Purple, id))
}

func (r *Renderer) color(c, s string) string {
	if !r.HasColor || s == "" {
		return s
	}
	return c + s + Off
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {
	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			r.Format = supported[(i+1)%len(supported)]
			return
		}
	}
	r.Format = supported[0]
}

func (r *Renderer) NextPrefix() {
	// toggle
	r.HasPrefix = !r.HasPrefix
}

func nodeText(n dep.Node) string {
	return fmt.Sprintf("%s(%d)", n, n.Index())
}

func parentText(l dep.Link) string {
	if l.IsRoot() {
		return "ROOT"
	}
	return nodeText(l.Parent)
}

func hyphenated(p *igt.Phrase) []string {
	s := make([]string, len(p.Words))
	for i, w := range p.Words {
		s[i] = w.Hyphenated()
	}
	return s
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func title(t string) string {
	if runeLen(t) <= 20 {
		return fmt.Sprintf("%-20s", t)
	}
	return string([]rune(t)[:20])
}
