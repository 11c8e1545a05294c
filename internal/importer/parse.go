package importer

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/festhunt/treasurehunt/internal/quiz"
)

// QuestionImport is one question as parsed from an uploaded document,
// defaults applied, not yet validated.
type QuestionImport struct {
	Order      int
	RoundType  quiz.RoundType
	AnswerMode quiz.AnswerMode
	Clue       string
	Answer     string
	Hints      [3]string
	Penalties  [3]int
	MaxPoints  int
	ImageURL   string
	AudioURL   string
	Options    []OptionImport
}

// OptionImport is one selectable option; SortOrder follows document order.
type OptionImport struct {
	Label     string
	IsCorrect bool
	SortOrder int
}

// xmlNode is a schema-free XML element. Parsing into a generic tree rather
// than fixed structs lets the field synonyms below share one lookup path.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []xmlNode  `xml:",any"`
	Text    string     `xml:",chardata"`
}

func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

// text returns the trimmed text of the first child matching any of the
// given element names, tried in order.
func (n *xmlNode) text(names ...string) string {
	for _, name := range names {
		for i := range n.Nodes {
			if strings.EqualFold(n.Nodes[i].XMLName.Local, name) {
				return strings.TrimSpace(n.Nodes[i].Text)
			}
		}
	}
	return ""
}

func (n *xmlNode) number(fallback int, names ...string) int {
	s := n.text(names...)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

// Parse reads an XML document and extracts every <question> element found
// anywhere in the tree. Tag names are matched case-insensitively and common
// spelling variants are accepted. Orders are assigned sequentially from
// startOrder.
func Parse(r io.Reader, startOrder int) ([]QuestionImport, error) {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, ErrMalformedDocument
	}

	var questions []QuestionImport
	collectQuestions(&root, &questions)
	for i := range questions {
		questions[i].Order = startOrder + i
	}
	return questions, nil
}

func collectQuestions(n *xmlNode, out *[]QuestionImport) {
	if strings.EqualFold(n.XMLName.Local, "question") {
		*out = append(*out, parseQuestion(n))
		return
	}
	for i := range n.Nodes {
		collectQuestions(&n.Nodes[i], out)
	}
}

func parseQuestion(n *xmlNode) QuestionImport {
	q := QuestionImport{
		RoundType:  quiz.ParseRoundType(n.text("type")),
		AnswerMode: quiz.ParseAnswerMode(n.text("answerMode", "answer_mode")),
		Clue:       n.text("clue", "text"),
		Answer:     n.text("answer"),
		MaxPoints:  n.number(100, "maxPoints", "max_points"),
		ImageURL:   n.text("imageUrl", "image_url", "image"),
		AudioURL:   n.text("audioUrl", "audio_url", "audio"),
	}
	for i := 0; i < 3; i++ {
		slot := strconv.Itoa(i + 1)
		q.Hints[i] = n.text("hint"+slot, "clue"+slot)
		q.Penalties[i] = n.number(20, "hint"+slot+"Penalty", "hint"+slot+"_penalty")
	}
	q.Options = parseOptions(n)
	return q
}

func parseOptions(n *xmlNode) []OptionImport {
	var opts []OptionImport
	for i := range n.Nodes {
		child := &n.Nodes[i]
		if !strings.EqualFold(child.XMLName.Local, "options") {
			continue
		}
		for j := range child.Nodes {
			opt := &child.Nodes[j]
			if !strings.EqualFold(opt.XMLName.Local, "option") {
				continue
			}
			opts = append(opts, OptionImport{
				Label:     strings.TrimSpace(opt.Text),
				IsCorrect: strings.EqualFold(opt.attr("correct"), "true"),
				SortOrder: len(opts),
			})
		}
	}
	return opts
}
