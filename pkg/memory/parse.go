package memory

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	headerDelimiter = "---"
	journalHeading  = "Iteration: "
)

var (
	errMissingHeader  = errors.New("missing header delimiter")
	errUnclosedHeader = errors.New("unclosed header block")

	// relation annotations use lowercase types so that ordinary italic
	// lines such as "_Source: the manual_" stay part of the body.
	relationLine = regexp.MustCompile(`^_([a-z][a-z0-9_-]*): (.+)_$`)
)

// header mirrors the key/value block at the top of an entry file. Tags and
// confidence are kept as nodes so that odd values degrade to defaults
// instead of failing the whole entry.
type header struct {
	Type         string    `yaml:"type"`
	Title        string    `yaml:"title"`
	Tags         yaml.Node `yaml:"tags"`
	Created      string    `yaml:"created"`
	Confidence   yaml.Node `yaml:"confidence"`
	SupersededBy string    `yaml:"superseded_by"`
}

// headerEnd returns the index of the closing delimiter line. lines[0] is
// the opening delimiter.
func headerEnd(lines []string) (int, error) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != headerDelimiter {
		return 0, errMissingHeader
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\r") == headerDelimiter {
			return i, nil
		}
	}
	return 0, errUnclosedHeader
}

func splitLines(raw string) []string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	return strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
}

// Parse decodes the contents of an entry file. id is the filename without
// its extension. A missing or unknown type, or an undecodable header, is an
// error; missing confidence, tags and created fall back to defaults.
func Parse(id, raw string) (*Entry, error) {
	lines := splitLines(raw)
	end, err := headerEnd(lines)
	if err != nil {
		return nil, fmt.Errorf("memory: parse %s: %w", id, err)
	}

	var h header
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &h); err != nil {
		return nil, fmt.Errorf("memory: parse %s: header: %w", id, err)
	}
	if strings.TrimSpace(h.Type) == "" {
		return nil, fmt.Errorf("memory: parse %s: missing type", id)
	}
	kind, err := ParseKind(h.Type)
	if err != nil {
		return nil, fmt.Errorf("memory: parse %s: %w", id, err)
	}

	e := &Entry{
		ID:           id,
		Kind:         kind,
		Tags:         decodeTags(&h.Tags),
		Confidence:   decodeConfidence(&h.Confidence),
		SupersededBy: strings.TrimSpace(h.SupersededBy),
		Raw:          raw,
	}
	if t, ok := parseCreated(h.Created); ok {
		e.Created = t
	} else if t, ok := createdFromID(id); ok {
		e.Created = t
	}

	heading, body, relations := parseBody(lines[end+1:])
	e.Body = body
	e.Relations = relations
	switch {
	case kind == KindJournal:
		e.Title = strings.TrimPrefix(heading, journalHeading)
		if e.Title == "" {
			e.Title = id
		}
	case heading != "":
		e.Title = heading
	case h.Title != "":
		e.Title = h.Title
	default:
		e.Title = id
	}
	return e, nil
}

func decodeTags(n *yaml.Node) []string {
	var raw []string
	switch n.Kind {
	case yaml.SequenceNode:
		if err := n.Decode(&raw); err != nil {
			return []string{}
		}
	case yaml.ScalarNode:
		raw = strings.Split(strings.Trim(n.Value, "[]"), ",")
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.Trim(strings.TrimSpace(t), `"'`)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func decodeConfidence(n *yaml.Node) float64 {
	if n.Kind != yaml.ScalarNode {
		return MissingConfidence
	}
	c, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64)
	if err != nil {
		return MissingConfidence
	}
	return c
}

// parseBody splits what follows the header into the heading text, the
// body, and the relation annotations trailing the body.
func parseBody(lines []string) (heading, body string, relations []Relation) {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		heading = strings.TrimSpace(lines[0][2:])
		lines = lines[1:]
	}

	end := len(lines)
	for end > 0 {
		line := strings.TrimSpace(lines[end-1])
		if line == "" {
			end--
			continue
		}
		m := relationLine.FindStringSubmatch(line)
		if m == nil {
			break
		}
		relations = append([]Relation{{Type: m[1], Target: strings.TrimSpace(m[2])}}, relations...)
		end--
	}
	body = strings.TrimSpace(strings.Join(lines[:end], "\n"))
	return heading, body, relations
}

// Render produces the on-disk form of e.
func Render(e *Entry) string {
	var sb strings.Builder
	sb.WriteString(headerDelimiter + "\n")
	fmt.Fprintf(&sb, "type: %s\n", e.Kind)
	fmt.Fprintf(&sb, "tags: %s\n", renderTags(e.Tags))
	fmt.Fprintf(&sb, "created: %s\n", e.Created.UTC().Format(createdLayout))
	fmt.Fprintf(&sb, "confidence: %s\n", formatConfidence(e.Confidence))
	if e.SupersededBy != "" {
		fmt.Fprintf(&sb, "superseded_by: %s\n", yamlScalar(e.SupersededBy))
	}
	sb.WriteString(headerDelimiter + "\n\n")

	heading := e.Title
	if e.Kind == KindJournal {
		heading = journalHeading + e.Title
	}
	sb.WriteString("# " + heading + "\n\n")
	if body := strings.TrimSpace(e.Body); body != "" {
		sb.WriteString(body + "\n")
	}
	if len(e.Relations) > 0 {
		sb.WriteString("\n")
		for _, r := range e.Relations {
			sb.WriteString(renderRelation(r) + "\n")
		}
	}
	return sb.String()
}

func renderTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = strconv.Quote(t)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func renderRelation(r Relation) string {
	return fmt.Sprintf("_%s: %s_", r.Type, r.Target)
}

func formatConfidence(c float64) string {
	s := strconv.FormatFloat(c, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// yamlScalar encodes v as a single-line YAML scalar, quoting it when the
// plain form would read back differently.
func yamlScalar(v string) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return strconv.Quote(v)
	}
	s := strings.TrimSuffix(string(out), "\n")
	if strings.Contains(s, "\n") {
		return strconv.Quote(v)
	}
	return s
}

// setHeaderField rewrites the line holding key inside the header of raw,
// or inserts it just before the closing delimiter. value must already be
// YAML encoded. Everything else in raw is left byte for byte as it was.
func setHeaderField(raw, key, value string) (string, error) {
	lines := splitLines(raw)
	end, err := headerEnd(lines)
	if err != nil {
		return "", err
	}
	line := key + ": " + value
	for i := 1; i < end; i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), key+":") {
			lines[i] = line
			return strings.Join(lines, "\n"), nil
		}
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:end]...)
	out = append(out, line)
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n"), nil
}

// appendRelation adds an annotation line at the end of raw, keeping
// consecutive annotations in one block.
func appendRelation(raw string, r Relation) string {
	trimmed := strings.TrimRight(raw, "\n")
	sep := "\n\n"
	if i := strings.LastIndex(trimmed, "\n"); i >= 0 && relationLine.MatchString(strings.TrimSpace(trimmed[i+1:])) {
		sep = "\n"
	}
	return trimmed + sep + renderRelation(r) + "\n"
}

// stripHeader returns everything after the header block, trimmed.
func stripHeader(raw string) string {
	lines := splitLines(raw)
	end, err := headerEnd(lines)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(strings.Join(lines[end+1:], "\n"))
}
