package txtp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wwtxtp/internal/logging"
)

// Ext is the descriptor file extension.
const Ext = ".txtp"

type infoLine struct {
	depth int
	text  string
}

type source struct {
	id   uint32
	name string
}

// Txtp accumulates one artifact: the playable sources a render pass
// reached, an annotated info tree, and the tags that make its name
// distinct from sibling combinations.
type Txtp struct {
	cache *Cache

	baseName string
	baseID   uint32

	selectorShort string
	selectorLong  string
	chunkText     string
	defaultChunk  bool
	unreachable   bool
	paramText     string

	callerName    string
	secondary     bool
	secondaryKind string

	depth   int
	info    []infoLine
	sources []source
	banks   []string
}

// New starts an empty artifact bound to the run's emission context.
func New(cache *Cache) *Txtp {
	return &Txtp{cache: cache}
}

// Next pushes one object onto the info tree. The first object names
// the artifact: display name when the object has one, short id
// otherwise.
func (t *Txtp) Next(typeName string, id uint32, name, bankName string) {
	t.depth++
	if t.baseName == "" && t.baseID == 0 {
		t.baseID = id
		t.baseName = name
	}
	line := typeName
	if id != 0 {
		line += " " + strconv.FormatUint(uint64(id), 10)
	}
	if name != "" {
		line += " (" + name + ")"
	}
	t.info = append(t.info, infoLine{depth: t.depth, text: line})
	if bankName != "" && !contains(t.banks, bankName) {
		t.banks = append(t.banks, bankName)
	}
}

// Done pops the info tree level opened by the matching Next.
func (t *Txtp) Done() {
	if t.depth > 0 {
		t.depth--
	}
}

// AddInfo appends one annotation line at the current tree depth.
func (t *Txtp) AddInfo(text string) {
	t.info = append(t.info, infoLine{depth: t.depth + 1, text: text})
}

// AddSelector registers an applied selector for the name and info
// tree. States render as (group=value), switches as [group=value].
// Unset values ("-") stay out of the short name unless the run asks
// for full variable names; they tend to be noise.
func (t *Txtp) AddSelector(groupName, valueName string, isSwitch bool) {
	if valueName == "" {
		valueName = "-"
	}
	text := "(" + groupName + "=" + valueName + ")"
	if isSwitch {
		text = "[" + groupName + "=" + valueName + "]"
	}
	t.selectorLong += text
	if valueName != "-" || t.cache.NameVars {
		t.selectorShort += " " + text
	}
	t.info = append(t.info, infoLine{depth: t.depth + 1, text: "~ " + text})
}

// AddChunk registers the applied state chunk. Unreachable chunks keep
// a "~" prefix so leftovers are recognizable next to their reachable
// siblings.
func (t *Txtp) AddChunk(groupName, valueName string, unreachable bool) {
	text := "{" + groupName + "=" + valueName + "}"
	if unreachable {
		text = "~" + text
		t.unreachable = true
	}
	t.chunkText += " " + text
	t.info = append(t.info, infoLine{depth: t.depth + 1, text: "~ " + text})
}

// MarkDefaultChunk tags the extra no-chunk pass.
func (t *Txtp) MarkDefaultChunk() {
	t.defaultChunk = true
}

// AddParam registers one applied parameter bucket.
func (t *Txtp) AddParam(name string, value float64) {
	text := "{" + name + "=" + strconv.FormatFloat(value, 'f', -1, 64) + "}"
	t.paramText += " " + text
	t.info = append(t.info, infoLine{depth: t.depth + 1, text: "~ " + text})
}

// AddSource appends one playable source leaf.
func (t *Txtp) AddSource(id uint32, name string) {
	t.sources = append(t.sources, source{id: id, name: name})
	line := "Source " + strconv.FormatUint(uint64(id), 10)
	if name != "" {
		line += " (" + name + ")"
	}
	t.info = append(t.info, infoLine{depth: t.depth + 1, text: line})
}

// SetCaller tags a secondary artifact with the object whose rendering
// discovered it.
func (t *Txtp) SetCaller(name string) { t.callerName = name }

// SetSecondary marks the artifact as a side-channel discovery of the
// given kind.
func (t *Txtp) SetSecondary(kind string) {
	t.secondary = true
	t.secondaryKind = kind
}

// Playable reports whether the render pass reached any source.
func (t *Txtp) Playable() bool { return len(t.sources) > 0 }

// Name composes the artifact name from the base object and every tag.
func (t *Txtp) Name() string {
	base := t.baseName
	if base == "" {
		base = strconv.FormatUint(uint64(t.baseID), 10)
	}
	var b strings.Builder
	if t.callerName != "" {
		b.WriteString(t.callerName)
		b.WriteString("-")
	}
	b.WriteString(base)
	if t.secondary {
		b.WriteString(" {")
		b.WriteString(t.secondaryKind)
		b.WriteString("}")
	}
	b.WriteString(t.selectorShort)
	b.WriteString(t.chunkText)
	if t.defaultChunk {
		b.WriteString(" {s}")
	}
	b.WriteString(t.paramText)
	if t.cache.UnusedMark {
		b.WriteString(" {unused}")
	}
	return Sanitize(b.String())
}

// Write finalizes the artifact: compose the name, suppress duplicates
// by content hash, record it in the index, and write the descriptor
// file. Unplayable passes (no sources) are counted and dropped.
func (t *Txtp) Write(ctx context.Context) error {
	c := t.cache
	if !t.Playable() {
		c.Stats.Silent++
		return nil
	}

	name := t.Name()
	body := t.render(name)
	sum := sha256.Sum256([]byte(body))
	hash := hex.EncodeToString(sum[:])

	created := !c.hashes[hash]
	c.hashes[hash] = true
	if created && c.index != nil {
		var err error
		created, err = c.index.Record(ctx, name, hash, c.RunID, t.callerName, t.tags())
		if err != nil {
			return fmt.Errorf("record artifact %s: %w", name, err)
		}
	}
	if !created && !c.AllowDupes {
		c.Stats.Duplicates++
		c.logger.Debug("duplicate artifact skipped", logging.String("name", name))
		return nil
	}

	c.Stats.Created++
	if c.UnusedMark {
		c.Stats.Unused++
	}
	if t.secondary {
		c.Stats.Secondary++
	}

	if c.NoWrite || c.OutDir == "" {
		return nil
	}

	// case-insensitive collision suffix; distinct content must not
	// overwrite an earlier artifact on case-folding filesystems
	key := FoldKey(name)
	if n := c.names[key]; n > 0 {
		name = fmt.Sprintf("%s #%d", name, n+1)
	}
	c.names[key]++

	path := filepath.Join(c.OutDir, name+Ext)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	c.logger.Debug("artifact written", logging.String("name", name))
	return nil
}

func (t *Txtp) tags() string {
	var tags []string
	if t.cache.UnusedMark {
		tags = append(tags, "unused")
	}
	if t.secondary {
		tags = append(tags, t.secondaryKind)
	}
	if t.defaultChunk {
		tags = append(tags, "default")
	}
	if t.unreachable {
		tags = append(tags, "unreachable")
	}
	return strings.Join(tags, ",")
}

func (t *Txtp) render(name string) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(name)
	b.WriteString("\n")
	if len(t.banks) > 0 {
		b.WriteString("# banks: ")
		b.WriteString(strings.Join(t.banks, ", "))
		b.WriteString("\n")
	}
	for _, line := range t.info {
		b.WriteString("#")
		b.WriteString(strings.Repeat(" ", line.depth*2))
		b.WriteString(line.text)
		b.WriteString("\n")
	}
	b.WriteString("#\n")
	for _, s := range t.sources {
		if s.name != "" {
			b.WriteString(s.name)
		} else {
			b.WriteString(strconv.FormatUint(uint64(s.id), 10))
		}
		b.WriteString(".wem\n")
	}
	if t.cache.Volume != "" {
		b.WriteString("#@volume ")
		b.WriteString(t.cache.Volume)
		b.WriteString("\n")
	}
	return b.String()
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
