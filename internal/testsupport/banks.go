package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"wwtxtp/internal/bank"
)

// NodeSpec builds one hierarchy node for fixtures.
type NodeSpec struct {
	Name     string            `json:"name"`
	Value    int64             `json:"value,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []NodeSpec        `json:"children,omitempty"`
}

// Node converts a spec into a bank node tree.
func (s NodeSpec) Node() *bank.Node {
	n := &bank.Node{Name: s.Name, Value: s.Value, Attrs: s.Attrs}
	for _, c := range s.Children {
		n.Children = append(n.Children, c.Node())
	}
	return n
}

// SID builds the self-identifying sub-node every registered object
// carries, optionally named.
func SID(id uint32, hashName string) NodeSpec {
	spec := NodeSpec{Name: "sid", Value: int64(id)}
	if hashName != "" {
		spec.Attrs = map[string]string{bank.AttrHashName: hashName}
	}
	return spec
}

// Obj builds one top-level hierarchy item of the given type.
func Obj(typeName string, sid NodeSpec, fields ...NodeSpec) NodeSpec {
	return NodeSpec{Name: typeName, Children: append([]NodeSpec{sid}, fields...)}
}

// Field builds one value-carrying field sub-node.
func Field(name string, value int64, children ...NodeSpec) NodeSpec {
	return NodeSpec{Name: name, Value: value, Children: children}
}

// NamedField builds a field sub-node carrying a hash name.
func NamedField(name string, value int64, hashName string, children ...NodeSpec) NodeSpec {
	return NodeSpec{
		Name:     name,
		Value:    value,
		Attrs:    map[string]string{bank.AttrHashName: hashName},
		Children: children,
	}
}

// NewBank assembles a bank from item specs.
func NewBank(id uint32, filename string, items ...NodeSpec) *bank.Bank {
	b := &bank.Bank{ID: id, Filename: filename}
	for _, item := range items {
		b.Items = append(b.Items, item.Node())
	}
	return b
}

// WriteBankDump serializes a bank fixture to a dump file on disk.
func WriteBankDump(t testing.TB, dir string, id uint32, filename string, items ...NodeSpec) string {
	t.Helper()

	dump := struct {
		ID       uint32     `json:"id"`
		Filename string     `json:"filename"`
		Items    []NodeSpec `json:"items"`
	}{ID: id, Filename: filename, Items: items}

	data, err := json.Marshal(dump)
	if err != nil {
		t.Fatalf("marshal bank dump: %v", err)
	}
	path := filepath.Join(dir, filename+bank.DumpExt)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write bank dump: %v", err)
	}
	return path
}
