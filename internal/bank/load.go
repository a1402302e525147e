package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DumpExt is the extension of bank dumps produced by the bank parser.
const DumpExt = ".bnk.json"

type bankDump struct {
	ID       uint32      `json:"id"`
	Filename string      `json:"filename"`
	Items    []*nodeDump `json:"items"`
}

type nodeDump struct {
	Name     string            `json:"name"`
	Value    int64             `json:"value,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*nodeDump       `json:"children,omitempty"`
}

// LoadFile reads one parsed-bank dump from disk.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank dump: %w", err)
	}
	var dump bankDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("decode bank dump %s: %w", filepath.Base(path), err)
	}
	b := &Bank{ID: dump.ID, Filename: dump.Filename}
	if b.Filename == "" {
		b.Filename = filepath.Base(path)
	}
	for _, item := range dump.Items {
		b.Items = append(b.Items, buildNode(item))
	}
	return b, nil
}

func buildNode(d *nodeDump) *Node {
	n := &Node{Name: d.Name, Value: d.Value, Attrs: d.Attrs}
	for _, c := range d.Children {
		n.Children = append(n.Children, buildNode(c))
	}
	return n
}

// LoadPaths loads bank dumps from files and directories, preserving the
// order given. Directory entries load in name order so repeated runs
// register banks identically.
func LoadPaths(paths []string) (*Set, error) {
	set := NewSet()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			b, err := LoadFile(path)
			if err != nil {
				return nil, err
			}
			set.Add(b)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", path, err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), DumpExt) {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			b, err := LoadFile(filepath.Join(path, name))
			if err != nil {
				return nil, err
			}
			set.Add(b)
		}
	}
	return set, nil
}
