package generator

import (
	"fmt"
	"strconv"
	"strings"

	"wwtxtp/internal/render"
)

// fnvID hashes a lowercased name to its authored 32-bit id, matching
// the tool's hashing of group, state, and switch names.
func fnvID(name string) uint32 {
	const (
		offset = 2166136261
		prime  = 16777619
	)
	hash := uint32(offset)
	for _, b := range []byte(strings.ToLower(name)) {
		hash = hash*prime ^ uint32(b)
	}
	return hash
}

// resolveID parses an id token: a raw number passes through, anything
// else hashes as a name.
func resolveID(token string) (uint32, string) {
	token = strings.TrimSpace(token)
	if v, err := strconv.ParseUint(token, 10, 32); err == nil {
		return uint32(v), ""
	}
	return fnvID(token), token
}

// parseSelectorDefaults turns configured "group=value" pins into a
// fixed selector combo. Each pin lands under both selector kinds: the
// configuration has no way to say which flavor a group is, and a group
// id only ever exists as one of them.
func parseSelectorDefaults(entries []string) (render.SelectorCombo, error) {
	var combo render.SelectorCombo
	for _, entry := range entries {
		groupToken, valueToken, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("selector default %q must be group=value", entry)
		}
		group, groupName := resolveID(groupToken)
		value, valueName := resolveID(valueToken)
		for _, kind := range []render.SelectorKind{render.SelectorState, render.SelectorSwitch} {
			combo = append(combo, render.Selector{
				Kind:      kind,
				Group:     group,
				GroupName: groupName,
				Value:     value,
				ValueName: valueName,
			})
		}
	}
	return combo, nil
}

// parseParamDefaults turns configured "name=value" pins into a fixed
// parameter combo.
func parseParamDefaults(entries []string) (render.ParamCombo, error) {
	var combo render.ParamCombo
	for _, entry := range entries {
		nameToken, valueToken, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("param default %q must be name=value", entry)
		}
		id, name := resolveID(nameToken)
		value, err := strconv.ParseFloat(strings.TrimSpace(valueToken), 64)
		if err != nil {
			return nil, fmt.Errorf("param default %q: %w", entry, err)
		}
		combo = append(combo, render.Param{ID: id, Name: name, Value: value})
	}
	return combo, nil
}
