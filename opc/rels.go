package opc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Relationship is one entry of a part's relationship map. Target is an
// absolute part name for internal relationships and the raw URI for
// external ones.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Relationships maps relationship IDs to entries.
type Relationships map[string]Relationship

// Target returns the resolved target of id, if present.
func (r Relationships) Target(id string) (string, bool) {
	rel, ok := r[id]
	if !ok {
		return "", false
	}
	return rel.Target, true
}

// FirstOfType returns the first relationship of the given type in ID order.
func (r Relationships) FirstOfType(relType string) (Relationship, bool) {
	var best Relationship
	found := false
	for _, rel := range r {
		if rel.Type != relType {
			continue
		}
		if !found || rel.ID < best.ID {
			best = rel
			found = true
		}
	}
	return best, found
}

// relationshipsXML represents _rels/*.rels files
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// RelsPath returns the relationship part name for a source part. The empty
// source names the package itself.
func RelsPath(part string) string {
	part = strings.TrimPrefix(part, "/")
	if part == "" {
		return "_rels/.rels"
	}
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// Relationships parses the relationship map of a source part. A part
// without relationships yields an empty map.
func (p *Package) Relationships(part string) (Relationships, error) {
	rels := make(Relationships)
	data, err := p.Read(RelsPath(part))
	if errors.Is(err, ErrPartNotFound) {
		return rels, nil
	}
	if err != nil {
		return nil, err
	}

	var parsed relationshipsXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing relationships of %q: %w", part, err)
	}

	for _, rel := range parsed.Relationships {
		external := strings.EqualFold(rel.TargetMode, "External")
		target := rel.Target
		if !external {
			target = ResolveTarget(part, rel.Target)
		}
		rels[rel.ID] = Relationship{
			ID:       rel.ID,
			Type:     rel.Type,
			Target:   target,
			External: external,
		}
	}
	return rels, nil
}

// ResolveTarget resolves a relationship target against the directory of
// its source part. Absolute targets are taken from the package root.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	base := path.Dir(strings.TrimPrefix(source, "/"))
	if base == "." || source == "" {
		return path.Clean(target)
	}
	return path.Clean(path.Join(base, target))
}
