package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/charts/pkg/settings"
	"github.com/go-drift/charts/pkg/surface"
)

// UpdateSnapshotsEnv names the variable that makes MatchesFile rewrite
// golden files instead of comparing.
const UpdateSnapshotsEnv = "CHARTS_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the scene tree.
type Snapshot struct {
	Size [2]float64 `json:"size"`
	Root *SceneNode `json:"root"`
}

// SceneNode is a layer or path of the serialized scene.
type SceneNode struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	ZIndex    float64      `json:"z,omitempty"`
	Transform []float64    `json:"transform,omitempty"`
	Fill      any          `json:"fill,omitempty"`
	Stroke    any          `json:"stroke,omitempty"`
	Commands  []string     `json:"commands,omitempty"`
	Children  []*SceneNode `json:"children,omitempty"`
}

// CaptureSnapshot serializes scene in paint order. Coordinates are rounded
// to two decimals.
func CaptureSnapshot(scene *surface.Scene) *Snapshot {
	size := scene.Size()
	counter := &typeCounter{}
	return &Snapshot{
		Size: [2]float64{round2(size.Width), round2(size.Height)},
		Root: captureNode(scene.Root(), counter),
	}
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When CHARTS_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns the
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// PathCount returns the number of paths in the snapshot.
func (s *Snapshot) PathCount() int {
	var count func(n *SceneNode) int
	count = func(n *SceneNode) int {
		if n == nil {
			return 0
		}
		c := 0
		if n.Type == "path" {
			c = 1
		}
		for _, child := range n.Children {
			c += count(child)
		}
		return c
	}
	return count(s.Root)
}

// typeCounter assigns stable IDs like "layer#0", "path#3".
type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[typeName]
	c.counts[typeName] = n + 1
	return fmt.Sprintf("%s#%d", typeName, n)
}

func captureNode(e surface.Element, counter *typeCounter) *SceneNode {
	switch x := e.(type) {
	case surface.Layer:
		node := &SceneNode{ID: counter.next("layer"), Type: "layer", ZIndex: x.ZIndex()}
		if m := x.Transform(); !m.IsIdentity() {
			node.Transform = []float64{round2(m.A), round2(m.B), round2(m.C), round2(m.D), round2(m.E), round2(m.F)}
		}
		for _, child := range x.Children() {
			node.Children = append(node.Children, captureNode(child, counter))
		}
		return node
	case surface.Path:
		node := &SceneNode{ID: counter.next("path"), Type: "path", ZIndex: x.ZIndex()}
		if f := x.Fill(); !f.IsNone() {
			node.Fill = settings.EncodeFill(f)
		}
		if s := x.Stroke(); !s.IsNone() {
			node.Stroke = settings.EncodeStroke(s)
		}
		for _, c := range x.Commands() {
			node.Commands = append(node.Commands, formatCommand(c))
		}
		return node
	}
	return &SceneNode{ID: counter.next("element"), Type: "element"}
}

func formatCommand(c surface.PathCommand) string {
	if c.Op == surface.PathOpClose {
		return "Z"
	}
	op := "L"
	if c.Op == surface.PathOpMoveTo {
		op = "M"
	}
	return fmt.Sprintf("%s %v %v", op, round2(c.X), round2(c.Y))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	maxLen := max(len(expectedLines), len(actualLines))
	for i := 0; i < maxLen; i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}
