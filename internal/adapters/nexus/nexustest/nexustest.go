// Package nexustest provides a JSON file backed nexus container for tests
package nexustest

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
)

// Doc is the on-disk form of a fake container
type Doc struct {
	Floats  map[string][]float64 `json:"floats,omitempty"`
	Uint32s map[string][]uint32  `json:"uint32s,omitempty"`
	Strings map[string][]string  `json:"strings,omitempty"`
}

// WriteDoc stores d at path
func WriteDoc(t testing.TB, path string, d Doc) {
	t.Helper()
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("nexustest: marshal: %v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("nexustest: write %s: %v", path, err)
	}
}

// ReadDoc loads the doc at path
func ReadDoc(t testing.TB, path string) Doc {
	t.Helper()
	d, err := load(path)
	if err != nil {
		t.Fatalf("nexustest: %v", err)
	}
	return d
}

func load(path string) (Doc, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Doc{}, perr.IOf(err, "open %s", path)
	}
	var d Doc
	if err := json.Unmarshal(b, &d); err != nil {
		return Doc{}, perr.IOf(err, "decode %s", path)
	}
	return d, nil
}

// Opener opens Doc files. Flushes happen on Close of a read-write container
type Opener struct {
	// BeforeWrite, when set, runs ahead of every write and may fail it
	BeforeWrite func(path string) error

	opens    atomic.Int64
	inflight atomic.Int64
	overlap  atomic.Bool
}

// Opens reports how many containers were opened
func (o *Opener) Opens() int { return int(o.opens.Load()) }

// Overlapped reports whether two container calls ever ran at once
func (o *Opener) Overlapped() bool { return o.overlap.Load() }

// Open implements nexus.Opener
func (o *Opener) Open(path string, mode nexus.Mode) (nexus.Container, error) {
	d, err := load(path)
	if err != nil {
		return nil, err
	}
	o.opens.Add(1)
	return &container{o: o, path: path, mode: mode, doc: d}, nil
}

type container struct {
	o    *Opener
	mu   sync.Mutex
	path string
	mode nexus.Mode
	doc  Doc
	done bool
}

func (c *container) enter() func() {
	c.mu.Lock()
	if c.o.inflight.Add(1) > 1 {
		c.o.overlap.Store(true)
	}
	return func() {
		c.o.inflight.Add(-1)
		c.mu.Unlock()
	}
}

func (c *container) writable(p string) error {
	if c.done {
		return perr.Newf(perr.ErrorCodeIO, "nexustest: %s is closed", c.path)
	}
	if c.mode != nexus.ReadWrite {
		return perr.Newf(perr.ErrorCodeIO, "nexustest: %s opened read-only", c.path)
	}
	if c.o.BeforeWrite != nil {
		return c.o.BeforeWrite(p)
	}
	return nil
}

func (c *container) ReadFloat64s(p string) ([]float64, error) {
	defer c.enter()()
	if v, ok := c.doc.Floats[p]; ok {
		return append([]float64(nil), v...), nil
	}
	if v, ok := c.doc.Uint32s[p]; ok {
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	}
	return nil, nexus.NotFound(p)
}

func (c *container) ReadUint32s(p string) ([]uint32, error) {
	defer c.enter()()
	v, ok := c.doc.Uint32s[p]
	if !ok {
		return nil, nexus.NotFound(p)
	}
	return append([]uint32(nil), v...), nil
}

func (c *container) WriteUint32s(p string, v []uint32) error {
	defer c.enter()()
	if err := c.writable(p); err != nil {
		return err
	}
	have, ok := c.doc.Uint32s[p]
	if !ok {
		return nexus.NotFound(p)
	}
	if len(have) != len(v) {
		return nexus.LengthMismatch(p, len(have), len(v))
	}
	c.doc.Uint32s[p] = append([]uint32(nil), v...)
	return nil
}

func (c *container) ReadString(p string) (string, error) {
	defer c.enter()()
	v, ok := c.doc.Strings[p]
	if !ok || len(v) == 0 {
		return "", nexus.NotFound(p)
	}
	return v[0], nil
}

func (c *container) WriteString(p string, s string) error {
	defer c.enter()()
	if err := c.writable(p); err != nil {
		return err
	}
	v, ok := c.doc.Strings[p]
	if !ok || len(v) == 0 {
		return nexus.NotFound(p)
	}
	v[0] = s
	return nil
}

func (c *container) Close() error {
	defer c.enter()()
	if c.done {
		return nil
	}
	c.done = true
	if c.mode != nexus.ReadWrite {
		return nil
	}
	b, err := json.Marshal(c.doc)
	if err != nil {
		return perr.IOf(err, "encode %s", c.path)
	}
	if err := os.WriteFile(c.path, b, 0o644); err != nil {
		return perr.IOf(err, "flush %s", c.path)
	}
	return nil
}
