package ir

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mozilla-spidermonkey/iongraph/core"
)

// Block is the wire-format counterpart of core.Block: a single pass's basic
// block exactly as the JIT's JSON document describes it (spec §6).
type Block struct {
	ID           string          `json:"id"`
	Number       int             `json:"number"`
	Attributes   []string        `json:"attributes"`
	LoopDepth    int             `json:"loopDepth"`
	Predecessors []string        `json:"predecessors"`
	Successors   []string        `json:"successors"`
	Instructions json.RawMessage `json:"instructions"`
}

// BlockList is one IR's (mir or lir) block set for a single pass.
type BlockList struct {
	Blocks []Block `json:"blocks"`
}

// Pass is one optimization pass: its name and, per spec §6, an mir and/or
// lir block list.
type Pass struct {
	Name string     `json:"name"`
	MIR  *BlockList `json:"mir,omitempty"`
	LIR  *BlockList `json:"lir,omitempty"`
}

// Func groups every pass run for one compiled function, mirroring how
// iongraph's source document nests passes under a function entry.
type Func struct {
	Name  string `json:"name"`
	Passes []Pass `json:"passes"`
}

// Document is the top-level input document: one or more compiled
// functions, each with its list of passes.
type Document struct {
	Functions []Func `json:"functions"`
}

// recognizedAttrs maps the wire-format attribute strings core.Attribute
// knows about; anything else in a Block's Attributes list is preserved on
// the wire but never reaches core (core §6: "the core never inspects"
// anything beyond the three recognized attributes).
var recognizedAttrs = map[string]core.Attribute{
	string(core.AttrLoopHeader): core.AttrLoopHeader,
	string(core.AttrBackedge):   core.AttrBackedge,
	string(core.AttrSplitEdge):  core.AttrSplitEdge,
}

// LoadDocument reads and decodes a Document from path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ir: reading %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ir: decoding %s: %w", path, err)
	}
	return &doc, nil
}

// FindPass locates a pass by function name and pass name within doc.
func (d *Document) FindPass(funcName, passName string) (*Pass, error) {
	for i := range d.Functions {
		f := &d.Functions[i]
		if funcName != "" && f.Name != funcName {
			continue
		}
		for j := range f.Passes {
			p := &f.Passes[j]
			if p.Name == passName {
				return p, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: function %q pass %q", ErrPassNotFound, funcName, passName)
}

// ToInputBlocks converts a wire-format BlockList into core.InputBlock,
// applying a fixed default Size to every block — the real size (measured
// after rendering the block's text, spec §3) is an external renderer
// concern this CLI has no renderer to delegate to, so it approximates.
func (bl *BlockList) ToInputBlocks(defaultSize core.Size) []core.InputBlock {
	if bl == nil {
		return nil
	}
	out := make([]core.InputBlock, len(bl.Blocks))
	for i, b := range bl.Blocks {
		attrs := make(map[core.Attribute]bool, len(b.Attributes))
		for _, a := range b.Attributes {
			if attr, ok := recognizedAttrs[a]; ok {
				attrs[attr] = true
			}
		}
		out[i] = core.InputBlock{
			ID:           b.ID,
			Number:       b.Number,
			Attrs:        attrs,
			LoopDepth:    b.LoopDepth,
			Instructions: b.Instructions,
			Preds:        b.Predecessors,
			Succs:        b.Successors,
			Size:         defaultSize,
		}
	}
	return out
}
