package ir

import (
	"bytes"
	"encoding/gob"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/expr"
	"github.com/pkg/errors"
)

// GraphForSerialization holds what is needed to rebuild a graph: Build is
// deterministic, so node ids, expressions and edges are not stored.
type GraphForSerialization struct {
	Switches   []string
	Tags       []string
	Operations []Operation
}

// Serialize encodes the script of g. A pruned graph serializes as the script
// it re-linearizes to.
func (g *Graph) Serialize() []byte {
	gfs := &GraphForSerialization{
		Switches:   g.Switches,
		Tags:       g.Tags,
		Operations: g.Operations(),
	}
	buf := new(bytes.Buffer)
	encoder := gob.NewEncoder(buf)
	err := encoder.Encode(gfs)
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// DeserializeGraph rebuilds a serialized graph in eng.
func DeserializeGraph(eng *expr.Engine, data []byte) (*Graph, error) {
	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	gfs := &GraphForSerialization{}
	if err := decoder.Decode(gfs); err != nil {
		return nil, errors.Wrap(err, "decode graph")
	}
	return Build(eng, gfs.Switches, gfs.Tags, gfs.Operations)
}
