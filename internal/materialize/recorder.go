package materialize

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xdestiny110/topdown-autosched/internal/ir"
)

// Directive is one recorded scheduling call, in emission order.
type Directive struct {
	Op     string   `json:"op"`
	Func   string   `json:"func"`
	Args   []string `json:"args,omitempty"`
	Factor int      `json:"factor,omitempty"`
}

// Recorder is a Backend that just appends every directive it receives,
// for inspection or serialization instead of driving a real compiler.
type Recorder struct {
	Directives []Directive
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) record(d Directive) { r.Directives = append(r.Directives, d) }

func (r *Recorder) ComputeRoot(f *ir.Func) {
	r.record(Directive{Op: "compute_root", Func: f.Name()})
}

func (r *Recorder) ComputeAt(f *ir.Func, atFunc *ir.Func, atVar string) {
	r.record(Directive{Op: "compute_at", Func: f.Name(), Args: []string{atFunc.Name(), atVar}})
}

func (r *Recorder) StoreAt(f *ir.Func, atFunc *ir.Func, atVar string) {
	r.record(Directive{Op: "store_at", Func: f.Name(), Args: []string{atFunc.Name(), atVar}})
}

func (r *Recorder) Split(f *ir.Func, v, outer, inner string, factor int) {
	r.record(Directive{Op: "split", Func: f.Name(), Args: []string{v, outer, inner}, Factor: factor})
}

func (r *Recorder) Vectorize(f *ir.Func, v string, factor int) {
	r.record(Directive{Op: "vectorize", Func: f.Name(), Args: []string{v}, Factor: factor})
}

func (r *Recorder) Unroll(f *ir.Func, v string) {
	r.record(Directive{Op: "unroll", Func: f.Name(), Args: []string{v}})
}

func (r *Recorder) Parallel(f *ir.Func, v string, taskSize int) {
	r.record(Directive{Op: "parallel", Func: f.Name(), Args: []string{v}, Factor: taskSize})
}

func (r *Recorder) Fuse(f *ir.Func, inner, outer, fused string) {
	r.record(Directive{Op: "fuse", Func: f.Name(), Args: []string{inner, outer, fused}})
}

func (r *Recorder) Reorder(f *ir.Func, vars []string) {
	r.record(Directive{Op: "reorder", Func: f.Name(), Args: append([]string(nil), vars...)})
}

// WriteJSON serializes the recorded directive log to filename.
func (r *Recorder) WriteJSON(filename string) error {
	data, err := json.MarshalIndent(r.Directives, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling directive log: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}
