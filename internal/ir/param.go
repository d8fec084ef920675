package ir

import "strconv"

// Param models a tunable scalar or a buffer's per-dimension min/extent
// constraint, with the "estimate" accessors treated as an external
// contract: param.get_estimate(), param.min_constraint_estimate(i),
// param.extent_constraint_estimate(i), param.is_buffer(), param.dimensions().
type Param struct {
	name   string
	buffer bool
	dims   int

	scalarEstimate *int64
	minEstimate    []*int64
	extentEstimate []*int64
}

// NewScalarParam creates a parameter used directly as a value (e.g. a
// tunable blur radius).
func NewScalarParam(name string) *Param {
	return &Param{name: name}
}

// NewBufferParam creates a parameter representing an input buffer's
// shape, with per-dimension min/extent constraints.
func NewBufferParam(name string, dims int) *Param {
	return &Param{
		name:           name,
		buffer:         true,
		dims:           dims,
		minEstimate:    make([]*int64, dims),
		extentEstimate: make([]*int64, dims),
	}
}

func (p *Param) Name() string    { return p.name }
func (p *Param) IsBuffer() bool  { return p.buffer }
func (p *Param) Dimensions() int { return p.dims }

// SetEstimate records the scalar estimate used to resolve this parameter
// during cost and bounds analysis.
func (p *Param) SetEstimate(v int64) *Param {
	p.scalarEstimate = &v
	return p
}

func (p *Param) SetMinConstraintEstimate(dim int, v int64) *Param {
	p.minEstimate[dim] = &v
	return p
}

func (p *Param) SetExtentConstraintEstimate(dim int, v int64) *Param {
	p.extentEstimate[dim] = &v
	return p
}

func (p *Param) GetEstimate() (int64, bool) {
	if p.scalarEstimate == nil {
		return 0, false
	}
	return *p.scalarEstimate, true
}

func (p *Param) MinConstraintEstimate(dim int) (int64, bool) {
	if dim < 0 || dim >= len(p.minEstimate) || p.minEstimate[dim] == nil {
		return 0, false
	}
	return *p.minEstimate[dim], true
}

func (p *Param) ExtentConstraintEstimate(dim int) (int64, bool) {
	if dim < 0 || dim >= len(p.extentEstimate) || p.extentEstimate[dim] == nil {
		return 0, false
	}
	return *p.extentEstimate[dim], true
}

// Scalar returns an Expr that reads this scalar parameter's estimate.
func (p *Param) Scalar() Expr {
	return Var{Name: p.name, Param: p, Field: "scalar"}
}

// Min returns an Expr reading this buffer parameter's dim-th min constraint.
func (p *Param) Min(dim int) Expr {
	return Var{Name: p.name + ".min." + strconv.Itoa(dim), Param: p, Field: "min", Index: dim}
}

// Extent returns an Expr reading this buffer parameter's dim-th extent constraint.
func (p *Param) Extent(dim int) Expr {
	return Var{Name: p.name + ".extent." + strconv.Itoa(dim), Param: p, Field: "extent", Index: dim}
}
