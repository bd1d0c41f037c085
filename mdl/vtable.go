// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mdl defines the model vtable contract (spec.md §4.5): the fixed
// set of entry points a pluggable physical model provides, and the registry
// that maps a model name to its allocator. Generalizes ele/element.go's
// Element interface and ele/factory.go's registry pattern away from the
// teacher's soil-mechanics-specific sub-interfaces (Solid/Fluid/...).
package mdl

import (
	"github.com/cpmech/gosl/chk"

	"github.com/Ifsttar/bil-go/mesh"
)

// ModelProps is what set_model_properties fills in once, at registry init:
// the model name and the canonical per-node equation/unknown name table.
// It carries no term-array sizes; those are fixed per element by
// DefineElementProperties (ElementProps).
type ModelProps struct {
	Name    string
	EqNames []string // canonical per-node DOF names, in local-index order
}

// ElementProps is what define_element_properties fixes for one bound
// element: term-array sizes (spec.md §3, "fixed by the model and never
// change during a run") and quadrature choice.
type ElementProps struct {
	NImplicit     int  // implicit (state) term count
	NExplicit     int  // explicit (transfer) term count
	NConst        int  // constant (initial-geometry) term count
	MergeExplicit bool // share one explicit-term slot across every ring slot (DESIGN.md, Open Question #1)
	NGauss        int  // quadrature point count
}

// Output is one named scalar or vector result declared by compute_outputs,
// emitted by the output writer in declaration order (spec.md §6).
type Output struct {
	Name   string
	Values []float64
}

// Model is the vtable contract of spec.md §4.5. Every method after
// SetModelProperties/ReadMaterialProperties operates through a *Kernel,
// which binds the model to one element's nodes, material and scratch
// snapshots.
type Model interface {
	// SetModelProperties fills the canonical equation/unknown name table
	// for this model name (term-array sizes come from
	// DefineElementProperties). Called once, at registry init, before any
	// element is bound.
	SetModelProperties() ModelProps

	// ReadMaterialProperties parses property keywords (and binds named
	// curves/fields/functions) out of cfg into mat. Called once per
	// material, at material-load time.
	ReadMaterialProperties(mat *mesh.Material, cfg PropertyReader) error

	// PrintModelChar writes a human-readable description of this model to
	// w, for CLI introspection.
	PrintModelChar(w Printer)

	// DefineElementProperties fixes the term-array sizes and quadrature
	// for one bound element, typically as a function of its node count and
	// ndim. Called once per element, at mesh-bind time, before any
	// SolutionRing exists: k's current/previous snapshots and constant
	// terms are not yet bound, so implementations must derive sizes only
	// from k.Coords/k.NNodes/k.NEq/k.Mat, never from k.Y/k.Implicit/...
	DefineElementProperties(k *Kernel) ElementProps

	// ComputeInitialState runs once per element at driver init; may write
	// implicit, explicit and constant terms, and may correct nodal
	// unknowns (for models that initialize latent variables).
	ComputeInitialState(k *Kernel, t float64) error

	// ComputeExplicitTerms reads the previous solution only and writes
	// this step's explicit terms (coefficients frozen over the Newton
	// iterations). May fail.
	ComputeExplicitTerms(k *Kernel, t float64) error

	// ComputeImplicitTerms reads current unknowns and the previous
	// snapshot, writes current implicit terms. May fail (sign check,
	// non-finite, negative porosity, ...); failure triggers dt reduction.
	ComputeImplicitTerms(k *Kernel, t, dt float64) error

	// ComputeMatrix fills kb, the dense local tangent block, in local DOF
	// order (nodeIndex*NEq + eqIndex). Any 1/(ln10·c) rescaling for
	// log-stored unknowns is this method's responsibility (DESIGN.md, Open
	// Question #3).
	ComputeMatrix(k *Kernel, t, dt float64, kb [][]float64) error

	// ComputeResidu fills fb, the dense local residual block, in the same
	// local DOF order as ComputeMatrix.
	ComputeResidu(k *Kernel, t, dt float64, fb []float64) error

	// ComputeLoads adds the contribution of one natural boundary
	// condition/source (value evaluated at t) into fb.
	ComputeLoads(k *Kernel, t, dt float64, load mesh.Load, value float64, fb []float64) error

	// ComputeOutputs returns the named results this model exposes at
	// output time, at the given natural coordinates (nil means "at the
	// element centroid" or a model-defined default).
	ComputeOutputs(k *Kernel, t float64, point []float64) ([]Output, error)
}

// PropertyReader is the minimal interface ReadMaterialProperties consumes;
// kept abstract so mdl does not depend on a concrete config-stream format.
type PropertyReader interface {
	Float(key string) (float64, bool)
	String(key string) (string, bool)
	Curve(key string) (x, y []float64, ok bool)
}

// Printer is the minimal interface PrintModelChar writes to.
type Printer interface {
	Printf(format string, args ...interface{})
}

// Registry maps a model name to its allocator (ele/factory.go's
// SetAllocator/New pattern, generalized to a single flat vtable instead of
// per-physics sub-factories).
type Registry struct {
	allocators map[string]func() Model
	props      map[string]ModelProps
}

// NewRegistry returns an empty model registry.
func NewRegistry() *Registry {
	return &Registry{
		allocators: make(map[string]func() Model),
		props:      make(map[string]ModelProps),
	}
}

// Register binds name to an allocator. Panics if name is already bound
// (mirrors ele/factory.go's SetAllocator, which treats re-registration as a
// programming error, not a recoverable one).
func (o *Registry) Register(name string, allocator func() Model) {
	if _, ok := o.allocators[name]; ok {
		chk.Panic("mdl: model %q is registered already", name)
	}
	o.allocators[name] = allocator
	o.props[name] = allocator().SetModelProperties()
}

// New allocates a fresh Model instance for name.
func (o *Registry) New(name string) (Model, error) {
	allocator, ok := o.allocators[name]
	if !ok {
		return nil, chk.Err("mdl: model %q is not registered", name)
	}
	return allocator(), nil
}

// Properties returns the canonical ModelProps recorded at Register time.
func (o *Registry) Properties(name string) (ModelProps, error) {
	p, ok := o.props[name]
	if !ok {
		return ModelProps{}, chk.Err("mdl: model %q is not registered", name)
	}
	return p, nil
}

// Names returns every registered model name.
func (o *Registry) Names() []string {
	names := make([]string, 0, len(o.allocators))
	for name := range o.allocators {
		names = append(names, name)
	}
	return names
}
