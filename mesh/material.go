// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "github.com/cpmech/gosl/fun"

// Curve is a named 1-D tabulated function owned by a Material; evaluation of
// the table itself is an external collaborator (out of scope), so Curve
// only stores the raw samples here and defers interpolation to fun.Func
// wrappers supplied by the model.
type Curve struct {
	Name string
	X, Y []float64
}

// Field is a named spatially-varying property owned by a Material; like
// Curve, the evaluator is external. Fn is whatever the model's
// ReadMaterialProperties wired up (e.g. a fun.Func over (t, x)).
type Field struct {
	Name string
	Fn   fun.Func
}

// Material holds the bounded scalar property array, named curves/fields/
// time-functions and the model that owns them. Property layout (which index
// means what) is the model's responsibility; the engine treats Props as an
// opaque bounded array.
type Material struct {
	Id        string
	ModelName string
	Props     []float64
	Curves    map[string]*Curve
	Fields    map[string]*Field
	Funcs     map[string]fun.Func
}

// NewMaterial returns an empty material bound to the named model.
func NewMaterial(id, modelName string, nprops int) *Material {
	return &Material{
		Id:        id,
		ModelName: modelName,
		Props:     make([]float64, nprops),
		Curves:    make(map[string]*Curve),
		Fields:    make(map[string]*Field),
		Funcs:     make(map[string]fun.Func),
	}
}

// AddCurve registers a named tabulated curve.
func (o *Material) AddCurve(name string, x, y []float64) {
	o.Curves[name] = &Curve{Name: name, X: append([]float64{}, x...), Y: append([]float64{}, y...)}
}

// AddFunc registers a named time/space function (e.g. a load history).
func (o *Material) AddFunc(name string, f fun.Func) {
	o.Funcs[name] = f
}
