package render

import (
	"image"
	"math/rand/v2"

	ifs "github.com/marben/chaosgame"
)

// FunctionSet is the immutable set of maps a render pass iterates. It is
// replaced wholesale whenever the model changes.
type FunctionSet struct {
	functions   []ifs.Function
	weights     []float64
	weighted    []bool
	distortion  ifs.Function
	transforms  int
	totalWeight float64
}

// NewFunctionSet builds a set from ordered functions and the distortion applied
// after each of them; a nil distortion is the identity.
func NewFunctionSet(functions []ifs.Function, distortion ifs.Function) *FunctionSet {
	fs := &FunctionSet{
		functions:  functions,
		weights:    make([]float64, len(functions)),
		weighted:   make([]bool, len(functions)),
		distortion: distortion,
	}
	if fs.distortion == nil {
		fs.distortion = ifs.Linear()
	}
	for i, f := range functions {
		if w, ok := f.(ifs.Weighted); ok {
			fs.weights[i] = w.Weight()
			fs.weighted[i] = true
			fs.transforms++
			fs.totalWeight += fs.weights[i]
		}
	}
	return fs
}

// FromSystem scales the system to size and builds its function set.
func FromSystem(s *ifs.System, size image.Point) *FunctionSet {
	s.SetSize(size)
	var d ifs.Function
	if s.Distortion != nil {
		d = s.Distortion
	}
	return NewFunctionSet(s.Functions(), d)
}

func (fs *FunctionSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.functions)
}

// SetSize rescales every function, including the distortion.
func (fs *FunctionSet) SetSize(size image.Point) {
	for _, f := range fs.functions {
		f.SetSize(size)
	}
	fs.distortion.SetSize(size)
}

// Sample draws a function index uniformly. A weighted transform is then
// accepted with probability weight / (totalWeight * (n - transforms + 1));
// unweighted reflections are always accepted. ok is false on rejection, in
// which case the caller skips the iteration entirely.
func (fs *FunctionSet) Sample(rnd *rand.Rand) (j int, f ifs.Function, ok bool) {
	n := len(fs.functions)
	if n == 0 {
		return 0, nil, false
	}
	j = rnd.IntN(n)
	if fs.weighted[j] {
		if fs.totalWeight <= 0 {
			return j, nil, false
		}
		p := fs.weights[j] / (fs.totalWeight * float64(n-fs.transforms+1))
		if rnd.Float64() >= p {
			return j, nil, false
		}
	}
	return j, fs.functions[j], true
}

// Distort applies the set's distortion.
func (fs *FunctionSet) Distort(p ifs.Point) ifs.Point {
	return fs.distortion.Apply(p)
}
