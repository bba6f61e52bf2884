/*
Copyright © 2024 the SeaMap authors.
This file is part of SeaMap.

SeaMap is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SeaMap is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SeaMap.  If not, see <http://www.gnu.org/licenses/>.
*/

package seamap

import (
	"fmt"
	"math"
	"sort"

	"github.com/Knetic/govaluate"
)

// Transform returns a copy of r with fn applied to every valid cell.
// No-data cells are left untouched. Cells for which fn returns a
// non-finite value are set to no-data, and when there are any such
// cells a *DomainError naming op is returned along with the result.
func (r *Raster) Transform(op string, fn func(float64) float64) (*Raster, error) {
	o := r.Copy()
	var healed int
	for i, v := range o.Data {
		if math.IsNaN(v) {
			continue
		}
		v = fn(v)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = math.NaN()
			healed++
		}
		o.Data[i] = v
	}
	if healed > 0 {
		return o, &DomainError{Op: op, Healed: healed}
	}
	return o, nil
}

// Log10 returns a function that computes log10(x + epsilon).
func Log10(epsilon float64) func(float64) float64 {
	return func(x float64) float64 { return math.Log10(x + epsilon) }
}

// InverseLog10 returns the inverse of Log10(epsilon): 10^x - epsilon.
func InverseLog10(epsilon float64) func(float64) float64 {
	return func(x float64) float64 { return math.Pow(10, x) - epsilon }
}

// Rescale returns a function that linearly maps the range [min, max]
// onto [a, b]. If min == max, every value maps to a.
func Rescale(min, max, a, b float64) func(float64) float64 {
	if max == min {
		return func(float64) float64 { return a }
	}
	return func(x float64) float64 { return a + (x-min)/(max-min)*(b-a) }
}

// expressionFunctions are the functions available to expression
// transforms.
var expressionFunctions = map[string]govaluate.ExpressionFunction{
	"log10": mathFunc("log10", math.Log10),
	"log":   mathFunc("log", math.Log),
	"exp":   mathFunc("exp", math.Exp),
	"sqrt":  mathFunc("sqrt", math.Sqrt),
	"abs":   mathFunc("abs", math.Abs),
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("seamap: got %d arguments for function 'pow', but needs 2", len(args))
		}
		x, ok1 := args[0].(float64)
		y, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("seamap: arguments to function 'pow' must be numbers")
		}
		return math.Pow(x, y), nil
	},
}

func mathFunc(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("seamap: got %d arguments for function '%s', but needs 1", len(args), name)
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("seamap: argument to function '%s' must be a number", name)
		}
		return f(x), nil
	}
}

// Expression is a value transform given as an arithmetic expression
// in the cell value x, for example "log10(x + 0.01)". Expressions can
// also refer to the minimum and maximum valid values of the raster
// being transformed as min and max, and to any extra named parameters.
type Expression struct {
	src    string
	expr   *govaluate.EvaluableExpression
	params map[string]float64
}

// NewExpression compiles expr. params holds the values of any
// variables other than x, min and max.
func NewExpression(expr string, params map[string]float64) (*Expression, error) {
	e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, expressionFunctions)
	if err != nil {
		return nil, fmt.Errorf("seamap: parsing transform expression %q: %v", expr, err)
	}
	var unknown []string
	for _, v := range e.Vars() {
		switch v {
		case "x", "min", "max":
		default:
			if _, ok := params[v]; !ok {
				unknown = append(unknown, v)
			}
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("seamap: transform expression %q has undefined variables %v", expr, unknown)
	}
	return &Expression{src: expr, expr: e, params: params}, nil
}

func (e *Expression) String() string { return e.src }

// Func returns the transform bound to the value range of r.
// Cells for which the expression cannot be evaluated become NaN.
func (e *Expression) Func(r *Raster) func(float64) float64 {
	min, max, _ := r.Range()
	vars := make(map[string]interface{}, len(e.params)+3)
	for k, v := range e.params {
		vars[k] = v
	}
	vars["min"] = min
	vars["max"] = max
	return func(x float64) float64 {
		vars["x"] = x
		result, err := e.expr.Evaluate(vars)
		if err != nil {
			return math.NaN()
		}
		v, ok := result.(float64)
		if !ok {
			return math.NaN()
		}
		return v
	}
}
