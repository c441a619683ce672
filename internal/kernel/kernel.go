// Package kernel provides square, odd-sided integer convolution kernels and a
// catalog of constructors for the classic smoothing and sharpening effects.
package kernel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrBadKernel       = errors.New("bad kernel")
	ErrBadSide         = errors.New("bad side")
	ErrUnknownKernel   = errors.New("unknown kernel")
	ErrMalformedMatrix = errors.New("malformed matrix")
)

// MaxSide is the largest side accepted by New, Parse and the catalog.
const MaxSide = 255

// Kernel is an immutable S x S weight matrix with S odd and S >= 3. The zero
// value is not a usable kernel; build one with New or a catalog constructor.
type Kernel struct {
	side    int
	weights []int
}

// New validates m and copies it into a Kernel.
func New(m [][]int) (Kernel, error) {
	if err := verifySquareOdd(m); err != nil {
		return Kernel{}, err
	}
	side := len(m)
	weights := make([]int, 0, side*side)
	for _, row := range m {
		weights = append(weights, row...)
	}
	return Kernel{side: side, weights: weights}, nil
}

// MustNew is like New but panics on an invalid matrix. Intended for literals.
func MustNew(m [][]int) Kernel {
	k, err := New(m)
	if err != nil {
		panic(err)
	}
	return k
}

func verifySquareOdd(m [][]int) error {
	switch {
	case m == nil:
		return fmt.Errorf("%w: matrix is nil", ErrBadKernel)
	case len(m)%2 == 0:
		return fmt.Errorf("%w: side %d is even", ErrBadKernel, len(m))
	case len(m) == 1:
		return fmt.Errorf("%w: side must be 3 or greater", ErrBadKernel)
	case len(m) > MaxSide:
		return fmt.Errorf("%w: side %d exceeds %d", ErrBadKernel, len(m), MaxSide)
	}
	for i, row := range m {
		if len(row) != len(m) {
			return fmt.Errorf("%w: row %d has length %d, want %d", ErrBadKernel, i, len(row), len(m))
		}
	}
	return nil
}

// Valid reports whether k was built by New or the catalog.
func (k Kernel) Valid() bool { return k.side >= 3 }

func (k Kernel) Side() int { return k.side }

// At returns the weight at row i, column j.
func (k Kernel) At(i, j int) int {
	return k.weights[i*k.side+j]
}

// Center returns the weight at (S/2, S/2).
func (k Kernel) Center() int {
	return k.At(k.side/2, k.side/2)
}

// Sum is the arithmetic sum of all weights, the convolution divisor.
func (k Kernel) Sum() int64 {
	var sum int64
	for _, w := range k.weights {
		sum += int64(w)
	}
	return sum
}

// Matrix returns a fresh copy of the weights; mutating it does not affect k.
func (k Kernel) Matrix() [][]int {
	m := make([][]int, k.side)
	for i := range m {
		m[i] = make([]int, k.side)
		copy(m[i], k.weights[i*k.side:(i+1)*k.side])
	}
	return m
}

// Equal reports whether both kernels have the same side and weights.
func (k Kernel) Equal(o Kernel) bool {
	if k.side != o.side {
		return false
	}
	for i := range k.weights {
		if k.weights[i] != o.weights[i] {
			return false
		}
	}
	return true
}

// String renders the kernel in the same form Parse accepts.
func (k Kernel) String() string {
	var sb strings.Builder
	for i := 0; i < k.side; i++ {
		if i > 0 {
			sb.WriteString("; ")
		}
		for j := 0; j < k.side; j++ {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(k.At(i, j)))
		}
	}
	return sb.String()
}

// Parse reads a matrix written as rows separated by ';' or newlines, with
// entries separated by ',' or whitespace, e.g. "0,-1,0; -1,4,-1; 0,-1,0".
func Parse(text string) (Kernel, error) {
	rows := strings.FieldsFunc(text, func(r rune) bool { return r == ';' || r == '\n' })
	m := make([][]int, 0, len(rows))
	for _, row := range rows {
		fields := strings.FieldsFunc(row, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\r'
		})
		if len(fields) == 0 {
			continue
		}
		values := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return Kernel{}, fmt.Errorf("%w: %q is not an integer", ErrMalformedMatrix, f)
			}
			values[i] = v
		}
		m = append(m, values)
	}
	if len(m) == 0 {
		return Kernel{}, fmt.Errorf("%w: no rows in %q", ErrMalformedMatrix, text)
	}
	return New(m)
}
