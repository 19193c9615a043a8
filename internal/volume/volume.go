// Package volume reads and writes the per-slice NumPy arrays that make up
// a KiTS19 case volume. Each .npy file holds one 2-D slice; images are CT
// intensities, segmentations are small integer class labels. Everything is
// surfaced as a float64 *mat.Dense regardless of the on-disk dtype.
package volume

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// LoadError reports a slice file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("volume: failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadSlice reads one 2-D slice array from a .npy file. The on-disk dtype
// may be any of the integer or float types the preprocessing pipeline
// emits; the result is always row-major float64.
func LoadSlice(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	m, err := DecodeSlice(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return m, nil
}

// DecodeSlice reads one 2-D slice array in .npy format from r.
func DecodeSlice(rd io.Reader) (*mat.Dense, error) {
	r, err := npyio.NewReader(rd)
	if err != nil {
		return nil, err
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("expected 2-D array, got shape %v", shape)
	}
	if r.Header.Descr.Fortran {
		return nil, fmt.Errorf("fortran-ordered arrays are not supported")
	}

	rows, cols := shape[0], shape[1]
	data, err := readAsFloat64(r, rows*cols)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(rows, cols, data), nil
}

// readAsFloat64 decodes the payload according to the header dtype and
// widens it to float64.
func readAsFloat64(r *npyio.Reader, n int) ([]float64, error) {
	dtype := strings.TrimLeft(r.Header.Descr.Type, "<|=")
	switch dtype {
	case "f8":
		data := make([]float64, n)
		if err := r.Read(&data); err != nil {
			return nil, err
		}
		return data, nil
	case "f4":
		raw := make([]float32, n)
		if err := r.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case "i8":
		raw := make([]int64, n)
		if err := r.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case "i4":
		raw := make([]int32, n)
		if err := r.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case "i2":
		raw := make([]int16, n)
		if err := r.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case "i1":
		raw := make([]int8, n)
		if err := r.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case "u1":
		raw := make([]uint8, n)
		if err := r.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	default:
		return nil, fmt.Errorf("unsupported dtype %q", r.Header.Descr.Type)
	}
}

func widen[T int8 | int16 | int32 | int64 | uint8 | float32](raw []T) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out
}

// EncodeSlice writes a 2-D slice array in .npy format to w.
func EncodeSlice(w io.Writer, m *mat.Dense) error {
	if err := npyio.Write(w, m); err != nil {
		return fmt.Errorf("volume: failed to encode slice: %w", err)
	}
	return nil
}

// SaveSlice writes a 2-D slice array as a .npy file (always float64).
// Used by the synthetic data generator and tests.
func SaveSlice(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("volume: failed to create %s: %w", path, err)
	}
	if err := npyio.Write(f, m); err != nil {
		_ = f.Close()
		return fmt.Errorf("volume: failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("volume: failed to close %s: %w", path, err)
	}
	return nil
}
