package common

import (
	"unsafe"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// Ortho2D builds a column-major orthographic projection that maps the world rectangle
// [left, right] x [bottom, top] onto clip-space X/Y in [-1, 1].
// Z passes through unchanged so vertex depth tags reach the depth buffer as written.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right: horizontal world bounds
//   - bottom, top: vertical world bounds
func Ortho2D(out []float32, left, right, bottom, top float32) {
	Identity(out)
	rl := right - left
	tb := top - bottom
	if rl == 0 || tb == 0 {
		return
	}
	out[0] = 2.0 / rl
	out[5] = 2.0 / tb
	out[12] = -(right + left) / rl
	out[13] = -(top + bottom) / tb
}
