package camera

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the WGSL declaration matching GPUCameraUniform.
const GPUCameraUniformSource = `struct CameraUniform {
    view_proj: mat4x4<f32>,
};`

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Size: 64 bytes.
type GPUCameraUniform struct {
	ViewProj [16]float32 // offset 0: orthographic projection (mat4x4<f32>)
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	return buf
}
