package material

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
)

// material is the implementation of the Material interface.
type material struct {
	name            string
	diffuseAlbedo   [4]float32
	fresnelR0       [3]float32
	roughness       float32
	matTransform    [16]float32
	diffuseMapIndex uint32
	normalMapIndex  uint32
}

// Material describes the surface parameters of one material slot. Materials are immutable;
// change a material by putting a new one into the Table, which bumps its generation.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// DiffuseAlbedo retrieves the RGBA albedo of the material.
	//
	// Returns:
	//   - [4]float32: the albedo as RGBA values
	DiffuseAlbedo() [4]float32

	// FresnelR0 retrieves the reflectance at normal incidence.
	//
	// Returns:
	//   - [3]float32: per-channel reflectance
	FresnelR0() [3]float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// MatTransform retrieves the texture coordinate transform of the material.
	//
	// Returns:
	//   - [16]float32: column-major transform
	MatTransform() [16]float32

	// DiffuseMapIndex retrieves the diffuse texture index, or frame.NoTexture.
	DiffuseMapIndex() uint32

	// NormalMapIndex retrieves the normal map index, or frame.NoTexture.
	NormalMapIndex() uint32

	// Constants packs the material for upload. MatTransform is transposed.
	//
	// Returns:
	//   - frame.MaterialConstants: the packed material
	Constants() frame.MaterialConstants
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults are a white albedo, a dielectric reflectance of 0.01, roughness 0.25 and no textures.
//
// Parameters:
//   - name: the material identifier
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(name string, options ...MaterialBuilderOption) Material {
	m := &material{
		name:            name,
		diffuseAlbedo:   [4]float32{1, 1, 1, 1},
		fresnelR0:       [3]float32{0.01, 0.01, 0.01},
		roughness:       0.25,
		matTransform:    common.IdentityMatrix(),
		diffuseMapIndex: frame.NoTexture,
		normalMapIndex:  frame.NoTexture,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) DiffuseAlbedo() [4]float32 {
	return m.diffuseAlbedo
}

func (m *material) FresnelR0() [3]float32 {
	return m.fresnelR0
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) MatTransform() [16]float32 {
	return m.matTransform
}

func (m *material) DiffuseMapIndex() uint32 {
	return m.diffuseMapIndex
}

func (m *material) NormalMapIndex() uint32 {
	return m.normalMapIndex
}

func (m *material) Constants() frame.MaterialConstants {
	return frame.MaterialConstants{
		DiffuseAlbedo:   m.diffuseAlbedo,
		FresnelR0:       m.fresnelR0,
		Roughness:       m.roughness,
		MatTransform:    common.Transposed(m.matTransform),
		DiffuseMapIndex: m.diffuseMapIndex,
		NormalMapIndex:  m.normalMapIndex,
	}
}
