package material

// MaterialBuilderOption is a functional option for configuring a Material via NewMaterial.
type MaterialBuilderOption func(*material)

// WithDiffuseAlbedo is an option builder that sets the RGBA albedo of the material.
//
// Parameters:
//   - albedo: the RGBA albedo
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo to a material
func WithDiffuseAlbedo(albedo [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseAlbedo = albedo
	}
}

// WithFresnelR0 is an option builder that sets the reflectance at normal incidence.
//
// Parameters:
//   - r0: per-channel reflectance
//
// Returns:
//   - MaterialBuilderOption: a function that applies the reflectance to a material
func WithFresnelR0(r0 [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.fresnelR0 = r0
	}
}

// WithRoughness is an option builder that sets the roughness factor.
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = roughness
	}
}

// WithMatTransform is an option builder that sets the texture coordinate transform.
func WithMatTransform(t [16]float32) MaterialBuilderOption {
	return func(m *material) {
		m.matTransform = t
	}
}

// WithTextures is an option builder that sets the diffuse and normal map indices.
//
// Parameters:
//   - diffuse: the diffuse texture index
//   - normal: the normal map index
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture indices to a material
func WithTextures(diffuse, normal uint32) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseMapIndex = diffuse
		m.normalMapIndex = normal
	}
}
