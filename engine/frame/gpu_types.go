package frame

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-frame/common"
)

const (
	// MaxLights is the light array length of PassConstants.
	MaxLights = 16
	// NumDirLights is how many leading entries of PassConstants.Lights are directional.
	NumDirLights = 3
	// MaxBones is the bone capacity of one SkinnedConstants block.
	MaxBones = 96
	// SsaoOffsetCount is the number of sampling offsets in SsaoConstants.
	SsaoOffsetCount = 14
	// NoTexture marks an unused texture index in MaterialConstants.
	NoTexture = ^uint32(0)
)

// Fixed pass-constant slots. One PassConstants block per logical camera per frame.
const (
	PassMain      = 0
	PassShadow    = 1
	PassCubeFace0 = 2
	PassCount     = PassCubeFace0 + 6
)

// GPULight is one light entry of the pass constants.
// Size: 48 bytes.
type GPULight struct {
	Strength     [3]float32 // offset  0: RGB strength
	FalloffStart float32    // offset 12: point/spot only
	Direction    [3]float32 // offset 16: directional/spot only
	FalloffEnd   float32    // offset 28: point/spot only
	Position     [3]float32 // offset 32: point/spot only
	SpotPower    float32    // offset 44: spot only
}

// PassConstants holds the per-camera constants of one pass. Matrices are stored transposed
// (row-major) for the shading stage.
// Size: 608 + 48*MaxLights bytes.
type PassConstants struct {
	View                [16]float32 // offset   0
	InvView             [16]float32 // offset  64
	Proj                [16]float32 // offset 128
	InvProj             [16]float32 // offset 192
	ViewProj            [16]float32 // offset 256
	InvViewProj         [16]float32 // offset 320
	ViewProjTex         [16]float32 // offset 384
	ShadowTransform     [16]float32 // offset 448
	EyePosW             [3]float32  // offset 512
	_pad0               float32     // offset 524
	RenderTargetSize    [2]float32  // offset 528
	InvRenderTargetSize [2]float32  // offset 536
	NearZ               float32     // offset 544
	FarZ                float32     // offset 548
	TotalTime           float32     // offset 552
	DeltaTime           float32     // offset 556
	AmbientLight        [4]float32  // offset 560
	FogColor            [4]float32  // offset 576
	FogStart            float32     // offset 592
	FogRange            float32     // offset 596
	_pad1               [2]float32  // offset 600
	Lights              [MaxLights]GPULight
}

// DefaultPassConstants returns pass constants with identity matrices and the default fog.
func DefaultPassConstants() PassConstants {
	id := common.IdentityMatrix()
	return PassConstants{
		View: id, InvView: id, Proj: id, InvProj: id,
		ViewProj: id, InvViewProj: id, ViewProjTex: id, ShadowTransform: id,
		AmbientLight: [4]float32{0, 0, 0, 1},
		FogColor:     [4]float32{0.7, 0.7, 0.7, 1},
		FogStart:     50,
		FogRange:     500,
	}
}

// InstanceConstants is one entry of the per-frame instance buffer.
// Size: 144 bytes.
type InstanceConstants struct {
	World         [16]float32 // offset   0: transposed world matrix
	TexTransform  [16]float32 // offset  64: transposed texture transform
	MaterialIndex uint32      // offset 128
	_pad          [3]uint32   // offset 132
}

// MaterialConstants is one entry of the per-frame material buffer.
// Size: 112 bytes.
type MaterialConstants struct {
	DiffuseAlbedo   [4]float32  // offset  0
	FresnelR0       [3]float32  // offset 16
	Roughness       float32     // offset 28
	MatTransform    [16]float32 // offset 32: transposed
	DiffuseMapIndex uint32      // offset 96
	NormalMapIndex  uint32      // offset 100
	_pad            [2]uint32   // offset 104
}

// SkinnedConstants holds the final skinning matrices of one skinned instance, already transposed.
// Size: 6144 bytes.
type SkinnedConstants struct {
	BoneTransforms [MaxBones][16]float32
}

// SsaoConstants feeds the ambient occlusion and blur passes.
// Size: 512 bytes.
type SsaoConstants struct {
	Proj                [16]float32                 // offset   0
	InvProj             [16]float32                 // offset  64
	ProjTex             [16]float32                 // offset 128
	OffsetVectors       [SsaoOffsetCount][4]float32 // offset 192
	BlurWeights         [3][4]float32               // offset 416
	InvRenderTargetSize [2]float32                  // offset 464
	OcclusionRadius     float32                     // offset 472
	OcclusionFadeStart  float32                     // offset 476
	OcclusionFadeEnd    float32                     // offset 480
	SurfaceEpsilon      float32                     // offset 484
	_pad                [6]float32                  // offset 488
}

// SizeOf returns the in-memory size of T, which is also its upload stride.
func SizeOf[T any]() int {
	var v T
	return int(unsafe.Sizeof(v))
}
