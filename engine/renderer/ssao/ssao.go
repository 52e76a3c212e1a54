// package ssao holds the CPU side of screen space ambient occlusion: the sampling kernel, the
// blur weights, the random vector map and the per-frame constants.
package ssao

import (
	"errors"
	"math"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"golang.org/x/exp/rand"
)

const (
	// RandomMapSize is the width and height of the random vector map in texels.
	RandomMapSize = 256
	// BlurSigma is the standard deviation of the Gaussian blur in texels.
	BlurSigma = 2.5
	// MaxBlurRadius bounds the kernel radius so the weights fit the constants.
	MaxBlurRadius = 5
)

// ErrBlurRadius is returned for a blur sigma whose kernel does not fit the constant buffer.
var ErrBlurRadius = errors.New("ssao: blur radius exceeds maximum")

// ssaoImpl is the implementation of the Ssao interface.
type ssaoImpl struct {
	size      common.Size
	offsets   [frame.SsaoOffsetCount][4]float32
	weights   []float32
	blurCount int

	radius, fadeStart, fadeEnd, epsilon float32

	seed     uint64
	random   []byte
	uploaded bool
}

// Ssao owns the ambient occlusion parameters. The ambient maps it describes are half the
// render target resolution.
type Ssao interface {
	// Offsets returns the sampling kernel: 14 vectors, the 8 cube corners and 6 face centers,
	// each of a random length in [0.25, 1].
	Offsets() [frame.SsaoOffsetCount][4]float32

	// BlurWeights returns the normalized Gaussian weights, 2*radius+1 of them.
	BlurWeights() []float32

	// BlurCount returns how many horizontal+vertical blur iterations run per frame.
	BlurCount() int

	// SetBlurCount changes the number of blur iterations.
	SetBlurCount(n int)

	// MapSize returns the ambient map size.
	MapSize() common.Size

	// Viewport returns the viewport covering an ambient map.
	Viewport() common.Viewport

	// Resize recomputes the ambient map size for a new render target size.
	//
	// Parameters:
	//   - size: the full render target size
	Resize(size common.Size)

	// Fill writes the per-frame constants for the given camera projection.
	//
	// Parameters:
	//   - out: the constants to fill
	//   - proj: the main camera's column-major projection
	Fill(out *frame.SsaoConstants, proj [16]float32)

	// RandomVectors returns the RGBA8 random vector map, RandomMapSize squared texels.
	RandomVectors() []byte

	// UploadRandomVectors uploads the random vector map to reg once; later calls are no-ops.
	//
	// Parameters:
	//   - reg: the resource registry holding RandomVectorMap
	//
	// Returns:
	//   - error: the upload error
	UploadRandomVectors(reg resource.Registry) error
}

var _ Ssao = &ssaoImpl{}

// NewSsao creates the ambient occlusion state for a render target of the given size.
//
// Parameters:
//   - size: the full render target size
//   - options: variadic list of SsaoBuilderOption functions
//
// Returns:
//   - Ssao: the configured state
func NewSsao(size common.Size, options ...SsaoBuilderOption) Ssao {
	s := &ssaoImpl{
		blurCount: 3,
		radius:    0.5,
		fadeStart: 0.2,
		fadeEnd:   1.0,
		epsilon:   0.05,
		seed:      1,
	}
	for _, opt := range options {
		opt(s)
	}
	s.Resize(size)

	rng := rand.New(rand.NewSource(s.seed))
	s.offsets = buildOffsets(rng)
	s.random = buildRandomVectors(rng)
	s.weights, _ = GaussWeights(BlurSigma)
	return s
}

func (s *ssaoImpl) Offsets() [frame.SsaoOffsetCount][4]float32 {
	return s.offsets
}

func (s *ssaoImpl) BlurWeights() []float32 {
	return append([]float32(nil), s.weights...)
}

func (s *ssaoImpl) BlurCount() int {
	return s.blurCount
}

func (s *ssaoImpl) SetBlurCount(n int) {
	s.blurCount = max(n, 0)
}

func (s *ssaoImpl) MapSize() common.Size {
	return s.size
}

func (s *ssaoImpl) Viewport() common.Viewport {
	return common.FullViewport(s.size)
}

func (s *ssaoImpl) Resize(size common.Size) {
	s.size = size.Half()
}

func (s *ssaoImpl) Fill(out *frame.SsaoConstants, proj [16]float32) {
	invProj, _ := common.Inverted(proj)
	out.Proj = common.Transposed(proj)
	out.InvProj = common.Transposed(invProj)
	out.ProjTex = common.Transposed(common.Mul4x(common.TextureSpace, proj))
	out.OffsetVectors = s.offsets

	out.BlurWeights = [3][4]float32{}
	for i, w := range s.weights {
		out.BlurWeights[i/4][i%4] = w
	}

	out.InvRenderTargetSize = [2]float32{1 / float32(s.size.Width), 1 / float32(s.size.Height)}
	out.OcclusionRadius = s.radius
	out.OcclusionFadeStart = s.fadeStart
	out.OcclusionFadeEnd = s.fadeEnd
	out.SurfaceEpsilon = s.epsilon
}

func (s *ssaoImpl) RandomVectors() []byte {
	return s.random
}

func (s *ssaoImpl) UploadRandomVectors(reg resource.Registry) error {
	if s.uploaded {
		return nil
	}
	if err := reg.Upload(resource.RandomVectorMap, s.random); err != nil {
		return err
	}
	s.uploaded = true
	return nil
}

// GaussWeights returns normalized Gaussian weights for sigma, with radius ceil(2*sigma).
//
// Parameters:
//   - sigma: standard deviation in texels
//
// Returns:
//   - []float32: 2*radius+1 weights summing to one, centered on index radius
//   - error: ErrBlurRadius if the radius exceeds MaxBlurRadius
func GaussWeights(sigma float32) ([]float32, error) {
	radius := int(math.Ceil(float64(2 * sigma)))
	if radius > MaxBlurRadius {
		return nil, ErrBlurRadius
	}
	twoSigma2 := 2 * float64(sigma) * float64(sigma)

	weights := make([]float32, 2*radius+1)
	var sum float32
	for i := -radius; i <= radius; i++ {
		w := float32(math.Exp(-float64(i*i) / twoSigma2))
		weights[i+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights, nil
}

// buildOffsets returns the cube corners and face centers, opposite pairs adjacent so that any
// prefix of the kernel stays evenly spread.
func buildOffsets(rng *rand.Rand) [frame.SsaoOffsetCount][4]float32 {
	dirs := [frame.SsaoOffsetCount][3]float32{
		{1, 1, 1}, {-1, -1, -1},
		{-1, 1, 1}, {1, -1, -1},
		{1, 1, -1}, {-1, -1, 1},
		{-1, 1, -1}, {1, -1, 1},
		{-1, 0, 0}, {1, 0, 0},
		{0, -1, 0}, {0, 1, 0},
		{0, 0, -1}, {0, 0, 1},
	}

	var out [frame.SsaoOffsetCount][4]float32
	for i, d := range dirs {
		length := 0.25 + 0.75*rng.Float32()
		v := common.Scale3(common.Normalize3(d), length)
		out[i] = [4]float32{v[0], v[1], v[2], 0}
	}
	return out
}

func buildRandomVectors(rng *rand.Rand) []byte {
	data := make([]byte, RandomMapSize*RandomMapSize*4)
	for i := 0; i < len(data); i += 4 {
		data[i] = byte(rng.Uint32())
		data[i+1] = byte(rng.Uint32())
		data[i+2] = byte(rng.Uint32())
		data[i+3] = 0
	}
	return data
}
