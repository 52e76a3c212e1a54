package ssao

// SsaoBuilderOption is a functional option for configuring Ssao via NewSsao.
type SsaoBuilderOption func(*ssaoImpl)

// WithBlurCount sets how many horizontal+vertical blur iterations run per frame.
func WithBlurCount(n int) SsaoBuilderOption {
	return func(s *ssaoImpl) {
		s.blurCount = max(n, 0)
	}
}

// WithOcclusion sets the occlusion sampling parameters.
//
// Parameters:
//   - radius: sampling hemisphere radius in view space units
//   - fadeStart: occluder distance where occlusion starts to fade
//   - fadeEnd: occluder distance where occlusion reaches zero
//   - epsilon: minimum depth difference counted as occlusion
//
// Returns:
//   - SsaoBuilderOption: option function to apply
func WithOcclusion(radius, fadeStart, fadeEnd, epsilon float32) SsaoBuilderOption {
	return func(s *ssaoImpl) {
		s.radius = radius
		s.fadeStart = fadeStart
		s.fadeEnd = fadeEnd
		s.epsilon = epsilon
	}
}

// WithSeed sets the seed of the kernel lengths and the random vector map.
func WithSeed(seed uint64) SsaoBuilderOption {
	return func(s *ssaoImpl) {
		s.seed = seed
	}
}
