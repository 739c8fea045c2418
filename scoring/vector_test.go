package scoring

import (
	"testing"

	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	v := ParameterVector{
		A: rational.FromInt64(3),
		B: rational.FromInt64(6),
		C: rational.FromInt64(9),
		D: rational.FromInt64(3),
	}
	c := v.Canonicalize()
	assert.Equal(t, "1", c.A.String())
	assert.Equal(t, "2", c.B.String())
	assert.Equal(t, "3", c.C.String())
	assert.Equal(t, "1", c.D.String())

	t.Run("Idempotent", func(t *testing.T) {
		assert.True(t, c.Canonicalize().Equal(c))
	})

	t.Run("PanicsOnNonPositiveD", func(t *testing.T) {
		bad := ParameterVector{D: rational.Zero()}
		assert.Panics(t, func() { bad.Canonicalize() })
	})
}

func TestTransformRoundTrip(t *testing.T) {
	v := ParameterVector{
		A: rational.FromFrac(7, 2),
		B: rational.Zero(),
		C: rational.FromFrac(2, 5),
		D: rational.FromInt64(1),
	}
	assert.True(t, v.TransformParams().UntransformParams().Equal(v))
	assert.True(t, v.UntransformParams().TransformParams().Equal(v))
}
