package rational

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArithmetic(t *testing.T) {
	t.Run("AddSubMul", func(t *testing.T) {
		a := FromFrac(1, 3)
		b := FromFrac(1, 6)
		assert.Equal(t, "1/2", a.Add(b).String())
		assert.Equal(t, "1/6", a.Sub(b).String())
		assert.Equal(t, "1/18", a.Mul(b).String())
	})

	t.Run("Quo", func(t *testing.T) {
		a := FromFrac(1, 2)
		b := FromFrac(1, 4)
		assert.Equal(t, "2", a.Quo(b).String())
	})

	t.Run("QuoByZeroPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			FromInt64(1).Quo(Zero())
		})
	})

	t.Run("InfArithmetic", func(t *testing.T) {
		inf := Inf()
		assert.True(t, inf.Add(FromInt64(5)).IsInf())
		assert.True(t, FromInt64(0).Mul(inf).IsZero())
		assert.True(t, inf.Cmp(FromInt64(1000000)) > 0)
		assert.True(t, inf.Equal(Inf()))
	})

	t.Run("FromString", func(t *testing.T) {
		r, err := FromString("3.4")
		assert.NoError(t, err)
		assert.Equal(t, "17/5", r.String())

		_, err = FromString("not-a-number")
		assert.Error(t, err)
	})

	t.Run("Min", func(t *testing.T) {
		a := FromInt64(3)
		b := FromInt64(-2)
		assert.Equal(t, b, Min(a, b))
		assert.Equal(t, a, Min(a, a))
	})
}
