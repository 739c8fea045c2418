package turner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	miscLoop := "0.5 -2.2 0.6 0.43 1.4 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "miscloop.dat"), []byte(miscLoop), 0o644))

	loopConsts := "1.07 3.0 0 0.5 0.7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loop.dat"), []byte(loopConsts), 0o644))

	tloop := "GGGGAC -3.0\nGGAAAC -2.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tloop.dat"), []byte(tloop), 0o644))

	t.Run("MissingDirLeavesDefaults", func(t *testing.T) {
		tab, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default().AUPenaltyValue, tab.AUPenaltyValue)
	})

	t.Run("OverridesMiscAndLoopConstants", func(t *testing.T) {
		tab, err := Load(dir)
		require.NoError(t, err)
		assert.True(t, tab.Gail)
		assert.Equal(t, "-11/5", tab.GUBonus.String())
		assert.Equal(t, "107/100", tab.Prelog.String())
		assert.Equal(t, "-3", tab.Tloop["GGGGAC"].String())
	})

	t.Run("DotMeansInfinity", func(t *testing.T) {
		stack := make([]byte, 0, 256*2)
		for i := 0; i < 256; i++ {
			if i%17 == 0 {
				stack = append(stack, '.', ' ')
			} else {
				stack = append(stack, '0', ' ')
			}
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "stack.dat"), stack, 0o644))
		tab, err := Load(dir)
		require.NoError(t, err)
		assert.True(t, tab.Stack[0][0][0][0].IsInf())
	})
}
