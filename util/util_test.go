package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKeysSorted(t *testing.T) {
	m := map[int64]string{30: "c", -2: "a", 7: "b"}
	assert.Equal(t, []int64{-2, 7, 30}, GetKeys(m))
}

func TestMinAndSum(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, Min(3, 9))
	assert.Equal(uint32(1), Min(uint32(4), uint32(1)))
	assert.Equal(uint64(10), Sum([]int64{1, 2, 3, 4}))
}

func TestFileSizes(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte("123"), 0644))
	require.NoError(t, os.WriteFile(b, nil, 0644))

	sizes, err := FileSizes([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 0}, sizes)

	_, err = FileSizes([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}
