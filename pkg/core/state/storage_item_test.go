package state

import (
	"testing"

	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeStorageItem(t *testing.T) {
	storageItem := &StorageItem{
		Value:   []byte{1, 2, 3},
		IsConst: true,
	}
	data, err := io.ToByteArray(storageItem)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 1, 2, 3, 1}, data)

	actual := new(StorageItem)
	require.NoError(t, io.FromByteArray(actual, data))
	require.Equal(t, storageItem, actual)
}
