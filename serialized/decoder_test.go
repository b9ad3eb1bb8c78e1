package serialized

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/jsphweid/sfdex/model"
	"github.com/jsphweid/sfdex/serialized/serializedtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerBytes(metadataSize, fileSize, version, dataOffset int32, extra ...byte) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, []int32{metadataSize, fileSize, version, dataOffset})
	buf.Write(extra)
	return buf.Bytes()
}

func TestReadHeader(t *testing.T) {
	data := headerBytes(100, 1000, 15, 500, 0, 0, 0, 0)
	data = append(data, 0xff, 0xff)
	rs := bytes.NewReader(data)
	d := NewDecoder(rs)

	var h model.Header
	require.NoError(t, d.readHeader(&h))

	assert := assert.New(t)
	assert.Equal(int32(100), h.MetadataSize)
	assert.Equal(int32(1000), h.FileSize)
	assert.Equal(int32(15), h.Version)
	assert.Equal(int32(500), h.DataOffset)
	require.NotNil(t, h.Endianness)
	assert.Equal(uint8(0), *h.Endianness)

	pos, err := rs.Seek(0, io.SeekCurrent)
	assert.NoError(err)
	assert.Equal(int64(20), pos)
	assert.Equal(binary.LittleEndian, d.r.ByteOrder())
}

func TestMalformedHeader(t *testing.T) {
	cases := map[string][]byte{
		"data offset past file size":   headerBytes(10, 100, 15, 101, 0, 0, 0, 0),
		"metadata size past file size": headerBytes(101, 100, 15, 50, 0, 0, 0, 0),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(data))
			assert.True(t, errors.Is(err, model.ErrMalformedHeader), "got %v", err)
		})
	}
}

func TestUnsupportedVersionStopsAfterHeader(t *testing.T) {
	for _, version := range []int32{5, 6, 8, 9, 13, 14, 16, 22} {
		t.Run(fmt.Sprintf("version %d", version), func(t *testing.T) {
			f := serializedtest.Sample()
			f.Version = version
			rs := bytes.NewReader(f.Bytes())

			_, err := Decode(rs)
			assert.True(t, errors.Is(err, model.ErrUnsupportedVersion), "got %v", err)

			headerLen := int64(16)
			if version >= 9 {
				headerLen = 20
			}
			pos, _ := rs.Seek(0, io.SeekCurrent)
			assert.Equal(t, headerLen, pos)
		})
	}
}

func TestDecodeSample(t *testing.T) {
	f := serializedtest.Sample()
	doc, err := Decode(bytes.NewReader(f.Bytes()))
	require.NoError(t, err)

	assert := assert.New(t)

	assert.Equal(int32(15), doc.Header.Version)
	assert.Equal(int32(f.MetadataLen()-20), doc.Header.MetadataSize)
	assert.Equal(int32(len(f.Bytes())), doc.Header.FileSize)
	assert.Equal(int32(len(f.Bytes())-len(f.Data)), doc.Header.DataOffset)

	require.NotNil(t, doc.Types.Signature)
	assert.Equal("2019.4.1f1", *doc.Types.Signature)
	require.NotNil(t, doc.Types.Attributes)
	assert.Equal(int32(5), *doc.Types.Attributes)
	require.NotNil(t, doc.Types.Embedded)
	assert.False(*doc.Types.Embedded)

	assert.Len(doc.Types.Classes, len(f.Classes))
	for _, c := range f.Classes {
		got, ok := doc.Types.Classes[c.ID]
		require.True(t, ok, "class %d", c.ID)
		assert.Equal(c.OldTypeHash, got.OldTypeHash)
		if c.ID < 0 {
			require.NotNil(t, got.ScriptID)
			assert.Equal(c.ScriptID, *got.ScriptID)
		} else {
			assert.Nil(got.ScriptID)
		}
	}

	assert.Len(doc.Objects, len(f.Objects))
	for _, o := range f.Objects {
		got, ok := doc.Objects[o.PathID]
		require.True(t, ok, "path id %d", o.PathID)
		assert.Equal(o.ByteStart, got.ByteStart)
		assert.Equal(o.ByteSize, got.ByteSize)
		assert.Equal(o.TypeID, got.TypeID)
		assert.Equal(o.ClassID, got.ClassID)
		require.NotNil(t, got.ScriptTypeIndex)
		assert.Equal(o.ScriptTypeIndex, *got.ScriptTypeIndex)
		assert.Nil(got.IsDestroyed)
		require.NotNil(t, got.Stripped)
		assert.Equal(o.Stripped, *got.Stripped)
	}

	assert.Equal(f.ScriptTypes, doc.ScriptTypes)

	require.Len(t, doc.Externals, len(f.Externals))
	for i, e := range f.Externals {
		got := doc.Externals[i]
		require.NotNil(t, got.AssetPath)
		assert.Equal(e.AssetPath, *got.AssetPath)
		assert.Equal(e.GUID, got.GUID)
		assert.Equal(e.Type, got.Type)
		assert.Equal(e.FilePath, got.FilePath)
	}
}

func TestDecodeEmptySections(t *testing.T) {
	f := &serializedtest.File{Version: 15}
	doc, err := Decode(bytes.NewReader(f.Bytes()))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Empty(doc.Types.Classes)
	assert.Empty(doc.Objects)
	assert.NotNil(doc.ScriptTypes)
	assert.Empty(doc.ScriptTypes)
	assert.Empty(doc.Externals)
}

func TestDuplicateClassID(t *testing.T) {
	f := serializedtest.Sample()
	f.Classes = append(f.Classes, serializedtest.Class{ID: 1, OldTypeHash: uuid.New()})

	_, err := Decode(bytes.NewReader(f.Bytes()))
	assert.True(t, errors.Is(err, model.ErrDuplicateKey), "got %v", err)
}

func TestDuplicatePathID(t *testing.T) {
	f := serializedtest.Sample()
	f.Objects = append(f.Objects, serializedtest.Object{PathID: -7, ByteSize: 1})

	_, err := Decode(bytes.NewReader(f.Bytes()))
	assert.True(t, errors.Is(err, model.ErrDuplicateKey), "got %v", err)
}

func TestEmbeddedTypeTree(t *testing.T) {
	f := serializedtest.Sample()
	f.Embedded = true

	_, err := Decode(bytes.NewReader(f.Bytes()))
	assert.True(t, errors.Is(err, model.ErrUnsupportedFeature), "got %v", err)

	// the flag alone is fine when there are no classes to carry a tree
	f.Classes = nil
	doc, err := Decode(bytes.NewReader(f.Bytes()))
	require.NoError(t, err)
	assert.True(t, *doc.Types.Embedded)
}

func TestNegativeCount(t *testing.T) {
	data := headerBytes(0, 100, 15, 0, 0, 0, 0, 0)
	buf := bytes.NewBuffer(data)
	buf.WriteString("sig\x00")
	binary.Write(buf, binary.LittleEndian, int32(0))
	buf.WriteByte(0)
	binary.Write(buf, binary.LittleEndian, int32(-1))

	_, err := Decode(bytes.NewReader(buf.Bytes()))
	assert.True(t, errors.Is(err, model.ErrMalformedSection), "got %v", err)
}

func TestTruncatedMetadata(t *testing.T) {
	f := serializedtest.Sample()
	data := f.Bytes()
	metaLen := f.MetadataLen()

	for cut := 0; cut < metaLen; cut++ {
		_, err := Decode(bytes.NewReader(data[:cut]))
		require.Error(t, err, "cut at %d", cut)
		assert.True(t, errors.Is(err, model.ErrShortRead), "cut at %d: %v", cut, err)
	}

	_, err := Decode(bytes.NewReader(data[:metaLen]))
	assert.NoError(t, err)
}

func TestDecodeFilesAcrossSplitParts(t *testing.T) {
	f := serializedtest.Sample()
	data := f.Bytes()

	want, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	splits := [][]int{
		{7},
		{20, 0, 13, 1, 1},
		{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
	}
	for i, sizes := range splits {
		t.Run(fmt.Sprintf("split %d", i), func(t *testing.T) {
			paths, err := serializedtest.WriteSplit(t.TempDir(), "level0", serializedtest.Split(data, sizes...))
			require.NoError(t, err)

			got, err := DecodeFiles(paths)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeFilesWithoutPaths(t *testing.T) {
	_, err := DecodeFiles(nil)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestProfileFor(t *testing.T) {
	cases := []struct {
		version int32
		want    Profile
	}{
		{5, Profile{Version: 5, TypesAtEnd: true}},
		{6, Profile{Version: 6, LittleEndianBody: true, TypesAtEnd: true, HasAssetPath: true}},
		{9, Profile{Version: 9, HasEndianness: true, LittleEndianBody: true, HasSignature: true, HasAssetPath: true}},
		{11, Profile{Version: 11, HasEndianness: true, LittleEndianBody: true, HasSignature: true, HasScriptTypes: true, HasAssetPath: true}},
		{14, Profile{
			Version: 14, HasEndianness: true, LittleEndianBody: true, HasSignature: true, HasEmbeddedFlag: true,
			AlignObjects: true, HasScriptTypeIndex: true, HasScriptTypes: true, HasAssetPath: true,
		}},
		{15, Profile{
			Version: 15, Supported: true, HasEndianness: true, LittleEndianBody: true, HasSignature: true, HasEmbeddedFlag: true,
			AlignObjects: true, HasScriptTypeIndex: true, HasStripped: true, HasScriptTypes: true, HasAssetPath: true,
		}},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("version %d", c.version), func(t *testing.T) {
			assert.Equal(t, c.want, ProfileFor(c.version))
		})
	}
}
