// Package serializedtest builds serialized files in memory for tests.
//
// The body after the header always uses the version 15 layout; the header
// version field is written as given so other versions can be rejected.
package serializedtest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/jsphweid/sfdex/model"
)

type Class struct {
	ID          int32
	ScriptID    uuid.UUID // written only when ID is negative
	OldTypeHash uuid.UUID
}

type Object struct {
	PathID          int64
	ByteStart       uint32
	ByteSize        uint32
	TypeID          int32
	ClassID         int16
	ScriptTypeIndex int16
	Stripped        bool
}

type External struct {
	AssetPath string
	GUID      uuid.UUID
	Type      int32
	FilePath  string
}

type File struct {
	Version    int32
	Endianness uint8

	// zero values are filled in from the encoded layout
	MetadataSize int32
	FileSize     int32
	DataOffset   int32

	Signature   string
	Attributes  int32
	Embedded    bool
	Classes     []Class
	Objects     []Object
	ScriptTypes []model.ScriptType
	Externals   []External

	// object data, placed at DataOffset
	Data []byte
}

const headerSize = 20

type builder struct {
	buf bytes.Buffer
}

func (b *builder) write(v any) {
	binary.Write(&b.buf, binary.LittleEndian, v)
}

func (b *builder) cstring(s string) {
	b.buf.WriteString(s)
	b.buf.WriteByte(0)
}

func (b *builder) uuid(id uuid.UUID) {
	b.buf.Write(id[:])
}

func (b *builder) bool(v bool) {
	if v {
		b.buf.WriteByte(1)
	} else {
		b.buf.WriteByte(0)
	}
}

func (b *builder) align(n int) {
	for b.buf.Len()%n != 0 {
		b.buf.WriteByte(0)
	}
}

// metadata encodes everything up to the end of the externals, with a zeroed
// header.
func (f *File) metadata() []byte {
	b := &builder{}
	b.buf.Write(make([]byte, headerSize))

	b.cstring(f.Signature)
	b.write(f.Attributes)
	b.bool(f.Embedded)

	b.write(int32(len(f.Classes)))
	for _, c := range f.Classes {
		b.write(c.ID)
		if c.ID < 0 {
			b.uuid(c.ScriptID)
		}
		b.uuid(c.OldTypeHash)
	}

	b.write(int32(len(f.Objects)))
	for _, o := range f.Objects {
		b.align(4)
		b.write(o.PathID)
		b.write(o.ByteStart)
		b.write(o.ByteSize)
		b.write(o.TypeID)
		b.write(o.ClassID)
		b.write(o.ScriptTypeIndex)
		b.bool(o.Stripped)
	}

	b.write(int32(len(f.ScriptTypes)))
	for _, st := range f.ScriptTypes {
		b.align(4)
		b.write(st.SerializedFileIndex)
		b.write(st.IdentifierInFile)
	}

	b.write(int32(len(f.Externals)))
	for _, e := range f.Externals {
		b.cstring(e.AssetPath)
		b.uuid(e.GUID)
		b.write(e.Type)
		b.cstring(e.FilePath)
	}

	return b.buf.Bytes()
}

// MetadataLen is the number of bytes a decoder consumes for f.
func (f *File) MetadataLen() int {
	return len(f.metadata())
}

func (f *File) Bytes() []byte {
	res := f.metadata()
	metaLen := len(res)

	dataOffset := f.DataOffset
	if dataOffset == 0 && len(f.Data) > 0 {
		dataOffset = int32((metaLen + 15) / 16 * 16)
	}
	if len(f.Data) > 0 {
		for len(res) < int(dataOffset) {
			res = append(res, 0)
		}
		res = append(res, f.Data...)
	}

	metadataSize := f.MetadataSize
	if metadataSize == 0 {
		metadataSize = int32(metaLen - headerSize)
	}
	fileSize := f.FileSize
	if fileSize == 0 {
		fileSize = int32(len(res))
	}

	binary.BigEndian.PutUint32(res[0:], uint32(metadataSize))
	binary.BigEndian.PutUint32(res[4:], uint32(fileSize))
	binary.BigEndian.PutUint32(res[8:], uint32(f.Version))
	binary.BigEndian.PutUint32(res[12:], uint32(dataOffset))
	res[16] = f.Endianness
	return res
}

// Sample is a version 15 file with a bit of everything in it.
func Sample() *File {
	data := make([]byte, 48)
	for i := range data {
		data[i] = byte(0xa0 + i)
	}

	return &File{
		Version:    15,
		Signature:  "2019.4.1f1",
		Attributes: 5,
		Classes: []Class{
			{ID: 1, OldTypeHash: uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")},
			{ID: -114, ScriptID: uuid.MustParse("0f0e0d0c-0b0a-0908-0706-050403020100"), OldTypeHash: uuid.MustParse("ffeeddcc-bbaa-9988-7766-554433221100")},
		},
		Objects: []Object{
			{PathID: 1, ByteStart: 0, ByteSize: 16, TypeID: 0, ClassID: 1, ScriptTypeIndex: -1},
			{PathID: -7, ByteStart: 16, ByteSize: 24, TypeID: 1, ClassID: 114, ScriptTypeIndex: 0, Stripped: true},
			{PathID: 1 << 40, ByteStart: 40, ByteSize: 8, TypeID: 0, ClassID: 1, ScriptTypeIndex: -1},
		},
		ScriptTypes: []model.ScriptType{
			{SerializedFileIndex: 0, IdentifierInFile: 11500000},
			{SerializedFileIndex: 1, IdentifierInFile: -42},
		},
		Externals: []External{
			{AssetPath: "", GUID: uuid.MustParse("00000000-0000-0000-e000-000000000000"), Type: 0, FilePath: "library/unity default resources"},
			{AssetPath: "archive:/cab-1", GUID: uuid.MustParse("12345678-9abc-def0-1234-56789abcdef0"), Type: 3, FilePath: "sharedassets0.assets"},
		},
		Data: data,
	}
}

// Split cuts data into consecutive parts of the given sizes; whatever is
// left over becomes the last part.
func Split(data []byte, sizes ...int) [][]byte {
	var res [][]byte
	for _, size := range sizes {
		if size > len(data) {
			size = len(data)
		}
		res = append(res, data[:size])
		data = data[size:]
	}
	return append(res, data)
}

// WriteSplit writes parts as name.split0, name.split1, ... under dir and
// returns their paths.
func WriteSplit(dir, name string, parts [][]byte) ([]string, error) {
	var paths []string
	for i, part := range parts {
		path := filepath.Join(dir, name+".split"+strconv.Itoa(i))
		if err := os.WriteFile(path, part, 0644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
