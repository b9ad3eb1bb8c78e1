package serialized

// SupportedVersion is the only format version the decoder accepts.
const SupportedVersion = 15

// Profile says which sections and fields a format version carries. It is
// worked out once from the header version and every section reads from it.
type Profile struct {
	Version   int32
	Supported bool

	HasEndianness    bool // >= 9: endianness byte + 3 reserved bytes after the header
	LittleEndianBody bool // > 5: everything after the header is little-endian
	TypesAtEnd       bool // < 9: type metadata sits after the object data

	HasSignature    bool // > 6: generator signature and attributes
	HasEmbeddedFlag bool // > 13: type tree embedded flag

	AlignObjects       bool // > 13: object entries start on 4 byte boundaries
	HasScriptTypeIndex bool // > 13: script type index instead of destroyed flag
	HasStripped        bool // > 14

	HasScriptTypes bool // > 10
	HasAssetPath   bool // > 5
}

func ProfileFor(version int32) Profile {
	return Profile{
		Version:   version,
		Supported: version == SupportedVersion,

		HasEndianness:    version >= 9,
		LittleEndianBody: version > 5,
		TypesAtEnd:       version < 9,

		HasSignature:    version > 6,
		HasEmbeddedFlag: version > 13,

		AlignObjects:       version > 13,
		HasScriptTypeIndex: version > 13,
		HasStripped:        version > 14,

		HasScriptTypes: version > 10,
		HasAssetPath:   version > 5,
	}
}
