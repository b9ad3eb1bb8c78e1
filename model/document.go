package model

import "github.com/google/uuid"

type Header struct {
	MetadataSize int32  `json:"metadata_size" yaml:"metadata_size"`
	FileSize     int32  `json:"file_size" yaml:"file_size"`
	Version      int32  `json:"version" yaml:"version"`
	DataOffset   int32  `json:"data_offset" yaml:"data_offset"`
	Endianness   *uint8 `json:"endianness,omitempty" yaml:"endianness,omitempty"`
}

type ClassType struct {
	// only set for script classes (negative class id)
	ScriptID    *uuid.UUID `json:"script_id,omitempty" yaml:"script_id,omitempty"`
	OldTypeHash uuid.UUID  `json:"old_type_hash" yaml:"old_type_hash"`
}

type ClassID = int32

type TypeTable struct {
	Signature  *string               `json:"signature,omitempty" yaml:"signature,omitempty"`
	Attributes *int32                `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Embedded   *bool                 `json:"embedded,omitempty" yaml:"embedded,omitempty"`
	Classes    map[ClassID]ClassType `json:"classes" yaml:"classes"`
}

type PathID = int64

type ObjectEntry struct {
	ByteStart       uint32 `json:"byte_start" yaml:"byte_start"`
	ByteSize        uint32 `json:"byte_size" yaml:"byte_size"`
	TypeID          int32  `json:"type_id" yaml:"type_id"`
	ClassID         int16  `json:"class_id" yaml:"class_id"`
	ScriptTypeIndex *int16 `json:"script_type_index,omitempty" yaml:"script_type_index,omitempty"`
	IsDestroyed     *bool  `json:"is_destroyed,omitempty" yaml:"is_destroyed,omitempty"`
	Stripped        *bool  `json:"stripped,omitempty" yaml:"stripped,omitempty"`
}

type ObjectIndex = map[PathID]ObjectEntry

// ScriptType points at an object in another serialized file.
type ScriptType struct {
	SerializedFileIndex int32 `json:"serialized_file_index" yaml:"serialized_file_index"`
	IdentifierInFile    int64 `json:"identifier_in_file" yaml:"identifier_in_file"`
}

type External struct {
	AssetPath *string   `json:"asset_path,omitempty" yaml:"asset_path,omitempty"`
	GUID      uuid.UUID `json:"guid" yaml:"guid"`
	Type      int32     `json:"type" yaml:"type"`
	FilePath  string    `json:"file_path" yaml:"file_path"`
}

// Document is one decoded serialized file. ScriptTypes is nil when the
// format version has no script type table.
type Document struct {
	Header      Header       `json:"header" yaml:"header"`
	Types       TypeTable    `json:"types" yaml:"types"`
	Objects     ObjectIndex  `json:"objects" yaml:"objects"`
	ScriptTypes []ScriptType `json:"script_types,omitempty" yaml:"script_types,omitempty"`
	Externals   []External   `json:"externals" yaml:"externals"`
}
