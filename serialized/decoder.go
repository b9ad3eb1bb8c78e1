package serialized

import (
	"io"

	"github.com/jsphweid/sfdex/chunk"
	"github.com/jsphweid/sfdex/model"
	"github.com/jsphweid/sfdex/reader"
	"github.com/jsphweid/sfdex/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	alignment = 4

	// upper bound for preallocating maps and slices from an untrusted count
	maxPrealloc = 4096
)

// Decoder walks one serialized file section by section. The format has no
// markers to resync on, so the first error ends the decode.
type Decoder struct {
	r       *reader.Reader
	profile Profile
	log     *logrus.Entry
}

func NewDecoder(rs io.ReadSeeker) *Decoder {
	return &Decoder{
		r:   reader.New(rs),
		log: logrus.WithField("component", "decoder"),
	}
}

// WithLogger replaces the decoder's log entry.
func (d *Decoder) WithLogger(log *logrus.Entry) *Decoder {
	d.log = log
	return d
}

func Decode(rs io.ReadSeeker) (*model.Document, error) {
	return NewDecoder(rs).Decode()
}

// DecodeFiles reads the files at paths back to back as one serialized file.
func DecodeFiles(paths []string) (*model.Document, error) {
	if len(paths) == 0 {
		return nil, errors.Wrap(model.ErrNotFound, "no input paths")
	}

	s, err := chunk.Open(paths)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return NewDecoder(s).WithLogger(logrus.WithField("input", paths[0])).Decode()
}

func (d *Decoder) Decode() (*model.Document, error) {
	doc := &model.Document{}

	if err := d.readHeader(&doc.Header); err != nil {
		return nil, errors.WithMessage(err, "read header")
	}
	if err := d.readTypes(&doc.Header, &doc.Types); err != nil {
		return nil, errors.WithMessage(err, "read type table")
	}

	objects, err := d.readObjects()
	if err != nil {
		return nil, errors.WithMessage(err, "read object index")
	}
	doc.Objects = objects

	if d.profile.HasScriptTypes {
		scriptTypes, err := d.readScriptTypes()
		if err != nil {
			return nil, errors.WithMessage(err, "read script types")
		}
		doc.ScriptTypes = scriptTypes
	}

	externals, err := d.readExternals()
	if err != nil {
		return nil, errors.WithMessage(err, "read externals")
	}
	doc.Externals = externals

	return doc, nil
}

func (d *Decoder) readHeader(h *model.Header) error {
	// the header is always big-endian
	d.r.BigEndian()

	fields := []*int32{&h.MetadataSize, &h.FileSize, &h.Version, &h.DataOffset}
	for _, f := range fields {
		v, err := d.r.Int32()
		if err != nil {
			return err
		}
		*f = v
	}

	if h.DataOffset > h.FileSize {
		return errors.Wrapf(model.ErrMalformedHeader, "data offset %d past file size %d", h.DataOffset, h.FileSize)
	}
	if h.MetadataSize > h.FileSize {
		return errors.Wrapf(model.ErrMalformedHeader, "metadata size %d past file size %d", h.MetadataSize, h.FileSize)
	}

	d.profile = ProfileFor(h.Version)
	d.log = d.log.WithField("version", h.Version)

	if d.profile.HasEndianness {
		endianness, err := d.r.Uint8()
		if err != nil {
			return err
		}
		h.Endianness = &endianness

		// reserved
		if err := d.r.Skip(3); err != nil {
			return err
		}
	}

	if d.profile.LittleEndianBody {
		d.r.LittleEndian()
	}

	if !d.profile.Supported {
		return errors.Wrapf(model.ErrUnsupportedVersion, "version %d", h.Version)
	}
	return nil
}

// readCount reads the length prefix of a section.
func (d *Decoder) readCount(section string) (int, error) {
	n, err := d.r.Int32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.Wrapf(model.ErrMalformedSection, "negative %s count %d", section, n)
	}
	d.log.WithFields(logrus.Fields{"section": section, "count": n}).Debug("reading section")
	return int(n), nil
}

func (d *Decoder) readTypes(h *model.Header, t *model.TypeTable) error {
	p := d.profile

	if p.TypesAtEnd {
		offset := int64(h.FileSize) - int64(h.MetadataSize) + 1
		return errors.Wrapf(model.ErrUnsupportedFeature, "type metadata after object data at offset %d", offset)
	}

	if p.HasSignature {
		signature, err := d.r.CString()
		if err != nil {
			return err
		}
		attributes, err := d.r.Int32()
		if err != nil {
			return err
		}
		t.Signature = &signature
		t.Attributes = &attributes
	}

	embedded := false
	if p.HasEmbeddedFlag {
		v, err := d.r.Bool()
		if err != nil {
			return err
		}
		embedded = v
		t.Embedded = &embedded
	}

	count, err := d.readCount("types")
	if err != nil {
		return err
	}

	t.Classes = make(map[model.ClassID]model.ClassType, util.Min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		classID, err := d.r.Int32()
		if err != nil {
			return err
		}

		var class model.ClassType
		if classID < 0 {
			scriptID, err := d.r.UUID()
			if err != nil {
				return err
			}
			class.ScriptID = &scriptID
		}

		class.OldTypeHash, err = d.r.UUID()
		if err != nil {
			return err
		}

		if embedded {
			return errors.Wrapf(model.ErrUnsupportedFeature, "embedded type tree for class %d", classID)
		}

		if _, ok := t.Classes[classID]; ok {
			return errors.Wrapf(model.ErrDuplicateKey, "class id %d", classID)
		}
		t.Classes[classID] = class
	}
	return nil
}

func (d *Decoder) readObjects() (model.ObjectIndex, error) {
	p := d.profile

	count, err := d.readCount("objects")
	if err != nil {
		return nil, err
	}

	objects := make(model.ObjectIndex, util.Min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		if p.AlignObjects {
			if err := d.r.Align(alignment); err != nil {
				return nil, err
			}
		}

		pathID, err := d.r.Int64()
		if err != nil {
			return nil, err
		}

		var obj model.ObjectEntry
		if obj.ByteStart, err = d.r.Uint32(); err != nil {
			return nil, err
		}
		if obj.ByteSize, err = d.r.Uint32(); err != nil {
			return nil, err
		}
		if obj.TypeID, err = d.r.Int32(); err != nil {
			return nil, err
		}
		if obj.ClassID, err = d.r.Int16(); err != nil {
			return nil, err
		}

		v, err := d.r.Int16()
		if err != nil {
			return nil, err
		}
		if p.HasScriptTypeIndex {
			obj.ScriptTypeIndex = &v
		} else {
			destroyed := v != 0
			obj.IsDestroyed = &destroyed
		}

		if p.HasStripped {
			stripped, err := d.r.Bool()
			if err != nil {
				return nil, err
			}
			obj.Stripped = &stripped
		}

		if _, ok := objects[pathID]; ok {
			return nil, errors.Wrapf(model.ErrDuplicateKey, "path id %d", pathID)
		}
		objects[pathID] = obj
	}
	return objects, nil
}

func (d *Decoder) readScriptTypes() ([]model.ScriptType, error) {
	count, err := d.readCount("script types")
	if err != nil {
		return nil, err
	}

	res := make([]model.ScriptType, 0, util.Min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		if err := d.r.Align(alignment); err != nil {
			return nil, err
		}

		var st model.ScriptType
		if st.SerializedFileIndex, err = d.r.Int32(); err != nil {
			return nil, err
		}
		if st.IdentifierInFile, err = d.r.Int64(); err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, nil
}

func (d *Decoder) readExternals() ([]model.External, error) {
	count, err := d.readCount("externals")
	if err != nil {
		return nil, err
	}

	res := make([]model.External, 0, util.Min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		var ext model.External

		if d.profile.HasAssetPath {
			assetPath, err := d.r.CString()
			if err != nil {
				return nil, err
			}
			ext.AssetPath = &assetPath
		}

		if ext.GUID, err = d.r.UUID(); err != nil {
			return nil, err
		}
		if ext.Type, err = d.r.Int32(); err != nil {
			return nil, err
		}
		if ext.FilePath, err = d.r.CString(); err != nil {
			return nil, err
		}
		res = append(res, ext)
	}
	return res, nil
}
