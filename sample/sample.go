package sample

import (
	"io"

	"github.com/jsphweid/sfdex/model"
	"github.com/pkg/errors"
)

// Object copies the raw bytes of one object out of the data region. The
// bytes are not interpreted.
func Object(rs io.ReadSeeker, doc *model.Document, pathID model.PathID, w io.Writer) (int64, error) {
	obj, ok := doc.Objects[pathID]
	if !ok {
		return 0, errors.Wrapf(model.ErrNotFound, "path id %d", pathID)
	}

	start := int64(doc.Header.DataOffset) + int64(obj.ByteStart)
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return 0, errors.Wrapf(err, "seek to object %d at %d", pathID, start)
	}

	n, err := io.CopyN(w, rs, int64(obj.ByteSize))
	if err == io.EOF {
		return n, errors.Wrapf(model.ErrShortRead, "object %d: want %d bytes, got %d", pathID, obj.ByteSize, n)
	}
	return n, err
}
