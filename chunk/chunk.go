package chunk

import (
	"io"
	"os"

	"github.com/jsphweid/sfdex/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Source is one physical part of a logical file.
type Source interface {
	io.Reader
	io.Seeker
	io.Closer
}

type part struct {
	src   Source
	start int64
	end   int64

	// position inside src
	pos int64
}

func (p *part) size() int64 {
	return p.end - p.start
}

func (p *part) tell() int64 {
	return p.start + p.pos
}

func (p *part) read(buf []byte) (int, error) {
	n, err := p.src.Read(buf)
	p.pos += int64(n)
	return n, err
}

func (p *part) seek(pos int64) error {
	local := pos - p.start
	if local < 0 || local > p.size() {
		return errors.Wrapf(model.ErrOutOfRange, "offset %d not in [%d, %d]", pos, p.start, p.end)
	}
	if _, err := p.src.Seek(local, io.SeekStart); err != nil {
		return errors.Wrapf(err, "seek part to %d", local)
	}
	p.pos = local
	return nil
}

// Stream reads an ordered list of sources as one contiguous, seekable file.
// Offsets are logical: the first byte of each source follows the last byte
// of the one before it.
type Stream struct {
	parts []*part
	index int
}

// New lays the sources out end to end. Empty sources are closed and left out.
// The stream owns every source passed in; if New fails they are all closed.
func New(sources []Source) (*Stream, error) {
	s := &Stream{}
	var pos int64
	for i, src := range sources {
		size, err := measure(src)
		if err != nil {
			s.Close()
			closeSources(sources[i:])
			return nil, errors.Wrapf(err, "measure source %d", i)
		}
		if size == 0 {
			logrus.WithField("source", i).Debug("dropping empty source")
			src.Close()
			continue
		}
		s.parts = append(s.parts, &part{src: src, start: pos, end: pos + size})
		pos += size
	}
	return s, nil
}

// Open opens the files at paths, in order, and stitches them into a Stream.
func Open(paths []string) (*Stream, error) {
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeSources(sources)
			return nil, errors.Wrapf(err, "open %s", path)
		}
		sources = append(sources, f)
	}
	return New(sources)
}

func measure(src Source) (int64, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}

func closeSources(sources []Source) {
	for _, src := range sources {
		src.Close()
	}
}

// Size is the total length of all parts.
func (s *Stream) Size() int64 {
	if len(s.parts) == 0 {
		return 0
	}
	return s.parts[len(s.parts)-1].end
}

func (s *Stream) Tell() int64 {
	if len(s.parts) == 0 {
		return 0
	}
	return s.parts[s.index].tell()
}

// Read reads from the active part. When the active part is used up, Read
// moves on to the next part and reads from it once; a single call never
// touches more than two parts.
func (s *Stream) Read(buf []byte) (int, error) {
	if len(s.parts) == 0 {
		return 0, io.EOF
	}
	if len(buf) == 0 {
		return 0, nil
	}

	n, err := s.parts[s.index].read(buf)
	if n == 0 && (err == nil || err == io.EOF) && s.index+1 < len(s.parts) {
		next := s.parts[s.index+1]
		if err := next.seek(next.start); err != nil {
			return 0, err
		}
		s.index++
		n, err = next.read(buf)
	}

	if n > 0 && err == io.EOF {
		err = nil
	}
	if n == 0 && err == nil {
		err = io.EOF
	}
	return n, err
}

// Seek moves to a logical offset. If the offset is outside the active part,
// parts are scanned from the first for the first one ending at or after it.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = s.Tell() + offset
	case io.SeekEnd:
		pos = s.Size() + offset
	default:
		return 0, errors.Wrapf(model.ErrOutOfRange, "invalid whence %d", whence)
	}

	if len(s.parts) == 0 {
		if pos != 0 {
			return 0, errors.Wrapf(model.ErrOutOfRange, "offset %d in empty stream", pos)
		}
		return 0, nil
	}

	index := s.index
	if p := s.parts[index]; pos < p.start || pos > p.end {
		index = s.find(pos)
	}
	if err := s.parts[index].seek(pos); err != nil {
		return 0, err
	}
	s.index = index
	return pos, nil
}

func (s *Stream) find(pos int64) int {
	for i, p := range s.parts {
		if p.end >= pos {
			return i
		}
	}
	return len(s.parts) - 1
}

// Close closes every part and returns the first error.
func (s *Stream) Close() error {
	var first error
	for _, p := range s.parts {
		if err := p.src.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.parts = nil
	s.index = 0
	return first
}
