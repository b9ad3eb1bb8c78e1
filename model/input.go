package model

// Input is one logical serialized file. Split inputs have one path per part,
// read back to back as a single stream.
type Input struct {
	Num   uint32
	Paths []string
	Split bool
}

func (i Input) Name() string {
	if len(i.Paths) == 0 {
		return ""
	}
	return i.Paths[0]
}

type FileNumToInput = map[uint32]Input
