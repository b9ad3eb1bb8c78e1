package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/sfdex/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	resourceExt = ".resource"
	splitExt    = ".split"
)

// SplitParts returns first and every consecutively numbered part after it
// that exists on disk. first must end in .split0.
func SplitParts(first string) []string {
	base := strings.TrimSuffix(first, splitExt+"0")
	var res []string
	for i := 0; ; i++ {
		path := fmt.Sprintf("%s%s%d", base, splitExt, i)
		if _, err := os.Stat(path); err != nil {
			return res
		}
		res = append(res, path)
	}
}

// Gather expands the glob patterns into inputs. Directories and .resource
// files are skipped. A .split0 file becomes one input covering all of its
// parts; the other parts are skipped on their own.
func Gather(patterns []string) ([]model.Input, error) {
	var res []model.Input
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "glob %s", pattern)
		}

		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			info, err := os.Stat(path)
			if err != nil {
				return nil, errors.Wrapf(err, "stat %s", path)
			}
			if info.IsDir() {
				continue
			}

			ext := filepath.Ext(path)
			switch {
			case ext == resourceExt:
				continue
			case ext == splitExt+"0":
				res = append(res, model.Input{Paths: SplitParts(path), Split: true})
			case strings.HasPrefix(ext, splitExt):
				logrus.WithField("path", path).Debug("skipping split part")
				continue
			default:
				res = append(res, model.Input{Paths: []string{path}})
			}
		}
	}

	for i := range res {
		res[i].Num = uint32(i)
	}
	return res, nil
}

func CreateFileNumMap(inputs []model.Input) model.FileNumToInput {
	res := make(model.FileNumToInput)
	for _, v := range inputs {
		res[v.Num] = v
	}
	return res
}
