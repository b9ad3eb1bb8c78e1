package present

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/jsphweid/sfdex/model"
	"github.com/jsphweid/sfdex/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var formats = []Format{FormatText, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", errors.Errorf("unknown format %q, want one of %v", s, formats)
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func Render(w io.Writer, doc *model.Document, format Format) error {
	switch format {
	case FormatText:
		dumper.Fdump(w, doc)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(doc), "encode json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return errors.Wrap(enc.Close(), "encode yaml")
	}
	return errors.Errorf("unknown format %q", format)
}

// Summary writes one line per object, ordered by path id.
func Summary(w io.Writer, doc *model.Document) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "PATH ID\tCLASS\tTYPE\tOFFSET\tSIZE\tSTRIPPED\n")
	for _, pathID := range util.GetKeys(doc.Objects) {
		obj := doc.Objects[pathID]
		stripped := obj.Stripped != nil && *obj.Stripped
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%t\n",
			pathID, obj.ClassID, obj.TypeID,
			int64(doc.Header.DataOffset)+int64(obj.ByteStart), obj.ByteSize, stripped)
	}
	return tw.Flush()
}
