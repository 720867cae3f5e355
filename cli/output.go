package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/amstokely/xml-stream-parser/engine/catalog"
	"github.com/amstokely/xml-stream-parser/pkg/config"
)

func encode(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case config.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// writeResults prints resolved streams in the requested format.
func writeResults(w io.Writer, format string, results []catalog.Result) error {
	if format != config.FormatTable {
		if results == nil {
			results = []catalog.Result{}
		}
		return encode(w, format, results)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCUMENT\tSTREAM\tTYPE\tIMMUTABLE\tFILENAME_INTERVAL\tINPUT_INTERVAL\tOUTPUT_INTERVAL\tREFERENCE_TIME\tRECORD_INTERVAL\tPRECISION\tIO_TYPE\tCLOBBER\tTEMPLATE")
	for _, res := range results {
		for _, r := range res.Streams {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				res.Document,
				r.StreamID,
				r.Direction,
				r.Immutable,
				r.FilenameInterval,
				dash(r.InputInterval),
				dash(r.OutputInterval),
				r.ReferenceTime,
				r.RecordInterval,
				r.Precision,
				r.IOType,
				r.ClobberMode,
				dash(r.FilenameTemplate),
			)
		}
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
