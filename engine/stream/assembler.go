package stream

import "github.com/amstokely/xml-stream-parser/pkg/xmlnode"

// attributes is a lookup where a missing key reads as the empty string.
type attributes map[string]string

func (a attributes) get(key string) string {
	return a[key]
}

// Load resolves one stream record against the catalog it belongs to.
// Any reference error is returned as is; no default is substituted.
func Load(record xmlnode.Node, catalog *Catalog) (Resolved, error) {
	attrs := attributes(record.Attributes())
	id := attrs.get(AttrName)
	if id == "" {
		return Resolved{}, &Error{Code: CodeMissingRequiredAttribute, Attribute: AttrName}
	}

	rawIn := attrs.get(AttrInputInterval)
	rawOut := attrs.get(AttrOutputInterval)
	resolvedIn, err := ResolveInterval(rawIn, IntervalInput, id, catalog)
	if err != nil {
		return Resolved{}, err
	}
	resolvedOut, err := ResolveInterval(rawOut, IntervalOutput, id, catalog)
	if err != nil {
		return Resolved{}, err
	}

	direction := attrs.get(AttrType)
	return Resolved{
		StreamID:  id,
		Direction: ParseDirection(direction),
		Immutable: record.Name() == TagImmutableStream,
		FilenameInterval: DeriveFilenameInterval(FilenameIntervalInput{
			Direction:      direction,
			RawInput:       rawIn,
			RawOutput:      rawOut,
			ResolvedInput:  resolvedIn,
			ResolvedOutput: resolvedOut,
			Explicit:       attrs.get(AttrFilenameInterval),
		}),
		ReferenceTime:    ParseReferenceTime(attrs.get(AttrReferenceTime)),
		RecordInterval:   ParseRecordInterval(attrs.get(AttrRecordInterval)),
		Precision:        ParsePrecision(attrs.get(AttrPrecision)),
		IOType:           ParseIOType(attrs.get(AttrIOType)),
		ClobberMode:      ParseClobberMode(attrs.get(AttrClobberMode)),
		FilenameTemplate: attrs.get(AttrFilenameTemplate),
		InputInterval:    resolvedIn,
		OutputInterval:   resolvedOut,
	}, nil
}
