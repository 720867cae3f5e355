package stream

import "fmt"

// Element tags and attribute names of a streams document.
const (
	TagImmutableStream = "immutable_stream"
	TagStream          = "stream"

	AttrName             = "name"
	AttrType             = "type"
	AttrInputInterval    = "input_interval"
	AttrOutputInterval   = "output_interval"
	AttrFilenameInterval = "filename_interval"
	AttrFilenameTemplate = "filename_template"
	AttrReferenceTime    = "reference_time"
	AttrRecordInterval   = "record_interval"
	AttrPrecision        = "precision"
	AttrClobberMode      = "clobber_mode"
	AttrIOType           = "io_type"
)

// Sentinel interval values. They are valid literals but never "real"
// intervals when deriving a filename interval.
const (
	IntervalInitialOnly = "initial_only"
	IntervalFinalOnly   = "final_only"
	IntervalNone        = "none"
)

// Direction is the I/O direction of a stream.
type Direction int

const (
	DirectionInput       Direction = 1
	DirectionOutput      Direction = 2
	DirectionInputOutput Direction = 3
	DirectionNone        Direction = 4
)

func (d Direction) String() string {
	switch d {
	case DirectionInput:
		return "input"
	case DirectionOutput:
		return "output"
	case DirectionInputOutput:
		return "input;output"
	case DirectionNone:
		return "none"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// MarshalText renders the direction name in JSON and YAML output.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Writes reports whether the stream produces output files.
func (d Direction) Writes() bool {
	return d == DirectionOutput || d == DirectionInputOutput
}

// ClobberMode governs how pre-existing output files are handled.
type ClobberMode int

const (
	ClobberNeverModify ClobberMode = 0
	ClobberAppend      ClobberMode = 1
	ClobberTruncate    ClobberMode = 2
	ClobberOverwrite   ClobberMode = 3
)

func (c ClobberMode) String() string {
	switch c {
	case ClobberNeverModify:
		return "never_modify"
	case ClobberAppend:
		return "append"
	case ClobberTruncate:
		return "truncate"
	case ClobberOverwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("clobber(%d)", int(c))
	}
}

func (c ClobberMode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IOType selects the file format backend.
type IOType int

const (
	IOTypePNetCDF     IOType = 0
	IOTypePNetCDFCDF5 IOType = 1
	IOTypeNetCDF      IOType = 2
	IOTypeNetCDF4     IOType = 3
)

func (t IOType) String() string {
	switch t {
	case IOTypePNetCDF:
		return "pnetcdf"
	case IOTypePNetCDFCDF5:
		return "pnetcdf,cdf5"
	case IOTypeNetCDF:
		return "netcdf"
	case IOTypeNetCDF4:
		return "netcdf4"
	default:
		return fmt.Sprintf("io_type(%d)", int(t))
	}
}

func (t IOType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Precision is the floating point width in bytes; 0 means the model default.
type Precision int

const (
	PrecisionNative Precision = 0
	PrecisionSingle Precision = 4
	PrecisionDouble Precision = 8
)

func (p Precision) String() string {
	switch p {
	case PrecisionSingle:
		return "single"
	case PrecisionDouble:
		return "double"
	default:
		return "native"
	}
}

// MarshalText renders the precision name, so JSON and YAML output agree with
// the table view.
func (p Precision) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Resolved is a fully resolved stream. It is a plain value: resolving the
// same record against the same catalog always yields an equal Resolved.
type Resolved struct {
	StreamID         string      `json:"stream_id"         yaml:"stream_id"`
	Direction        Direction   `json:"direction"         yaml:"direction"`
	Immutable        bool        `json:"immutable"         yaml:"immutable"`
	ReferenceTime    string      `json:"reference_time"    yaml:"reference_time"`
	RecordInterval   string      `json:"record_interval"   yaml:"record_interval"`
	Precision        Precision   `json:"precision"         yaml:"precision"`
	IOType           IOType      `json:"io_type"           yaml:"io_type"`
	ClobberMode      ClobberMode `json:"clobber_mode"      yaml:"clobber_mode"`
	FilenameTemplate string      `json:"filename_template" yaml:"filename_template"`
	FilenameInterval string      `json:"filename_interval" yaml:"filename_interval"`
	InputInterval    string      `json:"input_interval"    yaml:"input_interval"`
	OutputInterval   string      `json:"output_interval"   yaml:"output_interval"`
}
