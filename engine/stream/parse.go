package stream

import "strings"

// The parsers below are total. They match keywords by case-sensitive
// substring containment in priority order and fall back to a default for
// anything they do not recognize.

// ParseDirection maps a stream "type" attribute to a Direction.
func ParseDirection(text string) Direction {
	in := strings.Contains(text, "input")
	out := strings.Contains(text, "output")
	switch {
	case in && out:
		return DirectionInputOutput
	case in:
		return DirectionInput
	case out:
		return DirectionOutput
	default:
		return DirectionNone
	}
}

// ParseClobberMode maps a "clobber_mode" attribute to a ClobberMode.
func ParseClobberMode(text string) ClobberMode {
	switch {
	case strings.Contains(text, "never_modify"):
		return ClobberNeverModify
	case strings.Contains(text, "append"):
		return ClobberAppend
	case strings.Contains(text, "truncate"), strings.Contains(text, "replace_files"):
		return ClobberTruncate
	case strings.Contains(text, "overwrite"):
		return ClobberOverwrite
	default:
		return ClobberNeverModify
	}
}

// ParseIOType maps an "io_type" attribute to an IOType. The checks overlap
// ("pnetcdf,cdf5" contains "pnetcdf", which contains "netcdf"), so their order
// is significant.
func ParseIOType(text string) IOType {
	switch {
	case strings.Contains(text, "pnetcdf,cdf5"):
		return IOTypePNetCDFCDF5
	case strings.Contains(text, "pnetcdf"):
		return IOTypePNetCDF
	case strings.Contains(text, "netcdf4"):
		return IOTypeNetCDF4
	case strings.Contains(text, "netcdf"):
		return IOTypeNetCDF
	default:
		return IOTypePNetCDF
	}
}

// ParsePrecision maps a "precision" attribute to a byte width.
func ParsePrecision(text string) Precision {
	switch {
	case strings.Contains(text, "single"):
		return PrecisionSingle
	case strings.Contains(text, "double"):
		return PrecisionDouble
	default:
		return PrecisionNative
	}
}

// ParseReferenceTime defaults an empty reference time to "initial_time".
func ParseReferenceTime(text string) string {
	if text == "" {
		return "initial_time"
	}
	return text
}

// ParseRecordInterval defaults an empty record interval to "none".
func ParseRecordInterval(text string) string {
	if text == "" {
		return IntervalNone
	}
	return text
}
