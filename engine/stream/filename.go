package stream

// FilenameIntervalInput carries everything needed to pick a filename interval.
// RawInput and RawOutput hold the attribute texts before reference resolution.
// DeriveFilenameInterval never reads them: they complete the derivation
// inputs of a record, and the result depends only on the resolved values.
type FilenameIntervalInput struct {
	Direction      string
	RawInput       string
	RawOutput      string
	ResolvedInput  string
	ResolvedOutput string
	Explicit       string
}

// IsRealInterval reports whether an interval names an actual period, i.e. it
// is non-empty and not one of the sentinels.
func IsRealInterval(interval string) bool {
	switch interval {
	case "", IntervalInitialOnly, IntervalFinalOnly, IntervalNone:
		return false
	default:
		return true
	}
}

// DeriveFilenameInterval picks the interval used to split a stream into files.
// The result is never empty; "none" means no interval applies.
func DeriveFilenameInterval(in FilenameIntervalInput) string {
	var result string
	switch in.Explicit {
	case "":
		result = implicitFilenameInterval(ParseDirection(in.Direction), in.ResolvedInput, in.ResolvedOutput)
	case AttrInputInterval:
		result = realOrEmpty(in.ResolvedInput)
	case AttrOutputInterval:
		result = realOrEmpty(in.ResolvedOutput)
	default:
		result = in.Explicit
	}
	if result == "" {
		return IntervalNone
	}
	return result
}

func implicitFilenameInterval(dir Direction, resolvedIn, resolvedOut string) string {
	switch dir {
	case DirectionInputOutput:
		if IsRealInterval(resolvedIn) {
			return resolvedIn
		}
		return realOrEmpty(resolvedOut)
	case DirectionInput:
		return realOrEmpty(resolvedIn)
	case DirectionOutput:
		return realOrEmpty(resolvedOut)
	default:
		return ""
	}
}

func realOrEmpty(interval string) string {
	if IsRealInterval(interval) {
		return interval
	}
	return ""
}
