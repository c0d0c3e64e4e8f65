package feed

import "bytes"

// Format is the coarse payload classification. RSS and Atom are not
// distinguished here; the parser tells them apart after a full XML parse.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatFeedXML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "JSON"
	case FormatFeedXML:
		return "feed XML"
	default:
		return "unknown"
	}
}

var xmlPrefixes = [][]byte{
	[]byte("<?xml"),
	[]byte("<rss"),
	[]byte("<feed"),
}

// Classify inspects the leading bytes of a payload. Pure, no I/O.
func Classify(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\v\f")
	if len(trimmed) == 0 {
		return FormatUnknown
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}

	for _, prefix := range xmlPrefixes {
		if bytes.HasPrefix(trimmed, prefix) {
			return FormatFeedXML
		}
	}

	return FormatUnknown
}
