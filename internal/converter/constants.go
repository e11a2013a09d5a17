package converter

// codecFourCC maps the codec labels used by the tracking database and the
// sheet to the container FourCC the conversion tool expects.
var codecFourCC = map[string]string{
	"Apple ProRes 4444":      "ap4h",
	"Apple ProRes 422 HQ":    "apch",
	"Apple ProRes 422":       "apcn",
	"Apple ProRes 422 LT":    "apcs",
	"Apple ProRes 422 Proxy": "apco",
	"Avid DNxHD 444":         "AVdn",
	"Avid DNxHD 422":         "AVdn",
	"Avid DnxHR 422":         "AVdh",
}

// displayColorspace maps a working colorspace to the display colorspace used
// for review media.
var displayColorspace = map[string]string{
	"ACES - ACEScg":         "Linear Rec.709 (sRGB)",
	"ACES - ACES2065-1":     "Linear Rec.709 (sRGB)",
	"Linear Rec.709 (sRGB)": "Linear Rec.709 (sRGB)",
}

// CodecFourCC resolves a codec label. The second return is false for labels
// the conversion tool does not support.
func CodecFourCC(label string) (string, bool) {
	fourcc, ok := codecFourCC[label]
	return fourcc, ok
}

// DisplayColorspace resolves the review colorspace for a working colorspace.
func DisplayColorspace(working string) (string, bool) {
	display, ok := displayColorspace[working]
	return display, ok
}

// KnownColorspaces returns the supported working colorspaces.
func KnownColorspaces() []string {
	out := make([]string, 0, len(displayColorspace))
	for key := range displayColorspace {
		out = append(out, key)
	}
	return out
}
