package resolver

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/Nomadcxx/sportwatch/internal/dictionary"
	"github.com/Nomadcxx/sportwatch/internal/logging"
	"github.com/Nomadcxx/sportwatch/internal/probe"
	"github.com/Nomadcxx/sportwatch/internal/slots"
)

// Technical stage confidences. Textual tokens outrank probe results: the
// probe reflects container truth but not naming-convention intent.
const (
	confTechTextual = 90
	confTechProbe   = 60
)

// Built-in technical token tables. Declaration order is the tie-break, so
// longer-token entries sit where overlap matters.
var codecTable = dictionary.Table{
	{Canonical: "x265", Aliases: []string{"h265", "h.265", "HEVC"}},
	{Canonical: "x264", Aliases: []string{"h264", "h.264", "AVC"}},
	{Canonical: "XviD"},
	{Canonical: "DivX"},
	{Canonical: "AV1"},
	{Canonical: "VC-1", Aliases: []string{"VC1"}},
	{Canonical: "MPEG2", Aliases: []string{"MPEG-2"}},
}

var resolutionTable = dictionary.Table{
	{Canonical: "4K", Aliases: []string{"2160p", "UHD"}},
	{Canonical: "1080p", Aliases: []string{"FHD"}},
	{Canonical: "1080i"},
	{Canonical: "720p", Aliases: []string{"HD720"}},
	{Canonical: "576p"},
	{Canonical: "480p"},
}

var frameRateTable = dictionary.Table{
	{Canonical: "60fps", Aliases: []string{"59.94fps"}},
	{Canonical: "50fps"},
	{Canonical: "30fps", Aliases: []string{"29.97fps"}},
	{Canonical: "25fps"},
}

var formatTable = dictionary.Table{
	{Canonical: "WEB-DL", Aliases: []string{"WEBDL", "WEB.DL"}},
	{Canonical: "WEBRip", Aliases: []string{"WEB-Rip"}},
	{Canonical: "BluRay", Aliases: []string{"Blu-Ray", "BDRip", "BRRip"}},
	{Canonical: "HDTV"},
	{Canonical: "PDTV"},
	{Canonical: "SDTV"},
	{Canonical: "DVDRip", Aliases: []string{"DVD-Rip"}},
	{Canonical: "DSR"},
}

// Probe codec names mapped onto the naming-convention canonical forms.
var probeCodecNames = map[string]string{
	"h264":       "x264",
	"hevc":       "x265",
	"mpeg2video": "MPEG2",
	"av1":        "AV1",
	"vc1":        "VC-1",
}

// resolveTechnical matches the codec, resolution, fps and release-format
// token tables against the working name, then falls back to probing the
// file for whichever of codec/resolution/fps stayed unresolved. A probe
// failure or timeout degrades to Unknown, never to an error.
func (p *Pipeline) resolveTechnical(ctx context.Context, rec *slots.Record, st *fileState, path string) {
	matchInto := func(field string, table dictionary.Table) {
		if canonical, span, ok := table.MatchWord(st.working); ok {
			rec.Set(field, canonical, confTechTextual)
			st.working = dictionary.Excise(st.working, span)
		}
	}

	matchInto(slots.FieldCodec, p.rules.Codecs)
	matchInto(slots.FieldResolution, p.rules.Resolutions)
	matchInto(slots.FieldFPS, p.rules.FrameRates)
	matchInto(slots.FieldReleaseFormat, p.rules.Formats)

	needCodec := rec.Get(slots.FieldCodec).IsUnknown()
	needRes := rec.Get(slots.FieldResolution).IsUnknown()
	needFPS := rec.Get(slots.FieldFPS).IsUnknown()
	if !p.opts.ProbeEnabled || p.prober == nil || (!needCodec && !needRes && !needFPS) {
		return
	}

	result, err := p.prober.Probe(ctx, path)
	if err != nil {
		p.log.Debug("probe", "probe failed, fields stay unresolved",
			logging.F("path", path), logging.F("err", err))
		return
	}

	if needCodec && result.Codec != "" {
		rec.Set(slots.FieldCodec, canonicalProbeCodec(result.Codec), confTechProbe)
	}
	if needRes {
		if res := probe.ResolutionFromHeight(result.Height); res != "" {
			rec.Set(slots.FieldResolution, res, confTechProbe)
		}
	}
	if needFPS && result.FPS > 0 {
		fps := int(math.Round(result.FPS))
		rec.Set(slots.FieldFPS, strconv.Itoa(fps)+"fps", confTechProbe)
	}
}

func canonicalProbeCodec(name string) string {
	if canonical, ok := probeCodecNames[strings.ToLower(name)]; ok {
		return canonical
	}
	return strings.ToUpper(name)
}
