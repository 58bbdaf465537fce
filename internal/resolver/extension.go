package resolver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/sportwatch/internal/slots"
)

// resolveExtension extracts and validates the extension. Confidence is
// binary: 100 when present and allowed, otherwise the field stays Unknown
// at 0 and the file is rejected. The rest of the chain still runs so the
// report can show what the file would have been.
func (p *Pipeline) resolveExtension(rec *slots.Record, path string) (stem, reject string) {
	base := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	stem = strings.TrimSuffix(base, filepath.Ext(base))

	if ext == "" {
		return base, "missing extension"
	}

	lower := strings.ToLower(ext)
	for _, blocked := range p.opts.BlockedExtensions {
		if lower == strings.ToLower(blocked) {
			return stem, fmt.Sprintf("blocked extension %q", lower)
		}
	}
	if len(p.opts.AllowedExtensions) > 0 {
		allowed := false
		for _, a := range p.opts.AllowedExtensions {
			if lower == strings.ToLower(a) {
				allowed = true
				break
			}
		}
		if !allowed {
			return stem, fmt.Sprintf("extension %q not in allow list", lower)
		}
	}

	rec.Set(slots.FieldExtension, lower, 100)
	return stem, ""
}
