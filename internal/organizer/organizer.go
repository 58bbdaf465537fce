// Package organizer turns a resolved record into a canonical library
// placement: it assembles the destination filename, lays out the
// <destination>/<League>/<Season>/ tree, and hardlinks or moves the file
// there. Quarantined files keep their proposed name but land under the
// quarantine directory instead; rejected files are never touched.
package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Nomadcxx/sportwatch/internal/logging"
	"github.com/Nomadcxx/sportwatch/internal/resolver"
	"github.com/Nomadcxx/sportwatch/internal/slots"
)

// Action records one planned or executed placement.
type Action struct {
	Source string
	Target string
	// Outcome mirrors the resolver verdict that routed the file.
	Outcome resolver.Outcome
	// Linked is true when the file was hardlinked rather than moved.
	Linked bool
	// DryRun marks actions that were planned but not executed.
	DryRun bool
	// Size is the source file size in bytes, when known.
	Size int64
}

// Organizer places resolved files into the library tree.
type Organizer struct {
	destination string
	quarantine  string
	hardlink    bool
	dryRun      bool
	log         *logging.Logger
	titler      cases.Caser
}

// New builds an organizer rooted at destination. quarantine may be empty,
// defaulting to <destination>/.quarantine.
func New(destination, quarantine string, hardlink, dryRun bool, log *logging.Logger) *Organizer {
	if quarantine == "" {
		quarantine = filepath.Join(destination, ".quarantine")
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Organizer{
		destination: destination,
		quarantine:  quarantine,
		hardlink:    hardlink,
		dryRun:      dryRun,
		log:         log,
		// NoLower keeps acronyms intact: "all elite wrestling" becomes
		// "All Elite Wrestling" while "WWE" stays "WWE".
		titler: cases.Title(language.English, cases.NoLower),
	}
}

// Target computes the destination path for a result without touching the
// filesystem. Rejected results have no target.
func (o *Organizer) Target(res *resolver.Result) (string, error) {
	if res.Outcome == resolver.OutcomeRejected {
		return "", fmt.Errorf("rejected file has no target: %s", res.RejectReason)
	}

	name := AssembleName(res.Record)
	if res.Outcome == resolver.OutcomeQuarantined {
		return filepath.Join(o.quarantine, name), nil
	}

	league := o.titler.String(res.Record.Value(slots.FieldLeagueName))
	season := res.Record.Value(slots.FieldSeasonName)
	return filepath.Join(o.destination, league, season, name), nil
}

// Place executes (or, in dry-run mode, plans) the move for one result.
func (o *Organizer) Place(res *resolver.Result) (*Action, error) {
	target, err := o.Target(res)
	if err != nil {
		return nil, err
	}

	action := &Action{
		Source:  res.Path,
		Target:  target,
		Outcome: res.Outcome,
		DryRun:  o.dryRun,
	}
	if info, err := os.Stat(res.Path); err == nil {
		action.Size = info.Size()
	}

	if o.dryRun {
		o.log.Info("organizer", "dry run",
			logging.F("source", res.Path), logging.F("target", target))
		return action, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("create target directory: %w", err)
	}
	if _, err := os.Stat(target); err == nil {
		return nil, fmt.Errorf("target already exists: %s", target)
	}

	if o.hardlink {
		if err := os.Link(res.Path, target); err == nil {
			action.Linked = true
			o.log.Info("organizer", "hardlinked",
				logging.F("source", res.Path), logging.F("target", target))
			return action, nil
		}
		// Cross-device or unsupported filesystem: fall through to a move.
	}

	if err := moveFile(res.Path, target); err != nil {
		return nil, fmt.Errorf("move %s: %w", res.Path, err)
	}
	o.log.Info("organizer", "moved",
		logging.F("source", res.Path), logging.F("target", target))
	return action, nil
}

// moveFile renames, falling back to copy-and-remove across devices.
func moveFile(source, target string) error {
	if err := os.Rename(source, target); err == nil {
		return nil
	}

	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(target)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return err
	}
	return os.Remove(source)
}

// AssembleName builds the canonical dot-joined filename from a record:
// League.YYYY-MM-DD[.part-NN].Event.Title.Format.Codec.Resolution[.fps][-GROUP].ext
// Unknown components are simply omitted.
func AssembleName(rec *slots.Record) string {
	var parts []string

	add := func(field string) {
		if slot := rec.Get(field); !slot.IsUnknown() {
			parts = append(parts, strings.ReplaceAll(slot.Value(), " ", "."))
		}
	}

	add(slots.FieldLeagueName)

	if date := assembleDate(rec); date != "" {
		parts = append(parts, date)
	}
	if part := rec.Get(slots.FieldEpisodePart); !part.IsUnknown() {
		if n, err := strconv.Atoi(part.Value()); err == nil {
			parts = append(parts, fmt.Sprintf("part-%02d", n))
		}
	}

	add(slots.FieldEventName)
	add(slots.FieldEpisodeTitle)
	add(slots.FieldReleaseFormat)
	add(slots.FieldCodec)
	add(slots.FieldResolution)
	add(slots.FieldFPS)

	name := strings.Join(parts, ".")
	if group := rec.Get(slots.FieldReleaseGroup); !group.IsUnknown() {
		name += "-" + group.Value()
	}
	if ext := rec.Get(slots.FieldExtension); !ext.IsUnknown() {
		name += "." + ext.Value()
	}
	return name
}

// assembleDate renders whatever precision the date slots carry: full
// YYYY-MM-DD, partial YYYY-MM, bare YYYY, or nothing.
func assembleDate(rec *slots.Record) string {
	year := rec.Get(slots.FieldAirYear)
	if year.IsUnknown() {
		return ""
	}
	out := year.Value()
	month := rec.Get(slots.FieldAirMonth)
	if month.IsUnknown() {
		return out
	}
	out += "-" + month.Value()
	day := rec.Get(slots.FieldAirDay)
	if day.IsUnknown() {
		return out
	}
	return out + "-" + day.Value()
}
