package macho

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Diagnostic records a part of a container that could not be parsed.
type Diagnostic struct {
	// Image is the universal index position the problem belongs to, or -1
	// for the top-level image or the universal index itself.
	Image int
	Err   error
}

func (d Diagnostic) Error() string {
	if d.Image < 0 {
		return d.Err.Error()
	}
	return fmt.Sprintf("slice %d: %v", d.Image, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Image is one parsed single-architecture image.
type Image struct {
	// Slice is the image's universal index entry; nil for a plain image.
	Slice       *Slice
	Header      *Header
	Records     int
	Identifiers []uuid.UUID
}

// Report is the outcome of inspecting one buffer.
type Report struct {
	Magic
	Images      []Image
	Diagnostics []Diagnostic
}

// Inspect parses data and reports every image, its identifiers and any
// parse problems. It never fails; anomalies end up in Diagnostics.
func Inspect(data []byte) *Report {
	r := &Report{Magic: Identify(data)}
	switch r.Kind {
	case KindSingle:
		r.inspectImage(data, nil)
	case KindUniversal:
		slices, diags := ReadSlices(data, r.Width)
		r.Diagnostics = append(r.Diagnostics, diags...)
		for i := range slices {
			s := slices[i]
			r.inspectImage(s.Bytes(data), &s)
		}
	}
	return r
}

func (r *Report) inspectImage(data []byte, s *Slice) {
	index := -1
	if s != nil {
		index = s.Index
	}
	report := func(err error) {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Image: index, Err: err})
	}

	hdr, err := ReadHeader(data)
	if err != nil {
		report(err)
		return
	}
	switch hdr.Kind {
	case KindUniversal:
		report(fmt.Errorf("%w: nested universal container", ErrMalformedIndex))
		return
	case KindUnrecognized:
		report(fmt.Errorf("%w: slice does not start with a mach-o magic", ErrMalformedIndex))
		return
	}

	img := Image{Slice: s, Header: hdr}
	it := NewRecordIterator(data, hdr.RecordsOffset(), hdr.NumRecords, hdr.Endianness)
	for it.Next() {
		img.Records++
		if id, ok := ExtractIdentifier(it.Record()); ok {
			img.Identifiers = append(img.Identifiers, id)
		}
	}
	if err := it.Err(); err != nil {
		report(err)
	}
	r.Images = append(r.Images, img)
}

// Identifiers returns every identifier found, without duplicates, in the
// order they appear in the file.
func (r *Report) Identifiers() []uuid.UUID {
	var ids []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, img := range r.Images {
		for _, id := range img.Identifiers {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Contains reports whether target is among the identifiers found.
func (r *Report) Contains(target uuid.UUID) bool {
	for _, img := range r.Images {
		for _, id := range img.Identifiers {
			if id == target {
				return true
			}
		}
	}
	return false
}

// Err joins all diagnostics into one error, or returns nil if there are none.
func (r *Report) Err() error {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Scan returns the set of build identifiers contained in data.
func Scan(data []byte) []uuid.UUID {
	return Inspect(data).Identifiers()
}

// Matches reports whether data contains the target build identifier.
func Matches(data []byte, target uuid.UUID) bool {
	return Inspect(data).Contains(target)
}
