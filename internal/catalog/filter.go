package catalog

import (
	"strings"
	"unicode/utf8"

	"booknav/internal/platform/googlebooks"
)

type FilterPolicy struct {
	// MinDescriptionLength is the exclusive lower bound on description
	// length for the strict tier.
	MinDescriptionLength int
	// StrictFloor is the number of strict matches below which the loose
	// tier is used instead.
	StrictFloor int
}

func DefaultFilterPolicy() FilterPolicy {
	return FilterPolicy{MinDescriptionLength: 50, StrictFloor: 30}
}

// Strict reports whether v has a thumbnail, a long enough description, a
// title and at least one author.
func (p FilterPolicy) Strict(v googlebooks.Volume) bool {
	info := v.VolumeInfo
	return v.Thumbnail() != "" &&
		utf8.RuneCountInString(info.Description) > p.MinDescriptionLength &&
		hasTitle(v) &&
		len(info.Authors) > 0
}

// Loose reports whether v has a title and either a thumbnail or a description.
func (p FilterPolicy) Loose(v googlebooks.Volume) bool {
	return hasTitle(v) && (v.Thumbnail() != "" || strings.TrimSpace(v.VolumeInfo.Description) != "")
}

// Filter keeps the strict matches, or the loose matches of the whole input
// when fewer than StrictFloor records pass the strict tier. Input order is
// preserved.
func (p FilterPolicy) Filter(records []googlebooks.Volume) []googlebooks.Volume {
	strict := keep(records, p.Strict)
	if len(strict) >= p.StrictFloor {
		return strict
	}
	return keep(records, p.Loose)
}

func keep(records []googlebooks.Volume, pred func(googlebooks.Volume) bool) []googlebooks.Volume {
	out := make([]googlebooks.Volume, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func hasTitle(v googlebooks.Volume) bool {
	return strings.TrimSpace(v.VolumeInfo.Title) != ""
}
