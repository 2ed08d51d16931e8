package catalog

import "booknav/internal/platform/googlebooks"

// Map normalizes a volume. Every string field is present, empty when the
// source had nothing.
func Map(v googlebooks.Volume) Book {
	info := v.VolumeInfo

	authors := []string{NoAuthorPlaceholder}
	if len(info.Authors) > 0 {
		authors = append([]string(nil), info.Authors...)
	}

	link := info.PreviewLink
	if link == "" {
		link = info.CanonicalVolumeLink
	}

	return Book{
		BookID:      v.ID,
		Title:       info.Title,
		Authors:     authors,
		Description: info.Description,
		Image:       v.Thumbnail(),
		Link:        link,
	}
}

func MapAll(records []googlebooks.Volume) []Book {
	out := make([]Book, 0, len(records))
	for _, r := range records {
		out = append(out, Map(r))
	}
	return out
}
