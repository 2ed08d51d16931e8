package catalog

import (
	"context"

	"booknav/internal/platform/googlebooks"

	"github.com/rs/zerolog"
)

// Source is the upstream volumes search.
type Source interface {
	Search(ctx context.Context, query string, maxResults, startIndex int) (*googlebooks.SearchResponse, error)
}

type Service struct {
	src    Source
	policy FilterPolicy
	log    zerolog.Logger
}

func NewService(src Source, policy FilterPolicy, log zerolog.Logger) *Service {
	return &Service{src: src, policy: policy, log: log.With().Str("component", "catalog").Logger()}
}

// Search fetches one upstream batch for page, filters and maps it and trims
// it to PageSize. Pages beyond 1 are only valid up to MaxPages; the upstream
// total is rechecked on every call because it can change between queries.
func (s *Service) Search(ctx context.Context, query string, page int) (Page, error) {
	if page < 1 || page > MaxPages {
		return Page{}, CheckPage(page, 0)
	}

	res, err := s.src.Search(ctx, query, FetchSize, StartIndex(page))
	if err != nil {
		s.log.Warn().Err(err).Str("query", query).Int("page", page).Msg("catalog search failed")
		return Page{}, err
	}
	if err := CheckPage(page, res.TotalItems); err != nil {
		s.log.Debug().
			Str("query", query).
			Int("page", page).
			Int("total", res.TotalItems).
			Msg("upstream total no longer reaches page")
		return Page{}, err
	}

	kept := s.policy.Filter(res.Items)
	books := MapAll(kept)
	if len(books) > PageSize {
		books = books[:PageSize]
	}

	s.log.Debug().
		Str("query", query).
		Int("page", page).
		Int("fetched", len(res.Items)).
		Int("kept", len(kept)).
		Msg("catalog search")

	return Page{
		Query:      query,
		Page:       page,
		PageCount:  PageCount(res.TotalItems),
		TotalItems: res.TotalItems,
		Books:      books,
	}, nil
}
