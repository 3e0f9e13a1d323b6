// Package lookup resolves a player name to full team data: it searches,
// narrows the hits with an optional filter, then fetches every remaining
// character concurrently.
package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/sc2ranks/filter"
	"github.com/s0up4200/sc2ranks/sc2ranks"
)

// DefaultConcurrency bounds in-flight character lookups
const DefaultConcurrency = 4

// Options contains options for a lookup
type Options struct {
	Name       string
	Region     sc2ranks.Region
	SearchType sc2ranks.SearchType
	Offset     *int
	Details    sc2ranks.CharacterDetails
	Filter     *filter.Filter
}

// Result is the outcome of one character lookup
type Result struct {
	Character sc2ranks.CharacterSummary
	Response  *sc2ranks.Response
	Err       error
}

// NotFound reports whether the API had no data for the character
func (r Result) NotFound() bool {
	return errors.Is(r.Err, sc2ranks.ErrCharacterNotFound)
}

// Report is the outcome of a lookup
type Report struct {
	Name    string
	Region  sc2ranks.Region
	Total   int
	Matched int
	Results []Result
}

// Failed returns the results that ended in an error
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Operations runs lookups against an sc2ranks API
type Operations struct {
	api         sc2ranks.API
	logger      zerolog.Logger
	concurrency int
}

// NewOperations creates a new Operations instance
func NewOperations(api sc2ranks.API, logger zerolog.Logger) *Operations {
	return &Operations{
		api:         api,
		logger:      logger,
		concurrency: DefaultConcurrency,
	}
}

// SetConcurrency sets how many character lookups may run at once
func (o *Operations) SetConcurrency(n int) {
	if n > 0 {
		o.concurrency = n
	}
}

// Search runs the search step alone and decodes its result
func (o *Operations) Search(ctx context.Context, opts Options) (*sc2ranks.SearchResult, error) {
	resp, err := o.api.Search(ctx, opts.Name, opts.Region, opts.SearchType, opts.Offset)
	if err != nil {
		return nil, err
	}

	var result sc2ranks.SearchResult
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse search result: %w", err)
	}
	return &result, nil
}

// Lookup searches for opts.Name and fetches every matching character.
// Per-character failures are recorded on the report and do not stop the
// others. A search that finds nothing returns sc2ranks.ErrCharacterNotFound.
func (o *Operations) Lookup(ctx context.Context, opts Options) (*Report, error) {
	if opts.Details == "" {
		opts.Details = sc2ranks.DetailsTeams
	}

	found, err := o.Search(ctx, opts)
	if err != nil {
		return nil, err
	}

	characters := found.Characters
	if opts.Filter != nil {
		characters = opts.Filter.Apply(opts.Region, characters, o.logger)
	}

	o.logger.Debug().
		Str("name", opts.Name).
		Str("region", opts.Region.String()).
		Int("found", len(found.Characters)).
		Int("matched", len(characters)).
		Msg("Search complete, fetching characters")

	report := &Report{
		Name:    opts.Name,
		Region:  opts.Region,
		Total:   found.Total,
		Matched: len(characters),
		Results: o.fetchAll(ctx, opts, characters),
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// fetchAll looks up characters concurrently, keeping input order
func (o *Operations) fetchAll(ctx context.Context, opts Options, characters []sc2ranks.CharacterSummary) []Result {
	results := make([]Result, len(characters))
	if len(characters) == 0 {
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, character := range characters {
		results[i].Character = character

		g.Go(func() error {
			ref, err := character.Ref()
			if err != nil {
				results[i].Err = err
				return nil
			}

			resp, err := o.api.GetCharacter(ctx, character.Name, opts.Region, ref, opts.Details)
			if err != nil {
				event := o.logger.Warn()
				if errors.Is(err, sc2ranks.ErrCharacterNotFound) {
					event = o.logger.Debug()
				}
				event.Err(err).
					Str("character", character.Name).
					Str("ref", ref.String()).
					Msg("Failed to fetch character")
				results[i].Err = err
				return nil
			}

			results[i].Response = resp
			return nil
		})
	}

	// Goroutines never return errors, failures live on the results
	_ = g.Wait()

	return results
}
