package transits

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/repository"
	"AstroChart/internal/service/numeric"
)

const (
	// DefaultStep is the coarse sampling interval. Events spaced closer
	// than the fastest body's traversal of the orb window within one
	// step can be missed; callers tune Step per request.
	DefaultStep = 24 * time.Hour

	// DefaultTolerance is the convergence tolerance in degrees,
	// about 0.36 arc seconds.
	DefaultTolerance = 0.0001

	DefaultMaxIterations = 100

	// DefaultDedupWindow collapses events from adjacent brackets that
	// converge to the same crossing.
	DefaultDedupWindow = 10 * time.Minute

	// nearMissLimit is how close a local extremum of the residual must
	// come to zero to be worth refining without a sign change.
	nearMissLimit = 1.0
)

// SearchParams describes one exact-aspect search: a transiting body
// against a fixed natal longitude, over a closed time range.
type SearchParams struct {
	Transiting     models.Body
	Natal          models.Body
	NatalLongitude float64
	Aspect         string
	Angle          float64
	Start          time.Time
	End            time.Time
	Step           time.Duration
	Tolerance      float64
	MaxIterations  int
	DedupWindow    time.Duration
}

// Defaults supplies server-side fallbacks for search parameters a
// request leaves unset. Zero fields fall back to the package defaults.
type Defaults struct {
	Step          time.Duration
	Tolerance     float64
	MaxIterations int
	DedupWindow   time.Duration
}

// withDefaults resolves each parameter: request value, then searcher
// defaults, then the package constants.
func (s *Searcher) withDefaults(p *SearchParams) SearchParams {
	q := *p
	if q.Step <= 0 {
		q.Step = s.defaults.Step
	}
	if q.Step <= 0 {
		q.Step = DefaultStep
	}
	if q.Tolerance <= 0 {
		q.Tolerance = s.defaults.Tolerance
	}
	if q.Tolerance <= 0 {
		q.Tolerance = DefaultTolerance
	}
	if q.MaxIterations <= 0 {
		q.MaxIterations = s.defaults.MaxIterations
	}
	if q.MaxIterations <= 0 {
		q.MaxIterations = DefaultMaxIterations
	}
	if q.DedupWindow <= 0 {
		q.DedupWindow = s.defaults.DedupWindow
	}
	if q.DedupWindow <= 0 {
		q.DedupWindow = DefaultDedupWindow
	}
	return q
}

// SearchResult holds the events of one or more searches. Truncated is
// set when cancellation cut the scan short; FailedBrackets counts
// brackets whose refinement did not converge within the iteration
// budget. Both are non-fatal.
type SearchResult struct {
	Events         []models.TransitEvent
	Truncated      bool
	FailedBrackets int
}

// bracket is a candidate interval around a zero crossing or a near-miss
// extremum of the residual.
type bracket struct {
	lo, hi   time.Time
	crossing bool
}

// Searcher locates exact transit instants by coarse sampling followed
// by bracketed numerical refinement.
type Searcher struct {
	provider repository.PositionProvider
	workers  int
	defaults Defaults
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithDefaults sets server-side fallbacks for per-request parameters.
func WithDefaults(d Defaults) Option {
	return func(s *Searcher) {
		s.defaults = d
	}
}

// NewSearcher creates a transit searcher. workers bounds concurrent
// bracket refinement.
func NewSearcher(provider repository.PositionProvider, workers int, opts ...Option) *Searcher {
	if workers <= 0 {
		workers = 4
	}
	s := &Searcher{
		provider: provider,
		workers:  workers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchAll runs every search and merges the events chronologically.
// A provider failure during coarse sampling aborts with a
// ChartCalculationError; context cancellation returns partial results
// with Truncated set.
func (s *Searcher) SearchAll(ctx context.Context, params []SearchParams) (SearchResult, error) {
	var merged SearchResult

	for i := range params {
		res, err := s.Search(ctx, params[i])
		merged.Events = append(merged.Events, res.Events...)
		merged.FailedBrackets += res.FailedBrackets
		if res.Truncated {
			merged.Truncated = true
		}
		if err != nil {
			return merged, err
		}
		if merged.Truncated {
			break
		}
	}

	sortEvents(merged.Events)
	return merged, nil
}

// Search runs one exact-aspect search.
//
// The separation d(t) reaches the target angle a exactly when the
// signed difference wrap180(lon(t) - natal) crosses +a or -a. Each
// crossing line gives a signed residual that passes through zero
// transversally, so plain sign-change bracketing works for every
// aspect, conjunctions and oppositions included. Both residuals are
// scanned; for a = 0 and a = 180 they coincide and only one is used.
func (s *Searcher) Search(ctx context.Context, params SearchParams) (SearchResult, error) {
	p := s.withDefaults(&params)

	if !p.End.After(p.Start) {
		return SearchResult{}, &models.InvalidConfigurationError{
			Field:  "range",
			Reason: "range end must be after range start",
		}
	}

	shifts := []float64{p.Angle}
	if p.Angle != 0 && p.Angle != 180 {
		shifts = append(shifts, -p.Angle)
	}

	var result SearchResult
	for _, shift := range shifts {
		f := s.residualFunc(&p, shift)

		brackets, truncated, err := s.scan(ctx, &p, f)
		result.Truncated = result.Truncated || truncated
		if err != nil {
			return result, err
		}

		events, failed, refineTruncated := s.refine(ctx, &p, f, brackets)
		result.Events = append(result.Events, events...)
		result.FailedBrackets += failed
		result.Truncated = result.Truncated || refineTruncated
	}

	result.Events = dedup(result.Events, p.DedupWindow)
	sortEvents(result.Events)
	return result, nil
}

// residualFunc returns the signed residual for one crossing line:
// wrap180(lon(t) - natal - shift), in degrees.
func (s *Searcher) residualFunc(p *SearchParams, shift float64) func(context.Context, time.Time) (float64, error) {
	return func(ctx context.Context, t time.Time) (float64, error) {
		pos, err := s.provider.Position(ctx, p.Transiting, t)
		if err != nil {
			return 0, &models.ChartCalculationError{
				Op:      "transit search sample",
				Body:    p.Transiting,
				Instant: t,
				Err:     err,
			}
		}
		return models.Wrap180(pos.Longitude - p.NatalLongitude - shift), nil
	}
}

// scan samples the residual at the coarse step and collects candidate
// brackets: consecutive samples with a genuine sign change (a jump
// bigger than 180 degrees is the wrap discontinuity, not a crossing),
// and local minima of the absolute residual that dip under the
// near-miss limit without crossing (a retrograde station can turn the
// residual around just short of zero).
func (s *Searcher) scan(ctx context.Context, p *SearchParams, f func(context.Context, time.Time) (float64, error)) ([]bracket, bool, error) {
	type sample struct {
		t time.Time
		v float64
	}

	var (
		brackets []bracket
		prev     [2]sample
		n        int
	)

	for t := p.Start; ; t = t.Add(p.Step) {
		if t.After(p.End) {
			t = p.End
		}

		if err := ctx.Err(); err != nil {
			return brackets, true, nil
		}

		v, err := f(ctx, t)
		if err != nil {
			if ctx.Err() != nil {
				return brackets, true, nil
			}
			return nil, false, err
		}
		cur := sample{t: t, v: v}

		if n >= 1 {
			last := prev[(n+1)%2]
			genuine := math.Abs(cur.v-last.v) < 180
			switch {
			case last.v == 0:
				brackets = append(brackets, bracket{lo: last.t, hi: cur.t, crossing: true})
			case last.v*cur.v < 0 && genuine:
				brackets = append(brackets, bracket{lo: last.t, hi: cur.t, crossing: true})
			case n >= 2:
				first := prev[n%2]
				mid := last
				if math.Abs(mid.v) <= nearMissLimit &&
					math.Abs(mid.v) <= math.Abs(first.v) &&
					math.Abs(mid.v) < math.Abs(cur.v) {
					brackets = append(brackets, bracket{lo: first.t, hi: cur.t})
				}
			}
		}

		prev[n%2] = cur
		n++

		if t.Equal(p.End) {
			break
		}
	}

	return brackets, false, nil
}

// refine solves each bracket concurrently on a bounded worker pool.
// Non-convergent crossing brackets are counted, not fatal; near-miss
// brackets that never reach zero are simply dropped. Provider errors
// during refinement also count the bracket as failed, keeping one flaky
// instant from sinking a whole range scan.
func (s *Searcher) refine(ctx context.Context, p *SearchParams, f func(context.Context, time.Time) (float64, error), brackets []bracket) ([]models.TransitEvent, int, bool) {
	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		events    []models.TransitEvent
		failed    int
		truncated bool
	)

	sem := make(chan struct{}, s.workers)

	for _, b := range brackets {
		if ctx.Err() != nil {
			truncated = true
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(b bracket) {
			defer wg.Done()
			defer func() { <-sem }()

			event, ok := s.solveBracket(ctx, p, f, b)

			mu.Lock()
			defer mu.Unlock()
			if ok {
				events = append(events, event)
			} else if b.crossing {
				failed++
			}
		}(b)
	}

	wg.Wait()
	return events, failed, truncated
}

func (s *Searcher) solveBracket(ctx context.Context, p *SearchParams, f func(context.Context, time.Time) (float64, error), b bracket) (models.TransitEvent, bool) {
	var evalErr error
	lo := float64(b.lo.UnixNano())
	hi := float64(b.hi.UnixNano())

	g := func(x float64) float64 {
		if evalErr != nil {
			return 0
		}
		v, err := f(ctx, time.Unix(0, int64(x)).UTC())
		if err != nil {
			evalErr = err
			return 0
		}
		return v
	}

	var (
		root     float64
		residual float64
	)
	if b.crossing {
		x, err := numeric.Solve(g, lo, hi, p.Tolerance, p.MaxIterations)
		if err != nil || evalErr != nil {
			return models.TransitEvent{}, false
		}
		root = x
		residual = math.Abs(g(x))
	} else {
		x, r := numeric.MinimizeAbs(g, lo, hi, float64(time.Second), p.MaxIterations)
		if evalErr != nil || r > p.Tolerance {
			return models.TransitEvent{}, false
		}
		root = x
		residual = r
	}

	if evalErr != nil {
		return models.TransitEvent{}, false
	}

	return models.TransitEvent{
		Transiting: p.Transiting,
		Natal:      p.Natal,
		Aspect:     p.Aspect,
		Angle:      p.Angle,
		Timestamp:  time.Unix(0, int64(root)).UTC(),
		Residual:   residual,
	}, true
}

// dedup collapses events of the same body pair and aspect whose
// timestamps fall within the window, keeping the smallest residual.
func dedup(events []models.TransitEvent, window time.Duration) []models.TransitEvent {
	if len(events) < 2 || window <= 0 {
		return events
	}

	sortEvents(events)

	out := events[:1]
	for _, e := range events[1:] {
		last := &out[len(out)-1]
		if e.Timestamp.Sub(last.Timestamp) < window &&
			e.Transiting == last.Transiting &&
			e.Natal == last.Natal &&
			e.Aspect == last.Aspect {
			if e.Residual < last.Residual {
				*last = e
			}
			continue
		}
		out = append(out, e)
	}
	return out
}

func sortEvents(events []models.TransitEvent) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
