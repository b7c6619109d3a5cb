package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/stardustdb/stardust-mcp/client"
	"github.com/stardustdb/stardust-mcp/internal/models"
	"github.com/stardustdb/stardust-mcp/internal/service"
)

const (
	// maxPropText caps free-text property values.
	maxPropText = 200

	// nodeConcurrency and edgeConcurrency bound the write fan-out
	// against the store.
	nodeConcurrency = 50
	edgeConcurrency = 100
)

// graphWriter is the slice of the Stardust client the loader needs.
type graphWriter interface {
	CreateNode(ctx context.Context, labels []string) (int64, error)
	UpsertProps(ctx context.Context, id int64, req client.UpsertPropsRequest) error
	CreateEdge(ctx context.Context, src, dst int64, edgeType string) (int64, error)
	UpdateEdgeProps(ctx context.Context, edgeID int64, set map[string]models.Value, unset []string) error
}

// clientWriter adapts *client.Client to graphWriter.
type clientWriter struct {
	c *client.Client
}

func (w clientWriter) CreateNode(ctx context.Context, labels []string) (int64, error) {
	return w.c.Nodes.Create(ctx, labels)
}

func (w clientWriter) UpsertProps(ctx context.Context, id int64, req client.UpsertPropsRequest) error {
	return w.c.Nodes.UpsertProps(ctx, id, req)
}

func (w clientWriter) CreateEdge(ctx context.Context, src, dst int64, edgeType string) (int64, error) {
	return w.c.Edges.Create(ctx, src, dst, edgeType)
}

func (w clientWriter) UpdateEdgeProps(ctx context.Context, edgeID int64, set map[string]models.Value, unset []string) error {
	return w.c.Edges.UpdateProps(ctx, edgeID, set, unset)
}

// selectMovies keeps the max most popular films, ordered by vote count,
// then rating, then recency.
func selectMovies(all []movie, max int) []movie {
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Year > b.Year
	})
	if len(all) > max {
		all = all[:max]
	}
	return all
}

// selectPeople caps the cast to the max people with the most popular
// filmographies. Directing counts double so small-cast films keep their
// director. Returns the surviving credits alongside the kept ids.
func selectPeople(credits []credit, votes map[string]int, max int) ([]credit, map[string]bool) {
	weight := make(map[string]int)
	for _, c := range credits {
		w := votes[c.TConst]
		if c.Category == "director" {
			w *= 2
		}
		weight[c.NConst] += w
	}

	ids := make([]string, 0, len(weight))
	for id := range weight {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if weight[ids[i]] != weight[ids[j]] {
			return weight[ids[i]] > weight[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > max {
		ids = ids[:max]
	}

	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	kept := credits[:0:0]
	for _, c := range credits {
		if keep[c.NConst] {
			kept = append(kept, c)
		}
	}
	return kept, keep
}

// safeText truncates free text to maxPropText runes, marking the cut
// with an ellipsis.
func safeText(s string) string {
	if utf8.RuneCountInString(s) <= maxPropText {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxPropText-1]) + "…"
}

// loader writes the selected slice of IMDb into a Stardust store.
type loader struct {
	store graphWriter
	log   *logrus.Logger

	movieIDs  map[string]int64 // tconst -> node id
	personIDs map[string]int64 // nconst -> node id
}

func newLoader(store graphWriter, log *logrus.Logger) *loader {
	return &loader{
		store:     store,
		log:       log,
		movieIDs:  make(map[string]int64),
		personIDs: make(map[string]int64),
	}
}

// loadMovies creates one Movie node per film. Title and year are hot;
// the rest goes to the property log.
func (l *loader) loadMovies(ctx context.Context, movies []movie) error {
	ids, err := service.RunAllFailFast(ctx, nodeConcurrency, len(movies), func(ctx context.Context, i int) (int64, error) {
		m := movies[i]
		id, err := l.store.CreateNode(ctx, []string{"Movie"})
		if err != nil {
			return 0, err
		}
		req := client.UpsertPropsRequest{
			SetHot: map[string]models.Value{
				"title": models.Text(safeText(m.Title)),
			},
			SetCold: map[string]models.Value{
				"rating": models.Float(m.Rating),
				"votes":  models.Int(int64(m.Votes)),
			},
		}
		if m.Year != 0 {
			req.SetHot["year"] = models.Int(int64(m.Year))
		}
		if m.Runtime != 0 {
			req.SetCold["runtime_minutes"] = models.Int(int64(m.Runtime))
		}
		if len(m.Genres) > 0 {
			req.SetCold["genres"] = models.Text(strings.Join(m.Genres, ", "))
		}
		return id, l.store.UpsertProps(ctx, id, req)
	})
	if err != nil {
		return fmt.Errorf("loading movies: %w", err)
	}
	for i, m := range movies {
		l.movieIDs[m.TConst] = ids[i]
	}
	l.log.WithField("count", len(movies)).Debug("demo.load movies created")
	return nil
}

// loadPeople creates one Person node per kept cast or crew member.
func (l *loader) loadPeople(ctx context.Context, people []person) error {
	ids, err := service.RunAllFailFast(ctx, nodeConcurrency, len(people), func(ctx context.Context, i int) (int64, error) {
		p := people[i]
		id, err := l.store.CreateNode(ctx, []string{"Person"})
		if err != nil {
			return 0, err
		}
		req := client.UpsertPropsRequest{
			SetHot: map[string]models.Value{
				"name": models.Text(safeText(p.Name)),
			},
		}
		if p.BirthYear != 0 {
			req.SetCold = map[string]models.Value{
				"birth_year": models.Int(int64(p.BirthYear)),
			}
		}
		return id, l.store.UpsertProps(ctx, id, req)
	})
	if err != nil {
		return fmt.Errorf("loading people: %w", err)
	}
	for i, p := range people {
		l.personIDs[p.NConst] = ids[i]
	}
	l.log.WithField("count", len(people)).Debug("demo.load people created")
	return nil
}

// loadCredits links people to movies: ACTED_IN for actor and actress
// credits, DIRECTED for directors. Credits whose endpoints were dropped
// by the caps are skipped.
func (l *loader) loadCredits(ctx context.Context, credits []credit) (int, error) {
	linkable := credits[:0:0]
	for _, c := range credits {
		if l.personIDs[c.NConst] != 0 && l.movieIDs[c.TConst] != 0 {
			linkable = append(linkable, c)
		}
	}

	_, err := service.RunAllFailFast(ctx, edgeConcurrency, len(linkable), func(ctx context.Context, i int) (struct{}, error) {
		c := linkable[i]
		src, dst := l.personIDs[c.NConst], l.movieIDs[c.TConst]

		edgeType := "ACTED_IN"
		if c.Category == "director" {
			edgeType = "DIRECTED"
		}
		edgeID, err := l.store.CreateEdge(ctx, src, dst, edgeType)
		if err != nil {
			return struct{}{}, err
		}

		props := map[string]models.Value{
			"ordering": models.Int(int64(c.Ordering)),
		}
		if edgeType == "ACTED_IN" {
			props["category"] = models.Text(c.Category)
			if c.Role != "" {
				props["role"] = models.Text(safeText(c.Role))
			}
		} else if c.Job != "" {
			props["job"] = models.Text(safeText(c.Job))
		}
		return struct{}{}, l.store.UpdateEdgeProps(ctx, edgeID, props, nil)
	})
	if err != nil {
		return 0, fmt.Errorf("loading credits: %w", err)
	}
	return len(linkable), nil
}
