// Command stardust-demo loads a slice of the public IMDb dataset into a
// Stardust store: the most popular feature films, their principal cast
// and directors, and the edges between them. With --embed it also
// attaches title embeddings so graph_rag_search has vectors to hit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/stardustdb/stardust-mcp/client"
	"github.com/stardustdb/stardust-mcp/internal/service"
)

const (
	defaultMaxMovies = 900
	defaultMaxPeople = 2100

	embedConcurrency = 8
)

func main() {
	godotenv.Load() //nolint:errcheck

	var (
		dataDir   = flag.String("data-dir", envOr("STARDUST_DATA_DIR", "data"), "directory for cached IMDb dumps")
		maxMovies = flag.Int("movies", envInt("DEMO_MAX_MOVIES", defaultMaxMovies), "number of films to load")
		maxPeople = flag.Int("people", envInt("DEMO_MAX_PEOPLE", defaultMaxPeople), "cap on cast and crew")
		embed     = flag.Bool("embed", false, "attach title embeddings via Ollama")
	)
	flag.Parse()

	log := logrus.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *dataDir, *maxMovies, *maxPeople, *embed); err != nil {
		log.WithError(err).Fatal("demo load failed")
	}
}

func run(ctx context.Context, log *logrus.Logger, dataDir string, maxMovies, maxPeople int, embed bool) error {
	var opts []client.Option
	if key := os.Getenv("STARDUST_API_KEY"); key != "" {
		opts = append(opts, client.WithAPIKey(key))
	}
	c := client.New(envOr("STARDUST_URL", "http://localhost:7077"), opts...)

	movies, people, credits, err := buildSlice(ctx, log, dataDir, maxMovies, maxPeople)
	if err != nil {
		return err
	}

	l := newLoader(clientWriter{c}, log)
	if err := l.loadMovies(ctx, movies); err != nil {
		return err
	}
	if err := l.loadPeople(ctx, people); err != nil {
		return err
	}
	edges, err := l.loadCredits(ctx, credits)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"movies": len(movies),
		"people": len(people),
		"edges":  edges,
	}).Info("demo graph loaded")

	if embed {
		if err := embedTitles(ctx, log, c, l, movies); err != nil {
			return err
		}
	}

	printSample(movies)
	return nil
}

// buildSlice downloads and parses the IMDb dumps, then applies the
// movie and people caps.
func buildSlice(ctx context.Context, log *logrus.Logger, dataDir string, maxMovies, maxPeople int) ([]movie, []person, []credit, error) {
	paths := make(map[string]string, 4)
	for _, name := range []string{datasetRatings, datasetBasics, datasetPrincipals, datasetNames} {
		log.WithField("dataset", name).Info("fetching dataset")
		p, err := fetchDataset(ctx, dataDir, name)
		if err != nil {
			return nil, nil, nil, err
		}
		paths[name] = p
	}

	ratings, err := parseRatings(paths[datasetRatings])
	if err != nil {
		return nil, nil, nil, err
	}
	all, err := parseMovies(paths[datasetBasics], ratings)
	if err != nil {
		return nil, nil, nil, err
	}
	movies := selectMovies(all, maxMovies)

	titles := make(map[string]bool, len(movies))
	votes := make(map[string]int, len(movies))
	for _, m := range movies {
		titles[m.TConst] = true
		votes[m.TConst] = m.Votes
	}

	credits, err := parsePrincipals(paths[datasetPrincipals], titles)
	if err != nil {
		return nil, nil, nil, err
	}
	credits, keep := selectPeople(credits, votes, maxPeople)

	names, err := parseNames(paths[datasetNames], keep)
	if err != nil {
		return nil, nil, nil, err
	}
	people := make([]person, 0, len(names))
	for _, p := range names {
		people = append(people, p)
	}

	return movies, people, credits, nil
}

// embedTitles generates an embedding for every film and upserts it
// under the configured vector tag.
func embedTitles(ctx context.Context, log *logrus.Logger, c *client.Client, l *loader, movies []movie) error {
	embedder, err := service.NewEmbeddingService(
		envOr("OLLAMA_URL", "http://localhost:11434"),
		envOr("OLLAMA_MODEL", "nomic-embed-text:v1.5"),
	)
	if err != nil {
		return err
	}
	tag := envOr("STARDUST_VECTOR_TAG", "text")

	_, err = service.RunAllFailFast(ctx, embedConcurrency, len(movies), func(ctx context.Context, i int) (struct{}, error) {
		m := movies[i]
		vec, err := embedder.Generate(ctx, embedText(m))
		if err != nil {
			return struct{}{}, fmt.Errorf("embedding %q: %w", m.Title, err)
		}
		return struct{}{}, c.Vectors.Upsert(ctx, l.movieIDs[m.TConst], tag, vec)
	})
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"movies": len(movies), "tag": tag}).Info("title embeddings stored")
	return nil
}

// embedText is the text embedded per film.
func embedText(m movie) string {
	var b strings.Builder
	b.WriteString(m.Title)
	if m.Year != 0 {
		fmt.Fprintf(&b, " (%d)", m.Year)
	}
	if len(m.Genres) > 0 {
		b.WriteString(". Genres: ")
		b.WriteString(strings.Join(m.Genres, ", "))
	}
	return b.String()
}

func printSample(movies []movie) {
	n := len(movies)
	if n > 5 {
		n = 5
	}
	fmt.Println("Sample of loaded films:")
	for _, m := range movies[:n] {
		fmt.Printf("  %s (%d) rating=%.1f votes=%d\n", m.Title, m.Year, m.Rating, m.Votes)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
