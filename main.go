package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/assets"
	"github.com/robalobadob/wordsearch/internal/catalog"
	"github.com/robalobadob/wordsearch/internal/httpserver"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := catalog.Open(getEnv("DB_PATH", "./data/wordsearch.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := catalog.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	puzzles := catalog.NewStore(db)
	if err := seed(context.Background(), puzzles); err != nil {
		log.Fatal().Err(err).Msg("seed puzzles")
	}

	srv := httpserver.New(store.NewMemoryStore(), puzzles, httpserver.ConfigFromEnv())
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting wordsearch server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// seed loads the embedded puzzles plus PUZZLES_FILE, if set.
func seed(ctx context.Context, st *catalog.Store) error {
	list, err := assets.DefaultPuzzles()
	if err != nil {
		return err
	}
	if path := os.Getenv("PUZZLES_FILE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		extra, err := puzzle.Decode(f)
		if err != nil {
			return err
		}
		list = append(list, extra...)
	}

	added, err := catalog.Seed(ctx, st, list)
	if err != nil {
		return err
	}
	total, _ := st.Count(ctx)
	log.Info().Int("added", added).Int("total", total).Msg("puzzle catalogue ready")
	return nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
