package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/profolio/config"
	"github.com/oksasatya/profolio/internal/application"
	"github.com/oksasatya/profolio/internal/container"
	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/rules"
	"github.com/oksasatya/profolio/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/profolio/internal/infrastructure/postgres"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/validation"
)

const (
	demoUsername = "demoUser"
	demoEmail    = "demo@profolio.dev"
	demoPassword = "Password123!"
)

// seed loads example themes, a demo account owning the example portfolios,
// and a few movies. Running it twice reuses the demo account.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.StoreDriver != config.StoreMongo {
		log.Fatal("seed requires STORE_DRIVER=mongo")
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	validation.Init()

	ctx := context.Background()
	container.SetConfig(cfg)
	container.SetLogger(logger)

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.AppName, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	container.SetPGPool(pool)

	mc, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.MongoDB)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to create mongo indexes: %v", err)
	}
	container.SetMongo(db)

	svc := container.GetServices()

	user, err := demoUser(ctx, svc.Users)
	if err != nil {
		log.Fatalf("failed to seed demo user: %v", err)
	}
	helpers.LogInfo(logger, "demo user ready", logrus.Fields{"id": user.ID.Hex(), "username": user.Username})

	themes, err := seedThemes(ctx, svc.Themes)
	if err != nil {
		log.Fatalf("failed to seed themes: %v", err)
	}
	if err := seedPortfolios(ctx, svc.Portfolios, user, themes); err != nil {
		log.Fatalf("failed to seed portfolios: %v", err)
	}
	if err := seedMovies(ctx, svc.Movies); err != nil {
		log.Fatalf("failed to seed movies: %v", err)
	}
	helpers.LogInfo(logger, "seed complete", logrus.Fields{"themes": len(themes)})
}

func demoUser(ctx context.Context, users *application.UserService) (*entity.User, error) {
	u, err := users.Create(ctx, demoUsername, demoEmail, demoPassword)
	if apperror.Is(err, apperror.KindConflict) {
		return users.GetByUsername(ctx, demoUsername)
	}
	return u, err
}

// seedThemes returns the example themes, creating them when none exist yet.
func seedThemes(ctx context.Context, themes *application.ThemeService) ([]entity.Theme, error) {
	existing, err := themes.ListExamples(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}
	palette := []application.CreateThemeInput{
		{Name: "Light", ThemeData: entity.ThemeData{BackgroundColor: "#FFFFFF", SectionColor: "#F3F4F6", TextColor: "#111827"}},
		{Name: "Dark", ThemeData: entity.ThemeData{BackgroundColor: "#111827", SectionColor: "#1F2937", TextColor: "#F9FAFB"}},
		{Name: "Ocean", ThemeData: entity.ThemeData{BackgroundColor: "#E0F2FE", SectionColor: "#BAE6FD", TextColor: "#0C4A6E"}},
	}
	out := make([]entity.Theme, 0, len(palette))
	for _, in := range palette {
		in.IsExample = true
		t, err := themes.Create(ctx, in)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func raw(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func seedPortfolios(ctx context.Context, portfolios *application.PortfolioService, owner *entity.User, themes []entity.Theme) error {
	existing, err := portfolios.ListExamples(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 || len(themes) == 0 {
		return nil
	}

	enabled := true
	examples := []application.CreatePortfolioInput{
		{
			Title:       "Software Engineer",
			Description: "Backend engineer focused on distributed systems.",
			Sections: []rules.SectionInput{
				{Type: string(entity.SectionWork), Items: []json.RawMessage{raw(map[string]any{
					"company": "Acme Corp", "role": "Senior Engineer", "startDate": "01/15/2021",
					"description": "Owned the billing pipeline.", "achievements": []string{"Cut p99 latency in half"},
				})}},
				{Type: string(entity.SectionProject), Items: []json.RawMessage{raw(map[string]any{
					"title": "Queue Inspector", "technologies": []string{"Go", "RabbitMQ"},
					"githubRepo": "https://github.com/example/queue-inspector",
				})}},
				{Type: string(entity.SectionEducation), Items: []json.RawMessage{raw(map[string]any{
					"institution": "State University", "degree": "BSc Computer Science",
					"startDate": "09/01/2013", "endDate": "06/01/2017",
				})}},
			},
			ContactButtonEnabled: &enabled,
		},
		{
			Title:       "Designer",
			Description: "Product designer with a print background.",
			Sections: []rules.SectionInput{
				{Type: string(entity.SectionCertification), Items: []json.RawMessage{raw(map[string]any{
					"title": "UX Certificate", "issuer": "Design Institute", "issueDate": "03/10/2020",
				})}},
				{Type: string(entity.SectionCustom), Items: []json.RawMessage{raw(map[string]any{
					"title": "About me", "content": "I like grids and good coffee.",
				})}},
			},
		},
	}
	for i, in := range examples {
		in.OwnerID = owner.ID.Hex()
		in.ThemeID = themes[i%len(themes)].ID.Hex()
		in.IsExample = true
		if _, err := portfolios.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

func seedMovies(ctx context.Context, movies *application.MovieService) error {
	existing, err := movies.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, in := range []rules.MovieInput{
		{
			Title: "Inception", Plot: "A thief steals secrets through dreams.",
			Genres: []string{"Action", "Science Fiction"}, Rating: "PG-13",
			Studio: "Warner Brothers", Director: "Christopher Nolan",
			CastMembers:  []string{"Leonardo DiCaprio", "Elliot Page"},
			DateReleased: "07/16/2010", Runtime: "2h 28min",
		},
		{
			Title: "Spirited Away", Plot: "A girl wanders into a world of spirits.",
			Genres: []string{"Animation", "Fantasy"}, Rating: "PG",
			Studio: "Studio Ghibli", Director: "Hayao Miyazaki",
			CastMembers:  []string{"Rumi Hiiragi", "Miyu Irino"},
			DateReleased: "07/20/2001", Runtime: "2h 5min",
		},
	} {
		if _, err := movies.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
