package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/aruvili/agamdocs"
	"github.com/aruvili/agamdocs/loader"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	app := &cli.Command{
		Name:  "agamdocs",
		Usage: "Documentation site for the Agam programming language",
		Commands: []*cli.Command{
			serveCmd(),
			checkCmd(),
			fetchCmd(),
			initCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the documentation site",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Value: "Agam", Sources: cli.EnvVars("SITE_NAME")},
			&cli.StringFlag{Name: "url", Value: "http://localhost:3000", Sources: cli.EnvVars("SITE_URL")},
			&cli.StringFlag{Name: "description", Sources: cli.EnvVars("SITE_DESCRIPTION")},
			&cli.StringFlag{Name: "addr", Value: ":3000", Sources: cli.EnvVars("ADDR")},
			&cli.StringFlag{Name: "docs", Value: "docs", Usage: "Directory of NN_topic.md files", Sources: cli.EnvVars("DOCS_DIR")},
			&cli.StringFlag{Name: "db", Value: "data/docs.db", Sources: cli.EnvVars("DATABASE_PATH")},
			&cli.StringFlag{Name: "manifest", Usage: "Sidebar and route YAML (default: built-in)", Sources: cli.EnvVars("MANIFEST")},
			&cli.StringFlag{Name: "origin", Usage: "Fetch documents from this base URL instead of the local store", Sources: cli.EnvVars("CONTENT_ORIGIN")},
			&cli.DurationFlag{Name: "fetch-timeout", Value: loader.DefaultTimeout, Usage: "Negative disables the timeout", Sources: cli.EnvVars("FETCH_TIMEOUT")},
			&cli.BoolFlag{Name: "watch", Usage: "Re-import the docs directory on change", Sources: cli.EnvVars("WATCH")},
			&cli.BoolFlag{Name: "no-metrics", Usage: "Disable /metrics", Sources: cli.EnvVars("DISABLE_METRICS")},
			&cli.BoolFlag{Name: "cookie-secure", Sources: cli.EnvVars("COOKIE_SECURE")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app := agamdocs.New(agamdocs.SiteConfig{
				Name:           cmd.String("name"),
				URL:            cmd.String("url"),
				Description:    cmd.String("description"),
				Addr:           cmd.String("addr"),
				DocsDir:        cmd.String("docs"),
				DatabasePath:   cmd.String("db"),
				ManifestPath:   cmd.String("manifest"),
				ContentOrigin:  cmd.String("origin"),
				FetchTimeout:   cmd.Duration("fetch-timeout"),
				Watch:          cmd.Bool("watch"),
				DisableMetrics: cmd.Bool("no-metrics"),
				AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
				SessionSecret:  os.Getenv("ADMIN_SESSION_SECRET"),
				CookieSecure:   cmd.Bool("cookie-secure"),
			})
			defer app.Close()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Report disagreements between the sidebar, the routes and the docs directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "manifest", Sources: cli.EnvVars("MANIFEST")},
			&cli.StringFlag{Name: "docs", Value: "docs", Sources: cli.EnvVars("DOCS_DIR")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tree, r, err := agamdocs.LoadManifest(cmd.String("manifest"))
			if err != nil {
				return err
			}
			available, err := markdownFiles(cmd.String("docs"))
			if err != nil {
				return err
			}
			problems := agamdocs.CheckConsistency(tree, r, available)
			for _, p := range problems {
				fmt.Println(p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problems found", len(problems))
			}
			fmt.Printf("ok: %d sidebar links, %d routes, %d documents\n", len(tree.Leaves()), len(r.Slugs()), len(available))
			return nil
		},
	}
}

// markdownFiles lists the .md files in dir, sorted.
func markdownFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Load one page through the loader and print each state transition",
		ArgsUsage: "<slug>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "origin", Value: "http://localhost:3000", Sources: cli.EnvVars("CONTENT_ORIGIN")},
			&cli.StringFlag{Name: "manifest", Sources: cli.EnvVars("MANIFEST")},
			&cli.DurationFlag{Name: "timeout", Value: loader.DefaultTimeout},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Print transitions only"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, r, err := agamdocs.LoadManifest(cmd.String("manifest"))
			if err != nil {
				return err
			}
			ld := loader.New(r,
				loader.NewHTTPFetcher(cmd.String("origin"), &http.Client{}),
				loader.WithTimeout(cmd.Duration("timeout")),
			)
			view := ld.NewView()
			defer view.Close()
			view.Subscribe(func(st loader.State) {
				fmt.Fprintln(os.Stderr, st)
			})

			st, err := view.Load(ctx, cmd.Args().First()).Wait(ctx)
			if err != nil {
				return err
			}
			if !cmd.Bool("quiet") {
				fmt.Print(st.Text)
			}
			if st.Status == loader.Failed {
				return fmt.Errorf("could not load %s", st.ResourceID)
			}
			return nil
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create a docs directory with a manifest and placeholder pages",
		ArgsUsage: "<dir>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				return fmt.Errorf("usage: agamdocs init <dir>")
			}
			return runInit(dir)
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the agamdocs version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("agamdocs %s\n", version)
			return nil
		},
	}
}
