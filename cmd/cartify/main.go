package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"cartify/internal/config"
	"cartify/internal/gateway"
	"cartify/internal/http/handlers"
	applog "cartify/internal/log"
	"cartify/internal/repos"
	"cartify/internal/services"
	"cartify/internal/view"
)

func main() {
	app := &cli.App{
		Name:  "cartify",
		Usage: "multi-role storefront client",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the storefront HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "listen port (overrides PORT)"},
				},
				Action: serve,
			},
			{
				Name:  "products",
				Usage: "print the catalog view for a selection",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search"},
					&cli.StringFlag{Name: "category", Value: view.AllCategories},
					&cli.BoolFlag{Name: "fast", Usage: "only 10 minute delivery"},
					&cli.Float64Flag{Name: "max-price", Value: view.DefaultMaxPrice},
					&cli.StringFlag{Name: "sort", Value: string(view.Featured), Usage: "featured, price-low, price-high, rating, trending"},
				},
				Action: products,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		applog.Error(nil, "cli.fail", err, nil)
		fmt.Fprintln(os.Stderr, "cartify:", err)
		os.Exit(1)
	}
}

// setup loads config, opens the cache and starts the session state. Log lines
// go to console and, when configured, the log file.
func setup(ctx context.Context, console io.Writer) (config.Config, *services.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, err
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		return cfg, nil, nil, errors.Wrap(err, "log level")
	}

	closers := []func(){}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.Error(nil, "log.file.open", err, map[string]any{"path": cfg.LogFile})
		} else {
			applog.SetOutput(io.MultiWriter(console, f))
			closers = append(closers, func() { _ = f.Close() })
		}
	}

	db, err := repos.OpenDB(cfg.CacheDSN)
	if err != nil {
		return cfg, nil, nil, err
	}
	closers = append(closers, func() { _ = db.Close() })
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	svc := services.New(gateway.New(cfg.APIURL, cfg.APITimeout), repos.NewKVRepo(db))
	if err := svc.Start(ctx); err != nil {
		cleanup()
		return cfg, nil, nil, err
	}
	return cfg, svc, cleanup, nil
}

func serve(c *cli.Context) error {
	cfg, svc, cleanup, err := setup(c.Context, os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()
	if p := c.String("port"); p != "" {
		cfg.Port = p
	}

	engine := html.New(cfg.TemplatesDir, ".html")
	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 << 20,
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: applog.Writer()}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz")
		},
	}))
	handlers.Routes(app, handlers.NewDeps(svc))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			applog.Error(nil, "server.listen", err, map[string]any{"port": cfg.Port})
		}
	}()
	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "api": cfg.APIURL})

	sig := waitForKillSignal()
	applog.Info(nil, "server.stop", map[string]any{"signal": sig.String()})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(ctx)
}

func waitForKillSignal() os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return <-ch
}

func products(c *cli.Context) error {
	applog.SetOutput(io.Discard)
	_, svc, cleanup, err := setup(c.Context, io.Discard)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := svc.Catalog.LastError(); err != nil {
		return errors.Wrap(err, "load products")
	}

	sel := view.Selection{
		Query:        c.String("search"),
		Category:     c.String("category"),
		FastDelivery: c.Bool("fast"),
		MaxPrice:     c.Float64("max-price"),
		Sort:         view.SortMode(c.String("sort")),
	}
	list := view.Apply(svc.Catalog.Products(), sel)

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tRATING\tSTOCK\tSELLER")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.1f\t%d\t%s\n", p.ID, p.Name, p.Category, p.Price, p.Rating, p.Stock, p.SellerName)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d of %d products\n", len(list), len(svc.Catalog.Products()))
	return nil
}
