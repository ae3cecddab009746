package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/mealfind/internal/errors"
	"github.com/hpungsan/mealfind/internal/ops"
	"github.com/hpungsan/mealfind/internal/web"
)

// stdout is where command output is written; tests swap it.
var stdout io.Writer = os.Stdout

// newCLIApp creates the CLI application with all commands. a may be nil when
// only help or version output is needed.
func newCLIApp(a *app) *cli.App {
	cliApp := &cli.App{
		Name:    "mealfind",
		Usage:   "Search recipes on TheMealDB and keep favorites",
		Version: Version,
		Writer:  stdout,
		Commands: []*cli.Command{
			searchCmd(a),
			lookupCmd(a),
			favoriteCmd(a),
			favoritesCmd(a),
			serveCmd(a),
		},
	}
	// returned, not os.Exit'ed, so tests can inspect it
	cliApp.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return cliApp
}

// searchCmd creates the search command.
func searchCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search recipes (e.g. \"indian beef\", \"lasagne\", \"chicken, garlic\")",
		ArgsUsage: "<query...>",
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			output, err := ops.Search(c.Context, a.resolver, a.favs, a.log, ops.SearchInput{Query: query})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// lookupCmd creates the lookup command.
func lookupCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "Show one recipe with ingredients and instructions",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Lookup(c.Context, a.client, a.favs, ops.LookupInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// favoriteCmd creates the favorite (toggle) command.
func favoriteCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "favorite",
		Usage:     "Add a recipe to favorites, or remove it if already saved",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.ToggleFavorite(c.Context, a.favs, a.client, ops.ToggleFavoriteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			if output.Warning != "" {
				fmt.Fprintf(os.Stderr, "warning: %s\n", output.Warning)
			}
			return outputJSON(output)
		},
	}
}

// favoritesCmd creates the favorites (list) command.
func favoritesCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "List saved favorites",
		Action: func(_ *cli.Context) error {
			return outputJSON(ops.ListFavorites(a.favs))
		},
	}
}

// serveCmd creates the serve command for the web UI.
func serveCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port %d", port)))
			}
			srv, err := web.NewServer(a.webServices(), Version, c.String("bind"), port)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv, a.log); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// outputJSON writes v as indented JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats err for the CLI as "[CODE] message".
func outputError(err error) error {
	mErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", mErr.Code, mErr.Message), 1)
}
