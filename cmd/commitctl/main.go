package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"commitbot/internal/commitctl"

	"github.com/alecthomas/kingpin/v2"
)

func main() {
	app := kingpin.New("commitctl", "Inspect a running commitbot server.")
	host := app.Flag("host", "commitbot host:port or URL").
		Default("localhost:8080").
		Envar("COMMITBOT_HOST").
		String()

	ping := app.Command("ping", "Check that the server is answering.")
	version := app.Command("version", "Show the version the server is running.")
	show := app.Command("show", "Show recorded commits for a repository, or for one user of it.")
	showRepo := show.Arg("repo", "repository as owner/name").Required().String()
	showUser := show.Arg("username", "GitHub login of the pusher").String()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := commitctl.NewClient(*host)
	ctx := context.Background()

	var err error
	switch cmd {
	case ping.FullCommand():
		if err = client.Ping(ctx); err == nil {
			fmt.Println("PONG")
		}
	case version.FullCommand():
		var v string
		if v, err = client.Version(ctx); err == nil {
			fmt.Println(v)
		}
	case show.FullCommand():
		err = runShow(ctx, client, *showRepo, *showUser)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "commitctl %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func runShow(ctx context.Context, client *commitctl.Client, repo, username string) error {
	if username == "" {
		aggs, err := client.Aggregates(ctx, repo)
		if err != nil {
			return err
		}
		commitctl.RenderSummary(os.Stdout, aggs)
		return nil
	}

	agg, err := client.Aggregate(ctx, repo, username)
	if errors.Is(err, commitctl.ErrNotFound) {
		fmt.Printf("no commits recorded for %s on %s\n", username, repo)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s on %s: %d commits\n", agg.Username, agg.RepoFullName, agg.NumCommits)
	commitctl.RenderCommits(os.Stdout, agg)
	return nil
}
