package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pevans/scribble"
	"github.com/spf13/cobra"
)

var (
	rankingSort  string
	rankingOrder string
)

func init() {
	rankingsCmd.Flags().StringVar(&rankingSort, "sort", scribble.RankingPopularity.ID,
		"Ranking: popularity, favorites, activity, readers or rating")
	rankingsCmd.Flags().StringVar(&rankingOrder, "order", scribble.OrderDescending.ID,
		"Order: descending or ascending")

	feedCmd.AddCommand(seriesFeedCmd, authorFeedCmd)

	rootCmd.AddCommand(
		searchCmd,
		usersCmd,
		finderCmd,
		rankingsCmd,
		latestSeriesCmd,
		latestUpdatesCmd,
		forumCmd,
		storyCmd,
		userCmd,
		feedCmd,
		cacheCmd,
	)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stories.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printList(client.SearchStories(cmd.Context(), strings.Join(args, " ")), printSummaries)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users <query>",
	Short: "Search users.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printList(client.SearchUsers(cmd.Context(), strings.Join(args, " ")), printUsers)
	},
}

var finderCmd = &cobra.Command{
	Use:   "finder <series-finder-url>",
	Short: "Read the results of a series-finder URL.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printList(client.SeriesFinder(cmd.Context(), args[0]), printSummaries)
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings [--sort <ranking>] [--order <order>]",
	Short: "Show a series ranking.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := scribble.ParseRanking(rankingSort)
		if err != nil {
			return err
		}
		o, err := scribble.ParseOrder(rankingOrder)
		if err != nil {
			return err
		}
		return printList(client.Rankings(cmd.Context(), r, o), printSummaries)
	},
}

var latestSeriesCmd = &cobra.Command{
	Use:   "latest-series",
	Short: "Show the most recently added series.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printList(client.LatestSeries(cmd.Context()), printSummaries)
	},
}

var latestUpdatesCmd = &cobra.Command{
	Use:   "latest-updates",
	Short: "Show the latest chapter releases.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printList(client.LatestUpdates(cmd.Context()), printUpdates)
	},
}

var forumCmd = &cobra.Command{
	Use:   "forum",
	Short: "Show the latest forum topics.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printList(client.LatestTopics(cmd.Context()), printThreads)
	},
}

var storyCmd = &cobra.Command{
	Use:   "story <url>",
	Short: "Show a story page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printOne(client.Story(cmd.Context(), args[0]), printStory)
	},
}

var userCmd = &cobra.Command{
	Use:   "user <url>",
	Short: "Show a user profile.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printOne(client.User(cmd.Context(), args[0]), printProfile)
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show a series or author chapter feed.",
}

var seriesFeedCmd = &cobra.Command{
	Use:   "series <sid>",
	Short: "Show the chapter feed of a series.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sid, err := parseID(args[0])
		if err != nil {
			return err
		}
		return printList(client.SeriesFeed(cmd.Context(), sid), printFeed)
	},
}

var authorFeedCmd = &cobra.Command{
	Use:   "author <uid>",
	Short: "Show the chapter feed of an author.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uid, err := parseID(args[0])
		if err != nil {
			return err
		}
		return printList(client.AuthorFeed(cmd.Context(), uid), printFeed)
	},
}

var cacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Drop every cached result, persisted ones included.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n := client.Cache().Len()
		client.Cache().Clear()
		fmt.Printf("✓ Cleared %d cached results\n", n)
		return nil
	},
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

// printList prints items with table, or as JSON when --json is set. A nil
// slice means the client failed.
func printList[T any](items []T, table func([]T)) error {
	if items == nil {
		return errNoResult
	}
	if jsonOutput {
		return printJSON(map[string]any{"items": items, "total": len(items)})
	}
	table(items)
	return nil
}

func printOne[T any](item *T, show func(*T)) error {
	if item == nil {
		return errNoResult
	}
	if jsonOutput {
		return printJSON(item)
	}
	show(item)
	return nil
}
