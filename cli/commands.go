package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ytdash/dashboard"
	"ytdash/keywords"
)

func newChannelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channel <channel-url>",
		Short: "Show a channel's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := app.YouTube.ResolveChannel(cmd.Context(), app.Config.YouTubeKeys, args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\t%s\n", ch.ID)
			fmt.Fprintf(w, "TITLE\t%s\n", ch.Title)
			fmt.Fprintf(w, "CUSTOM URL\t%s\n", ch.CustomURL)
			fmt.Fprintf(w, "COUNTRY\t%s\n", ch.Country)
			fmt.Fprintf(w, "PUBLISHED\t%s\n", ch.PublishedAt)
			fmt.Fprintf(w, "SUBSCRIBERS\t%d\n", ch.SubscriberCount)
			fmt.Fprintf(w, "VIDEOS\t%d\n", ch.VideoCount)
			fmt.Fprintf(w, "UPLOADS\t%s\n", ch.UploadsPlaylistID)
			return w.Flush()
		},
	}
}

func newVideosCmd() *cobra.Command {
	var pages int
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "videos <channel-url>",
		Short: "List a channel's uploads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := analyze(cmd.Context(), args[0], pages)
			if err != nil {
				return err
			}
			if asCSV {
				return dashboard.WriteVideosCSV(os.Stdout, r.Videos)
			}

			if len(r.Videos) == 0 {
				fmt.Println("No videos found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VIDEO ID\tTITLE\tPUBLISHED\tDURATION\tVIEWS\tLIKES")
			for _, v := range r.Videos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
					v.ID,
					truncate(v.Snippet.Title, 50),
					publishedDate(v.Snippet.PublishedAt),
					formatDuration(v.ContentDetails.Duration),
					v.Views(),
					v.Likes(),
				)
			}
			w.Flush()

			fmt.Fprintf(os.Stderr, "\nTotal: %d videos", len(r.Videos))
			if r.HasMore() {
				fmt.Fprint(os.Stderr, " (more available)")
			}
			fmt.Fprintln(os.Stderr)
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages of 50 videos to load")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}

func newKeywordsCmd() *cobra.Command {
	var pages, top int
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "keywords <channel-url>",
		Short: "Show the most frequent title keywords of a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := analyze(cmd.Context(), args[0], pages)
			if err != nil {
				return err
			}
			counts := r.Keywords
			if top > 0 && len(counts) > top {
				counts = counts[:top]
			}
			if asCSV {
				return dashboard.WriteKeywordsCSV(os.Stdout, counts)
			}
			return printCounts(counts, "KEYWORD")
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages of 50 videos to load")
	cmd.Flags().IntVar(&top, "top", 20, "number of keywords to show (0 = all)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}

func newHashtagsCmd() *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "hashtags <channel-url>",
		Short: "Show the hashtags used in a channel's descriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := analyze(cmd.Context(), args[0], pages)
			if err != nil {
				return err
			}
			return printCounts(r.Hashtags, "HASHTAG")
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages of 50 videos to load")
	return cmd
}

func newChatCmd() *cobra.Command {
	var fromSession bool

	cmd := &cobra.Command{
		Use:   "chat <channel-url|channel-id> <question>",
		Short: "Ask the brainstorming assistant about a channel",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r *dashboard.Result
			var err error
			if fromSession {
				if err := app.OpenStore(); err != nil {
					return err
				}
				r, err = app.Analyzer.OpenSession(cmd.Context(), args[0])
			} else {
				r, err = app.Analyzer.Analyze(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			reply, err := app.Analyzer.Chat(cmd.Context(), r, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Println(reply)

			if fromSession {
				_, err = app.Analyzer.SaveSession(cmd.Context(), r)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&fromSession, "session", false, "continue the conversation of a saved session")
	return cmd
}

func newCompeteCmd() *cobra.Command {
	var instructionsFile string

	cmd := &cobra.Command{
		Use:   "compete [channel-id...]",
		Short: "Run a competitive analysis over saved sessions",
		Long:  "Run a competitive analysis over the saved sessions of the given channels, or all of them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.OpenStore(); err != nil {
				return err
			}
			ctx := cmd.Context()

			sessions, err := app.Store.ListSessions(ctx)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				sessions = sessions[:0]
				for _, id := range args {
					s, err := app.Store.GetSession(ctx, id)
					if err != nil {
						return err
					}
					sessions = append(sessions, s)
				}
			}

			var instructions string
			if instructionsFile != "" {
				data, err := os.ReadFile(instructionsFile)
				if err != nil {
					return err
				}
				instructions = string(data)
			}

			fmt.Fprintf(os.Stderr, "Analyzing %d sessions...\n", len(sessions))
			report, err := app.Analyzer.Compete(ctx, sessions, instructions)
			if err != nil {
				return err
			}
			fmt.Println(report)
			return nil
		},
	}
	cmd.Flags().StringVar(&instructionsFile, "instructions", "", "file with the analysis task definition")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configured API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SERVICE\tKEYS\tSTATUS")
			fmt.Fprintf(w, "youtube\t%s\t%s\n", keyCount(app.Config.YouTubeKeys), status(app.YouTube.ValidateKeys(ctx, app.Config.YouTubeKeys)))
			fmt.Fprintf(w, "%s\t%s\t%s\n", app.Assistant.Provider.Name(), keyCount(app.Assistant.Keys), status(app.Assistant.ValidateKeys(ctx)))
			return w.Flush()
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.OpenStore(); err != nil {
				return err
			}
			if addr == "" {
				addr = app.Config.ListenAddr
			}
			return app.Server().ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// analyze runs the dashboard analysis and loads up to pages pages.
func analyze(ctx context.Context, channelURL string, pages int) (*dashboard.Result, error) {
	fmt.Fprintf(os.Stderr, "Fetching videos from %s...\n", channelURL)
	r, err := app.Analyzer.Analyze(ctx, channelURL)
	if err != nil {
		return nil, err
	}
	for i := 1; i < pages && r.HasMore(); i++ {
		if err := app.Analyzer.LoadMore(ctx, r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func printCounts(counts []keywords.Count, header string) error {
	if len(counts) == 0 {
		fmt.Println("Nothing found.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOUNT\n", header)
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%d\n", c.Phrase, c.Count)
	}
	return w.Flush()
}
