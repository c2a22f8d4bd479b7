package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ytdash/dashboard"
	"ytdash/storage"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage saved analysis sessions",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Cobra runs only the nearest persistent pre-run.
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return app.OpenStore()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved sessions, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sessions, err := app.Store.ListSessions(cmd.Context())
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					fmt.Println("No saved sessions.")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CHANNEL ID\tTITLE\tVIDEOS\tMESSAGES\tSAVED")
				for _, s := range sessions {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
						s.ChannelID,
						truncate(s.Channel.Title, 40),
						len(s.Videos),
						len(s.Messages),
						s.SavedAt.Local().Format("2006-01-02 15:04"),
					)
				}
				return w.Flush()
			},
		},
		newSessionsSaveCmd(),
		&cobra.Command{
			Use:   "delete <channel-id>",
			Short: "Delete a saved session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Store.DeleteSession(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Deleted session %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Merge sessions from a JSON export",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				var sessions []*storage.Session
				if err := json.Unmarshal(data, &sessions); err != nil {
					return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
				}

				total, err := app.Store.ImportSessions(cmd.Context(), sessions)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Imported %d sessions, %d in library\n", len(sessions), total)
				return nil
			},
		},
		&cobra.Command{
			Use:   "export",
			Short: "Write all sessions as JSON to stdout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sessions, err := app.Store.ListSessions(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(sessions)
			},
		},
	)
	return cmd
}

func newSessionsSaveCmd() *cobra.Command {
	var (
		pages     int
		queueFile string
	)

	cmd := &cobra.Command{
		Use:   "save [channel-url...]",
		Short: "Analyze channels and save their sessions",
		Long: `Analyze each channel and save it as a session.

With --queue, channel URLs are also read from the file, one per line.
Channels saved successfully are removed from the file; failed ones stay
queued for the next run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			queue := slices.Clone(args)
			if queueFile != "" {
				data, err := os.ReadFile(queueFile)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				queue = dashboard.Enqueue(queue, string(data))
			}
			if len(queue) == 0 {
				return errors.New("no channel URLs given")
			}

			total, failed := len(queue), 0
			for _, channelURL := range slices.Clone(queue) {
				if err := saveChannel(cmd.Context(), channelURL, pages); err != nil {
					if cmd.Context().Err() != nil {
						return err
					}
					log.Error().Err(err).Str("url", channelURL).Msg("save failed")
					failed++
					continue
				}
				queue = dashboard.Dequeue(queue, channelURL)
			}

			if queueFile != "" {
				if err := writeQueue(queueFile, queue); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d channels failed", failed, total)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages of 50 videos to load")
	cmd.Flags().StringVar(&queueFile, "queue", "", "file of channel URLs to work through")
	return cmd
}

func saveChannel(ctx context.Context, channelURL string, pages int) error {
	r, err := analyze(ctx, channelURL, pages)
	if err != nil {
		return err
	}
	s, err := app.Analyzer.SaveSession(ctx, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved %s (%d videos)\n", s.ChannelID, len(s.Videos))
	return nil
}

// writeQueue rewrites path with the URLs still queued.
func writeQueue(path string, queue []string) error {
	var b strings.Builder
	for _, u := range queue {
		b.WriteString(u)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
