package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/trovelib/trovectl/internal/api"
	"github.com/trovelib/trovectl/internal/ingest"
	"github.com/trovelib/trovectl/internal/tui"
)

func newEditCmd() *cobra.Command {
	var (
		title    string
		author   string
		note     string
		kindStr  string
		hidden   bool
		producer bool
	)

	cmd := &cobra.Command{
		Use:   "edit <profile-id> [file|url]",
		Short: "Edit an entry or replace its source",
		Long: `Edit one of your library entries: change its display fields, point it at
a different URL, or replace its file with a new upload.

Replacing a file never rewrites the old content — other people's entries
that reference it stay intact; only your entry is relinked.

Examples:
  trovectl edit 4f9c… --title "Better title"
  trovectl edit 4f9c… ~/Downloads/revised.pdf
  trovectl edit 4f9c… https://example.com/moved-essay`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			profileID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid profile id %q: %w", args[0], err)
			}

			profile, err := client.GetProfile(ctx, profileID)
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			content, err := client.GetContent(ctx, profile.ContentID)
			if err != nil {
				return fmt.Errorf("loading content: %w", err)
			}

			// The server decides whether this entry may be edited at all;
			// the submission pipeline trusts the answer.
			check, err := client.CheckModificationAllowed(ctx, profile.ContentID)
			if err != nil {
				return fmt.Errorf("checking edit permission: %w", err)
			}
			if !check.CanModify {
				if check.Reason != "" {
					return fmt.Errorf("this entry cannot be edited: %s", check.Reason)
				}
				return fmt.Errorf("this entry cannot be edited")
			}

			state, err := newEditState(profile, content, args)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("kind") {
				k, err := api.ParseMediaKind(kindStr)
				if err != nil {
					return err
				}
				state.SetKind(k)
			}
			if cmd.Flags().Changed("title") {
				state.SetTitle(title)
			}
			if cmd.Flags().Changed("author") {
				state.SetAuthor(author)
			}
			if cmd.Flags().Changed("note") {
				state.SetNote(note)
			}
			if cmd.Flags().Changed("hidden") {
				state.SetHidden(hidden)
			}
			if cmd.Flags().Changed("producer") {
				state.SetProducerClaim(producer)
			}

			fetcher := ingest.NewPreviewFetcher(client)
			submitter := ingest.NewSubmitter(client)

			if tui.ShouldUseTUI(cmd) {
				updated, err := tui.RunUploadForm(state, fetcher, submitter)
				if err != nil {
					return err
				}
				ok("Updated: %s", updated.Title)
				printProfile(updated)
				return nil
			}

			return submitDirect(cmd, state, fetcher, submitter)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Display title")
	cmd.Flags().StringVar(&author, "author", "", "Display author")
	cmd.Flags().StringVar(&note, "note", "", "Personal note")
	cmd.Flags().StringVar(&kindStr, "kind", "", "Media kind for URL content (video|audio|text|image)")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Hide this entry from your public library")
	cmd.Flags().BoolVar(&producer, "producer", false, "Claim this content as your own production")
	return cmd
}

// newEditState builds edit-mode form state from the loaded profile and
// content, plus the optional replacement source argument.
func newEditState(profile *api.ContentProfile, content *api.Content, args []string) (*ingest.State, error) {
	if len(args) == 2 {
		input := args[1]

		if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
			state := ingest.NewEditState(ingest.AcquireURL, profile)
			state.SetURL(input)
			return state, nil
		}
		if _, err := os.Stat(input); err == nil {
			src, err := ingest.ResolveFile(input)
			if err != nil {
				return nil, err
			}
			state := ingest.NewEditState(ingest.AcquireFile, profile)
			state.SetFile(src)
			return state, nil
		}
		if ingest.LooksLikeURL(input) {
			state := ingest.NewEditState(ingest.AcquireURL, profile)
			state.SetURL(input)
			return state, nil
		}
		return nil, fmt.Errorf("%q is neither a readable file nor a URL", input)
	}

	// No replacement source: edit in place. URL-sourced content keeps its
	// URL; binary content needs a replacement file.
	if content.SourceURL == "" {
		return nil, fmt.Errorf("this entry is file-backed — pass a replacement file to edit it")
	}
	state := ingest.NewEditState(ingest.AcquireURL, profile)
	state.SetURL(content.SourceURL)
	if content.Kind.Valid() {
		state.SetKind(content.Kind)
	}
	return state, nil
}
