package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trovelib/trovectl/internal/api"
	"github.com/trovelib/trovectl/internal/ingest"
	"github.com/trovelib/trovectl/internal/tui"
	"github.com/trovelib/trovectl/internal/util"
)

func newAddCmd() *cobra.Command {
	var (
		title    string
		author   string
		note     string
		kindStr  string
		hidden   bool
		producer bool
	)

	cmd := &cobra.Command{
		Use:   "add <file|url>",
		Short: "Upload a file or link a URL into your library",
		Long: `Upload a local file or link a remote URL into your Trove library.

With a terminal attached this opens the interactive form (URL previews,
mode switching); otherwise it runs entirely from flags.

Examples:
  trovectl add ~/Downloads/lecture.mp4 --title "Lecture 3"
  trovectl add https://youtube.com/watch?v=abc --title "Intro talk"
  trovectl add example.com/essay --kind text --author "A. Writer"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			state, err := newCreateState(input)
			if err != nil {
				return err
			}

			if cfg.Defaults.Hidden {
				state.SetHidden(true)
			}
			if state.Acquisition() == ingest.AcquireURL && state.Kind() == "" && cfg.Defaults.Kind != "" {
				if k, err := api.ParseMediaKind(cfg.Defaults.Kind); err == nil {
					state.SetKind(k)
				}
			}
			if kindStr != "" {
				k, err := api.ParseMediaKind(kindStr)
				if err != nil {
					return err
				}
				state.SetKind(k)
			}
			if title != "" {
				state.SetTitle(title)
			}
			if author != "" {
				state.SetAuthor(author)
			}
			if note != "" {
				state.SetNote(note)
			}
			state.SetHidden(hidden || state.Hidden())
			state.SetProducerClaim(producer)

			fetcher := ingest.NewPreviewFetcher(client)
			submitter := ingest.NewSubmitter(client)

			if tui.ShouldUseTUI(cmd) {
				profile, err := tui.RunUploadForm(state, fetcher, submitter)
				if err != nil {
					return err
				}
				ok("Saved: %s", profile.Title)
				printProfile(profile)
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

// newCreateState resolves the input into file or URL acquisition.
func newCreateState(input string) (*ingest.State, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		state := ingest.NewCreateState(ingest.AcquireURL)
		state.SetURL(input)
		return state, nil
	}

	if _, err := os.Stat(input); err == nil {
		src, err := ingest.ResolveFile(input)
		if err != nil {
			return nil, err
		}
		state := ingest.NewCreateState(ingest.AcquireFile)
		state.SetFile(src)
		return state, nil
	}

	if ingest.LooksLikeURL(input) {
		state := ingest.NewCreateState(ingest.AcquireURL)
		state.SetURL(input)
		return state, nil
	}

	return nil, fmt.Errorf("%q is neither a readable file nor a URL", input)
}

// submitDirect runs the flag-driven, non-interactive pipeline: best-effort
// preview for URL sources, validation, then submission with a progress bar
// when a terminal is attached.
func submitDirect(cmd *cobra.Command, state *ingest.State, fetcher *ingest.PreviewFetcher, submitter *ingest.Submitter) error {
	ctx := cmd.Context()

	if state.Acquisition() == ingest.AcquireURL {
		// Preview failure never blocks submission.
		res := fetcher.Fetch(ctx, state.URL())
		state.ApplyPreview(res)
		if res.Err != nil {
			warn("preview unavailable: %v", res.Err)
		}
	}

	if v := ingest.Validate(state); !v.Valid {
		var parts []string
		for field, msg := range v.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
		return fmt.Errorf("invalid input — %s", strings.Join(parts, "; "))
	}

	var profile *api.ContentProfile
	var err error

	if state.Acquisition() == ingest.AcquireFile && util.IsTTY() {
		src := state.File()
		fmt.Printf("Uploading %s (%s) …\n", color.CyanString(src.Name), humanBytes(src.Size))

		ch := make(chan int, 16)
		done := make(chan struct{})
		go func() {
			profile, err = submitter.Submit(ctx, state, func(p int) {
				select {
				case ch <- p:
				default:
				}
			})
			close(ch)
			close(done)
		}()
		if perr := tui.ShowProgress(src.Name, ch); perr != nil {
			return perr
		}
		<-done
	} else {
		profile, err = submitter.Submit(ctx, state, nil)
	}
	if err != nil {
		return err
	}

	ok("Saved: %s", profile.Title)
	printProfile(profile)
	return nil
}
