package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/localrivet/pagesummary"
	"github.com/localrivet/pagesummary/internal/extract"
	"github.com/localrivet/pagesummary/internal/summarizer"
	"github.com/localrivet/pagesummary/internal/util"
)

func newSummarizeCmd(a *app) *cobra.Command {
	var (
		file      string
		sourceURL string
		style     string
	)

	cmd := &cobra.Command{
		Use:   "summarize [url]",
		Short: "Summarize a web page or a text file",
		Long: `Summarize fetches the page at url, extracts its main text and summarizes it.
With --file the text is read from a file ("-" for stdin) instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && file == "" {
				return errors.New("either a url or --file is required")
			}
			if len(args) == 1 && file != "" {
				return errors.New("a url and --file cannot be used together")
			}
			chosen, err := parseStyle(style)
			if err != nil {
				return err
			}

			var content string
			if file != "" {
				text, err := readInput(file, cmd.InOrStdin())
				if err != nil {
					return err
				}
				content = text
			}

			return a.withService(cmd.Context(), func(svc *pagesummary.Service) error {
				var (
					result summarizer.SummaryResult
					title  string
					err    error
				)
				if len(args) == 1 {
					var page extract.Page
					page, result, err = svc.SummarizeURL(cmd.Context(), args[0], chosen)
					title = page.Title
				} else {
					result, err = svc.Summarize(cmd.Context(), summarizer.SummaryRequest{
						Content:   content,
						SourceURL: sourceURL,
						Style:     chosen,
					})
				}
				if err != nil {
					return err
				}

				p := a.printer()
				if title != "" {
					p.Info("# %s", title)
					p.Plain("")
				}
				p.Plain(result.Text)
				p.Plain("")
				p.Faint("%d words · %s %s", util.WordCount(result.Text), result.Provider.DisplayName(), result.Model)
				if result.Truncated {
					p.Faint("Input was truncated to %d characters before summarizing.", summarizer.DefaultTruncationLimit)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", `read page text from a file ("-" for stdin)`)
	cmd.Flags().StringVar(&sourceURL, "source-url", "", "source URL to cite when using --file")
	cmd.Flags().StringVarP(&style, "style", "s", string(summarizer.StyleConcise), "summary style: "+styleNames())
	return cmd
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func styleNames() string {
	names := make([]string, len(summarizer.Styles))
	for i, s := range summarizer.Styles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// parseStyle accepts the named styles in any case.
func parseStyle(name string) (summarizer.Style, error) {
	style := summarizer.Style(strings.ToLower(strings.TrimSpace(name)))
	for _, s := range summarizer.Styles {
		if s == style {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown style %q (want one of %s)", name, styleNames())
}
