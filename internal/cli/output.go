package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/sourcelens/internal/analysis"
	"github.com/mvp-joe/sourcelens/internal/tokens"
)

// render writes v to the command's stdout in the selected format. text is used for
// the text format; when nil, text falls back to JSON.
func render(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	out := cmd.OutOrStdout()

	switch strings.ToLower(outputFormat) {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return analysis.SerializationError("yaml output", err)
		}
		return enc.Close()
	case "text":
		if text != nil {
			return text(out)
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return analysis.SerializationError("json output", err)
	}
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func textDependencies(deps []analysis.Dependency) func(io.Writer) error {
	return func(w io.Writer) error {
		tw := newTable(w)
		fmt.Fprintln(tw, "LINE\tTYPE\tDEPENDENCY")
		for _, d := range deps {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", d.LineNumber, d.ImportType, d.Dependency)
		}
		return tw.Flush()
	}
}

func textFunctions(funcs []analysis.Function) func(io.Writer) error {
	return func(w io.Writer) error {
		tw := newTable(w)
		fmt.Fprintln(tw, "LINES\tNAME\tSIGNATURE")
		for _, f := range funcs {
			fmt.Fprintf(tw, "%d-%d\t%s\t%s\n", f.LineStart, f.LineEnd, f.Name, f.Signature)
		}
		return tw.Flush()
	}
}

func textAnnotations(notes []analysis.Annotation) func(io.Writer) error {
	return func(w io.Writer) error {
		tw := newTable(w)
		fmt.Fprintln(tw, "LINE\tKIND\tMESSAGE")
		for _, n := range notes {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", n.LineNumber, n.Kind, n.Message)
		}
		return tw.Flush()
	}
}

func textLines(lines []string) func(io.Writer) error {
	return func(w io.Writer) error {
		for _, l := range lines {
			if _, err := fmt.Fprintln(w, l); err != nil {
				return err
			}
		}
		return nil
	}
}

func textTokens(est tokens.Estimate) func(io.Writer) error {
	return func(w io.Writer) error {
		tw := newTable(w)
		fmt.Fprintf(tw, "Total tokens:\t%s\n", formatNumber(est.TotalTokens))
		fmt.Fprintf(tw, "Characters:\t%s\n", formatNumber(est.CharCount))
		fmt.Fprintf(tw, "Words:\t%s\n", formatNumber(est.WordCount))
		fmt.Fprintf(tw, "Lines:\t%s\n", formatNumber(est.LineCount))
		fmt.Fprintf(tw, "GPT-4:\t%s\n", formatNumber(est.GPT4Estimate))
		fmt.Fprintf(tw, "Claude:\t%s\n", formatNumber(est.ClaudeEstimate))
		fmt.Fprintf(tw, "Gemini:\t%s\n", formatNumber(est.GeminiEstimate))
		return tw.Flush()
	}
}

func textProject(p *analysis.ProjectType) func(io.Writer) error {
	return func(w io.Writer) error {
		fmt.Fprintf(w, "%s (confidence %.1f)\n", p.DetectedType, p.Confidence)
		for _, ind := range p.Indicators {
			fmt.Fprintf(w, "  %s\n", ind)
		}
		return nil
	}
}

func textReport(r *analysis.Report) func(io.Writer) error {
	return func(w io.Writer) error {
		fmt.Fprintf(w, "Root:    %s\n", r.Root)
		if r.Project != nil {
			fmt.Fprintf(w, "Project: %s\n", r.Project.DetectedType)
		}
		fmt.Fprintf(w, "Tokens:  %s\n\n", formatNumber(r.Totals.TotalTokens))

		tw := newTable(w)
		fmt.Fprintln(tw, "FILE\tLANGUAGE\tDEPS\tFUNCS\tNOTES\tTOKENS")
		for _, f := range r.Files {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
				relTo(r.Root, f.Path), f.Language, len(f.Dependencies), len(f.Functions),
				len(f.Annotations), f.Tokens.TotalTokens)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if len(r.Errors) > 0 {
			fmt.Fprintln(w, "\nErrors:")
			for _, e := range r.Errors {
				fmt.Fprintf(w, "  %s: %s (%s)\n", relTo(r.Root, e.Path), e.Message, e.Kind)
			}
		}
		if len(r.Cycles) > 0 {
			fmt.Fprintln(w, "\nImport cycles:")
			for _, c := range r.Cycles {
				rel := make([]string, len(c))
				for i, p := range c {
					rel[i] = relTo(r.Root, p)
				}
				fmt.Fprintf(w, "  %s\n", strings.Join(rel, " -> "))
			}
		}
		return nil
	}
}
