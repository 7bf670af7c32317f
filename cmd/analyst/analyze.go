package main

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ai-gateway/domain-analyst/internal/analysis"
	"github.com/ai-gateway/domain-analyst/internal/guardrails"
)

var noStream bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <domain>",
	Short: "Analyze a domain name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, err := guardrails.New().CheckDomain(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT)
		defer stop()

		model, p := newRouter(cfg).Resolve(cfg.Model)
		client := analysis.NewWithProvider(p, analysis.Options{
			Model:         model,
			MaxTokens:     cfg.MaxTokens,
			FlushInterval: cfg.FlushInterval(),
			Prompt:        &tmpl,
			Logger:        logger,
		})

		out := cmd.OutOrStdout()
		if noStream {
			result, err := client.Analyze(ctx, domain, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, result)
			return nil
		}

		pr := &printer{w: out}
		if _, err := client.Analyze(ctx, domain, pr.update); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&noStream, "no-stream", false, "wait for the complete answer instead of streaming")
}

// printer writes only what a snapshot adds to the previous one. When text
// was replaced rather than extended it starts the section over.
type printer struct {
	w         io.Writer
	reasoning string
	final     string
	answering bool
}

func (p *printer) update(s analysis.Snapshot) {
	p.reasoning = p.section(p.reasoning, s.ReasoningContent, "")
	if s.FinalContent != "" && !p.answering {
		p.answering = true
		fmt.Fprint(p.w, "\n\n")
	}
	if p.answering {
		p.final = p.section(p.final, s.FinalContent, "\n\n")
	}
}

func (p *printer) section(printed, now, restart string) string {
	if now == printed {
		return printed
	}
	if strings.HasPrefix(now, printed) {
		fmt.Fprint(p.w, now[len(printed):])
	} else {
		fmt.Fprint(p.w, restart, now)
	}
	return now
}
