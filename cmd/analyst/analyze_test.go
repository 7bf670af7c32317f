package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-gateway/domain-analyst/internal/analysis"
)

func TestPrinterWritesDeltas(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf}

	p.update(analysis.Snapshot{ReasoningContent: "Looks ", IsReasoningPhase: true})
	p.update(analysis.Snapshot{ReasoningContent: "Looks generic. ", IsReasoningPhase: true})
	p.update(analysis.Snapshot{ReasoningContent: "Looks generic. ", FinalContent: "Value: "})
	p.update(analysis.Snapshot{ReasoningContent: "Looks generic. ", FinalContent: "Value: low."})
	p.update(analysis.Snapshot{ReasoningContent: "Looks generic. ", FinalContent: "Value: low."})

	assert.Equal(t, "Looks generic. \n\nValue: low.", buf.String())
}

func TestPrinterRestartsReplacedAnswer(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf}

	p.update(analysis.Snapshot{FinalContent: "draft"})
	p.update(analysis.Snapshot{FinalContent: "Final"})

	assert.Equal(t, "\n\ndraft\n\nFinal", buf.String())
}

func TestAnalyzeCommandEcho(t *testing.T) {
	t.Setenv("ANALYST_FLUSH_INTERVAL_MS", "5")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"analyze", "example.com", "--model", "echo"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	got := out.String()
	assert.True(t, strings.HasPrefix(got, "Echoing request. \n\nEcho: "), got)
	assert.Contains(t, got, "example.com")
}

func TestAnalyzeCommandRejectsBadDomain(t *testing.T) {
	rootCmd.SetArgs([]string{"analyze", "bad domain", "--model", "echo"})
	defer rootCmd.SetArgs(nil)
	assert.Error(t, rootCmd.Execute())
}
