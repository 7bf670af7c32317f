package stream

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "data: {\"choices\":[{\"delta\":{\"reasoning_content\":\"think \"}}]}\n\n" +
	": ping\n" +
	"data: {broken\n" +
	"data: {\"choices\":[{\"delta\":{\"content\":\"answer\"}}]}\r\n" +
	"data: [DONE]\n"

func collect(t *testing.T, d *Decoder) ([]Event, int) {
	t.Helper()
	var events []Event
	var bad int
	for {
		ev, err := d.Next()
		if errors.Is(err, io.EOF) {
			return events, bad
		}
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			bad++
			continue
		}
		require.NoError(t, err)
		events = append(events, ev)
	}
}

func TestDecoderSequence(t *testing.T) {
	events, bad := collect(t, NewDecoder(strings.NewReader(sample)))

	assert.Equal(t, 1, bad)
	assert.Equal(t, []Event{
		{Kind: KindReasoningDelta, Text: "think "},
		{Kind: KindContentDelta, Text: "answer"},
		{Kind: KindDone},
	}, events)
}

func TestDecoderSplitChunks(t *testing.T) {
	// One byte per read: every JSON line straddles many chunk boundaries.
	events, bad := collect(t, NewDecoder(iotest.OneByteReader(strings.NewReader(sample))))

	assert.Equal(t, 1, bad)
	require.Len(t, events, 3)
	assert.Equal(t, "think ", events[0].Text)
	assert.Equal(t, "answer", events[1].Text)
}

func TestDecoderReadError(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader("data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n"), iotest.ErrReader(boom))
	d := NewDecoder(r)

	ev, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", ev.Text)

	_, err = d.Next()
	assert.ErrorIs(t, err, boom)
}
