package writers

import (
	"io"

	"pairfind/internal/engine"
	"pairfind/internal/output"
)

type combinationArgs struct {
	WithOuter bool
	In        <-chan engine.Pair
}

func drain(ch <-chan engine.Pair) []engine.Pair {
	list := make([]engine.Pair, 0, 128)
	for p := range ch {
		list = append(list, p)
	}
	return list
}

func init() {
	RegisterCombination(output.FormatTSV, func(w io.Writer, payload interface{}) error {
		args := payload.(combinationArgs)
		return output.StreamText(w, args.In, args.WithOuter)
	})

	RegisterCombination(output.FormatJSON, func(w io.Writer, payload interface{}) error {
		args := payload.(combinationArgs)
		return output.WriteJSON(w, drain(args.In))
	})

	RegisterCombination(output.FormatJSONL, func(w io.Writer, payload interface{}) error {
		args := payload.(combinationArgs)
		pipe, done := StartCombinationJSONLWriter(w, 64)
		for p := range args.In {
			pipe <- p
		}
		close(pipe)
		return <-done
	})
}

// StartCombinationWriter spins up a writer goroutine for format. The caller
// sends pairs, closes the channel, then reads the single error result.
// withOuter adds the outer-combination column to TSV output.
func StartCombinationWriter(out io.Writer, format string, withOuter bool, bufSize int) (chan<- engine.Pair, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan engine.Pair, bufSize)
	errCh := make(chan error, 1)
	go func() {
		err := WriteCombinations(format, out, combinationArgs{WithOuter: withOuter, In: in})
		if err != nil {
			for range in {
			}
		}
		errCh <- err
	}()
	return in, errCh
}

// WriteAll sends list through a fresh writer and waits for it.
func WriteAll(out io.Writer, format string, withOuter bool, list []engine.Pair) error {
	in, done := StartCombinationWriter(out, format, withOuter, len(list))
	for _, p := range list {
		in <- p
	}
	close(in)
	return <-done
}
