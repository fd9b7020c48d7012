package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jwebster45206/black-moon/pkg/engine"
	"github.com/muesli/reflow/wordwrap"
)

const textWidth = 72

// playText runs the story as a line-based prompt: numbers pick choices,
// "s" saves, "l" loads and "q" quits. Encounters play without input.
func playText(ctx context.Context, s *engine.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := printScene(s, out); err != nil {
			return err
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))

		if s.Ended() {
			s.Acknowledge()
			continue
		}

		switch line {
		case "q", "quit":
			return nil
		case "s":
			if err := s.Save(ctx); err != nil {
				fmt.Fprintln(out, s.Text("save_failed"))
			} else {
				fmt.Fprintln(out, s.Text("saved"))
			}
			continue
		case "l":
			if err := s.Load(ctx); err != nil {
				fmt.Fprintln(out, s.Text("load_failed"))
			} else {
				fmt.Fprintln(out, s.Text("loaded"))
			}
			continue
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, s.Text("help"))
			continue
		}
		if err := s.Choose(ctx, n); err != nil {
			return err
		}
	}
}

func printScene(s *engine.Session, out io.Writer) error {
	v, err := s.View()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n== %s ==\n\n%s\n\n", v.Title, wordwrap.String(v.Body, textWidth))
	if v.IsEnding {
		fmt.Fprintf(out, "%s\n\n%s\n", s.StatusLine(), s.Text("restart_prompt"))
		return nil
	}
	for _, c := range v.NumberedChoices() {
		fmt.Fprintln(out, wordwrap.String(c, textWidth))
	}
	fmt.Fprintf(out, "\n%s\n", s.StatusLine())
	return nil
}
