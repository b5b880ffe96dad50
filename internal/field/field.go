// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package field fills one front matter field of every post with text
// generated by a chat model from the post body.
package field

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/hugo-ai/internal/posts"
	"github.com/pdiddy/hugo-ai/internal/rewrite"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

// DefaultMinLength is the shortest body, in bytes, worth sending to a model.
const DefaultMinLength = 1000

// Prompts are the instructions sent with a post body.
type Prompts struct {
	System string
	User   string
}

var (
	// SummaryPrompts ask for a first-person synopsis.
	SummaryPrompts = Prompts{
		System: "Respond in the first-person as if you are the author. Never refer to the blog post directly.",
		User:   "Re-write this as a single short concise paragraph, using an active voice. Be direct. Only cover the key points.",
	}

	// TaglinePrompts ask for a one sentence tagline.
	TaglinePrompts = Prompts{
		System: "Use the past tense",
		User:   "Write a tagline for this blog post. Answer with only the tagline. Answer in a single short sentence.",
	}
)

// Generator produces text from a system prompt and a user message.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, system, user string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

// Result counts what happened to the posts of a run.
type Result struct {
	Files   int
	Updated int
	Drafts  int
	Present int
	Short   int
}

// Fill sets cfg.Field on every post in cfg.Dir that is not a draft, does
// not have the field yet, and has a body of at least cfg.MinLength bytes.
// A generator error aborts the run; posts written before it stay written.
func Fill(ctx context.Context, gen Generator, prompts Prompts, cfg types.FieldConfig, w io.Writer) (Result, error) {
	paths, err := posts.List(cfg.Dir)
	if err != nil {
		return Result{}, err
	}
	minLength := cfg.MinLength
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	fmt.Fprintf(w, "Processing %d posts\n", len(paths))

	res := Result{Files: len(paths)}
	for _, path := range paths {
		doc, err := posts.Load(path)
		if err != nil {
			return res, err
		}

		switch {
		case doc.Meta.Draft:
			res.Drafts++
			continue
		case doc.Has(cfg.Field):
			res.Present++
			continue
		case len(doc.Body) < minLength:
			res.Short++
			continue
		}

		value, err := gen.Generate(ctx, prompts.System, prompts.User+"\n\n"+doc.Body)
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}

		doc.SetString(cfg.Field, strings.TrimSpace(value))
		out, err := doc.Render()
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
		if err := rewrite.File(path, []byte(out), cfg.Backup); err != nil {
			return res, err
		}

		res.Updated++
		fmt.Fprintf(w, "Processed: %s\n", path)
	}

	fmt.Fprintf(w, "\nUpdated %d posts\n", res.Updated)
	return res, nil
}
