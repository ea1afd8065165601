package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRendersGFM(t *testing.T) {
	p := NewParser()

	html, err := p.Parse([]byte("# Hello\n\nsome ~~old~~ new text"))
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<del>old</del>")
}

func TestParseWithFrontmatter(t *testing.T) {
	p := NewParser()

	source := []byte(`---
title: Weekly Review
tags:
  - planning
  - habits
---

# Body
`)

	html, meta, err := p.ParseWithFrontmatter(source)
	require.NoError(t, err)

	assert.Equal(t, "Weekly Review", meta["title"])
	assert.Contains(t, string(html), "<h1")
	// Frontmatter must not leak into the rendered body
	assert.NotContains(t, string(html), "Weekly Review")
}

func TestParseWithFrontmatterMissingBlock(t *testing.T) {
	p := NewParser()

	html, meta, err := p.ParseWithFrontmatter([]byte("# Just markdown"))
	require.NoError(t, err)
	assert.Empty(t, meta)
	assert.Contains(t, string(html), "<h1")
}
