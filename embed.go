package agamdocs

import "embed"

// EmbeddedAssets holds the stylesheet served at /public/docs.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
