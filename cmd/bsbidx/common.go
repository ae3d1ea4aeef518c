package main

import (
	"fmt"

	"github.com/wizenheimer/bsbidx/internal/analyze"
	"github.com/wizenheimer/bsbidx/internal/codec"
)

func resolveCodec(name string) (codec.Codec, error) {
	c, err := codec.ByName(codec.Name(name))
	if err != nil {
		return nil, fmt.Errorf("--codec: %w", err)
	}
	return c, nil
}

func defaultAnalyzer() *analyze.Analyzer {
	stop := analyze.NewStopwordSet(analyze.DefaultEnglishStopwords())
	return analyze.New(stop, analyze.SnowballStemmer)
}
