package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wizenheimer/bsbidx/internal/bsbi"
	"github.com/wizenheimer/bsbidx/internal/indexfile"
	"github.com/wizenheimer/bsbidx/internal/ixerr"
	"github.com/wizenheimer/bsbidx/internal/query"
	"github.com/wizenheimer/bsbidx/internal/retrieve"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [flags] <query string>",
		Short: "Evaluate a boolean query against a built index",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().String("out", "", "path build artifacts were written to")
	cmd.Flags().String("codec", "vb", "postings codec the index was built with")
	cmd.Flags().String("index-name", "main_index", "name of the merged index file")

	viper.BindPFlag("query.out", cmd.Flags().Lookup("out"))
	viper.BindPFlag("query.codec", cmd.Flags().Lookup("codec"))
	viper.BindPFlag("query.index_name", cmd.Flags().Lookup("index-name"))

	cmd.MarkFlagRequired("out")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	outPath := viper.GetString("query.out")
	codecName := viper.GetString("query.codec")
	indexName := viper.GetString("query.index_name")
	if indexName == "" {
		indexName = "main_index"
	}

	c, err := resolveCodec(codecName)
	if err != nil {
		return err
	}

	terms, docs, err := bsbi.LoadIDMaps(outPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ixerr.ErrNotIndexed, err)
	}

	r, err := indexfile.Open(filepath.Join(outPath, indexName), c)
	if err != nil {
		return fmt.Errorf("%w: %v", ixerr.ErrNotIndexed, err)
	}
	defer r.Close()

	a := defaultAnalyzer()
	postfix, err := query.ToPostfixString(strings.Join(args, " "), a.Stopwords, a.Stem)
	if err != nil {
		return err
	}

	results, err := retrieve.Evaluate(r, terms, docs, postfix)
	if err != nil {
		return err
	}

	for _, path := range results {
		fmt.Println(path)
	}
	return nil
}
