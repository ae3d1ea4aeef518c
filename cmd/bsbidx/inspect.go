package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wizenheimer/bsbidx/internal/bsbi"
	"github.com/wizenheimer/bsbidx/internal/indexfile"
	"github.com/wizenheimer/bsbidx/internal/ixerr"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print build artifact statistics, or a single term's postings",
		RunE:  runInspect,
	}

	cmd.Flags().String("out", "", "path build artifacts were written to")
	cmd.Flags().String("codec", "vb", "postings codec the index was built with")
	cmd.Flags().String("index-name", "main_index", "name of the merged index file")
	cmd.Flags().String("term", "", "print the postings for this raw (unstemmed) term")

	viper.BindPFlag("inspect.out", cmd.Flags().Lookup("out"))
	viper.BindPFlag("inspect.codec", cmd.Flags().Lookup("codec"))
	viper.BindPFlag("inspect.index_name", cmd.Flags().Lookup("index-name"))
	viper.BindPFlag("inspect.term", cmd.Flags().Lookup("term"))

	cmd.MarkFlagRequired("out")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	outPath := viper.GetString("inspect.out")
	codecName := viper.GetString("inspect.codec")
	indexName := viper.GetString("inspect.index_name")
	term := viper.GetString("inspect.term")
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

	if term == "" {
		fmt.Printf("terms: %d\n", terms.Size())
		fmt.Printf("documents: %d\n", docs.Size())
		fmt.Printf("distinct termIDs in %s: %d\n", indexName, len(r.Terms()))
		return nil
	}

	stemmed := defaultAnalyzer().Stem(term)
	termID, ok := terms.Lookup(stemmed)
	if !ok {
		fmt.Printf("term %q (stemmed %q) was never indexed\n", term, stemmed)
		return nil
	}
	postings, err := r.GetPostings(termID)
	if err != nil {
		return err
	}
	fmt.Printf("term %q (stemmed %q, termID %d): %d postings\n", term, stemmed, termID, len(postings))
	for _, docID := range postings {
		path, _ := docs.LookupByID(docID)
		fmt.Println(" ", path)
	}
	return nil
}
