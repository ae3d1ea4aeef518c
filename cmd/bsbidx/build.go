package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wizenheimer/bsbidx/internal/bsbi"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Index a corpus directory into a disk-resident inverted index",
		RunE:  runBuild,
	}

	cmd.Flags().String("data", "", "path to the corpus root (one subdirectory per block)")
	cmd.Flags().String("out", "", "path to write build artifacts to")
	cmd.Flags().String("codec", "vb", "postings codec: fixed32, vb, simple8b, gamma")
	cmd.Flags().String("index-name", "main_index", "name of the merged index file")

	viper.BindPFlag("build.data", cmd.Flags().Lookup("data"))
	viper.BindPFlag("build.out", cmd.Flags().Lookup("out"))
	viper.BindPFlag("build.codec", cmd.Flags().Lookup("codec"))
	viper.BindPFlag("build.index_name", cmd.Flags().Lookup("index-name"))

	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	dataPath := viper.GetString("build.data")
	outPath := viper.GetString("build.out")
	codecName := viper.GetString("build.codec")
	indexName := viper.GetString("build.index_name")

	c, err := resolveCodec(codecName)
	if err != nil {
		return err
	}

	builder := bsbi.NewBuilder(dataPath, outPath, c, defaultAnalyzer())
	if indexName != "" {
		builder.IndexName = indexName
	}
	builder.Logger = slog.Default()

	if err := builder.Build(); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	fmt.Printf("indexed %d terms, %d documents into %s\n", builder.Terms.Size(), builder.Docs.Size(), outPath)
	return nil
}
