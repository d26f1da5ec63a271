package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"affect/internal/config"
	"affect/internal/history"
	"affect/internal/pipeline"
	"affect/internal/sentiment"
)

// cli holds the shared state for all subcommands.
type cli struct {
	detector *pipeline.Detector
	scorer   *sentiment.Scorer
}

func main() {
	var overlayPath string

	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "affect-cli",
		Short: "affect CLI — score messages and inspect the lexicons",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if overlayPath == "" {
				overlayPath = os.Getenv("AFFECT_LEXICON_OVERLAY")
			}
			overlay, err := config.LoadLexiconOverlay(overlayPath)
			if err != nil {
				return err
			}
			c.scorer = sentiment.NewScorerWithOverlay(overlay)
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			c.detector = pipeline.NewDetector(c.scorer, nil, logger)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&overlayPath, "overlay", "", "Path to a YAML lexicon overlay file")

	var (
		asJSON      bool
		withExplain bool
		historyPath string
	)
	analyzeCmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Analyze a message (args, or stdin when no args given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			turns, err := loadHistory(historyPath)
			if err != nil {
				return err
			}
			texts, err := collectTexts(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			for _, text := range texts {
				if err := c.analyzeOne(cmd.OutOrStdout(), text, turns, asJSON, withExplain); err != nil {
					return err
				}
			}
			return nil
		},
	}
	analyzeCmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full result as JSON")
	analyzeCmd.Flags().BoolVar(&withExplain, "explain", false, "Include the stage-by-stage explanation")
	analyzeCmd.Flags().StringVar(&historyPath, "history", "", "Path to a JSON array of prior turns")
	rootCmd.AddCommand(analyzeCmd)

	lexiconCmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Lexicon inspection",
	}
	lexiconCmd.AddCommand(&cobra.Command{
		Use:   "check [word...]",
		Short: "Score each word in isolation to see which lexicons it hits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, word := range args {
				res := c.scorer.Score(word)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tscore=%.2f delta=%d tags=%v\n",
					word, res.Score, res.AffectionDelta, res.Tags)
			}
			return nil
		},
	})
	rootCmd.AddCommand(lexiconCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (c *cli) analyzeOne(out io.Writer, text string, turns []history.Turn, asJSON, withExplain bool) error {
	fb, res := c.detector.AnalyzeDetailed(text, turns)
	if fb.Level > pipeline.LevelNone {
		fmt.Fprintf(out, "degraded (level %d, %s): score=%.2f delta=%d\n",
			fb.Level, fb.Strategy, fb.Result.Score, fb.Result.AffectionDelta)
		return nil
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "score=%.2f delta=%d confidence=%.2f interaction=%s\n",
		fb.Result.Score, fb.Result.AffectionDelta, fb.Result.Confidence, fb.Result.Interaction)
	if withExplain {
		fmt.Fprintln(out, pipeline.Explain(res))
	}
	return nil
}

func collectTexts(args []string, in io.Reader) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}
	var texts []string
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no input: pass text as arguments or on stdin")
	}
	return texts, nil
}

func loadHistory(path string) ([]history.Turn, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var turns []history.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return turns, nil
}
