package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/maazxd/ai-news-analyzer/internal/classifier"
	"github.com/maazxd/ai-news-analyzer/internal/verify"
)

// Offline scoring: reads an article from a file or stdin and prints the
// verification result as JSON. Classifier endpoints are picked up from the
// environment when configured; without them the heuristics still produce a
// verdict.
func main() {
	_ = godotenv.Load()

	var (
		filePath  = flag.String("file", "", "path to the article text; reads stdin when omitted")
		sourceURL = flag.String("url", "", "optional source URL hint for the opinion gate")
		timeout   = flag.Duration("timeout", 60*time.Second, "overall scoring timeout")
	)
	flag.Parse()

	text, err := readInput(*filePath)
	if err != nil {
		logrus.Fatalf("read input: %v", err)
	}

	var lexical verify.LexicalClassifier
	if client, err := classifier.NewLexicalClient(classifier.LexicalConfig{BaseURL: os.Getenv("LEXICAL_BASE_URL")}); err == nil {
		lexical = client
	} else if !errors.Is(err, classifier.ErrDisabled) {
		logrus.Fatalf("lexical client: %v", err)
	}

	var zeroshot verify.ZeroShotClassifier
	if client, err := classifier.NewZeroShotClient(classifier.ZeroShotConfig{BaseURL: os.Getenv("ZEROSHOT_BASE_URL")}); err == nil {
		zeroshot = client
	} else if !errors.Is(err, classifier.ErrDisabled) {
		logrus.Fatalf("zero-shot client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	scorer := verify.NewScorer(lexical, zeroshot)
	result := scorer.Score(ctx, verify.Document{Text: text, SourceURL: *sourceURL})

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logrus.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(output))
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
