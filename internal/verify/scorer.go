package verify

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// minScorableLength is the shortest trimmed input we attempt to score; anything
// below it returns the neutral result to avoid confident verdicts on noise.
const minScorableLength = 10

// Document is the unit of scoring: article text plus an optional source URL
// hint used by the opinion gate.
type Document struct {
	Text      string
	SourceURL string
}

// ModelSignal is the normalized output of an external classifier. A failed or
// unconfigured classifier yields the neutral signal, never an error downstream.
type ModelSignal struct {
	Probability float64 `json:"probability"`
	Available   bool    `json:"available"`
}

// NeutralSignal is the honest default when a classifier cannot be consulted.
func NeutralSignal() ModelSignal {
	return ModelSignal{Probability: 0.5}
}

// LexicalClassifier scores preprocessed text with a bag-of-words style model.
type LexicalClassifier interface {
	RealProbability(ctx context.Context, text string) (float64, error)
}

// ZeroShotClassifier scores raw text against natural-language candidate labels.
type ZeroShotClassifier interface {
	Legitimacy(ctx context.Context, text string) (float64, error)
}

// Result is the outcome of a single scoring call. Opinion results carry no
// probability; all other fields are derived deterministically from it.
type Result struct {
	Opinion        bool          `json:"opinion"`
	Probability    float64       `json:"probability"`
	Verdict        Verdict       `json:"verdict"`
	Certainty      Certainty     `json:"certainty"`
	ConfidencePct  int           `json:"confidence_pct"`
	Quality        QualityReport `json:"quality"`
	Bias           BiasReport    `json:"bias"`
	BaseSignal     ModelSignal   `json:"base_signal"`
	ZeroShotSignal ModelSignal   `json:"zeroshot_signal"`
	Note           string        `json:"note,omitempty"`
}

// Scorer combines the two external classifiers with the content quality
// heuristic. Classifier handles are injected at construction so tests can
// substitute fakes; a nil handle simply degrades that signal to neutral.
type Scorer struct {
	lexical  LexicalClassifier
	zeroshot ZeroShotClassifier
}

// NewScorer constructs a scorer around the provided classifier handles.
func NewScorer(lexical LexicalClassifier, zeroshot ZeroShotClassifier) *Scorer {
	return &Scorer{lexical: lexical, zeroshot: zeroshot}
}

// Score evaluates one document. The two classifier calls are independent given
// the same text, so they run concurrently and join before combining. Scoring
// never fails: classifier errors degrade to the neutral signal and degenerate
// input short-circuits to the neutral result.
func (s *Scorer) Score(ctx context.Context, doc Document) Result {
	text := strings.TrimSpace(doc.Text)
	if len(text) < minScorableLength {
		return neutralResult("insufficient content to assess")
	}

	if IsOpinion(text, doc.SourceURL) {
		return Result{
			Opinion:   true,
			Verdict:   VerdictOpinion,
			Certainty: CertaintyNotApplicable,
			Bias:      DetectBias(text),
			Note:      "opinion or editorial content is not rated for authenticity",
		}
	}

	base := NeutralSignal()
	zeroshot := NeutralSignal()

	var wg sync.WaitGroup
	if s != nil && s.lexical != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			proba, err := s.lexical.RealProbability(ctx, text)
			if err != nil {
				logrus.WithError(err).Debug("lexical classifier unavailable, using neutral signal")
				return
			}
			base = ModelSignal{Probability: clamp(proba, 0, 1), Available: true}
		}()
	}
	if s != nil && s.zeroshot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			proba, err := s.zeroshot.Legitimacy(ctx, text)
			if err != nil {
				logrus.WithError(err).Debug("zero-shot classifier unavailable, using neutral signal")
				return
			}
			zeroshot = ModelSignal{Probability: clamp(proba, 0, 1), Available: true}
		}()
	}
	wg.Wait()

	quality := AssessQuality(text)
	proba := Combine(base.Probability, zeroshot.Probability, quality.Score)
	verdict, certainty := BandProbability(proba)

	result := Result{
		Probability:    proba,
		Verdict:        verdict,
		Certainty:      certainty,
		ConfidencePct:  DisplayConfidencePct(proba),
		Quality:        quality,
		Bias:           DetectBias(text),
		BaseSignal:     base,
		ZeroShotSignal: zeroshot,
	}
	if !base.Available && !zeroshot.Available {
		result.Note = "model signals unavailable, verdict relies on content heuristics"
	}
	return result
}

func neutralResult(note string) Result {
	verdict, certainty := BandProbability(0.5)
	return Result{
		Probability:   0.5,
		Verdict:       verdict,
		Certainty:     certainty,
		ConfidencePct: DisplayConfidencePct(0.5),
		Note:          note,
	}
}
