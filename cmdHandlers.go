package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mdobak/go-xerrors"

	"sequence-recognition/c12n"
	"sequence-recognition/db"
	"sequence-recognition/lpc"
	"sequence-recognition/markov"
	"sequence-recognition/sequence"
	"sequence-recognition/utils"
)

// stringList collects a repeated string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

func logError(ctx context.Context, msg string, err error, attrs ...any) error {
	logger := utils.GetLogger()
	args := append([]any{slog.Any("error", xerrors.New(err))}, attrs...)
	logger.ErrorContext(ctx, msg, args...)
	return err
}

func learnCmd(args []string) error {
	ctx := context.Background()

	learnFlags := flag.NewFlagSet("learn", flag.ExitOnError)
	output := learnFlags.String("o", "", "Output model path (default <class>.mm.json)")
	workers := learnFlags.Int("workers", utils.GetEnvInt("MM_WORKERS", 0), "Counting goroutines (0 = GOMAXPROCS)")
	learnFlags.Parse(args)

	paths := learnFlags.Args()
	if len(paths) == 0 {
		return logError(ctx, "no training sequences given", errors.New("missing sequence files"))
	}

	seqs, err := sequence.LoadAll(paths)
	if err != nil {
		return logError(ctx, "failed to load training sequences", err)
	}
	for i, seq := range seqs {
		log.Printf(" %s: '%s'\n", paths[i], seq.ClassName)
	}

	model, err := markov.TrainSharded(seqs, *workers)
	if err != nil {
		return logError(ctx, "training failed", err, slog.Int("sequences", len(seqs)))
	}

	path := *output
	if path == "" {
		path = model.ClassName + ".mm.json"
	}
	if err := model.Save(path); err != nil {
		return logError(ctx, "failed to save model", err, slog.String("path", path))
	}

	log.Printf("Model for class '%s' (codebook size %d) trained on %d sequences, saved to %s\n",
		model.ClassName, model.CodebookSize(), len(seqs), path)
	return nil
}

func showCmd(args []string) error {
	ctx := context.Background()

	models, err := markov.LoadAll(args)
	if err != nil {
		return logError(ctx, "failed to load models", err)
	}
	for _, m := range models {
		m.Show(os.Stdout)
	}
	return nil
}

func classifyCmd(args []string) error {
	ctx := context.Background()

	classifyFlags := flag.NewFlagSet("classify", flag.ExitOnError)
	var modelPaths stringList
	classifyFlags.Var(&modelPaths, "m", "Model path (repeatable or comma separated)")
	showRanked := classifyFlags.Bool("r", false, "Show ranked candidates for misclassified sequences")
	summaryPath := classifyFlags.String("summary", utils.GetEnv("MM_SUMMARY_PATH", c12n.DefaultSummaryPath), "Summary JSON path")
	runName := classifyFlags.String("db", "", "Also store the summary in the database under this run name")
	workers := classifyFlags.Int("workers", utils.GetEnvInt("MM_WORKERS", 0), "Scoring goroutines (0 = GOMAXPROCS)")
	noColor := classifyFlags.Bool("no-color", utils.GetEnvBool("NO_COLOR", false), "Disable colored glyphs")
	classifyFlags.Parse(args)

	if len(modelPaths) == 0 {
		return logError(ctx, "no models given", errors.New("missing -m"))
	}

	log.Println("Loading MM models")
	models, err := markov.LoadAll(modelPaths)
	if err != nil {
		return logError(ctx, "failed to load models", err)
	}

	seqPaths := classifyFlags.Args()
	seqs, err := sequence.LoadAll(seqPaths)
	if err != nil {
		return logError(ctx, "failed to load sequences", err)
	}

	log.Println("Classifying sequences")
	results, err := markov.Classify(models, seqs, markov.ClassifyOptions{
		Workers:  *workers,
		Observer: &c12n.GlyphObserver{W: os.Stdout, ShowRanked: *showRanked, NoColor: *noColor},
		Sources:  seqPaths,
	})
	if err != nil {
		return logError(ctx, "classification failed", err)
	}
	fmt.Println()

	dest := c12n.MultiSummaryWriter{c12n.FileSummaryWriter{Path: *summaryPath}}
	if *runName != "" {
		client, err := db.NewDBClient(ctx)
		if err != nil {
			return logError(ctx, "failed to open database", err)
		}
		defer client.Close()
		dest = append(dest, db.SummaryDestination{Client: client, Name: *runName})
	}

	if err := results.ReportResults(ctx, os.Stdout, nil, dest); err != nil {
		return logError(ctx, "failed to report results", err)
	}
	return nil
}

func lpcCmd(args []string) error {
	ctx := context.Background()

	lpcFlags := flag.NewFlagSet("lpc", flag.ExitOnError)
	order := lpcFlags.Int("p", 0, "Prediction order (0 = order stored in the input)")
	reduced := lpcFlags.Bool("reduced", false, "Use the reduction based implementation")
	lpcFlags.Parse(args)

	if lpcFlags.NArg() != 1 {
		return logError(ctx, "expected exactly one input file", errors.New("bad arguments"))
	}

	input, err := lpc.LoadInput(lpcFlags.Arg(0))
	if err != nil {
		return logError(ctx, "failed to load lpc input", err)
	}
	p := input.P
	if *order > 0 {
		p = *order
	}
	if p <= 0 || p >= len(input.X) {
		return logError(ctx, "invalid prediction order", fmt.Errorf("order %d for %d samples", p, len(input.X)))
	}

	analyze := lpc.Analyze
	if *reduced {
		analyze = lpc.AnalyzeReduced
	}
	res := analyze(input.X, p)

	fmt.Printf("input length=%d, prediction_order=%d\n", len(input.X), p)
	fmt.Printf("status=%s energy=%g\n", res.Status, res.Energy)
	if !res.Usable() {
		utils.GetLogger().WarnContext(ctx, "window unusable for prediction",
			slog.String("status", res.Status.String()))
	}
	fmt.Printf("r  = %v\n", res.R)
	fmt.Printf("rc = %v\n", res.RC[1:])
	fmt.Printf("a  = %v\n", res.A)
	return nil
}
