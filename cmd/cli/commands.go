package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tutoreval/adapters/excel"
	"tutoreval/app"
	"tutoreval/domain/annotation"
	domainDataset "tutoreval/domain/dataset"
	"tutoreval/internal/aggregate"
	"tutoreval/internal/config"
	"tutoreval/internal/dataset"
	"tutoreval/internal/judge"
	"tutoreval/internal/sampler"
	"tutoreval/internal/testkit"

	"github.com/spf13/cobra"
)

func newAggregateCmd(cfg *config.Config) *cobra.Command {
	var indent int
	var source string

	cmd := &cobra.Command{
		Use:   "aggregate [input] [output]",
		Short: "Group flat annotation rows into per-conversation records",
		Long: `Group flat annotation rows by conversation id and write one record per
conversation with per-tutor annotation maps, sorted by conversation id.

The input is a JSON array of row objects, or a .csv, .xlsx or .jsonl file
with one row per record. --indent 0 writes compact JSON.

Example: tutoreval aggregate annotations.json conversations.json --indent 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd, args[0], args[1], source, indent)
		},
	}

	cmd.Flags().IntVar(&indent, "indent", cfg.Output.Indent, "JSON indentation; 0 writes compact output")
	cmd.Flags().StringVar(&source, "source", "", "Source tag (defaults to the input file name)")
	return cmd
}

func runAggregate(cmd *cobra.Command, input, output, source string, indent int) error {
	if source == "" {
		source = filepath.Base(input)
	}
	svc := app.NewAggregationService(nil)

	var convs []annotation.Conversation
	if strings.EqualFold(filepath.Ext(input), ".json") {
		raw, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		convs, err = svc.Aggregate(cmd.Context(), raw, source)
		if err != nil {
			return err
		}
	} else {
		ds, err := dataset.LoadFile(input)
		if err != nil {
			return err
		}
		convs, err = svc.AggregateDataset(cmd.Context(), ds, source)
		if err != nil {
			return err
		}
	}

	if err := writeConversations(output, convs, indent); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d conversations to %s\n", len(convs), output)
	return nil
}

func writeConversations(path string, convs []annotation.Conversation, indent int) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := aggregate.WriteJSON(f, convs, indent); err != nil {
		f.Close()
		return fmt.Errorf("failed to write conversations: %w", err)
	}
	return f.Close()
}

func newSampleCmd(cfg *config.Config) *cobra.Command {
	var tasks []string
	var batchSize int
	var taskField string
	var seed int64
	var show int
	var dimsDir string
	var dims []string
	var split string
	var oversample string
	var shuffle bool
	var export string

	cmd := &cobra.Command{
		Use:   "sample [dataset]",
		Short: "Build balanced task batches and report pool usage",
		Long: `Build fixed-size batches holding the same number of rows from every task
and print the pool report and the first --show batches.

The dataset is a .csv, .xlsx, .json or .jsonl file. Without one the
per-dimension files {dim}_{split}.csv under --dims-dir are loaded and the
task field defaults to the added "dimension" column. --split both checks
that every train and dev file exists, samples the train split and reports
the dev split. --oversample random balances the labels of each train file.

Flag defaults come from DATA_DIR, DIMENSIONS, LABEL_FIELD, LOAD_CONCURRENCY,
BATCH_SIZE, TASK_FIELD and SEED.

Example: tutoreval sample train.csv --tasks mi,ml,pg,ac --batch-size 8 --seed 42 --show 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ds, dev *domainDataset.Dataset
			var err error
			if len(args) == 1 {
				ds, err = dataset.LoadFile(args[0])
			} else {
				loader := dataset.NewLoader(dataset.LoaderConfig{
					DataDir:     dimsDir,
					Concurrency: cfg.Data.LoadConcurrency,
					LabelField:  cfg.Data.LabelField,
					Oversample:  oversample,
					Seed:        seed,
				})
				if split == splitBoth {
					ds, dev, err = loader.LoadTrainDev(cmd.Context(), dims)
				} else {
					ds, err = loader.LoadDimensions(cmd.Context(), dims, split)
				}
				if !cmd.Flags().Changed("task-field") {
					taskField = dataset.DimensionField
				}
				if len(tasks) == 0 {
					tasks = dims
				}
			}
			if err != nil {
				return err
			}
			if dev != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "dev rows=%d label distribution %v\n",
					dev.Len(), dataset.LabelDistribution(dev, cfg.Data.LabelField))
			}
			return runSample(cmd, ds, sampleOptions{
				tasks:     tasks,
				batchSize: batchSize,
				taskField: taskField,
				seed:      seed,
				show:      show,
				shuffle:   shuffle,
				export:    export,
			})
		},
	}

	cmd.Flags().StringSliceVar(&tasks, "tasks", nil, "Tasks to balance (comma separated)")
	cmd.Flags().IntVar(&batchSize, "batch-size", cfg.Sampler.BatchSize, "Batch size; must be divisible by the number of tasks")
	cmd.Flags().StringVar(&taskField, "task-field", cfg.Sampler.TaskField, "Column holding the task label")
	cmd.Flags().Int64Var(&seed, "seed", cfg.Sampler.Seed, "Random seed for deterministic operations")
	cmd.Flags().IntVar(&show, "show", 1, "Number of batches to print")
	cmd.Flags().StringVar(&dimsDir, "dims-dir", cfg.Data.Dir, "Directory with per-dimension files")
	cmd.Flags().StringSliceVar(&dims, "dims", cfg.Data.Dimensions, "Dimensions to load from --dims-dir")
	cmd.Flags().StringVar(&split, "split", dataset.SplitTrain, "Split to load from --dims-dir: train, dev or both")
	cmd.Flags().StringVar(&oversample, "oversample", dataset.OversampleNone, "Balance train labels per dimension: random")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Shuffle the dataset before sampling")
	cmd.Flags().StringVar(&export, "export", "", "Write the shown batches' rows to a .csv or .xlsx file")
	return cmd
}

// splitBoth loads train and dev together and samples the train split
const splitBoth = "both"

type sampleOptions struct {
	tasks     []string
	batchSize int
	taskField string
	seed      int64
	show      int
	shuffle   bool
	export    string
}

func runSample(cmd *cobra.Command, ds *domainDataset.Dataset, opts sampleOptions) error {
	ctx := cmd.Context()
	kit, err := testkit.NewTestKit()
	if err != nil {
		return fmt.Errorf("failed to initialize test kit: %w", err)
	}
	rngPort := kit.RNGAdapter()

	if opts.shuffle {
		shuffleRNG, err := rngPort.Stream(ctx, "sample", "shuffle", opts.seed)
		if err != nil {
			return fmt.Errorf("failed to create shuffle stream: %w", err)
		}
		ds = dataset.Shuffle(ds, shuffleRNG)
	}

	rng, err := rngPort.SeededStream(ctx, "sample", opts.seed)
	if err != nil {
		return fmt.Errorf("failed to create random stream: %w", err)
	}
	s, err := sampler.New(ds, opts.tasks, opts.batchSize, opts.taskField, rng)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, s.Report().String())

	var exported []int
	shown := 0
	for batch := range s.Batches() {
		if shown >= opts.show {
			break
		}
		labels := make([]string, len(batch))
		for i, idx := range batch {
			labels[i], _ = ds.Field(idx, opts.taskField)
		}
		fmt.Fprintf(out, "batch %d: indices=%v tasks=%v\n", shown, batch, labels)
		exported = append(exported, batch...)
		shown++
	}

	if opts.export != "" {
		if err := excel.WriteDataset(opts.export, ds.Subset(exported)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d rows to %s\n", len(exported), opts.export)
	}
	return nil
}

func newScoreCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "score [conversations]",
		Short: "Summarize annotation scores and judge agreement",
		Long: `Read an aggregated conversations file and print per tutor score statistics
plus agreement between auto annotations and the given judge model.

Example: tutoreval score conversations.json --model GPT5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read conversations: %w", err)
			}
			var convs []annotation.Conversation
			if err := json.Unmarshal(raw, &convs); err != nil {
				return fmt.Errorf("failed to parse conversations: %w", err)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(app.Score(convs, model))
		},
	}

	cmd.Flags().StringVar(&model, "model", annotation.ModelGPT5, "Judge model to compare with")
	return cmd
}

func newPromptCmd() *cobra.Command {
	var taskName, history, response string
	var noLabelDefinitions bool
	var absolute bool
	var topic, reference string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render a judge prompt for one tutor response",
		Long: `Render the single-dimension classification prompt, or with --absolute the
1-3 rubric prompt used by score-based judges.

Tasks accept canonical names, loose spellings or MI/ML/PG/AC.

Example: tutoreval prompt --task MI --history "Student: 3+4=8" --response "Check your sum."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			task, ok := resolveTask(taskName)
			if !ok {
				return fmt.Errorf("unknown task %q", taskName)
			}

			var prompt string
			var err error
			if absolute {
				prompt, err = judge.BuildAbsolutePrompt(judge.AbsoluteRequest{
					Task:      task,
					Topic:     topic,
					History:   history,
					Response:  response,
					Reference: reference,
				})
			} else {
				prompt, err = judge.BuildPrompt(task, history, response, !noLabelDefinitions)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return nil
		},
	}

	cmd.Flags().StringVar(&taskName, "task", "", "Dimension to judge")
	cmd.Flags().StringVar(&history, "history", "", "Conversation history")
	cmd.Flags().StringVar(&response, "response", "", "Tutor response to judge")
	cmd.Flags().BoolVar(&noLabelDefinitions, "no-label-definitions", false, "Omit per-label definitions")
	cmd.Flags().BoolVar(&absolute, "absolute", false, "Render the rubric scoring prompt")
	cmd.Flags().StringVar(&topic, "topic", "", "Problem topic for --absolute")
	cmd.Flags().StringVar(&reference, "reference", "", "Reference response for --absolute")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func resolveTask(name string) (annotation.Task, bool) {
	if task, ok := aggregate.NormalizeTaskKey(name); ok {
		return task, true
	}
	return annotation.TaskFromAbbreviation(name)
}

func newParseCmd() *cobra.Command {
	var absolute bool

	cmd := &cobra.Command{
		Use:   "parse [judge-output]",
		Short: "Extract the label from raw judge output",
		Long: `Extract a Yes/No/To some extent label from judge output. With --absolute
the "[RESULT] n" score is parsed and mapped to its label.

Example: tutoreval parse "Feedback: ... [RESULT] 3" --absolute`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if absolute {
				score, ok := judge.ParseScore(args[0])
				if !ok {
					return fmt.Errorf("no [RESULT] score in judge output")
				}
				label, _ := judge.ScoreLabel(score)
				fmt.Fprintf(out, "score=%d label=%s\n", score, label)
				return nil
			}

			label, ok := judge.ExtractLabel(args[0])
			if !ok {
				fmt.Fprintf(out, "unmatched: %s\n", label)
				return nil
			}
			fmt.Fprintf(out, "label=%s\n", label)
			return nil
		},
	}

	cmd.Flags().BoolVar(&absolute, "absolute", false, "Parse a rubric score instead of a label")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	genConfig := testkit.DefaultAnnotationConfig()

	cmd := &cobra.Command{
		Use:   "generate [output]",
		Short: "Write synthetic annotation rows for demos and tests",
		Long: `Write a JSON array of synthetic annotation rows with the spelling variants,
model columns and occasional missing ids seen in real exports.

Example: tutoreval generate rows.json --conversations 50 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := testkit.NewAnnotationGenerator(genConfig).GenerateJSON()
			if err != nil {
				return fmt.Errorf("failed to generate rows: %w", err)
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("failed to write rows: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d conversations of synthetic rows to %s\n", genConfig.Conversations, args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&genConfig.Conversations, "conversations", genConfig.Conversations, "Number of conversations")
	cmd.Flags().Int64Var(&genConfig.Seed, "seed", genConfig.Seed, "Random seed")
	cmd.Flags().StringSliceVar(&genConfig.Tutors, "tutors", genConfig.Tutors, "Tutor names")
	return cmd
}
