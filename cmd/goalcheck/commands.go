package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"victorygoals/internal/adapter/eventbus/inprocess"
	metricsinmem "victorygoals/internal/adapter/metrics/inmemory"
	memrepo "victorygoals/internal/adapter/repo/memory"
	luascript "victorygoals/internal/adapter/script/lua"
	worldmemory "victorygoals/internal/adapter/world/memory"
	"victorygoals/internal/app/tracker"
	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
	"victorygoals/internal/platform/config"
)

type runOptions struct {
	world    string
	goals    string
	events   string
	asJSON   bool
	logLevel string
}

// Replay is the events file: the recorded events in firing order, and
// whether the game ended after the last one.
type Replay struct {
	Events  []tracker.EventRequest `yaml:"events"`
	EndGame bool                   `yaml:"end_game"`
}

// Report is the JSON output of goalcheck run.
type Report struct {
	Turn        int                   `json:"turn"`
	Goals       []tracker.GoalStatus  `json:"goals"`
	Transitions int                   `json:"transitions"`
	Metrics     metricsinmem.Snapshot `json:"metrics"`
	Errors      []string              `json:"errors,omitempty"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "goalcheck",
		Short:         "Evaluate victory goal scripts against recorded games",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newEventsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay an events file and print the state of every goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := run(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&opts.world, "world", "", "world seed YAML file")
	cmd.Flags().StringVar(&opts.goals, "goals", "", "goal script (Lua)")
	cmd.Flags().StringVar(&opts.events, "events", "", "events YAML file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	_ = cmd.MarkFlagRequired("world")
	_ = cmd.MarkFlagRequired("goals")
	return cmd
}

// newEventsCmd lists the event names an events file may use.
func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List the supported game events",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range victory.NewEventHandlers().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func loadReplay(path string) (Replay, error) {
	var replay Replay
	if path == "" {
		return replay, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return replay, fmt.Errorf("read events: %w", err)
	}
	if err := yaml.Unmarshal(raw, &replay); err != nil {
		return replay, fmt.Errorf("decode events: %w", err)
	}
	return replay, nil
}

func run(ctx context.Context, opts runOptions, logOut io.Writer) (Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := config.NewLogger(logOut, opts.logLevel, "text")
	if err != nil {
		return Report{}, err
	}
	world, err := worldmemory.LoadFile(opts.world)
	if err != nil {
		return Report{}, err
	}
	regs, err := luascript.Loader{World: world}.LoadFile(opts.goals)
	if err != nil {
		return Report{}, err
	}
	replay, err := loadReplay(opts.events)
	if err != nil {
		return Report{}, err
	}

	store := memrepo.NewStore()
	kpi := metricsinmem.NewRecorder()
	tr, err := tracker.New(tracker.Deps{
		World:       world,
		Events:      inprocess.NewBus(),
		Handlers:    victory.NewEventHandlers(),
		Transitions: memrepo.NewTransitionRepo(store),
		TxManager:   memrepo.NewTxManager(store),
		Metrics:     kpi,
		Logger:      logger,
	})
	if err != nil {
		return Report{}, err
	}
	defer tr.Close()

	for i, r := range regs {
		if _, err := tr.Register(ctx, tracker.RegisterRequest{Player: r.Player, Goal: r.Goal, Name: r.Name, Deadline: r.Deadline}); err != nil {
			return Report{}, fmt.Errorf("register goal %d: %w", i, err)
		}
	}

	report := Report{}
	for i, req := range replay.Events {
		n, err := replayEvent(ctx, tr, world, req)
		report.Transitions += n
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("event %d (%s): %v", i, req.Event, err))
			logger.Warn("event skipped", "index", i, "event", req.Event, "err", err)
		}
	}
	if replay.EndGame {
		res, err := tr.EndGame(ctx)
		if err != nil {
			return Report{}, err
		}
		report.Transitions += len(res.Transitions)
	}

	status, err := tr.Status(ctx, tracker.StatusRequest{AllPlayers: true})
	if err != nil {
		return Report{}, err
	}
	report.Turn = world.Turn()
	report.Goals = status.Goals
	report.Metrics = kpi.Snapshot()
	return report, nil
}

// replayEvent feeds one recorded event to the tracker. BeginPlayerTurn also
// advances the world turn so deadlines apply.
func replayEvent(ctx context.Context, tr *tracker.Tracker, world *worldmemory.World, req tracker.EventRequest) (int, error) {
	if victory.EventName(req.Event) == victory.EventBeginPlayerTurn {
		if req.Turn > world.Turn() {
			world.SetTurn(req.Turn)
		}
		res, err := tr.BeginTurn(ctx, tracker.BeginTurnRequest{Turn: req.Turn, Player: civ.PlayerID(req.Player)})
		return len(res.Transitions), err
	}
	payload, err := req.Payload(world)
	if err != nil {
		return 0, err
	}
	res, err := tr.Fire(ctx, payload)
	return len(res.Transitions), err
}

func printReport(w io.Writer, report Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "turn %d, %d transitions\n\n", report.Turn, report.Transitions)
	fmt.Fprintln(tw, "PLAYER\tGOAL\tSTATE\tPROGRESS")
	for _, g := range report.Goals {
		progress := strings.ReplaceAll(g.Display, "\n", "; ")
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", g.Player, g.Name, g.StateName, progress)
	}
	for _, e := range report.Errors {
		fmt.Fprintf(tw, "error: %s\n", e)
	}
	return tw.Flush()
}
