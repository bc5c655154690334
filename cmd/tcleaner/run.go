package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lonesomestranger/tcleaner/internal/cleaner"
	"github.com/lonesomestranger/tcleaner/internal/logger"
	"github.com/lonesomestranger/tcleaner/internal/plan"
	"github.com/lonesomestranger/tcleaner/internal/prompt"
	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

var (
	runPlanPath    string
	runMode        string
	runTarget      string
	runAll         bool
	runForEveryone bool
	runForMe       bool
	runYes         bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean messages by keywords or by chat links",
	Long: `Start a cleaning run. Without flags or a plan file the run is
interactive: mode, deletion scope and target are asked on stdin.
Everything can be pre-answered through flags or --plan for
unattended runs.`,
	RunE: runHandler,
}

func runHandler(cmd *cobra.Command, args []string) error {
	log := logger.Get()

	opts, mode, err := buildRunOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proto, err := telegram.NewProtoClient(cfg)
	if err != nil {
		return err
	}
	tgClient := telegram.NewClient(proto)
	defer tgClient.Close()

	prompts := prompt.New(os.Stdin, os.Stdout)
	engine := cleaner.New(tgClient, prompts, cleaner.Options{
		KeywordsFile: cfg.KeywordsFile,
		LinksFile:    cfg.LinksFile,
		AutoJoin:     cfg.AutoJoin,
	})

	if mode == "" {
		idx, err := prompts.Choice("What should be cleaned?", []string{
			"messages matching keywords from " + cfg.KeywordsFile,
			"all my messages in chats from " + cfg.LinksFile,
		})
		if err != nil {
			return err
		}
		mode = plan.ModeKeywords
		if idx == 1 {
			mode = plan.ModeLinks
		}
	}

	var st *cleaner.Stats
	var runErr error
	switch mode {
	case plan.ModeKeywords:
		st, runErr = engine.RunKeywords(ctx, opts)
	case plan.ModeLinks:
		st, runErr = engine.RunLinks(ctx, opts)
	}

	// partial results still get a summary
	if st != nil {
		st.Log(log)
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			log.Warn().Msg("run interrupted, summary above covers the finished part")
			return nil
		}
		return runErr
	}

	log.Info().Msg("done")
	return nil
}

// buildRunOptions merges the plan file and command flags into run
// options. Flags win over the plan; whatever stays unset is asked
// interactively.
func buildRunOptions() (cleaner.RunOptions, string, error) {
	var opts cleaner.RunOptions
	var mode string

	if runPlanPath != "" {
		p, err := plan.Load(runPlanPath)
		if err != nil {
			return opts, "", err
		}
		mode = p.Mode
		opts.Revoke = p.Revoke
		opts.Target = p.Target
		if p.Confirm != nil {
			opts.AutoConfirm = *p.Confirm
		}
		if p.Mode == plan.ModeKeywords && p.Target == "" {
			opts.AllChats = true
		}
	}

	if runMode != "" {
		switch runMode {
		case plan.ModeKeywords, plan.ModeLinks:
			mode = runMode
		default:
			return opts, "", fmt.Errorf("unknown mode %q (want %q or %q)", runMode, plan.ModeKeywords, plan.ModeLinks)
		}
	}

	if runTarget != "" && runAll {
		return opts, "", fmt.Errorf("--target and --all are mutually exclusive")
	}
	if runTarget != "" {
		opts.Target = runTarget
		opts.AllChats = false
	}
	if runAll {
		opts.AllChats = true
		opts.Target = ""
	}

	if runForEveryone && runForMe {
		return opts, "", fmt.Errorf("--for-everyone and --for-me are mutually exclusive")
	}
	if runForEveryone {
		v := true
		opts.Revoke = &v
	}
	if runForMe {
		v := false
		opts.Revoke = &v
	}

	if runYes {
		opts.AutoConfirm = true
	}

	return opts, mode, nil
}

func init() {
	runCmd.Flags().StringVar(&runPlanPath, "plan", "", "YAML plan file that pre-answers the prompts")
	runCmd.Flags().StringVar(&runMode, "mode", "", "run mode: keywords or links")
	runCmd.Flags().StringVar(&runTarget, "target", "", "keyword mode: clean one chat (title or @username)")
	runCmd.Flags().BoolVar(&runAll, "all", false, "keyword mode: clean every dialog without asking")
	runCmd.Flags().BoolVar(&runForEveryone, "for-everyone", false, "delete for all participants where possible")
	runCmd.Flags().BoolVar(&runForMe, "for-me", false, "delete for this account only")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "skip the link mode confirmation")
}
