// Command agent runs an interactive tool-calling agent: it registers the
// workspace tools, sends the goal to the model, and confirms every tool
// invocation at the terminal unless --auto is set.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/kazuhira-dev/funcall"
	"github.com/kazuhira-dev/funcall/tools"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		goal     string
		cfgPath  string
		model    string
		maxSteps int
		auto     bool
	)
	cmd := &cobra.Command{
		Use:           "agent",
		Short:         "Run a tool-calling agent loop",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if model != "" {
				cfg.Model = model
			}
			if maxSteps > 0 {
				cfg.MaxSteps = maxSteps
			}
			return run(cmd.Context(), cfg, goal, auto)
		},
	}
	cmd.Flags().StringVar(&goal, "goal", "", "the goal to set for the task")
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&model, "model", "", "model name (overrides config)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "maximum number of turns (overrides config)")
	cmd.Flags().BoolVar(&auto, "auto", false, "approve every tool call without asking")
	_ = cmd.MarkFlagRequired("goal")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd.SetContext(ctx)
	cobra.OnFinalize(stop)
	return cmd
}

func run(ctx context.Context, cfg Config, goal string, auto bool) error {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return errors.New("ANTHROPIC_API_KEY is not set; export it before running")
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	reg := funcall.NewRegistry()
	reg.Use(funcall.WithLogging(logger))
	if err := tools.NewWorkspace(cfg.Workspace).Register(reg); err != nil {
		return err
	}

	transport := funcall.NewAnthropicTransport(anthropic.Model(cfg.Model))
	transport.MaxTokens = cfg.MaxTokens

	opts := []funcall.LoopOption{
		funcall.WithMaxSteps(cfg.MaxSteps),
		funcall.WithSystemPrompt(cfg.SystemPrompt),
		funcall.WithLoopLogger(logger),
	}
	if !auto {
		in := bufio.NewReader(os.Stdin)
		opts = append(opts,
			funcall.WithConfirm(terminalConfirm(in)),
			funcall.WithPrompter(terminalPrompter(in)),
		)
	}

	loop := funcall.NewLoop(transport, reg, opts...)
	conv, err := loop.Run(ctx, goal)
	if errors.Is(err, funcall.ErrStepLimit) {
		fmt.Println("Step limit reached before the work was completed.")
		err = nil
	}
	if err != nil {
		return err
	}
	if last, ok := conv.Last(); ok && last.Role == funcall.RoleAssistant && last.Content != "" {
		fmt.Println("Agent:", last.Content)
	}
	return nil
}

// terminalConfirm shows the pending call and reads the verdict. Anything but
// "y" declines, and the typed text becomes the next prompt.
func terminalConfirm(in *bufio.Reader) funcall.ConfirmFunc {
	return func(_ context.Context, call funcall.CallRequest) (bool, string, error) {
		fmt.Println("Function to execute:", call.Name)
		fmt.Println("Arguments:", string(call.Args))
		fmt.Print("Execute? (y) Next command: ")
		line, err := in.ReadString('\n')
		if err != nil {
			return false, "", err
		}
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "y") {
			return true, "", nil
		}
		return false, line, nil
	}
}

// terminalPrompter surfaces the model's free-form text and asks the operator
// for the next instruction; an empty line means "carry on".
func terminalPrompter(in *bufio.Reader) funcall.PromptFunc {
	return func(_ context.Context, assistantText string) (string, error) {
		if assistantText != "" {
			fmt.Println("Agent:", assistantText)
		}
		fmt.Print("Enter next instruction: ")
		line, err := in.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}
